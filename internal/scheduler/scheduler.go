package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/service"
)

// Расписание регламентных джоб: очистка журнала ежедневно в 02:00 UTC,
// еженедельный отчет по понедельникам в 09:00 UTC.
const (
	purgeHourUTC  = 2
	reportHourUTC = 9
)

// Scheduler запускает регламентные джобы обслуживания по расписанию
type Scheduler struct {
	maintenance service.MaintenanceService
	logger      *logrus.Logger
}

func NewScheduler(maintenance service.MaintenanceService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		maintenance: maintenance,
		logger:      logger,
	}
}

// Start запускает фоновые циклы расписания. Остановка через отмену контекста.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting maintenance scheduler")

	go s.runLoop(ctx, "purge_old_alerts", nextPurgeRun, func(jobCtx context.Context) error {
		_, err := s.maintenance.PurgeOldAlerts(jobCtx)
		return err
	})

	go s.runLoop(ctx, "weekly_safety_report", nextReportRun, func(jobCtx context.Context) error {
		_, err := s.maintenance.GenerateSafetyReport(jobCtx)
		return err
	})
}

// runLoop спит до следующего запуска джобы, выполняет ее и повторяет.
// Сбой джобы логируется и не останавливает цикл.
func (s *Scheduler) runLoop(ctx context.Context, name string, next func(time.Time) time.Time, job func(context.Context) error) {
	log := s.logger.WithField("job", name)

	for {
		runAt := next(time.Now().UTC())
		log.WithField("next_run", runAt.Format(time.RFC3339)).Info("Job scheduled")

		timer := time.NewTimer(time.Until(runAt))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Scheduler loop stopped")
			return
		case <-timer.C:
		}

		log.Info("Running scheduled job")
		if err := job(ctx); err != nil {
			log.WithError(err).Error("Scheduled job failed")
		} else {
			log.Info("Scheduled job completed")
		}
	}
}

// nextPurgeRun возвращает ближайший момент ежедневного запуска очистки
// строго после now.
func nextPurgeRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), purgeHourUTC, 0, 0, 0, time.UTC)
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}

// nextReportRun возвращает ближайший понедельник 09:00 UTC строго после now.
func nextReportRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), reportHourUTC, 0, 0, 0, time.UTC)
	daysAhead := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	run = run.AddDate(0, 0, daysAhead)
	if !run.After(now) {
		run = run.AddDate(0, 0, 7)
	}
	return run
}
