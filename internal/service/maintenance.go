package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/models"
)

// Количество примеров инцидентов на категорию и предел длины их описания в отчете
const (
	reportSamplesPerCategory = 3
	reportDescriptionLen     = 100
)

// MaintenanceService определяет контракт регламентных джоб обслуживания
type MaintenanceService interface {
	PurgeOldAlerts(ctx context.Context) (int64, error)
	GenerateSafetyReport(ctx context.Context) (string, error)
}

type maintenanceService struct {
	alertRepo    AlertRepository
	incidentRepo IncidentRepository
	logger       *logrus.Logger
	cfg          *config.Config
}

func NewMaintenanceService(alertRepo AlertRepository, incidentRepo IncidentRepository, logger *logrus.Logger, cfg *config.Config) MaintenanceService {
	return &maintenanceService{
		alertRepo:    alertRepo,
		incidentRepo: incidentRepo,
		logger:       logger,
		cfg:          cfg,
	}
}

// PurgeOldAlerts удаляет журнальные записи старше окна хранения.
// Идемпотентна: повторный запуск без новых старых записей удаляет 0.
func (s *maintenanceService) PurgeOldAlerts(ctx context.Context) (int64, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "maintenance",
		"method":  "PurgeOldAlerts",
	})
	log.Info("Purging old alert records")

	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.AlertRetentionDays)
	deleted, err := s.alertRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Failed to purge old alerts")
		return 0, fmt.Errorf("service: could not purge old alerts: %w", err)
	}

	log.WithField("deleted", deleted).Info("Old alert records purged")
	return deleted, nil
}

// GenerateSafetyReport строит сводный отчет по подтвержденным инцидентам
// за отчетное окно, сгруппированным по категориям. Только чтение; отчет
// выводится в операционный лог.
func (s *maintenanceService) GenerateSafetyReport(ctx context.Context) (string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "maintenance",
		"method":  "GenerateSafetyReport",
	})
	log.Info("Generating safety report")

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -s.cfg.ReportWindowDays)
	incidents, err := s.incidentRepo.ListApprovedSince(ctx, since)
	if err != nil {
		log.WithError(err).Error("Failed to load incidents for report")
		return "", fmt.Errorf("service: could not generate safety report: %w", err)
	}

	report := formatSafetyReport(now, incidents)
	log.WithField("incidents_count", len(incidents)).Info("Safety report generated")
	s.logger.Info(report)

	return report, nil
}

// formatSafetyReport строит текст отчета. Категории сортируются по алфавиту,
// чтобы отчет был детерминированным.
func formatSafetyReport(now time.Time, incidents []*models.Incident) string {
	byCategory := make(map[string][]*models.Incident)
	for _, incident := range incidents {
		byCategory[incident.Category] = append(byCategory[incident.Category], incident)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("WEEKLY SAFETY REPORT\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&sb, "Total Incidents This Week: %d\n\n", len(incidents))
	sb.WriteString("BREAKDOWN BY CATEGORY:\n")

	for _, category := range categories {
		items := byCategory[category]
		fmt.Fprintf(&sb, "\n%s: %d incidents\n", strings.ToUpper(category), len(items))
		for i, incident := range items {
			if i >= reportSamplesPerCategory {
				break
			}
			fmt.Fprintf(&sb, "  - %s: %s\n", incident.Location, truncate(incident.Description, reportDescriptionLen))
		}
	}

	sb.WriteString("\nFor more details, visit the safety map.\n")
	return sb.String()
}
