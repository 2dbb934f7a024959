package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/models"
)

// retryDelay - пауза перед повторной попыткой чтения очереди после ошибки Redis
const retryDelay = 5 * time.Second

// IncidentDispatcher выполняет джобу рассылки для одного инцидента
type IncidentDispatcher interface {
	Dispatch(ctx context.Context, incidentID int64) (*models.DispatchResult, error)
}

// Worker - воркер, обрабатывающий очередь заданий рассылки
type Worker struct {
	redisClient *redis.Client
	dispatcher  IncidentDispatcher
	logger      *logrus.Logger
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, dispatcher IncidentDispatcher, logger *logrus.Logger) *Worker {
	return &Worker{
		redisClient: redisClient,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Start запускает горутину для обработки очереди заданий рассылки
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting dispatch worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping dispatch worker.")
				return
			default:
				// BRPOP - блокирующее извлечение из правой части списка (очереди)
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, dispatchQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop dispatch event from Redis")
					time.Sleep(retryDelay) // Ждем перед повторной попыткой
					continue
				}

				// result[0] - ключ, result[1] - значение
				var event DispatchEvent
				if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal dispatch event from Redis")
					continue
				}

				w.processDispatchEvent(ctx, event)
			}
		}
	}()
}

// processDispatchEvent выполняет одну джобу рассылки и логирует агрегированный итог.
// Ошибка джобы не останавливает воркер - очередь обрабатывается дальше.
func (w *Worker) processDispatchEvent(ctx context.Context, event DispatchEvent) {
	log := w.logger.WithFields(logrus.Fields{
		"job_run_id":  uuid.New(),
		"incident_id": event.IncidentID,
	})
	log.Info("Processing dispatch event...")

	result, err := w.dispatcher.Dispatch(ctx, event.IncidentID)
	if err != nil {
		log.WithError(err).Error("Dispatch job failed")
		return
	}

	log.WithFields(logrus.Fields{
		"sent":   result.Sent,
		"failed": result.Failed,
	}).Info("Dispatch job completed")
}
