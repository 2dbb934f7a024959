package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/notifier"
)

// errNoUsableChannel означает, что у получателя нет ни одного пригодного
// канала (флаг выключен или адрес не заполнен). Отправка не выполняется,
// но журнальная запись все равно создается.
var errNoUsableChannel = errors.New("recipient has no usable notification channel")

// AlertRepository определяет контракт для работы с журналом оповещений
type AlertRepository interface {
	CreateBatch(ctx context.Context, alerts []*models.Alert) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AlertDispatchService определяет контракт джобы рассылки оповещений
type AlertDispatchService interface {
	Dispatch(ctx context.Context, incidentID int64) (*models.DispatchResult, error)
}

type alertDispatchService struct {
	incidentRepo IncidentRepository
	prefRepo     PreferenceRepository
	alertRepo    AlertRepository
	whatsapp     notifier.Notifier
	email        notifier.Notifier
	logger       *logrus.Logger
	cfg          *config.Config
}

func NewAlertDispatchService(
	incidentRepo IncidentRepository,
	prefRepo PreferenceRepository,
	alertRepo AlertRepository,
	whatsapp notifier.Notifier,
	email notifier.Notifier,
	logger *logrus.Logger,
	cfg *config.Config,
) AlertDispatchService {
	return &alertDispatchService{
		incidentRepo: incidentRepo,
		prefRepo:     prefRepo,
		alertRepo:    alertRepo,
		whatsapp:     whatsapp,
		email:        email,
		logger:       logger,
		cfg:          cfg,
	}
}

// Dispatch выполняет рассылку оповещений по одному подтвержденному инциденту.
// Предусловие: инцидент существует и подтвержден, иначе джоба завершается
// ошибкой без записей в журнале. Сбой отправки одному получателю не прерывает
// обработку остальных.
func (s *alertDispatchService) Dispatch(ctx context.Context, incidentID int64) (*models.DispatchResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "Dispatch",
		"incident_id": incidentID,
	})
	log.Info("Starting alert dispatch")

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Dispatch requested for unknown incident")
		return nil, fmt.Errorf("service: could not load incident for dispatch: %w", err)
	}
	if !incident.Approved {
		log.Warn("Dispatch requested for unapproved incident")
		return nil, fmt.Errorf("service: incident %d is not approved", incidentID)
	}

	recipients, err := s.prefRepo.ListAlertRecipients(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list alert recipients")
		return nil, fmt.Errorf("service: could not list alert recipients: %w", err)
	}

	// Сообщение составляется один раз и рассылается всем получателям
	msg := notifier.Message{
		Subject: AlertSubject(incident),
		Body:    ComposeAlertMessage(incident),
	}

	result := &models.DispatchResult{IncidentID: incidentID}
	alerts := make([]*models.Alert, 0, len(recipients))

	for _, pref := range recipients {
		recipientLog := log.WithField("user_id", pref.UserID)

		switch err := s.sendToRecipient(ctx, pref, msg); {
		case err == nil:
			result.Sent++
		case errors.Is(err, errNoUsableChannel):
			recipientLog.Debug("Recipient has no usable channel, alert logged without send attempt")
		default:
			result.Failed++
			recipientLog.WithError(err).Warn("Failed to send alert to recipient")
		}

		// Журнальная запись создается независимо от исхода отправки
		alerts = append(alerts, &models.Alert{
			UserID:  pref.UserID,
			Message: msg.Body,
		})
	}

	if err := s.alertRepo.CreateBatch(ctx, alerts); err != nil {
		log.WithError(err).Error("Failed to persist alert records")
		return nil, fmt.Errorf("service: could not persist alert records: %w", err)
	}

	log.WithFields(logrus.Fields{
		"recipients": len(recipients),
		"sent":       result.Sent,
		"failed":     result.Failed,
	}).Info("Alert dispatch completed")
	return result, nil
}

// sendToRecipient отправляет сообщение одному получателю с учетом приоритета
// каналов: WhatsApp при включенном флаге и заполненном номере, иначе email
// при включенном флаге и заполненном адресе.
func (s *alertDispatchService) sendToRecipient(ctx context.Context, pref *models.Preference, msg notifier.Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if pref.AlertViaWhatsApp && pref.WhatsAppNumber != "" {
		return s.whatsapp.Send(sendCtx, pref.WhatsAppNumber, msg)
	}
	if pref.AlertViaEmail && pref.Email != "" {
		return s.email.Send(sendCtx, pref.Email, msg)
	}
	return errNoUsableChannel
}
