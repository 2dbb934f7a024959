package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/dispatch"
	"github.com/shenikar/travel_safety_alerts/internal/models"
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id int64) (*models.Incident, error)
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListApproved(ctx context.Context) ([]*models.Incident, error)
	ListApprovedSince(ctx context.Context, since time.Time) ([]*models.Incident, error)
	GetStats(ctx context.Context) (*models.Stats, error)
}

// IncidentService определяет контракт бизнес-логики управления инцидентами
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id int64) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ApproveIncident(ctx context.Context, id int64) error
	RejectIncident(ctx context.Context, id int64) error
	ListRisks(ctx context.Context) ([]*models.Incident, error)
	GetStats(ctx context.Context) (*models.Stats, error)
}

type incidentService struct {
	repo      IncidentRepository
	publisher dispatch.Publisher
	logger    *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, publisher dispatch.Publisher, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ReportIncident создает инцидент в неподтвержденном статусе
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "ReportIncident",
		"category": incident.Category,
	})
	log.Info("Attempting to report a new incident")

	incident.Approved = false
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully, awaiting approval")
	return nil
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id int64) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing incidents")

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// ApproveIncident подтверждает инцидент и ставит задание рассылки в очередь.
// Подтверждение необратимо. Постановка в очередь выполняется по принципу
// fire-and-forget: ее сбой логируется, но не отменяет подтверждение.
func (s *incidentService) ApproveIncident(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ApproveIncident",
		"incident_id": id,
	})
	log.Info("Attempting to approve incident")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to approve a non-existent incident")
		return fmt.Errorf("service: incident with id %d not found for approve: %w", id, err)
	}

	if err := s.repo.Approve(ctx, id); err != nil {
		log.WithError(err).Error("Failed to approve incident in repository")
		return fmt.Errorf("service: could not approve incident: %w", err)
	}

	event := dispatch.DispatchEvent{
		IncidentID: id,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to enqueue alert dispatch, approval is kept")
	} else {
		log.Info("Alert dispatch enqueued")
	}

	log.Info("Incident approved successfully")
	return nil
}

// RejectIncident отклоняет инцидент (удаление записи)
func (s *incidentService) RejectIncident(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "RejectIncident",
		"incident_id": id,
	})
	log.Info("Attempting to reject incident")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to reject a non-existent incident")
		return fmt.Errorf("service: incident with id %d not found for reject: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not reject incident: %w", err)
	}

	log.Info("Incident rejected successfully")
	return nil
}

// ListRisks возвращает все подтвержденные инциденты (публичная лента рисков)
func (s *incidentService) ListRisks(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListRisks",
	})
	log.Info("Listing approved incidents")

	incidents, err := s.repo.ListApproved(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list approved incidents from repository")
		return nil, fmt.Errorf("service: could not list risks: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Risks listed successfully")
	return incidents, nil
}

// GetStats возвращает счетчики для админской панели
func (s *incidentService) GetStats(ctx context.Context) (*models.Stats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetStats",
	})
	log.Info("Fetching stats")

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get stats from repository")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	return stats, nil
}
