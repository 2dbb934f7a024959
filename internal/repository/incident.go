package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service"
)

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// Create создает новую запись об инциденте в бд (в неподтвержденном статусе)
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (user_id, location, category, description, photo_filename)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, approved, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.Location,
		incident.Category,
		incident.Description,
		incident.PhotoFilename,
	).Scan(&incident.ID, &incident.Approved, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его ID
func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, user_id, location, category, description, photo_filename, approved, created_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.UserID,
		&incident.Location,
		&incident.Category,
		&incident.Description,
		&incident.PhotoFilename,
		&incident.Approved,
		&incident.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Approve устанавливает флаг подтверждения инцидента
func (r *IncidentRepository) Approve(ctx context.Context, id int64) error {
	query := `
		UPDATE incidents SET
			approved = TRUE
		WHERE id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to approve incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %d not found for approve", id)
	}
	return nil
}

// Delete удаляет инцидент (отклонение админом)
func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM incidents
		WHERE id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %d not found for delete", id)
	}
	return nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := `
		SELECT id, user_id, location, category, description, photo_filename, approved, created_at
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// ListApproved возвращает все подтвержденные инциденты (лента рисков)
func (r *IncidentRepository) ListApproved(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, user_id, location, category, description, photo_filename, approved, created_at
		FROM incidents
		WHERE approved = TRUE
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved incidents: %w", err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// ListApprovedSince возвращает подтвержденные инциденты, созданные после указанного момента
func (r *IncidentRepository) ListApprovedSince(ctx context.Context, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT id, user_id, location, category, description, photo_filename, approved, created_at
		FROM incidents
		WHERE approved = TRUE AND created_at >= $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved incidents since %s: %w", since, err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// GetStats возвращает счетчики для админской панели
func (r *IncidentRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM incidents WHERE approved = FALSE),
			(SELECT COUNT(*) FROM incidents WHERE approved = TRUE),
			(SELECT COUNT(*) FROM users);
	`
	stats := &models.Stats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.PendingIncidents,
		&stats.ApprovedIncidents,
		&stats.TotalUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// scanIncidents читает строки результата в слайс моделей
func scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.UserID,
			&incident.Location,
			&incident.Category,
			&incident.Description,
			&incident.PhotoFilename,
			&incident.Approved,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}
