package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service"
)

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{
		db: db,
	}
}

// CreateBatch сохраняет все журнальные записи одной джобы рассылки в одной транзакции.
// При падении посреди джобы частично записанного батча не остается.
func (r *AlertRepository) CreateBatch(ctx context.Context, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO alerts (user_id, message)
		VALUES ($1, $2) RETURNING id, sent_at;
	`
	for _, alert := range alerts {
		err := tx.QueryRow(ctx, query, alert.UserID, alert.Message).Scan(&alert.ID, &alert.SentAt)
		if err != nil {
			return fmt.Errorf("failed to create alert record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit alert batch: %w", err)
	}
	return nil
}

// DeleteOlderThan удаляет журнальные записи старше указанного момента и возвращает их количество
func (r *AlertRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM alerts
		WHERE sent_at < $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old alerts: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
