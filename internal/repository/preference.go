package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service"
)

type PreferenceRepository struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) service.PreferenceRepository {
	return &PreferenceRepository{
		db: db,
	}
}

// GetByUserID возвращает настройки оповещений пользователя
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID int64) (*models.Preference, error) {
	pref := &models.Preference{}
	query := `
		SELECT id, user_id, alert_via_whatsapp, alert_via_email, whatsapp_number, email
		FROM preferences
		WHERE user_id = $1;
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&pref.ID,
		&pref.UserID,
		&pref.AlertViaWhatsApp,
		&pref.AlertViaEmail,
		&pref.WhatsAppNumber,
		&pref.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("preference for user %d not found", userID)
		}
		return nil, fmt.Errorf("failed to get preference by user id: %w", err)
	}
	return pref, nil
}

// Update обновляет настройки оповещений пользователя
func (r *PreferenceRepository) Update(ctx context.Context, pref *models.Preference) error {
	query := `
		UPDATE preferences SET
			alert_via_whatsapp = $1,
			alert_via_email = $2,
			whatsapp_number = $3,
			email = $4
		WHERE user_id = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		pref.AlertViaWhatsApp,
		pref.AlertViaEmail,
		pref.WhatsAppNumber,
		pref.Email,
		pref.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update preference: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("preference for user %d not found for update", pref.UserID)
	}
	return nil
}

// ListAlertRecipients возвращает настройки всех пользователей, у которых
// включен хотя бы один канал оповещений (WhatsApp или email)
func (r *PreferenceRepository) ListAlertRecipients(ctx context.Context) ([]*models.Preference, error) {
	query := `
		SELECT p.id, p.user_id, p.alert_via_whatsapp, p.alert_via_email, p.whatsapp_number, p.email
		FROM preferences p
		JOIN users u ON u.id = p.user_id
		WHERE p.alert_via_whatsapp = TRUE OR p.alert_via_email = TRUE;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]*models.Preference, 0)
	for rows.Next() {
		pref := &models.Preference{}
		err := rows.Scan(
			&pref.ID,
			&pref.UserID,
			&pref.AlertViaWhatsApp,
			&pref.AlertViaEmail,
			&pref.WhatsAppNumber,
			&pref.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		recipients = append(recipients, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error recipients iteration: %w", err)
	}
	return recipients, nil
}
