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

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateWithPreference создает пользователя и его настройки оповещений в одной транзакции
func (r *UserRepository) CreateWithPreference(ctx context.Context, user *models.User, pref *models.Preference) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at;
	`
	err = tx.QueryRow(ctx, userQuery,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	pref.UserID = user.ID
	prefQuery := `
		INSERT INTO preferences (user_id, alert_via_whatsapp, alert_via_email, whatsapp_number, email)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;
	`
	err = tx.QueryRow(ctx, prefQuery,
		pref.UserID,
		pref.AlertViaWhatsApp,
		pref.AlertViaEmail,
		pref.WhatsAppNumber,
		pref.Email,
	).Scan(&pref.ID)
	if err != nil {
		return fmt.Errorf("failed to create default preference: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по его ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}
