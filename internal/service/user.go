package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/shenikar/travel_safety_alerts/internal/models"
)

//go:generate mockgen -source=user.go -destination=mocks/mock_user.go -package=mocks

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	CreateWithPreference(ctx context.Context, user *models.User, pref *models.Preference) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// PreferenceRepository определяет контракт для работы с настройками оповещений
type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Preference, error)
	Update(ctx context.Context, pref *models.Preference) error
	ListAlertRecipients(ctx context.Context) ([]*models.Preference, error)
}

// UserService определяет контракт бизнес-логики пользователей и их настроек
type UserService interface {
	Register(ctx context.Context, user *models.User, password string) error
	GetPreferences(ctx context.Context, userID int64) (*models.Preference, error)
	UpdatePreferences(ctx context.Context, pref *models.Preference) error
}

type userService struct {
	userRepo UserRepository
	prefRepo PreferenceRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo UserRepository, prefRepo PreferenceRepository, logger *logrus.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		prefRepo: prefRepo,
		logger:   logger,
	}
}

// Register создает пользователя вместе с настройками оповещений по умолчанию
// (email-канал включен, адрес берется из учетной записи)
func (s *userService) Register(ctx context.Context, user *models.User, password string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Register",
		"username": user.Username,
	})
	log.Info("Attempting to register a new user")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return fmt.Errorf("service: could not hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	pref := &models.Preference{
		AlertViaEmail: true,
		Email:         user.Email,
	}
	if err := s.userRepo.CreateWithPreference(ctx, user, pref); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return nil
}

// GetPreferences возвращает настройки оповещений пользователя
func (s *userService) GetPreferences(ctx context.Context, userID int64) (*models.Preference, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "GetPreferences",
		"user_id": userID,
	})
	log.Info("Fetching user preferences")

	pref, err := s.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to get preferences from repository")
		return nil, fmt.Errorf("service: could not get preferences: %w", err)
	}

	return pref, nil
}

// UpdatePreferences обновляет настройки оповещений пользователя
func (s *userService) UpdatePreferences(ctx context.Context, pref *models.Preference) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdatePreferences",
		"user_id": pref.UserID,
	})
	log.Info("Attempting to update user preferences")

	if _, err := s.prefRepo.GetByUserID(ctx, pref.UserID); err != nil {
		log.WithError(err).Warn("Attempted to update preferences for unknown user")
		return fmt.Errorf("service: preferences for user %d not found for update: %w", pref.UserID, err)
	}

	if err := s.prefRepo.Update(ctx, pref); err != nil {
		log.WithError(err).Error("Failed to update preferences in repository")
		return fmt.Errorf("service: could not update preferences: %w", err)
	}

	log.Info("Preferences updated successfully")
	return nil
}
