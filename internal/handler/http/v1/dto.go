package v1

import "time"

// RegisterUserRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserResponse DTO для ответа с информацией о пользователе
// @Description DTO для ответа с информацией о пользователе
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatePreferencesRequest DTO для обновления настроек оповещений
// @Description DTO для обновления настроек оповещений
type UpdatePreferencesRequest struct {
	AlertViaWhatsApp bool   `json:"alert_via_whatsapp"`
	AlertViaEmail    bool   `json:"alert_via_email"`
	WhatsAppNumber   string `json:"whatsapp_number" validate:"omitempty,e164"`
	Email            string `json:"email" validate:"omitempty,email"`
}

// PreferencesResponse DTO для ответа с настройками оповещений
// @Description DTO для ответа с настройками оповещений
type PreferencesResponse struct {
	UserID           int64  `json:"user_id"`
	AlertViaWhatsApp bool   `json:"alert_via_whatsapp"`
	AlertViaEmail    bool   `json:"alert_via_email"`
	WhatsAppNumber   string `json:"whatsapp_number,omitempty"`
	Email            string `json:"email,omitempty"`
}

// ReportIncidentRequest DTO для сообщения об инциденте
// @Description DTO для сообщения об инциденте
type ReportIncidentRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	Location      string `json:"location" validate:"required,min=2,max=255"`
	Category      string `json:"category" validate:"required,oneof=theft scam harassment other"`
	Description   string `json:"description,omitempty"`
	PhotoFilename string `json:"photo_filename,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Location      string    `json:"location"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	PhotoFilename string    `json:"photo_filename,omitempty"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatsResponse DTO для ответа со статистикой модерации
// @Description DTO для ответа со статистикой модерации
type StatsResponse struct {
	PendingIncidents  int `json:"pending_incidents"`
	ApprovedIncidents int `json:"approved_incidents"`
	TotalUsers        int `json:"total_users"`
}
