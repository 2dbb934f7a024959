package models

// Preference представляет настройки оповещений пользователя.
// Ровно одна запись на пользователя, создаётся при регистрации
// (по умолчанию включены оповещения по email).
type Preference struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"user_id"`
	AlertViaWhatsApp bool   `json:"alert_via_whatsapp"`
	AlertViaEmail    bool   `json:"alert_via_email"`
	WhatsAppNumber   string `json:"whatsapp_number,omitempty"`
	Email            string `json:"email,omitempty"`
}
