package models

import (
	"time"
)

// Допустимые категории инцидентов
const (
	CategoryTheft      = "theft"
	CategoryScam       = "scam"
	CategoryHarassment = "harassment"
	CategoryOther      = "other"
)

type Incident struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Location      string    `json:"location"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	PhotoFilename string    `json:"photo_filename,omitempty"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"created_at"`
}
