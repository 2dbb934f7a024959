package models

import (
	"time"
)

// Alert - журнальная запись об одной попытке отправки оповещения.
// Запись создаётся независимо от исхода отправки и никогда не изменяется;
// удаляется только джобой очистки по истечении срока хранения.
type Alert struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}
