package notifier

import (
	"context"
	"errors"
)

// ErrNotConfigured возвращается, когда у адаптера отсутствуют обязательные
// секреты конфигурации. Сетевой вызов в этом случае не выполняется.
var ErrNotConfigured = errors.New("notifier is not configured")

// Message - содержимое одного оповещения. Subject используется только email-каналом.
type Message struct {
	Subject string
	Body    string
}

//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// Notifier определяет контракт канала отправки оповещений.
// Реализации не паникуют и не пропускают ошибки транспорта наружу:
// любой сбой превращается в возвращаемую ошибку.
type Notifier interface {
	Send(ctx context.Context, destination string, msg Message) error
}
