package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/shenikar/travel_safety_alerts/internal/config"
)

// WhatsAppNotifier отправляет оповещения через чат-шлюз Twilio (WhatsApp)
type WhatsAppNotifier struct {
	client *twilio.RestClient
	sender string
	logger *logrus.Logger
}

// NewWhatsAppNotifier создает адаптер чат-шлюза. Если обязательные секреты
// не заданы, адаптер создается без клиента и каждая отправка будет
// завершаться ошибкой ErrNotConfigured без сетевых вызовов.
func NewWhatsAppNotifier(cfg *config.Config, logger *logrus.Logger) *WhatsAppNotifier {
	n := &WhatsAppNotifier{
		sender: cfg.ChatSender,
		logger: logger,
	}

	if cfg.ChatAccountID == "" || cfg.ChatAuthToken == "" || cfg.ChatSender == "" {
		logger.Warn("Chat gateway credentials are not configured, WhatsApp alerts disabled")
		return n
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.ChatAccountID,
		Password: cfg.ChatAuthToken,
	})
	client.SetTimeout(cfg.SendTimeout)
	n.client = client
	return n
}

// Send отправляет одно сообщение на номер получателя.
// Номер без ведущего "+" нормализуется добавлением префикса.
func (n *WhatsAppNotifier) Send(ctx context.Context, destination string, msg Message) error {
	if n.client == nil {
		return fmt.Errorf("whatsapp: %w", ErrNotConfigured)
	}

	destination = normalizePhoneNumber(destination)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + destination)
	params.SetFrom(n.sender)
	params.SetBody(msg.Body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		n.logger.WithError(err).WithField("destination", destination).Error("Failed to send WhatsApp alert")
		return fmt.Errorf("whatsapp: failed to send message: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	n.logger.WithFields(logrus.Fields{
		"destination": destination,
		"sid":         sid,
	}).Info("WhatsApp alert sent")
	return nil
}

// normalizePhoneNumber приводит номер к формату +<код страны><номер>
func normalizePhoneNumber(number string) string {
	if !strings.HasPrefix(number, "+") {
		return "+" + number
	}
	return number
}
