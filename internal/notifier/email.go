package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/travel_safety_alerts/internal/config"
)

// EmailNotifier отправляет оповещения по SMTP
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewEmailNotifier(cfg *config.Config, logger *logrus.Logger) *EmailNotifier {
	if cfg.MailServer == "" || cfg.MailUsername == "" || cfg.MailPassword == "" {
		logger.Warn("SMTP credentials are not configured, email alerts disabled")
	}
	return &EmailNotifier{
		host:     cfg.MailServer,
		port:     cfg.MailPort,
		username: cfg.MailUsername,
		password: cfg.MailPassword,
		useTLS:   cfg.MailUseTLS,
		timeout:  cfg.SendTimeout,
		logger:   logger,
	}
}

// Send отправляет одно письмо с заголовками From/To/Subject и текстовым телом.
// Любая ошибка на любом шаге SMTP-сессии превращается в возвращаемую ошибку.
func (n *EmailNotifier) Send(ctx context.Context, destination string, msg Message) error {
	if n.host == "" || n.username == "" || n.password == "" {
		return fmt.Errorf("email: %w", ErrNotConfigured)
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	dialer := &net.Dialer{Timeout: n.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		n.logger.WithError(err).WithField("server", addr).Error("Failed to connect to SMTP server")
		return fmt.Errorf("email: failed to connect to %s: %w", addr, err)
	}
	// Ограничиваем всю SMTP-сессию, чтобы зависший транспорт не блокировал воркер
	if err := conn.SetDeadline(time.Now().Add(n.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("email: failed to set deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: failed to create smtp client: %w", err)
	}
	defer client.Close()

	if n.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return fmt.Errorf("email: failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("email: failed to authenticate: %w", err)
	}

	if err := client.Mail(n.username); err != nil {
		return fmt.Errorf("email: failed to set sender: %w", err)
	}
	if err := client.Rcpt(destination); err != nil {
		return fmt.Errorf("email: failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: failed to open data writer: %w", err)
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.username, destination, msg.Subject, msg.Body)
	if _, err := w.Write([]byte(body)); err != nil {
		return fmt.Errorf("email: failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("email: failed to close session: %w", err)
	}

	n.logger.WithField("destination", destination).Info("Email alert sent")
	return nil
}
