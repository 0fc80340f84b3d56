// Package notify delivers critical alerts out of band. Like the
// realtime push, delivery here is best effort.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"fincoach/internal/config"
	"fincoach/internal/logger"
	"fincoach/internal/models"
)

// EmailSender sends alert emails via SMTP.
type EmailSender struct {
	cfg *config.Config
}

// NewEmailSender creates a sender from the SMTP configuration. It
// returns nil when no SMTP host is configured, and a nil sender is
// safe to call.
func NewEmailSender(cfg *config.Config) *EmailSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &EmailSender{cfg: cfg}
}

// SendCriticalAlert emails one critical alert to the user.
func (s *EmailSender) SendCriticalAlert(user *models.User, alert *models.Alert) error {
	if s == nil {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = fmt.Sprintf("Critical alert: %s", alert.Title)

	body := fmt.Sprintf("Dear %s,\n\n%s\n\nOpen the app to review and act on this alert.\n", user.FullName, alert.Message)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		logger.Get().Errorw("Failed to send alert email", "to", user.Email, "alert_type", alert.Type, "error", err)
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	logger.Get().Infow("Alert email sent", "to", user.Email, "alert_type", alert.Type)
	return nil
}
