package services

import (
	"context"
	"fmt"

	"github.com/yungbote/usersync-backend/internal/platform/logger"
	"github.com/yungbote/usersync-backend/internal/platform/sendgrid"
)

type Notification struct {
	To   string
	From string
	Body string
}

// NotificationSender delivers a message to an address. Like EventPublisher it is
// fire-and-forget from the caller's point of view.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

type SendGridMailer struct {
	Client  sendgrid.Client
	Subject string
	Log     *logger.Logger
}

func (m *SendGridMailer) Send(ctx context.Context, n Notification) error {
	subject := m.Subject
	if subject == "" {
		subject = "Welcome"
	}
	res, err := m.Client.Send(ctx, sendgrid.SendEmailRequest{
		From:       sendgrid.EmailAddress{Email: n.From},
		To:         []sendgrid.EmailAddress{{Email: n.To}},
		Subject:    subject,
		Text:       n.Body,
		Categories: []string{"usersync"},
	})
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if m.Log != nil {
		m.Log.Debug("Notification sent", "to", n.To, "message_id", res.MessageID)
	}
	return nil
}

// LogMailer stands in for SendGrid when SENDGRID_API_KEY isn't configured.
type LogMailer struct{ Log *logger.Logger }

func (m *LogMailer) Send(ctx context.Context, n Notification) error {
	m.Log.Info("Notification (no mailer configured)", "to", n.To, "from", n.From, "body", n.Body)
	return nil
}
