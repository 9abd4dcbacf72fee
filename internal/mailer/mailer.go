// Package mailer delivers notification e-mails for bookings and inquiries.
package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer returns the provider message id of an accepted message.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// LogMailer accepts every message and writes it to the log. It stands in for
// a real provider in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("%w: пустой адрес получателя", domain.ErrInvalidInput)
	}

	id := uuid.NewString()
	m.logger.Info("письмо отправлено",
		zap.String("message_id", id),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return id, nil
}

func BookingNotification(from string, p domain.Psychologist, b domain.Booking) Message {
	body := fmt.Sprintf(
		"New booking request from %s <%s>\nPhone: %s\nPreferred times: %s\n\n%s\n",
		b.VisitorName, b.VisitorEmail, b.VisitorPhone, b.PreferredTimes, b.Message,
	)
	return Message{
		From:    from,
		To:      p.ContactEmail,
		ReplyTo: b.VisitorEmail,
		Subject: fmt.Sprintf("New booking request for %s", p.Name),
		Body:    body,
	}
}

func InquiryNotification(from, to string, inq domain.Inquiry) Message {
	subject := inq.Subject
	if subject == "" {
		subject = fmt.Sprintf("New %s inquiry", inq.Type)
	}
	return Message{
		From:    from,
		To:      to,
		ReplyTo: inq.Email,
		Subject: subject,
		Body:    fmt.Sprintf("From %s <%s> %s\n\n%s\n", inq.Name, inq.Email, inq.Phone, inq.Message),
	}
}

func PasswordReset(from, to, token string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use this code to reset your password: %s\n", token),
	}
}
