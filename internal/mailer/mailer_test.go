package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

func TestLogMailer_Send(t *testing.T) {
	m := NewLogMailer(zap.NewNop())

	id, err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("message id %q is not a uuid", id)
	}

	if _, err := m.Send(context.Background(), Message{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty recipient: err = %v", err)
	}
}

func TestBookingNotification(t *testing.T) {
	p := domain.Psychologist{Name: "Dr. Jane Doe", ContactEmail: "jane@example.com"}
	b := domain.Booking{VisitorName: "Sam", VisitorEmail: "sam@example.com", Message: "I would like a session."}

	msg := BookingNotification("no-reply@example.com", p, b)

	if msg.To != "jane@example.com" || msg.ReplyTo != "sam@example.com" {
		t.Errorf("routing: %+v", msg)
	}
	if !strings.Contains(msg.Subject, "Dr. Jane Doe") || !strings.Contains(msg.Body, "I would like a session.") {
		t.Errorf("content: %+v", msg)
	}
}
