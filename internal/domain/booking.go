package domain

import (
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

type Booking struct {
	ID                     int64          `json:"id"`
	PsychologistID         int64          `json:"psychologist_id"`
	VisitorName            string         `json:"visitor_name"`
	VisitorEmail           string         `json:"visitor_email"`
	VisitorPhone           string         `json:"visitor_phone,omitempty"`
	Message                string         `json:"message"`
	PreferredTimes         string         `json:"preferred_times,omitempty"`
	SourcePage             string         `json:"source_page,omitempty"`
	UTM                    string         `json:"utm,omitempty"`
	DeliveryStatus         DeliveryStatus `json:"delivery_status"`
	EmailProviderMessageID string         `json:"email_provider_message_id,omitempty"`
	DeliveryAttempts       int            `json:"delivery_attempts"`
	CreatedAt              time.Time      `json:"timestamp"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

type CreateBookingDTO struct {
	PsychologistID int64  `json:"psychologist_id" binding:"required,gt=0"`
	VisitorName    string `json:"visitor_name" binding:"required,min=2"`
	VisitorEmail   string `json:"visitor_email" binding:"required,email"`
	VisitorPhone   string `json:"visitor_phone"`
	Message        string `json:"message" binding:"required,min=10"`
	PreferredTimes string `json:"preferred_times"`
	SourcePage     string `json:"source_page"`
	UTM            string `json:"utm"`
}

type BookingFilter struct {
	PsychologistID *int64          `json:"psychologist_id"`
	Status         *DeliveryStatus `json:"status"`
	Since          *time.Time      `json:"since"`
	Limit          int             `json:"limit"`
	Offset         int             `json:"offset"`
}

// BookingLogEntry is the admin-facing projection of a booking.
type BookingLogEntry struct {
	ID                     int64          `json:"id"`
	Timestamp              time.Time      `json:"timestamp"`
	PsychologistName       string         `json:"psychologist_name"`
	VisitorName            string         `json:"visitor_name"`
	VisitorEmail           string         `json:"visitor_email"`
	DeliveryStatus         DeliveryStatus `json:"delivery_status"`
	EmailProviderMessageID string         `json:"email_provider_message_id"`
	MessagePreview         string         `json:"message_preview"`
}

const messagePreviewLength = 50

// MessagePreview cuts the message to the first 50 runes followed by "...".
func MessagePreview(message string) string {
	runes := []rune(message)
	if len(runes) > messagePreviewLength {
		runes = runes[:messagePreviewLength]
	}
	return string(runes) + "..."
}
