package domain

import (
	"time"
)

type InquiryType string

const (
	InquiryTypeGeneral            InquiryType = "general"
	InquiryTypePsychologistSignup InquiryType = "psychologist-signup"
)

type Inquiry struct {
	ID             int64          `json:"id"`
	Type           InquiryType    `json:"type"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	Message        string         `json:"message"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	MessageID      string         `json:"message_id,omitempty"`
	CreatedAt      time.Time      `json:"timestamp"`
}

type CreateInquiryDTO struct {
	Type    InquiryType `json:"type" binding:"omitempty,oneof=general psychologist-signup"`
	Name    string      `json:"name" binding:"required,min=2"`
	Email   string      `json:"email" binding:"required,email"`
	Phone   string      `json:"phone"`
	Subject string      `json:"subject"`
	Message string      `json:"message" binding:"required"`
}
