package service

import (
	"context"
	"errors"
	"testing"

	"mindconnect/internal/domain"
)

func TestInquiryService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inq, err := env.services.Inquiry.Create(ctx, domain.CreateInquiryDTO{
		Name:    "Sam Client",
		Email:   "sam@example.com",
		Message: "How do I choose a therapist?",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inq.Type != domain.InquiryTypeGeneral || inq.DeliveryStatus != domain.DeliveryStatusSent || inq.ID == 0 {
		t.Errorf("inquiry = %+v", inq)
	}

	sent := env.mailer.messages()
	if len(sent) != 1 || sent[0].To != "hello@test.local" || sent[0].ReplyTo != "sam@example.com" {
		t.Errorf("sent = %+v", sent)
	}

	env.mailer.err = errors.New("smtp unavailable")
	inq, err = env.services.Inquiry.Create(ctx, domain.CreateInquiryDTO{
		Type:    domain.InquiryTypePsychologistSignup,
		Name:    "Dr. Future",
		Email:   "future@example.com",
		Message: "I would like to list my practice.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inq.DeliveryStatus != domain.DeliveryStatusFailed {
		t.Errorf("status = %q, want failed", inq.DeliveryStatus)
	}

	items, total, err := env.services.Inquiry.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || items[0].Type != domain.InquiryTypePsychologistSignup {
		t.Errorf("list = %+v (total %d)", items, total)
	}

	if _, err := env.services.Inquiry.Create(ctx, domain.CreateInquiryDTO{Type: "spam", Name: "X", Email: "x"}); err == nil {
		t.Error("invalid inquiry accepted")
	}
}

func TestContentService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.services.Content.Update(ctx, domain.SiteContent{
		"about": {"mission": "Care for everyone."},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got["about"]["mission"] != "Care for everyone." {
		t.Errorf("about = %v", got["about"])
	}
	if got["home"]["heroHeadline"] != "Find the right psychologist, fast." {
		t.Errorf("home page lost after partial update: %v", got["home"])
	}

	if _, err := env.services.Content.Update(ctx, domain.SiteContent{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty update error = %v", err)
	}
}
