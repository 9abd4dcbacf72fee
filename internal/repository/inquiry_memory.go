package repository

import (
	"context"
	"sync"
	"time"

	"mindconnect/internal/domain"
)

type InquiryMemoryRepo struct {
	mu        sync.RWMutex
	nextID    int64
	inquiries []domain.Inquiry
}

func NewInquiryMemoryRepository() *InquiryMemoryRepo {
	return &InquiryMemoryRepo{nextID: 1}
}

func (r *InquiryMemoryRepo) Create(ctx context.Context, inquiry domain.Inquiry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry.ID = r.nextID
	r.nextID++
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	r.inquiries = append(r.inquiries, inquiry)

	return inquiry.ID, nil
}

func (r *InquiryMemoryRepo) List(ctx context.Context, limit, offset int) ([]domain.Inquiry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Inquiry, 0, len(r.inquiries))
	for i := len(r.inquiries) - 1; i >= 0; i-- {
		inq := r.inquiries[i]
		out = append(out, inq)
	}

	return window(out, limit, offset), len(out), nil
}
