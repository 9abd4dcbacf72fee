package repository

import (
	"context"
	"sync"
	"time"

	"mindconnect/internal/domain"
)

type BookingMemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	bookings []domain.Booking
}

func NewBookingMemoryRepository() *BookingMemoryRepo {
	return &BookingMemoryRepo{nextID: 1}
}

func (r *BookingMemoryRepo) Create(ctx context.Context, booking domain.Booking) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	booking.ID = r.nextID
	r.nextID++
	if booking.DeliveryStatus == "" {
		booking.DeliveryStatus = domain.DeliveryStatusPending
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	r.bookings = append(r.bookings, booking)

	return booking.ID, nil
}

func (r *BookingMemoryRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *BookingMemoryRepo) UpdateDelivery(ctx context.Context, id int64, status domain.DeliveryStatus, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].DeliveryStatus = status
			r.bookings[i].EmailProviderMessageID = messageID
			r.bookings[i].DeliveryAttempts++
			r.bookings[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
}

// List returns newest bookings first.
func (r *BookingMemoryRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Booking, 0, len(r.bookings))
	for i := len(r.bookings) - 1; i >= 0; i-- {
		b := r.bookings[i]
		if filter.PsychologistID != nil && b.PsychologistID != *filter.PsychologistID {
			continue
		}
		if filter.Status != nil && b.DeliveryStatus != *filter.Status {
			continue
		}
		if filter.Since != nil && b.CreatedAt.Before(*filter.Since) {
			continue
		}
		matched = append(matched, b)
	}

	return window(matched, filter.Limit, filter.Offset), len(matched), nil
}
