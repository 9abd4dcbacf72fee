package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Psychologist PsychologistRepository
	Booking      BookingRepository
	Inquiry      InquiryRepository
	Analytics    AnalyticsRepository
	Content      ContentRepository
	ResetToken   ResetTokenRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Psychologist: NewPsychologistRepository(db),
		Booking:      NewBookingRepository(db),
		Inquiry:      NewInquiryRepository(db),
		Analytics:    NewAnalyticsRepository(db),
		Content:      NewContentRepository(db),
		ResetToken:   NewResetTokenRepository(db),
	}
}

// NewMemoryRepositories keeps everything in process memory. State is lost on restart.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		User:         NewUserMemoryRepository(),
		Psychologist: NewPsychologistMemoryRepository(),
		Booking:      NewBookingMemoryRepository(),
		Inquiry:      NewInquiryMemoryRepository(),
		Analytics:    NewAnalyticsMemoryRepository(),
		Content:      NewContentMemoryRepository(),
		ResetToken:   NewResetTokenMemoryRepository(),
	}
}

type UserRepository interface {
	// Create expects dto.Password to already hold the password hash.
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Count(ctx context.Context) (int, error)
}

type PsychologistRepository interface {
	Create(ctx context.Context, slug string, dto domain.CreatePsychologistDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Psychologist, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Psychologist, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) error
	UpdateStatus(ctx context.Context, id int64, status domain.ProfileStatus) error
	SetFeatured(ctx context.Context, id int64, featured bool) error
	SetAccepting(ctx context.Context, id int64, accepting bool, availabilityNote string) error
	UpdateHeadshot(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AdminPsychologistFilter) ([]domain.Psychologist, int, error)
	ListPublished(ctx context.Context) ([]domain.Psychologist, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	IncrementViews(ctx context.Context, id int64) error
	IncrementBookings(ctx context.Context, id int64) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking domain.Booking) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateDelivery records the outcome of one delivery attempt.
	UpdateDelivery(ctx context.Context, id int64, status domain.DeliveryStatus, messageID string) error
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, int, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, inquiry domain.Inquiry) (int64, error)
	List(ctx context.Context, limit, offset int) ([]domain.Inquiry, int, error)
}

type AnalyticsRepository interface {
	Save(ctx context.Context, event domain.AnalyticsEvent) error
	List(ctx context.Context, filter domain.EventFilter) ([]domain.AnalyticsEvent, error)
}

type ContentRepository interface {
	Get(ctx context.Context) (domain.SiteContent, error)
	Put(ctx context.Context, content domain.SiteContent) error
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token domain.PasswordResetToken) error
	// Consume removes the token and returns it. Unknown and expired tokens
	// yield domain.ErrNotFound.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}
