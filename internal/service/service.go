package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/cache"
	"mindconnect/internal/directory"
	"mindconnect/internal/domain"
	"mindconnect/internal/events"
	"mindconnect/internal/mailer"
	"mindconnect/internal/repository"
	"mindconnect/internal/storage"
)

type Deps struct {
	Repos     *repository.Repositories
	Directory *cache.Directory
	Publisher events.Publisher
	Mailer    mailer.Mailer
	// Storage may be nil; headshot uploads then fail with ErrStorageUnavailable.
	Storage storage.ImageStorage
	Logger  *zap.Logger
	Config  *config.Config
}

type Services struct {
	Directory    DirectoryService
	Psychologist PsychologistService
	Booking      BookingService
	Inquiry      InquiryService
	Analytics    AnalyticsService
	Auth         AuthService
	Content      ContentService
}

func NewServices(deps Deps) *Services {
	if deps.Directory == nil {
		deps.Directory = cache.NewDirectory(nil, deps.Repos.Psychologist, 0, deps.Logger)
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.NewLogMailer(deps.Logger)
	}

	analytics := NewAnalyticsService(deps.Repos.Analytics, deps.Repos.Psychologist, deps.Repos.Booking, deps.Publisher, deps.Logger)

	return &Services{
		Directory:    NewDirectoryService(deps.Directory, deps.Repos.Psychologist, analytics, deps.Config.Directory, deps.Logger),
		Psychologist: NewPsychologistService(deps.Repos.Psychologist, deps.Directory, deps.Storage, analytics, deps.Logger),
		Booking:      NewBookingService(deps.Repos.Booking, deps.Repos.Psychologist, deps.Mailer, analytics, deps.Config.Mail, deps.Logger),
		Inquiry:      NewInquiryService(deps.Repos.Inquiry, deps.Mailer, deps.Config.Mail, deps.Logger),
		Analytics:    analytics,
		Auth:         NewAuthService(deps.Repos.User, deps.Repos.ResetToken, deps.Mailer, analytics, deps.Config.JWT, deps.Config.Mail, deps.Logger),
		Content:      NewContentService(deps.Repos.Content, deps.Logger),
	}
}

// DirectoryService is the public read side over published profiles. It is
// also a directory.Source for live sessions.
type DirectoryService interface {
	ListPublished(ctx context.Context) ([]domain.Psychologist, error)
	Query(ctx context.Context, q directory.Query) (domain.DirectoryPage, error)
	Featured(ctx context.Context) ([]domain.Psychologist, error)
	Specializations(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
	GetBySlug(ctx context.Context, slug, sessionID, referrer string) (*domain.Psychologist, error)
}

type PsychologistService interface {
	Create(ctx context.Context, dto domain.CreatePsychologistDTO) (*domain.Psychologist, error)
	GetByID(ctx context.Context, id int64) (*domain.Psychologist, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) (*domain.Psychologist, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Psychologist, error)
	SetFeatured(ctx context.Context, id int64, featured bool) (*domain.Psychologist, error)
	UploadHeadshot(ctx context.Context, id int64, data []byte, filename string) (string, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AdminPsychologistFilter) ([]domain.Psychologist, int, error)

	UpdateProfile(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) (*domain.Psychologist, error)
	SetAccepting(ctx context.Context, id int64, accepting bool) (*domain.Psychologist, error)
}

type BookingService interface {
	Create(ctx context.Context, dto domain.CreateBookingDTO) (*domain.Booking, error)
	Resend(ctx context.Context, id int64) (*domain.Booking, error)
	Log(ctx context.Context, filter domain.BookingFilter) ([]domain.BookingLogEntry, int, error)
}

type InquiryService interface {
	Create(ctx context.Context, dto domain.CreateInquiryDTO) (*domain.Inquiry, error)
	List(ctx context.Context, limit, offset int) ([]domain.Inquiry, int, error)
}

type AnalyticsService interface {
	Track(ctx context.Context, dto domain.TrackEventDTO) (*domain.AnalyticsEvent, error)
	Platform(ctx context.Context, r domain.TimeRange) (*domain.PlatformAnalytics, error)
	PortalDashboard(ctx context.Context, psychologistID int64, r domain.TimeRange) (*domain.PortalDashboard, error)
	PortalAnalytics(ctx context.Context, psychologistID int64, r domain.TimeRange) (*domain.PortalAnalytics, error)
	ExportCSV(ctx context.Context, r domain.TimeRange, w io.Writer) error
}

type AuthService interface {
	Login(ctx context.Context, dto domain.LoginRequest) (*domain.AuthResult, error)
	Logout(ctx context.Context, identity domain.Identity) error
	ParseToken(ctx context.Context, token string) (*domain.Identity, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, dto domain.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID int64, dto domain.PasswordUpdateDTO) error
}

type ContentService interface {
	Get(ctx context.Context) (domain.SiteContent, error)
	Update(ctx context.Context, content domain.SiteContent) (domain.SiteContent, error)
}

// tracker is the slice of AnalyticsService other services record events with.
type tracker interface {
	Track(ctx context.Context, dto domain.TrackEventDTO) (*domain.AnalyticsEvent, error)
}

// trackQuietly records an event and only logs a failure.
func trackQuietly(ctx context.Context, t tracker, logger *zap.Logger, dto domain.TrackEventDTO) {
	if _, err := t.Track(ctx, dto); err != nil {
		logger.Warn("не удалось записать событие аналитики",
			zap.String("event_type", string(dto.Type)),
			zap.Error(err),
		)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

type clock func() time.Time
