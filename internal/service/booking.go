package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/domain"
	"mindconnect/internal/mailer"
	"mindconnect/internal/metrics"
	"mindconnect/internal/repository"
	"mindconnect/pkg/validator"
)

const deletedPsychologistName = "(удаленный профиль)"

type BookingServiceImpl struct {
	repo             repository.BookingRepository
	psychologistRepo repository.PsychologistRepository
	mailer           mailer.Mailer
	analytics        tracker
	mailCfg          config.MailConfig
	logger           *zap.Logger
}

func NewBookingService(repo repository.BookingRepository, psychologistRepo repository.PsychologistRepository, mailer mailer.Mailer, analytics tracker, mailCfg config.MailConfig, logger *zap.Logger) *BookingServiceImpl {
	return &BookingServiceImpl{
		repo:             repo,
		psychologistRepo: psychologistRepo,
		mailer:           mailer,
		analytics:        analytics,
		mailCfg:          mailCfg,
		logger:           logger,
	}
}

// Create stores the booking request and then delivers it to the psychologist.
// A delivery failure does not fail the request: the booking is kept with
// status failed and can be resent from the admin log.
func (s *BookingServiceImpl) Create(ctx context.Context, dto domain.CreateBookingDTO) (*domain.Booking, error) {
	dto.VisitorName = validator.SanitizeString(dto.VisitorName)
	dto.Message = validator.SanitizeString(dto.Message)
	if err := validator.Struct(dto); err != nil {
		return nil, err
	}

	p, err := s.psychologistRepo.GetByID(ctx, dto.PsychologistID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения психолога %d: %w", dto.PsychologistID, err)
	}
	if !p.IsPublished() {
		return nil, domain.ErrNotPublished
	}

	booking := domain.Booking{
		PsychologistID: dto.PsychologistID,
		VisitorName:    dto.VisitorName,
		VisitorEmail:   dto.VisitorEmail,
		VisitorPhone:   dto.VisitorPhone,
		Message:        dto.Message,
		PreferredTimes: dto.PreferredTimes,
		SourcePage:     dto.SourcePage,
		UTM:            dto.UTM,
		DeliveryStatus: domain.DeliveryStatusPending,
	}

	id, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.logger.Error("ошибка сохранения заявки", zap.Int64("psychologist_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("ошибка сохранения заявки: %w", err)
	}
	booking.ID = id

	if err := s.psychologistRepo.IncrementBookings(ctx, p.ID); err != nil {
		s.logger.Warn("не удалось увеличить счетчик заявок", zap.Int64("psychologist_id", p.ID), zap.Error(err))
	}

	status := s.deliver(ctx, p, booking, domain.EventEmailSent, domain.EventEmailFailed)
	metrics.BookingsTotal.WithLabelValues(string(status)).Inc()

	outcome := domain.EventBookingCreated
	if status == domain.DeliveryStatusFailed {
		outcome = domain.EventBookingFailed
	}
	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           outcome,
		PsychologistID: int64Ptr(p.ID),
		Page:           dto.SourcePage,
		Properties:     map[string]any{"booking_id": id},
	})

	return s.repo.GetByID(ctx, id)
}

func (s *BookingServiceImpl) Resend(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявки %d: %w", id, err)
	}

	p, err := s.psychologistRepo.GetByID(ctx, booking.PsychologistID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения психолога %d: %w", booking.PsychologistID, err)
	}

	s.deliver(ctx, p, *booking, domain.EventEmailResent, domain.EventEmailResendFailed)

	return s.repo.GetByID(ctx, id)
}

// deliver sends the notification, stores the outcome and records ok or failed
// as an analytics event.
func (s *BookingServiceImpl) deliver(ctx context.Context, p *domain.Psychologist, booking domain.Booking, ok, failed domain.EventType) domain.DeliveryStatus {
	status := domain.DeliveryStatusSent
	event := ok

	messageID, err := s.mailer.Send(ctx, mailer.BookingNotification(s.mailCfg.From, *p, booking))
	if err != nil {
		s.logger.Error("ошибка отправки заявки психологу",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("psychologist_id", p.ID),
			zap.Error(err),
		)
		status = domain.DeliveryStatusFailed
		event = failed
	}

	if err := s.repo.UpdateDelivery(ctx, booking.ID, status, messageID); err != nil {
		s.logger.Error("ошибка сохранения статуса доставки", zap.Int64("booking_id", booking.ID), zap.Error(err))
	}

	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           event,
		PsychologistID: int64Ptr(p.ID),
		Properties: map[string]any{
			"booking_id": booking.ID,
			"message_id": messageID,
		},
	})

	return status
}

func (s *BookingServiceImpl) Log(ctx context.Context, filter domain.BookingFilter) ([]domain.BookingLogEntry, int, error) {
	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения журнала заявок", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения журнала заявок: %w", err)
	}

	names := make(map[int64]string)
	entries := make([]domain.BookingLogEntry, 0, len(bookings))
	for _, b := range bookings {
		name, ok := names[b.PsychologistID]
		if !ok {
			name, err = s.psychologistName(ctx, b.PsychologistID)
			if err != nil {
				return nil, 0, err
			}
			names[b.PsychologistID] = name
		}

		entries = append(entries, domain.BookingLogEntry{
			ID:                     b.ID,
			Timestamp:              b.CreatedAt,
			PsychologistName:       name,
			VisitorName:            b.VisitorName,
			VisitorEmail:           b.VisitorEmail,
			DeliveryStatus:         b.DeliveryStatus,
			EmailProviderMessageID: b.EmailProviderMessageID,
			MessagePreview:         domain.MessagePreview(b.Message),
		})
	}

	return entries, total, nil
}

func (s *BookingServiceImpl) psychologistName(ctx context.Context, id int64) (string, error) {
	p, err := s.psychologistRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return deletedPsychologistName, nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка получения психолога %d: %w", id, err)
	}
	return p.Name, nil
}
