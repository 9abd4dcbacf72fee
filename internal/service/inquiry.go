package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/domain"
	"mindconnect/internal/mailer"
	"mindconnect/internal/repository"
	"mindconnect/pkg/validator"
)

type InquiryServiceImpl struct {
	repo    repository.InquiryRepository
	mailer  mailer.Mailer
	mailCfg config.MailConfig
	logger  *zap.Logger
}

func NewInquiryService(repo repository.InquiryRepository, mailer mailer.Mailer, mailCfg config.MailConfig, logger *zap.Logger) *InquiryServiceImpl {
	return &InquiryServiceImpl{
		repo:    repo,
		mailer:  mailer,
		mailCfg: mailCfg,
		logger:  logger,
	}
}

func (s *InquiryServiceImpl) Create(ctx context.Context, dto domain.CreateInquiryDTO) (*domain.Inquiry, error) {
	dto.Name = validator.SanitizeString(dto.Name)
	dto.Subject = validator.SanitizeString(dto.Subject)
	dto.Message = validator.SanitizeString(dto.Message)
	if err := validator.Struct(dto); err != nil {
		return nil, err
	}
	if dto.Type == "" {
		dto.Type = domain.InquiryTypeGeneral
	}

	inquiry := domain.Inquiry{
		Type:           dto.Type,
		Name:           dto.Name,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Subject:        dto.Subject,
		Message:        dto.Message,
		DeliveryStatus: domain.DeliveryStatusSent,
	}

	messageID, err := s.mailer.Send(ctx, mailer.InquiryNotification(s.mailCfg.From, s.mailCfg.Inbox, inquiry))
	if err != nil {
		s.logger.Error("ошибка отправки обращения", zap.String("type", string(dto.Type)), zap.Error(err))
		inquiry.DeliveryStatus = domain.DeliveryStatusFailed
	}
	inquiry.MessageID = messageID

	id, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		s.logger.Error("ошибка сохранения обращения", zap.Error(err))
		return nil, fmt.Errorf("ошибка сохранения обращения: %w", err)
	}
	inquiry.ID = id

	return &inquiry, nil
}

func (s *InquiryServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Inquiry, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка обращений", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка обращений: %w", err)
	}
	return items, total, nil
}
