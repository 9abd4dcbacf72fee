package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"mindconnect/internal/cache"
	"mindconnect/internal/domain"
	"mindconnect/internal/repository"
	"mindconnect/internal/storage"
	"mindconnect/pkg/validator"
)

const (
	defaultSlug    = "psychologist"
	headshotFolder = "headshots"

	acceptingNote    = "Accepting new clients."
	notAcceptingNote = "Not currently accepting new clients."
)

type PsychologistServiceImpl struct {
	repo      repository.PsychologistRepository
	directory *cache.Directory
	storage   storage.ImageStorage
	analytics tracker
	logger    *zap.Logger
}

func NewPsychologistService(repo repository.PsychologistRepository, directory *cache.Directory, storage storage.ImageStorage, analytics tracker, logger *zap.Logger) *PsychologistServiceImpl {
	return &PsychologistServiceImpl{
		repo:      repo,
		directory: directory,
		storage:   storage,
		analytics: analytics,
		logger:    logger,
	}
}

func (s *PsychologistServiceImpl) Create(ctx context.Context, dto domain.CreatePsychologistDTO) (*domain.Psychologist, error) {
	dto.Name = validator.SanitizeString(dto.Name)
	dto.Credentials = validator.SanitizeString(dto.Credentials)
	dto.About = validator.SanitizeString(dto.About)
	if err := validator.Struct(dto); err != nil {
		return nil, err
	}
	if dto.Status != "" && !dto.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	slug, err := s.uniqueSlug(ctx, dto.Name, 0)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, slug, dto)
	if err != nil {
		s.logger.Error("ошибка создания профиля психолога", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания профиля: %w", err)
	}

	s.logger.Info("создан профиль психолога", zap.Int64("id", id), zap.String("slug", slug))
	s.directory.Invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

func (s *PsychologistServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Psychologist, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профиля %d: %w", id, err)
	}
	return p, nil
}

func (s *PsychologistServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) (*domain.Psychologist, error) {
	if err := validator.Struct(dto); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Slug != nil {
		if *dto.Slug == current.Slug {
			dto.Slug = nil
		} else if err := s.checkSlug(ctx, current, *dto.Slug); err != nil {
			return nil, err
		}
	}
	if dto.Name != nil {
		name := validator.SanitizeString(*dto.Name)
		dto.Name = &name
	}
	if dto.About != nil {
		about := validator.SanitizeString(*dto.About)
		dto.About = &about
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления профиля психолога", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления профиля: %w", err)
	}
	s.directory.Invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

// UpdateProfile is the portal flavour of Update: the owner edits their own
// profile and the edit is recorded as an analytics event.
func (s *PsychologistServiceImpl) UpdateProfile(ctx context.Context, id int64, dto domain.UpdatePsychologistDTO) (*domain.Psychologist, error) {
	p, err := s.Update(ctx, id, dto)
	if err != nil {
		return nil, err
	}

	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           domain.EventProfileUpdated,
		PsychologistID: int64Ptr(id),
		Page:           "/portal/profile",
	})
	return p, nil
}

func (s *PsychologistServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Psychologist, error) {
	parsed, err := domain.ParseProfileStatus(status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		s.logger.Error("ошибка изменения статуса профиля", zap.Int64("id", id), zap.String("status", string(parsed)), zap.Error(err))
		return nil, fmt.Errorf("ошибка изменения статуса: %w", err)
	}

	s.logger.Info("статус профиля изменен", zap.Int64("id", id), zap.String("status", string(parsed)))
	s.directory.Invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

func (s *PsychologistServiceImpl) SetFeatured(ctx context.Context, id int64, featured bool) (*domain.Psychologist, error) {
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return nil, fmt.Errorf("ошибка изменения признака рекомендуемого профиля: %w", err)
	}
	s.directory.Invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

// SetAccepting flips the accepting-new-clients flag and rewrites the
// availability note to match.
func (s *PsychologistServiceImpl) SetAccepting(ctx context.Context, id int64, accepting bool) (*domain.Psychologist, error) {
	note := notAcceptingNote
	if accepting {
		note = acceptingNote
	}

	if err := s.repo.SetAccepting(ctx, id, accepting, note); err != nil {
		return nil, fmt.Errorf("ошибка изменения приема клиентов: %w", err)
	}
	s.directory.Invalidate(ctx)

	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           domain.EventProfileUpdated,
		PsychologistID: int64Ptr(id),
		Page:           "/portal/settings",
		Properties:     map[string]any{"accepting_new_clients": accepting},
	})

	return s.repo.GetByID(ctx, id)
}

func (s *PsychologistServiceImpl) UploadHeadshot(ctx context.Context, id int64, data []byte, filename string) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageUnavailable
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.storage.UploadImage(ctx, data, filename, headshotFolder)
	if err != nil {
		s.logger.Error("ошибка загрузки фотографии", zap.Int64("id", id), zap.Error(err))
		return "", fmt.Errorf("ошибка загрузки фотографии: %w", err)
	}

	if err := s.repo.UpdateHeadshot(ctx, id, url); err != nil {
		if delErr := s.storage.DeleteImage(ctx, url); delErr != nil {
			s.logger.Warn("не удалось удалить загруженную фотографию", zap.String("url", url), zap.Error(delErr))
		}
		return "", fmt.Errorf("ошибка сохранения фотографии: %w", err)
	}

	if p.HeadshotURL != "" {
		if err := s.storage.DeleteImage(ctx, p.HeadshotURL); err != nil {
			s.logger.Warn("не удалось удалить старую фотографию", zap.String("url", p.HeadshotURL), zap.Error(err))
		}
	}
	s.directory.Invalidate(ctx)

	return url, nil
}

func (s *PsychologistServiceImpl) Delete(ctx context.Context, id int64) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления профиля", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления профиля: %w", err)
	}

	if s.storage != nil && p.HeadshotURL != "" {
		if err := s.storage.DeleteImage(ctx, p.HeadshotURL); err != nil {
			s.logger.Warn("не удалось удалить фотографию профиля", zap.String("url", p.HeadshotURL), zap.Error(err))
		}
	}

	s.logger.Info("профиль психолога удален", zap.Int64("id", id))
	s.directory.Invalidate(ctx)
	return nil
}

func (s *PsychologistServiceImpl) List(ctx context.Context, filter domain.AdminPsychologistFilter) ([]domain.Psychologist, int, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка профилей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка профилей: %w", err)
	}
	return items, total, nil
}

// checkSlug validates a requested slug change. The slug of a published
// profile is part of its public URL and is frozen.
func (s *PsychologistServiceImpl) checkSlug(ctx context.Context, current *domain.Psychologist, slug string) error {
	if current.IsPublished() {
		return domain.ErrSlugImmutable
	}
	if !validator.ValidateSlug(slug) {
		return fmt.Errorf("%w: адрес профиля %q", domain.ErrInvalidInput, slug)
	}

	taken, err := s.repo.SlugExists(ctx, slug, current.ID)
	if err != nil {
		return fmt.Errorf("ошибка проверки адреса профиля: %w", err)
	}
	if taken {
		return domain.ErrSlugTaken
	}
	return nil
}

// uniqueSlug derives a slug from name and appends -2, -3, ... until it is free.
func (s *PsychologistServiceImpl) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	base := validator.Slugify(name)
	if base == "" {
		base = defaultSlug
	}

	slug := base
	for n := 2; ; n++ {
		taken, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("ошибка проверки адреса профиля: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}
