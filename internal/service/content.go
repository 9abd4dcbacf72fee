package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mindconnect/internal/domain"
	"mindconnect/internal/repository"
)

type ContentServiceImpl struct {
	repo   repository.ContentRepository
	logger *zap.Logger
}

func NewContentService(repo repository.ContentRepository, logger *zap.Logger) *ContentServiceImpl {
	return &ContentServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ContentServiceImpl) Get(ctx context.Context) (domain.SiteContent, error) {
	content, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("ошибка получения контента сайта", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения контента: %w", err)
	}
	return content, nil
}

// Update replaces the pages present in content and keeps the others.
func (s *ContentServiceImpl) Update(ctx context.Context, content domain.SiteContent) (domain.SiteContent, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: пустой контент", domain.ErrInvalidInput)
	}
	for page, blocks := range content {
		if page == "" || blocks == nil {
			return nil, fmt.Errorf("%w: страница %q без блоков", domain.ErrInvalidInput, page)
		}
	}

	if err := s.repo.Put(ctx, content); err != nil {
		s.logger.Error("ошибка сохранения контента сайта", zap.Error(err))
		return nil, fmt.Errorf("ошибка сохранения контента: %w", err)
	}

	s.logger.Info("контент сайта обновлен", zap.Int("pages", len(content)))
	return s.Get(ctx)
}
