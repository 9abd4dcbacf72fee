package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/cache"
	"mindconnect/internal/directory"
	"mindconnect/internal/domain"
	"mindconnect/internal/metrics"
	"mindconnect/internal/repository"
)

type DirectoryServiceImpl struct {
	cache     *cache.Directory
	repo      repository.PsychologistRepository
	analytics tracker
	cfg       config.DirectoryConfig
	logger    *zap.Logger
}

func NewDirectoryService(cache *cache.Directory, repo repository.PsychologistRepository, analytics tracker, cfg config.DirectoryConfig, logger *zap.Logger) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		cache:     cache,
		repo:      repo,
		analytics: analytics,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *DirectoryServiceImpl) ListPublished(ctx context.Context) ([]domain.Psychologist, error) {
	records, err := s.cache.ListPublished(ctx)
	if err != nil {
		s.logger.Error("ошибка получения опубликованных профилей", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения каталога: %w", err)
	}
	return records, nil
}

func (s *DirectoryServiceImpl) Query(ctx context.Context, q directory.Query) (domain.DirectoryPage, error) {
	records, err := s.ListPublished(ctx)
	if err != nil {
		return domain.DirectoryPage{}, err
	}

	if q.PageSize <= 0 {
		q.PageSize = s.cfg.PageSize
	}
	q.Sort = domain.ParseSortKey(string(q.Sort))

	page := directory.Run(records, q)

	metrics.DirectoryQueriesTotal.WithLabelValues(string(q.Sort)).Inc()
	metrics.DirectoryMatches.Observe(float64(page.TotalMatches))

	if !q.Filters.IsEmpty() {
		trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
			Type: domain.EventFilterApplied,
			Page: "/psychologists",
			Properties: map[string]any{
				"filters": q.Filters,
				"sort":    string(q.Sort),
				"matches": page.TotalMatches,
			},
		})
	}
	if term := strings.TrimSpace(q.Filters.Search); term != "" {
		trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
			Type: domain.EventSearchPerformed,
			Page: "/psychologists",
			Properties: map[string]any{
				"query":   term,
				"results": page.TotalMatches,
			},
		})
	}

	return page, nil
}

func (s *DirectoryServiceImpl) Featured(ctx context.Context) ([]domain.Psychologist, error) {
	records, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.FeaturedLimit
	if limit <= 0 {
		limit = 8
	}

	featured := make([]domain.Psychologist, 0, limit)
	for _, p := range records {
		if !p.Featured {
			continue
		}
		featured = append(featured, p)
		if len(featured) == limit {
			break
		}
	}
	return featured, nil
}

func (s *DirectoryServiceImpl) Specializations(ctx context.Context) ([]string, error) {
	records, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, p := range records {
		values = append(values, p.Specializations...)
	}
	return distinct(values), nil
}

func (s *DirectoryServiceImpl) Languages(ctx context.Context) ([]string, error) {
	records, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	var values []string
	for _, p := range records {
		values = append(values, p.Languages...)
	}
	return distinct(values), nil
}

func (s *DirectoryServiceImpl) Locations(ctx context.Context) ([]string, error) {
	records, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(records))
	for _, p := range records {
		values = append(values, p.Location)
	}
	return distinct(values), nil
}

// GetBySlug returns a published profile and counts the view. Unpublished
// profiles are reported as not found.
func (s *DirectoryServiceImpl) GetBySlug(ctx context.Context, slug, sessionID, referrer string) (*domain.Psychologist, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения профиля %q: %w", slug, err)
	}
	if !p.IsPublished() {
		return nil, domain.ErrNotFound
	}

	if err := s.repo.IncrementViews(ctx, p.ID); err != nil {
		s.logger.Warn("не удалось увеличить счетчик просмотров", zap.Int64("id", p.ID), zap.Error(err))
	} else {
		p.Views30Days++
	}

	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           domain.EventProfileView,
		PsychologistID: int64Ptr(p.ID),
		SessionID:      sessionID,
		Page:           "/psychologists/" + p.Slug,
		Referrer:       referrer,
	})

	return p, nil
}

// distinct drops blanks and duplicates and sorts the rest.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
