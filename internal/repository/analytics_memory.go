package repository

import (
	"context"
	"maps"
	"slices"
	"sync"

	"mindconnect/internal/domain"
)

type AnalyticsMemoryRepo struct {
	mu     sync.RWMutex
	events []domain.AnalyticsEvent
}

func NewAnalyticsMemoryRepository() *AnalyticsMemoryRepo {
	return &AnalyticsMemoryRepo{}
}

func (r *AnalyticsMemoryRepo) Save(ctx context.Context, event domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.Properties = maps.Clone(event.Properties)
	r.events = append(r.events, event)
	return nil
}

// List returns matching events in the order they were recorded.
func (r *AnalyticsMemoryRepo) List(ctx context.Context, filter domain.EventFilter) ([]domain.AnalyticsEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.AnalyticsEvent, 0)
	for _, e := range r.events {
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, e.Type) {
			continue
		}
		if filter.PsychologistID != nil && (e.PsychologistID == nil || *e.PsychologistID != *filter.PsychologistID) {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !e.CreatedAt.Before(*filter.Until) {
			continue
		}
		e.Properties = maps.Clone(e.Properties)
		out = append(out, e)
	}
	return out, nil
}
