package repository

import (
	"context"
	"maps"
	"sync"

	"mindconnect/internal/domain"
)

type ContentMemoryRepo struct {
	mu      sync.RWMutex
	content domain.SiteContent
}

func NewContentMemoryRepository() *ContentMemoryRepo {
	return &ContentMemoryRepo{content: domain.DefaultSiteContent()}
}

func (r *ContentMemoryRepo) Get(ctx context.Context) (domain.SiteContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneContent(r.content), nil
}

// Put replaces the blocks of every page present in content; other pages stay.
func (r *ContentMemoryRepo) Put(ctx context.Context, content domain.SiteContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for page, blocks := range content {
		r.content[page] = maps.Clone(blocks)
	}
	return nil
}

func cloneContent(c domain.SiteContent) domain.SiteContent {
	out := make(domain.SiteContent, len(c))
	for page, blocks := range c {
		out[page] = maps.Clone(blocks)
	}
	return out
}
