// Package cache keeps a short-lived Redis snapshot of the published directory
// in front of the repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

const publishedKey = "mindconnect:directory:published"

type Source interface {
	ListPublished(ctx context.Context) ([]domain.Psychologist, error)
}

// Directory serves ListPublished from Redis when it can and from the source
// otherwise. Any Redis failure degrades to a direct source read.
type Directory struct {
	rdb    redis.Cmdable
	source Source
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectory returns a pass-through cache when rdb is nil.
func NewDirectory(rdb redis.Cmdable, source Source, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{
		rdb:    rdb,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (d *Directory) ListPublished(ctx context.Context) ([]domain.Psychologist, error) {
	if d.rdb == nil {
		return d.source.ListPublished(ctx)
	}

	raw, err := d.rdb.Get(ctx, publishedKey).Bytes()
	switch {
	case err == nil:
		var records []domain.Psychologist
		decodeErr := json.Unmarshal(raw, &records)
		if decodeErr == nil {
			return records, nil
		}
		d.logger.Warn("поврежденный снимок каталога в кэше", zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
	default:
		d.logger.Warn("кэш каталога недоступен", zap.Error(err))
	}

	records, err := d.source.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := d.rdb.Set(ctx, publishedKey, data, d.ttl).Err(); err != nil {
			d.logger.Warn("не удалось сохранить каталог в кэш", zap.Error(err))
		}
	}

	return records, nil
}

// Invalidate drops the snapshot after a write to any published profile.
func (d *Directory) Invalidate(ctx context.Context) {
	if d.rdb == nil {
		return
	}
	if err := d.rdb.Del(ctx, publishedKey).Err(); err != nil {
		d.logger.Warn("не удалось сбросить кэш каталога", zap.Error(err))
	}
}
