package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

type ContentRepo struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{
		db: db,
	}
}

// Get falls back to the default blocks for pages that were never saved.
func (r *ContentRepo) Get(ctx context.Context) (domain.SiteContent, error) {
	rows, err := r.db.Query(ctx, `SELECT page, blocks FROM site_content`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения контента: %w", err)
	}
	defer rows.Close()

	content := domain.DefaultSiteContent()
	for rows.Next() {
		var page string
		var blocks map[string]any
		if err := rows.Scan(&page, &blocks); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		content[page] = blocks
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return content, nil
}

func (r *ContentRepo) Put(ctx context.Context, content domain.SiteContent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO site_content (page, blocks, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (page) DO UPDATE SET blocks = EXCLUDED.blocks, updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	for page, blocks := range content {
		if _, err := tx.Exec(ctx, query, page, blocks, now); err != nil {
			return fmt.Errorf("ошибка сохранения контента страницы %s: %w", page, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}
