package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mindconnect/internal/domain"
)

type ResetTokenRepo struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepo {
	return &ResetTokenRepo{
		db: db,
	}
}

func (r *ResetTokenRepo) Create(ctx context.Context, token domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения кода сброса: %w", err)
	}

	return nil
}

func (r *ResetTokenRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1
		RETURNING token_hash, user_id, expires_at, created_at
	`

	var token domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&token.TokenHash,
		&token.UserID,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения кода сброса: %w", err)
	}

	if !now.Before(token.ExpiresAt) {
		return nil, domain.ErrNotFound
	}

	return &token, nil
}

func (r *ResetTokenRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления кодов сброса пользователя: %w", err)
	}

	return nil
}
