package repository

import (
	"context"
	"sync"
	"time"

	"mindconnect/internal/domain"
)

type ResetTokenMemoryRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.PasswordResetToken
}

func NewResetTokenMemoryRepository() *ResetTokenMemoryRepo {
	return &ResetTokenMemoryRepo{
		tokens: make(map[string]domain.PasswordResetToken),
	}
}

func (r *ResetTokenMemoryRepo) Create(ctx context.Context, token domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.TokenHash] = token
	return nil
}

func (r *ResetTokenMemoryRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.tokens, tokenHash)

	if !now.Before(token.ExpiresAt) {
		return nil, domain.ErrNotFound
	}
	return &token, nil
}

func (r *ResetTokenMemoryRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, hash)
		}
	}
	return nil
}
