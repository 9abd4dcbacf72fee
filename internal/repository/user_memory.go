package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mindconnect/internal/domain"
)

type UserMemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

func NewUserMemoryRepository() *UserMemoryRepo {
	return &UserMemoryRepo{
		nextID: 1,
		users:  make(map[int64]*domain.User),
	}
}

func (r *UserMemoryRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(dto.Email)
	for _, u := range r.users {
		if u.Email == email {
			return 0, fmt.Errorf("пользователь с email %s уже существует", email)
		}
	}

	now := time.Now().UTC()
	id := r.nextID
	r.nextID++

	var psychologistID *int64
	if dto.PsychologistID != nil {
		v := *dto.PsychologistID
		psychologistID = &v
	}

	r.users[id] = &domain.User{
		ID:             id,
		Email:          email,
		PasswordHash:   dto.Password,
		Role:           dto.Role,
		PsychologistID: psychologistID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return id, nil
}

func (r *UserMemoryRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserMemoryRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserMemoryRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserMemoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}
