package domain

import (
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	PsychologistID *int64    `json:"profile_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserRole string

const (
	UserRoleVisitor      UserRole = "visitor"
	UserRolePsychologist UserRole = "psychologist"
	UserRoleAdmin        UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleVisitor || r == UserRolePsychologist || r == UserRoleAdmin
}

type CreateUserDTO struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=4"`
	Role           UserRole `json:"role" binding:"required,oneof=visitor psychologist admin"`
	PsychologistID *int64   `json:"profile_id"`
}

type PasswordUpdateDTO struct {
	OldPassword string `json:"current_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
