package domain

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Identity is what a verified access token carries.
type Identity struct {
	UserID         int64
	Role           UserRole
	PsychologistID *int64
}

// PasswordResetToken is stored by hash; the plain token only travels by mail.
type PasswordResetToken struct {
	TokenHash string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
