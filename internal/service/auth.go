package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/domain"
	"mindconnect/internal/mailer"
	"mindconnect/internal/repository"
	"mindconnect/pkg/auth"
	"mindconnect/pkg/validator"
)

const (
	resetTokenBytes = 24
	resetTokenTTL   = time.Hour
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64           `json:"user_id"`
	Role      domain.UserRole `json:"role"`
	ProfileID *int64          `json:"profile_id,omitempty"`
}

type AuthServiceImpl struct {
	userRepo  repository.UserRepository
	resetRepo repository.ResetTokenRepository
	mailer    mailer.Mailer
	analytics tracker
	jwtConfig config.JWTConfig
	mailCfg   config.MailConfig
	logger    *zap.Logger
	now       clock
}

func NewAuthService(userRepo repository.UserRepository, resetRepo repository.ResetTokenRepository, mailer mailer.Mailer, analytics tracker, jwtConfig config.JWTConfig, mailCfg config.MailConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		analytics: analytics,
		jwtConfig: jwtConfig,
		mailCfg:   mailCfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(dto.Email))
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("попытка входа с неизвестным email", zap.String("email", dto.Email))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Error(err))
		return nil, fmt.Errorf("ошибка при аутентификации: %w", err)
	}

	ok, err := auth.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}
	if !ok || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("ошибка генерации токена", zap.Error(err))
		return nil, fmt.Errorf("ошибка при аутентификации: %w", err)
	}

	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           domain.EventLogin,
		PsychologistID: user.PsychologistID,
		Properties:     map[string]any{"role": string(user.Role)},
	})

	return &domain.AuthResult{Token: token, User: *user}, nil
}

// Logout only records the event. Access tokens expire on their own.
func (s *AuthServiceImpl) Logout(ctx context.Context, identity domain.Identity) error {
	trackQuietly(ctx, s.analytics, s.logger, domain.TrackEventDTO{
		Type:           domain.EventLogout,
		PsychologistID: identity.PsychologistID,
		Properties:     map[string]any{"role": string(identity.Role)},
	})
	return nil
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, accessToken string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{
		UserID:         claims.UserID,
		Role:           claims.Role,
		PsychologistID: claims.ProfileID,
	}, nil
}

// ForgotPassword returns nil for unknown addresses as well.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if !validator.ValidateEmail(email) {
		return fmt.Errorf("%w: email %q", domain.ErrInvalidInput, email)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	token, err := auth.GenerateRandomToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("ошибка генерации кода сброса: %w", err)
	}

	// A new request invalidates earlier codes.
	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("ошибка удаления старых кодов сброса: %w", err)
	}
	now := s.now().UTC()
	if err := s.resetRepo.Create(ctx, domain.PasswordResetToken{
		TokenHash: auth.HashToken(token),
		UserID:    user.ID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}); err != nil {
		s.logger.Error("ошибка сохранения кода сброса", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("ошибка сохранения кода сброса: %w", err)
	}

	if _, err := s.mailer.Send(ctx, mailer.PasswordReset(s.mailCfg.From, user.Email, token)); err != nil {
		s.logger.Error("ошибка отправки письма для сброса пароля", zap.Int64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}

	s.logger.Info("отправлен код сброса пароля", zap.Int64("user_id", user.ID))
	return nil
}

// ResetPassword sets a new password using a code from ForgotPassword. Each
// code works once.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, dto domain.ResetPasswordRequest) error {
	if err := validator.Struct(dto); err != nil {
		return err
	}

	token, err := s.resetRepo.Consume(ctx, auth.HashToken(dto.Token), s.now())
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("ошибка проверки кода сброса: %w", err)
	}

	if err := s.setPassword(ctx, token.UserID, dto.NewPassword); err != nil {
		return err
	}

	s.logger.Info("пароль сброшен по коду", zap.Int64("user_id", token.UserID))
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID int64, dto domain.PasswordUpdateDTO) error {
	if err := validator.Struct(dto); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ошибка получения пользователя %d: %w", userID, err)
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		return domain.ErrInvalidCredentials
	}

	if err := s.setPassword(ctx, userID, dto.NewPassword); err != nil {
		return err
	}

	s.logger.Info("пароль изменен", zap.Int64("user_id", userID))
	return nil
}

func (s *AuthServiceImpl) setPassword(ctx context.Context, userID int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return fmt.Errorf("ошибка смены пароля: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("ошибка сохранения пароля", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("ошибка смены пароля: %w", err)
	}
	return nil
}

func (s *AuthServiceImpl) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    user.ID,
		Role:      user.Role,
		ProfileID: user.PsychologistID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.SigningKey))
}
