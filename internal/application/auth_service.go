package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/kmabbott81/ai-hub-production/internal/domain"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/security"
)

type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       uint      `json:"user_id"`
}

type AuthService struct {
	users  domain.UserRepository
	hasher *security.BcryptHasher
	tokens *security.JWTService
	totp   *security.TOTPService
	logger *slog.Logger
}

func NewAuthService(
	users domain.UserRepository,
	hasher *security.BcryptHasher,
	tokens *security.JWTService,
	totp *security.TOTPService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		totp:   totp,
		logger: logger,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the password and, when the account has MFA enabled, a TOTP
// code. A missing code on an MFA account is ErrMFARequired so callers can
// prompt for it without leaking whether the password was right.
func (s *AuthService) Login(ctx context.Context, username, password, otpCode string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if otpCode == "" {
			return nil, domain.ErrMFARequired
		}
		if !s.totp.Validate(otpCode, user.MFASecret) {
			return nil, domain.ErrInvalidMFACode
		}
	}

	access, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		UserID:       user.ID,
	}, nil
}

// EnableMFA generates and stores a fresh secret for the user and switches
// the second factor on. Returns the secret and the otpauth URL to show as
// a QR code.
func (s *AuthService) EnableMFA(ctx context.Context, userID uint) (secret, url string, err error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	secret, url, err = s.totp.GenerateSecret(user.Username)
	if err != nil {
		return "", "", fmt.Errorf("generate totp secret: %w", err)
	}
	if err := s.users.SetMFA(ctx, userID, secret, true); err != nil {
		return "", "", err
	}
	s.logger.Info("mfa enabled", "user_id", userID)
	return secret, url, nil
}

// VerifyMFA checks a code against the user's stored secret.
func (s *AuthService) VerifyMFA(ctx context.Context, userID uint, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled || user.MFASecret == "" {
		return fmt.Errorf("%w: mfa not enabled", domain.ErrValidation)
	}
	if !s.totp.Validate(code, user.MFASecret) {
		return domain.ErrInvalidMFACode
	}
	return nil
}

// Authenticate resolves a bearer token to a user id. Every persistence and
// dispatch entry point is scoped by the id this returns.
func (s *AuthService) Authenticate(token string) (uint, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return claims.UserID, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, time.Time, error) {
	access, expiresAt, err := s.tokens.RefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	return access, expiresAt, nil
}
