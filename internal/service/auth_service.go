package service

import (
	"context"
	"crypto/subtle"
	"time"

	"go.uber.org/zap"

	"github.com/triagem/triage-console/internal/auth"
	"github.com/triagem/triage-console/internal/config"
	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// AuthService logs the single configured operator in.
type AuthService struct {
	username     string
	passwordHash string
	tokens       *auth.TokenManager
	logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		username:     cfg.OperatorUsername,
		passwordHash: cfg.OperatorPasswordHash,
		tokens:       tokens,
		logger:       logger.Named("auth"),
	}
}

// Login checks the credentials and returns a signed token with its expiry.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("login disabled")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := auth.ComparePassword(s.passwordHash, password)
	if !userOK || passErr != nil {
		s.logger.Warn("operator login rejected", zap.String("username", username))
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokens.GenerateToken(s.username)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("operator logged in", zap.String("username", s.username))
	return token, exp, nil
}
