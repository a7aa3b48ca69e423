package service

import (
	"context"
	"time"

	"github.com/magicplay247/agent-panel/internal/auth"
	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/observability"
	"github.com/magicplay247/agent-panel/internal/repository"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// AuthService coordinates administrator login and logout. Credential
// verification is delegated to the injected verifier; nothing below this
// layer knows how credentials are stored.
type AuthService struct {
	verifier auth.CredentialVerifier
	tokenMgr *auth.TokenManager
	revoked  repository.RevocationStore
}

// NewAuthService builds the service.
func NewAuthService(verifier auth.CredentialVerifier, tokenMgr *auth.TokenManager, revoked repository.RevocationStore) *AuthService {
	return &AuthService{verifier: verifier, tokenMgr: tokenMgr, revoked: revoked}
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	if err := s.verifier.Verify(ctx, email, password); err != nil {
		observability.RecordAuthAttempt("failure")
		return "", nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, session, err := s.tokenMgr.GenerateToken(email)
	if err != nil {
		observability.RecordAuthAttempt("error")
		return "", nil, apperrors.MapError(err)
	}
	observability.RecordAuthAttempt("success")
	return token, session, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil || tokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
