package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned for any credential mismatch. Callers
// must not distinguish a wrong email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks administrator credentials. The verifier is
// injected into the auth service so the rest of the system never depends on
// where credentials live.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

// StaticVerifier verifies against a single environment-configured email and
// bcrypt hash pair.
type StaticVerifier struct {
	email        string
	passwordHash string
}

// NewStaticVerifier builds a verifier for the configured admin credential.
func NewStaticVerifier(email, passwordHash string) *StaticVerifier {
	return &StaticVerifier{email: email, passwordHash: passwordHash}
}

// Verify compares the supplied pair against the configured credential.
func (v *StaticVerifier) Verify(_ context.Context, email, password string) error {
	if v.email == "" || v.passwordHash == "" {
		return ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), v.email) {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(v.passwordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
