// Package identity authenticates the portfolio owner against Firebase
// Authentication. Password sign-in goes through the Identity Toolkit REST
// API; issued ID tokens are verified and revoked through the Admin SDK.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	// ErrUserDisabled indicates the account exists but has been disabled.
	ErrUserDisabled = errors.New("identity: user account disabled")
	// ErrTooManyAttempts indicates the provider throttled sign-in attempts.
	ErrTooManyAttempts = errors.New("identity: too many sign-in attempts")
)

// Credentials carries the tokens issued after a successful password sign-in.
type Credentials struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// PasswordSigner exchanges an email/password pair for fresh credentials.
type PasswordSigner interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error)
}

// Account describes the verified owner behind an ID token.
type Account struct {
	UID   string
	Email string
	Name  string
}

// TokenVerifier validates an ID token and resolves the account it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Account, error)
}

// SessionRevoker invalidates every refresh token issued to a user.
type SessionRevoker interface {
	Revoke(ctx context.Context, uid string) error
}
