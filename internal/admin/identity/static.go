package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// SignInCall records one SignInWithPassword invocation.
type SignInCall struct {
	Email    string
	Password string
}

// StaticSigner is an in-memory PasswordSigner for tests and for running the
// admin panel without a Firebase project. Every call is recorded.
type StaticSigner struct {
	// Password is accepted for any email when Accounts is empty.
	Password string
	// Accounts maps lowercase emails to their expected passwords.
	Accounts map[string]string
	// Err, when set, is returned by every call after recording it.
	Err error

	mu    sync.Mutex
	calls []SignInCall
}

// NewStaticSigner constructs a signer accepting the given password for any
// email.
func NewStaticSigner(password string) *StaticSigner {
	return &StaticSigner{Password: password}
}

// SignInWithPassword records the attempt and checks it against the
// configured accounts.
func (s *StaticSigner) SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error) {
	s.mu.Lock()
	s.calls = append(s.calls, SignInCall{Email: email, Password: password})
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	want := s.Password
	if len(s.Accounts) > 0 {
		stored, ok := s.Accounts[normalized]
		if !ok {
			return nil, ErrInvalidCredentials
		}
		want = stored
	}
	if want == "" || password != want {
		return nil, ErrInvalidCredentials
	}

	return &Credentials{
		UID:          "static:" + normalized,
		Email:        normalized,
		IDToken:      "static-id-token",
		RefreshToken: "static-refresh-token",
		ExpiresIn:    time.Hour,
	}, nil
}

// Calls returns a copy of the recorded sign-in attempts.
func (s *StaticSigner) Calls() []SignInCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SignInCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// StaticVerifier accepts any token and resolves it to a fixed account. It
// doubles as a SessionRevoker that records revoked UIDs.
type StaticVerifier struct {
	Account Account
	Err     error

	mu      sync.Mutex
	revoked []string
}

// Verify returns the configured account, or Err when set.
func (v *StaticVerifier) Verify(ctx context.Context, idToken string) (*Account, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	account := v.Account
	if account.UID == "" {
		account.UID = "static:owner"
	}
	return &account, nil
}

// Revoke records the UID and succeeds.
func (v *StaticVerifier) Revoke(ctx context.Context, uid string) error {
	v.mu.Lock()
	v.revoked = append(v.revoked, uid)
	v.mu.Unlock()
	if v.Err != nil {
		return v.Err
	}
	return nil
}

// Revoked returns a copy of the UIDs revoked so far.
func (v *StaticVerifier) Revoked() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.revoked))
	copy(out, v.revoked)
	return out
}

var (
	_ PasswordSigner = (*StaticSigner)(nil)
	_ TokenVerifier  = (*StaticVerifier)(nil)
	_ SessionRevoker = (*StaticVerifier)(nil)
)
