package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

const defaultVerifyTimeout = 5 * time.Second

// VerifierConfig carries the Firebase Admin SDK settings.
type VerifierConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FirebaseVerifier validates ID tokens and revokes refresh tokens through
// the Firebase Admin SDK.
type FirebaseVerifier struct {
	client  *firebaseauth.Client
	timeout time.Duration
}

// FirebaseOption customises FirebaseVerifier instances.
type FirebaseOption func(*FirebaseVerifier)

// WithVerifyTimeout overrides the timeout used for Admin SDK calls.
func WithVerifyTimeout(d time.Duration) FirebaseOption {
	return func(v *FirebaseVerifier) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewFirebaseVerifier constructs a verifier backed by the Admin SDK. The SDK
// honours FIREBASE_AUTH_EMULATOR_HOST, so emulator wiring happens through the
// environment rather than here.
func NewFirebaseVerifier(ctx context.Context, cfg VerifierConfig, opts ...FirebaseOption) (*FirebaseVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("identity: firebase project id is required")
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("identity: initialise firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: initialise firebase auth client: %w", err)
	}

	verifier := &FirebaseVerifier{
		client:  authClient,
		timeout: defaultVerifyTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(verifier)
		}
	}
	return verifier, nil
}

// Verify checks the ID token signature and expiry and resolves the account
// it was minted for.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Account, error) {
	if v == nil || v.client == nil {
		return nil, errors.New("identity: verifier not initialised")
	}

	ctx, cancel := v.contextWithTimeout(ctx)
	if cancel != nil {
		defer cancel()
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("identity: verify id token: %w", err)
	}
	return accountFromToken(token), nil
}

// Revoke invalidates every refresh token issued to the user.
func (v *FirebaseVerifier) Revoke(ctx context.Context, uid string) error {
	if v == nil || v.client == nil {
		return errors.New("identity: verifier not initialised")
	}
	if strings.TrimSpace(uid) == "" {
		return errors.New("identity: uid is required")
	}

	ctx, cancel := v.contextWithTimeout(ctx)
	if cancel != nil {
		defer cancel()
	}

	if err := v.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("identity: revoke refresh tokens: %w", err)
	}
	return nil
}

func (v *FirebaseVerifier) contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v == nil || v.timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, v.timeout)
}

func accountFromToken(token *firebaseauth.Token) *Account {
	account := &Account{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		account.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		account.Name = name
	}
	return account
}

var (
	_ TokenVerifier  = (*FirebaseVerifier)(nil)
	_ SessionRevoker = (*FirebaseVerifier)(nil)
)
