package testutil

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"showfolio.dev/showfolio-admin/internal/admin/httpserver"
	"showfolio.dev/showfolio-admin/internal/admin/identity"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
	"showfolio.dev/showfolio-admin/internal/admin/showcase"
)

type serverOptions struct {
	cfg   httpserver.Config
	store showcase.Store
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverOptions)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.BasePath = path
	}
}

// WithEnvironment overrides the environment label shown in the topbar.
func WithEnvironment(env string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Environment = env
	}
}

// WithSigner overrides the password signer used for login.
func WithSigner(signer identity.PasswordSigner) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Signer = signer
	}
}

// WithVerifier wires a token verifier for post-login account resolution.
func WithVerifier(verifier identity.TokenVerifier) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Verifier = verifier
	}
}

// WithRevoker wires a session revoker invoked on logout.
func WithRevoker(revoker identity.SessionRevoker) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Revoker = revoker
	}
}

// WithReposService wires a custom repository catalogue implementation.
func WithReposService(service repos.Service) ServerOption {
	return func(o *serverOptions) {
		o.cfg.ReposService = service
	}
}

// WithShowcaseStore backs the toggler and mirror with the given store, so
// tests can seed entries and inspect writes.
func WithShowcaseStore(store showcase.Store) ServerOption {
	return func(o *serverOptions) {
		o.store = store
	}
}

// WithPageSize overrides the repository grid page size.
func WithPageSize(size int) ServerOption {
	return func(o *serverOptions) {
		o.cfg.PageSize = size
	}
}

// WithSessionManager overrides the cookie session manager.
func WithSessionManager(manager *appsession.Manager) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Sessions = manager
	}
}

// NewServer constructs an httptest server running the admin HTTP stack with
// static backends and deterministic session keys.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	o := serverOptions{
		cfg: httpserver.Config{
			Address:     ":0",
			BasePath:    "/admin",
			Environment: "development",
		},
		store: showcase.NewStaticStore(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.cfg.Sessions == nil {
		manager, err := appsession.NewManager(appsession.Config{
			HashKey:  bytes.Repeat([]byte{0x5a}, 32),
			BlockKey: bytes.Repeat([]byte{0x3c}, 32),
		})
		if err != nil {
			t.Fatalf("session manager: %v", err)
		}
		o.cfg.Sessions = manager
	}
	if o.cfg.Signer == nil {
		o.cfg.Signer = identity.NewStaticSigner("secret")
	}
	if o.cfg.ReposService == nil {
		o.cfg.ReposService = repos.NewStaticService()
	}

	if o.cfg.Toggler == nil {
		logger := zap.NewNop()
		mirror := showcase.NewMirror(o.store, logger)
		toggler, err := showcase.NewToggler(o.cfg.ReposService, o.store, mirror, logger)
		if err != nil {
			t.Fatalf("toggler: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		go func() { _ = mirror.Run(ctx) }()
		waitForMirror(t, mirror)

		o.cfg.Toggler = toggler
		o.cfg.Mirror = mirror
	}

	srv, err := httpserver.New(o.cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func waitForMirror(t testing.TB, mirror *showcase.Mirror) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ready := mirror.Snapshot(); ready {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("mirror did not deliver the initial snapshot")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
