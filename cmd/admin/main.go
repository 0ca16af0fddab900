package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"showfolio.dev/showfolio-admin/internal/admin/config"
	"showfolio.dev/showfolio-admin/internal/admin/httpserver"
	"showfolio.dev/showfolio-admin/internal/admin/identity"
	"showfolio.dev/showfolio-admin/internal/admin/observability"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
	"showfolio.dev/showfolio-admin/internal/admin/showcase"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("admin server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	signer, err := buildSigner(cfg, logger)
	if err != nil {
		return err
	}
	verifier, revoker := buildVerifier(ctx, cfg, logger)

	reposService, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		return err
	}

	provider := showcase.NewProvider(showcase.ProviderConfig{
		ProjectID:    cfg.Firestore.ProjectID,
		EmulatorHost: cfg.Firestore.EmulatorHost,
	})
	store, err := showcase.NewFirestoreStore(provider, cfg.Firestore.Collection)
	if err != nil {
		return fmt.Errorf("firestore store: %w", err)
	}

	mirror := showcase.NewMirror(store, logger)
	toggler, err := showcase.NewToggler(reposService, store, mirror, logger)
	if err != nil {
		return fmt.Errorf("toggler: %w", err)
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := mirror.Run(watchCtx); err != nil {
			logger.Error("active-set mirror stopped", zap.Error(err))
		}
	}()

	sessions, err := buildSessions(cfg)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:         listenAddress(cfg.Server.Port),
		BasePath:        cfg.Server.BasePath,
		Environment:     cfg.Server.Environment,
		Logger:          logger,
		Sessions:        sessions,
		Signer:          signer,
		Verifier:        verifier,
		Revoker:         revoker,
		ReposService:    reposService,
		Toggler:         toggler,
		Mirror:          mirror,
		PageSize:        cfg.Showcase.PageSize,
		ActivePollEvery: cfg.Showcase.PollInterval,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	srv.ReadTimeout = cfg.Server.ReadTimeout
	srv.WriteTimeout = cfg.Server.WriteTimeout
	srv.IdleTimeout = cfg.Server.IdleTimeout
	srv.ErrorLog = zap.NewStdLog(logger.Named("http"))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin server listening",
			zap.String("addr", srv.Addr),
			zap.String("basePath", cfg.Server.BasePath),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	cancelWatch()
	if err := provider.Close(shutdownCtx); err != nil {
		logger.Warn("close firestore provider", zap.Error(err))
	}
	return nil
}

// buildSigner wires password sign-in against Firebase Authentication. Without
// a web API key, non-production environments fall back to a fixed-password
// signer so the panel stays usable against emulators.
func buildSigner(cfg config.Config, logger *zap.Logger) (identity.PasswordSigner, error) {
	if cfg.Firebase.WebAPIKey != "" {
		client, err := identity.NewClient(identity.ClientConfig{
			WebAPIKey:    cfg.Firebase.WebAPIKey,
			EmulatorHost: cfg.Firebase.AuthEmulatorHost,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("identity client: %w", err)
		}
		return client, nil
	}

	if cfg.Server.Environment == "production" {
		return nil, errors.New("ADMIN_FIREBASE_WEB_API_KEY is required in production")
	}

	logger.Warn("no Firebase web API key configured; accepting the development password",
		zap.String("environment", cfg.Server.Environment),
	)
	return identity.NewStaticSigner("showfolio"), nil
}

// buildVerifier initialises the Admin SDK token verifier. Failures degrade to
// skipping post-login verification rather than blocking startup.
func buildVerifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (identity.TokenVerifier, identity.SessionRevoker) {
	if host := strings.TrimSpace(cfg.Firebase.AuthEmulatorHost); host != "" {
		if os.Getenv("FIREBASE_AUTH_EMULATOR_HOST") == "" {
			_ = os.Setenv("FIREBASE_AUTH_EMULATOR_HOST", host)
		}
	}

	verifier, err := identity.NewFirebaseVerifier(ctx, identity.VerifierConfig{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		logger.Warn("firebase verifier unavailable; issued tokens will not be re-verified", zap.Error(err))
		return nil, nil
	}
	return verifier, verifier
}

func buildRepos(ctx context.Context, cfg config.Config, logger *zap.Logger) (repos.Service, error) {
	if cfg.GitHub.Token == "" {
		logger.Warn("no GitHub token configured; serving the sample repository catalogue")
		return repos.NewStaticService(), nil
	}

	service, err := repos.NewGitHubService(ctx, repos.GitHubConfig{
		Token:    cfg.GitHub.Token,
		BaseURL:  cfg.GitHub.BaseURL,
		PageSize: cfg.GitHub.PageSize,
		CacheTTL: cfg.GitHub.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("github service: %w", err)
	}
	return service, nil
}

func buildSessions(cfg config.Config) (*appsession.Manager, error) {
	var blockKey []byte
	if cfg.Session.BlockKey != "" {
		blockKey = []byte(cfg.Session.BlockKey)
		switch len(blockKey) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("ADMIN_SESSION_BLOCK_KEY must be 16, 24 or 32 bytes, got %d", len(blockKey))
		}
	}

	manager, err := appsession.NewManager(appsession.Config{
		CookieName:   cfg.Session.CookieName,
		HashKey:      []byte(cfg.Session.HashKey),
		BlockKey:     blockKey,
		CookieSecure: cfg.Session.Secure,
		Lifetime:     cfg.Session.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	return manager, nil
}

func listenAddress(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
