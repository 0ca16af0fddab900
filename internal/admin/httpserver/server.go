package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	custommw "showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/httpserver/ui"
	"showfolio.dev/showfolio-admin/internal/admin/identity"
	"showfolio.dev/showfolio-admin/internal/admin/observability"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
	"showfolio.dev/showfolio-admin/internal/admin/showcase"
	"showfolio.dev/showfolio-admin/public"
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address     string
	BasePath    string
	LoginPath   string
	Environment string

	Logger *zap.Logger

	// Sessions falls back to an in-process manager with generated keys.
	// Fine for development, but every restart signs everyone out.
	Sessions *appsession.Manager

	Signer   identity.PasswordSigner
	Verifier identity.TokenVerifier
	Revoker  identity.SessionRevoker

	ReposService    repos.Service
	Toggler         *showcase.Toggler
	Mirror          *showcase.Mirror
	PageSize        int
	ActivePollEvery time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Signer == nil {
		return nil, errors.New("httpserver: password signer is required")
	}

	sessions := cfg.Sessions
	if sessions == nil {
		mgr, err := ephemeralSessionManager()
		if err != nil {
			return nil, err
		}
		sessions = mgr
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.Middleware(cfg.Logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static assets: %w", err)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	basePath := normalizeBasePath(cfg.BasePath)
	loginPath := resolveLoginPath(cfg.LoginPath)

	uiHandlers := ui.NewHandlers(ui.Dependencies{
		Repos:           cfg.ReposService,
		Toggler:         cfg.Toggler,
		Mirror:          cfg.Mirror,
		PageSize:        cfg.PageSize,
		ActivePollEvery: cfg.ActivePollEvery,
	})
	auth := newAuthHandlers(cfg.Signer, cfg.Verifier, cfg.Revoker, basePath, loginPath)

	mountRoutes(router, basePath, routeOptions{
		LoginPath:   loginPath,
		Environment: cfg.Environment,
		Sessions:    sessions,
		Auth:        auth,
		UI:          uiHandlers,
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

type routeOptions struct {
	LoginPath   string
	Environment string
	Sessions    custommw.SessionStore
	Auth        *authHandlers
	UI          *ui.Handlers
}

func mountRoutes(router chi.Router, basePath string, opts routeOptions) {
	router.Group(func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.Environment(opts.Environment))
		r.Use(custommw.RequestInfoMiddleware(basePath))
		r.Use(custommw.NoStore())
		r.Use(custommw.Session(opts.Sessions))
		r.Use(custommw.CSRF(custommw.CSRFConfig{}))

		r.Get(opts.LoginPath, opts.Auth.LoginForm)
		r.Post(opts.LoginPath, opts.Auth.LoginSubmit)
		r.Post("/logout", opts.Auth.Logout)

		r.Group(func(pr chi.Router) {
			pr.Use(custommw.RequireOwner(opts.LoginPath))

			pr.Get(basePath, opts.UI.ShowcasePage)
			RegisterFragment(pr, routePath(basePath, "/repos"), opts.UI.RepoGrid)
			RegisterFragment(pr, routePath(basePath, "/active"), opts.UI.ActivePanel)
			pr.Post(routePath(basePath, "/repos/{name}/toggle"), opts.UI.ToggleRepo)
		})
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if basePath != "/" {
		router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath, http.StatusFound)
		})
	}
}

// ephemeralSessionManager backs sessions with freshly generated keys when no
// manager was configured.
func ephemeralSessionManager() (*appsession.Manager, error) {
	hashKey := securecookie.GenerateRandomKey(64)
	blockKey := securecookie.GenerateRandomKey(32)
	if hashKey == nil || blockKey == nil {
		return nil, errors.New("httpserver: secure random source unavailable for session keys")
	}
	return appsession.NewManager(appsession.Config{
		HashKey:  hashKey,
		BlockKey: blockKey,
	})
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func resolveLoginPath(override string) string {
	p := strings.TrimSpace(override)
	if p == "" {
		return "/login"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func routePath(base, suffix string) string {
	if base == "/" {
		return suffix
	}
	return base + suffix
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}
