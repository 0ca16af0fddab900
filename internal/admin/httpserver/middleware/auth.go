package middleware

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"showfolio.dev/showfolio-admin/internal/admin/observability"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
)

type authContextKey string

const ownerContextKey authContextKey = "auth.owner"

const (
	// ReasonSessionMissing indicates a request without a signed-in session.
	ReasonSessionMissing = "session_missing"
	// ReasonSessionExpired indicates the previous session timed out.
	ReasonSessionExpired = "session_expired"
)

// RequireOwner gates a route group on a signed-in session. Browsers are
// redirected to the login form; htmx requests receive 401 with an HX-Redirect
// header so the client performs a full navigation instead of swapping the
// login page into a fragment target.
func RequireOwner(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok || !sess.Authenticated() {
				reason := ReasonSessionMissing
				if SessionExpired(r.Context()) {
					reason = ReasonSessionExpired
				}
				observability.FromContext(r.Context()).Info("sign-in required",
					zap.String("reason", reason),
				)
				handleUnauthorized(w, r, loginPath, reason)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithOwner(r.Context(), sess.User())))
		})
	}
}

// ContextWithOwner returns a context carrying the signed-in owner. Handlers
// receive this through RequireOwner; tests use it to render owner-aware
// components directly.
func ContextWithOwner(ctx context.Context, owner *appsession.User) context.Context {
	return context.WithValue(ctx, ownerContextKey, owner)
}

// OwnerFromContext retrieves the signed-in owner if present.
func OwnerFromContext(ctx context.Context) (*appsession.User, bool) {
	user, ok := ctx.Value(ownerContextKey).(*appsession.User)
	return user, ok && user != nil
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath, reason string) {
	if IsHTMXRequest(r.Context()) {
		if reason == ReasonSessionExpired {
			w.Header().Set("HX-Refresh", "true")
		} else {
			w.Header().Set("HX-Redirect", loginPath)
		}
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	redirectURL := loginPath
	if reason == ReasonSessionExpired {
		if u, err := url.Parse(loginPath); err == nil {
			q := u.Query()
			q.Set("reason", "expired")
			u.RawQuery = q.Encode()
			redirectURL = u.String()
		}
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}
