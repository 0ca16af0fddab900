package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"showfolio.dev/showfolio-admin/internal/admin/observability"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
)

type sessionContextKey string

const requestSessionKey sessionContextKey = "admin.session"

type sessionExpiredKey struct{}

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*appsession.Session, error)
	New() *appsession.Session
	Save(http.ResponseWriter, *appsession.Session) error
	Destroy(http.ResponseWriter)
}

// Session attaches the decoded session to the request context and persists it
// back to the client. The cookie is committed right before the first response
// byte, so handlers may mutate the session at any point before writing.
func Session(store SessionStore) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expired := false
			sess, err := store.Load(r)
			if errors.Is(err, appsession.ErrExpired) {
				expired = true
				sess = store.New()
			} else if err != nil || sess == nil {
				if err != nil {
					observability.FromContext(r.Context()).Warn("session load failed", zap.Error(err))
				}
				sess = store.New()
			}

			ctx := context.WithValue(r.Context(), requestSessionKey, sess)
			if expired {
				ctx = context.WithValue(ctx, sessionExpiredKey{}, true)
			}

			sw := &sessionWriter{
				ResponseWriter: w,
				store:          store,
				sess:           sess,
				logger:         observability.FromContext(ctx),
			}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.persist()
		})
	}
}

// SessionFromContext retrieves the session attached to this request.
func SessionFromContext(ctx context.Context) (*appsession.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(requestSessionKey).(*appsession.Session)
	return sess, ok && sess != nil
}

// SessionExpired reports whether the incoming request carried an expired
// session cookie that was replaced with a fresh one.
func SessionExpired(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	expired, ok := ctx.Value(sessionExpiredKey{}).(bool)
	return ok && expired
}

// sessionWriter commits the session cookie ahead of the first header or body
// write. Set-Cookie has no effect once the response has started.
type sessionWriter struct {
	http.ResponseWriter
	store  SessionStore
	sess   *appsession.Session
	logger *zap.Logger
	saved  bool
}

func (w *sessionWriter) WriteHeader(code int) {
	w.persist()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.persist()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *sessionWriter) persist() {
	if w.saved {
		return
	}
	w.saved = true
	if err := w.store.Save(w.ResponseWriter, w.sess); err != nil {
		w.logger.Error("session save failed", zap.Error(err))
	}
}
