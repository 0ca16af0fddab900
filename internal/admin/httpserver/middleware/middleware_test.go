package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
)

func signedInCookie(t *testing.T, store *appsession.Manager) *http.Cookie {
	t.Helper()

	sess := store.New()
	sess.SetUser(&appsession.User{UID: "owner-1", Email: "aoi@example.com"})
	rec := httptest.NewRecorder()
	if err := store.Save(rec, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie")
	}
	return cookie
}

func TestRequireOwnerMiddleware(t *testing.T) {
	clock := &sessionTestClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := newSessionStoreForTest(t, clock)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromContext(r.Context())
		if !ok || owner.UID != "owner-1" {
			t.Fatalf("expected owner in context, got %+v", owner)
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := HTMX()(Session(store)(RequireOwner("/login")(inner)))

	t.Run("anonymous browser redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if location := rr.Header().Get("Location"); location != "/login" {
			t.Fatalf("expected redirect to /login, got %s", location)
		}
	})

	t.Run("anonymous htmx gets 401 with redirect header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		if rr.Header().Get("HX-Redirect") != "/login" {
			t.Fatalf("expected HX-Redirect header to /login")
		}
	})

	t.Run("signed-in session passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(signedInCookie(t, store))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("expired session redirects with reason", func(t *testing.T) {
		cookie := signedInCookie(t, store)
		clock.now = clock.now.Add(20 * time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		loc, err := url.Parse(rr.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse location: %v", err)
		}
		if loc.Path != "/login" || loc.Query().Get("reason") != "expired" {
			t.Fatalf("unexpected redirect target: %s", rr.Header().Get("Location"))
		}
	})

	t.Run("expired htmx session triggers refresh", func(t *testing.T) {
		cookie := signedInCookie(t, store)
		clock.now = clock.now.Add(20 * time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookie)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		if rr.Header().Get("HX-Refresh") != "true" {
			t.Fatalf("expected HX-Refresh header")
		}
	})
}

func TestCSRFMiddleware(t *testing.T) {
	clock := &sessionTestClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := newSessionStoreForTest(t, clock)

	chain := func(next http.Handler) http.Handler {
		return Session(store)(CSRF(CSRFConfig{})(next))
	}

	var issued string
	getHandler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issued = CSRFTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	getRec := httptest.NewRecorder()
	getHandler.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
	if issued == "" {
		t.Fatalf("expected csrf token in context")
	}
	cookie := findCookie(getRec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie carrying the token")
	}

	postHandler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects unsafe request without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		postHandler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("allows unsafe request with matching header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.AddCookie(cookie)
		req.Header.Set("X-CSRF-Token", issued)
		rr := httptest.NewRecorder()
		postHandler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("allows unsafe request with form field", func(t *testing.T) {
		form := url.Values{"_csrf": {issued}}
		req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		postHandler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("rejects mismatched token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.AddCookie(cookie)
		req.Header.Set("X-CSRF-Token", "forged")
		rr := httptest.NewRecorder()
		postHandler.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})
}

func TestHTMXMiddleware(t *testing.T) {
	base := HTMX()

	t.Run("detects htmx", func(t *testing.T) {
		handler := base(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				t.Fatalf("expected htmx request")
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/admin/repos", nil)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("RequireHTMX blocks non-htmx", func(t *testing.T) {
		handler := base(RequireHTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))
		req := httptest.NewRequest(http.MethodGet, "/admin/repos", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

func TestTrigger(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := Trigger(rr, "showfolio:toast", map[string]string{"kind": "success", "message": "done"}); err != nil {
		t.Fatalf("Trigger error: %v", err)
	}
	if err := Trigger(rr, "showfolio:refresh", struct{}{}); err != nil {
		t.Fatalf("Trigger error: %v", err)
	}

	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("unmarshal HX-Trigger: %v", err)
	}
	if _, ok := events["showfolio:toast"]; !ok {
		t.Fatalf("expected earlier toast event preserved, got %v", events)
	}
	if _, ok := events["showfolio:refresh"]; !ok {
		t.Fatalf("expected refresh event, got %v", events)
	}
}

func TestNoStoreMiddleware(t *testing.T) {
	handler := NoStore()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control: %s", got)
	}
	if got := rr.Header().Get("Pragma"); got != "no-cache" {
		t.Fatalf("unexpected Pragma: %s", got)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
