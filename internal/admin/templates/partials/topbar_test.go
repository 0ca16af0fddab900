package partials

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/session"
)

func TestTopbarActionsRenderForOwner(t *testing.T) {
	t.Parallel()

	ctx := buildTopbarContext(t, "/admin", "Staging")
	ctx = middleware.ContextWithOwner(ctx, &session.User{
		UID:   "owner-1",
		Email: "aoi@example.com",
		Name:  "Aoi Takahashi",
	})

	doc := renderTopbar(t, ctx)

	badge := doc.Find("[data-environment-badge] span[aria-hidden='true']")
	require.Equal(t, 1, badge.Length(), "environment badge should render")
	require.Equal(t, "STG", strings.TrimSpace(badge.Text()), "staging environment should render STG badge")

	require.Equal(t, 1, doc.Find("[data-user-menu]").Length(), "user menu should render")

	summary := doc.Find("[data-user-menu] .truncate.text-sm")
	require.Equal(t, 1, summary.Length(), "owner summary should render")
	require.Equal(t, "Aoi Takahashi", strings.TrimSpace(summary.Text()))

	require.Equal(t, "/logout", doc.Find("[data-user-menu-logout]").AttrOr("action", ""), "logout form should post to logout route")
	require.Equal(t, 1, doc.Find("[data-user-menu-logout] input[name=\"_csrf\"]").Length(), "logout form should include CSRF field")
}

func TestTopbarHidesBadgeInProduction(t *testing.T) {
	t.Parallel()

	ctx := buildTopbarContext(t, "/admin", "production")
	ctx = middleware.ContextWithOwner(ctx, &session.User{
		UID:   "owner-1",
		Email: "aoi@example.com",
	})

	doc := renderTopbar(t, ctx)

	require.Equal(t, 0, doc.Find("[data-environment-badge]").Length(), "production must not show an environment badge")

	summary := doc.Find("[data-user-menu] .truncate.text-sm")
	require.Equal(t, 1, summary.Length(), "owner summary should render")
	require.Equal(t, "aoi@example.com", strings.TrimSpace(summary.Text()), "summary falls back to email without a display name")
}

func TestTopbarOmitsUserMenuWhenSignedOut(t *testing.T) {
	t.Parallel()

	ctx := buildTopbarContext(t, "/admin", "Development")

	doc := renderTopbar(t, ctx)

	require.Equal(t, 0, doc.Find("[data-user-menu]").Length(), "anonymous requests must not render a user menu")
	require.Equal(t, 0, doc.Find("[data-user-menu-logout]").Length())
	require.Equal(t, "Showfolio", strings.TrimSpace(doc.Find("header a").First().Text()), "brand link should still render")
}

func buildTopbarContext(t *testing.T, requestPath string, environment string) context.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, requestPath, nil)
	rec := httptest.NewRecorder()

	var ctx context.Context
	handler := middleware.RequestInfoMiddleware("/admin")(middleware.Environment(environment)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	})))
	handler.ServeHTTP(rec, req)

	require.NotNil(t, ctx, "middleware stack must provide context")
	return ctx
}

func renderTopbar(t *testing.T, ctx context.Context) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	err := TopbarActions().Render(ctx, &buf)
	require.NoError(t, err, "topbar must render without error")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}
