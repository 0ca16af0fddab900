package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/observability"
	"showfolio.dev/showfolio-admin/internal/admin/pagination"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	"showfolio.dev/showfolio-admin/internal/admin/showcase"
	"showfolio.dev/showfolio-admin/internal/admin/templates/partials"
	showcasetpl "showfolio.dev/showfolio-admin/internal/admin/templates/showcase"
)

// ShowcasePage renders the repository selection screen with SSR.
func (h *Handlers) ShowcasePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	basePath := custommw.BasePathFromContext(ctx)

	// Profile first, then the list. Either load may fail on its own
	// without taking the page down.
	profile, err := h.repos.Profile(ctx)
	profileMsg := ""
	if err != nil {
		logger.Error("showcase: load owner profile", zap.Error(err))
		profileMsg = "プロフィールを取得できませんでした。"
	}

	grid, _ := h.buildGrid(r, basePath)

	entries, ready := h.snapshot()
	active := showcasetpl.ActivePayload(basePath, entries, ready, h.pollEvery)

	page := showcasetpl.BuildPageData(
		showcasetpl.ProfilePayload(profile, profileMsg),
		grid,
		active,
	)

	layout := partials.LayoutData{
		Title:     page.Title,
		CSRFToken: custommw.CSRFTokenFromContext(ctx),
		Flash:     popFlash(r),
	}
	templ.Handler(partials.Layout(layout, showcasetpl.Index(page))).ServeHTTP(w, r)
}

// RepoGrid renders the repository grid fragment for htmx requests.
func (h *Handlers) RepoGrid(w http.ResponseWriter, r *http.Request) {
	basePath := custommw.BasePathFromContext(r.Context())

	grid, pager := h.buildGrid(r, basePath)

	if canonical := canonicalShowcaseURL(basePath, pager.Page); canonical != "" {
		w.Header().Set("HX-Push-Url", canonical)
	}

	templ.Handler(showcasetpl.Grid(grid)).ServeHTTP(w, r)
}

// ToggleRepo flips a repository in or out of the public landing page and
// responds with the updated card.
func (h *Handlers) ToggleRepo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	basePath := custommw.BasePathFromContext(ctx)

	if h.toggler == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.TrimSpace(name)

	outcome, repo, err := h.toggler.Toggle(ctx, name)
	if err != nil {
		h.toggleFailed(w, r, name, repo, err)
		return
	}

	message := "表示に追加しました"
	tone := "success"
	if outcome == showcase.OutcomeRemoved {
		message = "表示から外しました"
		tone = "info"
	}

	if custommw.IsHTMXRequest(ctx) {
		triggerToast(w, message, tone)
		card := showcasetpl.CardPayload(basePath, repo, outcome == showcase.OutcomeAdded)
		templ.Handler(showcasetpl.Card(card)).ServeHTTP(w, r)
		return
	}

	if sess, ok := custommw.SessionFromContext(ctx); ok {
		sess.SetFlash(tone, message)
	}
	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

// ActivePanel renders the live panel fragment backed by the mirror.
func (h *Handlers) ActivePanel(w http.ResponseWriter, r *http.Request) {
	basePath := custommw.BasePathFromContext(r.Context())

	entries, ready := h.snapshot()
	payload := showcasetpl.ActivePayload(basePath, entries, ready, h.pollEvery)

	templ.Handler(showcasetpl.ActivePanel(payload)).ServeHTTP(w, r)
}

func (h *Handlers) buildGrid(r *http.Request, basePath string) (showcasetpl.GridData, pagination.Pager) {
	ctx := r.Context()

	list, err := h.repos.List(ctx)
	errMsg := ""
	if err != nil {
		observability.FromContext(ctx).Error("showcase: load repository list", zap.Error(err))
		errMsg = "リポジトリ一覧を取得できませんでした。時間をおいて再度お試しください。"
		list = nil
	}

	page := parsePositiveIntDefault(r.URL.Query().Get("page"), 1)
	pager := pagination.New(len(list), h.pageSize, page)

	return showcasetpl.GridPayload(basePath, r.URL.RawQuery, list, h.isActive(), pager, errMsg), pager
}

func (h *Handlers) toggleFailed(w http.ResponseWriter, r *http.Request, name string, repo repos.Repo, err error) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	basePath := custommw.BasePathFromContext(ctx)

	if errors.Is(err, showcase.ErrUnknownRepo) {
		logger.Warn("toggle: unknown repository", zap.String("repo", name))
		if custommw.IsHTMXRequest(ctx) {
			triggerToast(w, "対象のリポジトリが見つかりませんでした。", "warning")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, basePath, http.StatusSeeOther)
		return
	}

	logger.Error("toggle: update active set", zap.String("repo", name), zap.Error(err))
	message := "更新に失敗しました。時間をおいて再度お試しください。"

	if custommw.IsHTMXRequest(ctx) {
		triggerToast(w, message, "danger")
		if repo.Name != "" {
			// Redraw the card in its current state so the button is usable again.
			card := showcasetpl.CardPayload(basePath, repo, h.currentlyActive(repo.Name))
			templ.Handler(showcasetpl.Card(card)).ServeHTTP(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if sess, ok := custommw.SessionFromContext(ctx); ok {
		sess.SetFlash("danger", message)
	}
	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

func (h *Handlers) isActive() func(string) bool {
	if h.mirror == nil {
		return nil
	}
	entries, ready := h.mirror.Snapshot()
	if !ready {
		return nil
	}
	names := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		names[entry.Name] = struct{}{}
	}
	return func(name string) bool {
		_, ok := names[name]
		return ok
	}
}

func (h *Handlers) currentlyActive(name string) bool {
	if h.mirror == nil {
		return false
	}
	active, ready := h.mirror.Contains(name)
	return ready && active
}

func (h *Handlers) snapshot() ([]showcase.Entry, bool) {
	if h.mirror == nil {
		return nil, false
	}
	return h.mirror.Snapshot()
}

func canonicalShowcaseURL(basePath string, page int) string {
	base := strings.TrimSpace(basePath)
	if base == "" {
		base = "/admin"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if len(base) > 1 {
		base = strings.TrimRight(base, "/")
	}

	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if encoded := values.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}
