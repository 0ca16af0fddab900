package showcase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"showfolio.dev/showfolio-admin/internal/admin/pagination"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	adminshowcase "showfolio.dev/showfolio-admin/internal/admin/showcase"
)

func TestGridRendersCardsAndPager(t *testing.T) {
	t.Parallel()

	list := make([]repos.Repo, 0, 12)
	for i := 1; i <= 12; i++ {
		list = append(list, repos.Repo{
			Name:        fmt.Sprintf("repo-%02d", i),
			Description: "サンプルリポジトリ",
			URL:         fmt.Sprintf("https://github.com/aoi/repo-%02d", i),
			Topics:      []string{"go"},
		})
	}
	active := map[string]bool{"repo-03": true}

	pager := pagination.New(len(list), 9, 1)
	data := GridPayload("/admin", "page=1", list, func(name string) bool { return active[name] }, pager, "")

	doc := renderComponent(t, Grid(data))

	cards := doc.Find("[data-repo-card]")
	require.Equal(t, 9, cards.Length(), "first page should hold nine cards")

	activeCard := doc.Find(`[data-repo-card="repo-03"]`)
	require.Equal(t, 1, activeCard.Find("[data-active-badge]").Length(), "active repository should carry the badge")
	require.Equal(t, "表示から外す", strings.TrimSpace(activeCard.Find("[data-repo-toggle]").Text()))

	inactiveCard := doc.Find(`[data-repo-card="repo-01"]`)
	require.Equal(t, 0, inactiveCard.Find("[data-active-badge]").Length())
	toggle := inactiveCard.Find("[data-repo-toggle]")
	require.Equal(t, "表示に追加", strings.TrimSpace(toggle.Text()))
	require.Equal(t, "/admin/repos/repo-01/toggle", toggle.AttrOr("hx-post", ""), "toggle must post to the repository's own route")
	require.Equal(t, "closest article", toggle.AttrOr("hx-target", ""))
	require.Equal(t, "this", toggle.AttrOr("hx-disabled-elt", ""), "toggle must disable itself while the write is in flight")

	prev := doc.Find("[data-pager-prev]")
	_, disabled := prev.Attr("disabled")
	require.True(t, disabled, "first page must not offer a previous page")

	next := doc.Find("[data-pager-next]")
	require.Equal(t, "/admin/repos?page=2", next.AttrOr("hx-get", ""))
	require.Equal(t, "#repo-grid", next.AttrOr("hx-target", ""))

	require.Equal(t, "1 / 2 ページ（全12件）", strings.TrimSpace(doc.Find("[data-pager-status]").Text()))
}

func TestGridClampsLastPage(t *testing.T) {
	t.Parallel()

	list := make([]repos.Repo, 0, 12)
	for i := 1; i <= 12; i++ {
		list = append(list, repos.Repo{Name: fmt.Sprintf("repo-%02d", i)})
	}

	pager := pagination.New(len(list), 9, 99)
	data := GridPayload("/admin", "page=99", list, nil, pager, "")

	doc := renderComponent(t, Grid(data))

	require.Equal(t, 3, doc.Find("[data-repo-card]").Length(), "last page holds the remainder")
	require.Equal(t, "/admin/repos?page=1", doc.Find("[data-pager-prev]").AttrOr("hx-get", ""))

	_, disabled := doc.Find("[data-pager-next]").Attr("disabled")
	require.True(t, disabled, "last page must not offer a following page")
}

func TestGridEscapesToggleRoute(t *testing.T) {
	t.Parallel()

	list := []repos.Repo{{Name: "my repo"}}
	data := GridPayload("/admin", "", list, nil, pagination.New(1, 9, 1), "")

	doc := renderComponent(t, Grid(data))

	toggle := doc.Find("[data-repo-toggle]")
	require.Equal(t, "/admin/repos/my%20repo/toggle", toggle.AttrOr("hx-post", ""), "repository names must be path escaped")
}

func TestGridEmptyState(t *testing.T) {
	t.Parallel()

	data := GridPayload("/admin", "", nil, nil, pagination.New(0, 9, 1), "")

	doc := renderComponent(t, Grid(data))

	require.Equal(t, 0, doc.Find("[data-repo-card]").Length())
	require.Equal(t, 1, doc.Find("[data-grid-empty]").Length(), "empty list should show the placeholder")
	require.Equal(t, "0 件", strings.TrimSpace(doc.Find("[data-pager-status]").Text()))

	_, prevDisabled := doc.Find("[data-pager-prev]").Attr("disabled")
	_, nextDisabled := doc.Find("[data-pager-next]").Attr("disabled")
	require.True(t, prevDisabled, "empty list disables the pager")
	require.True(t, nextDisabled, "empty list disables the pager")
}

func TestGridShowsLoadError(t *testing.T) {
	t.Parallel()

	data := GridPayload("/admin", "", nil, nil, pagination.New(0, 9, 1), "リポジトリ一覧を取得できませんでした")

	doc := renderComponent(t, Grid(data))

	banner := doc.Find("[data-grid-error]")
	require.Equal(t, 1, banner.Length(), "load failure should surface a banner")
	require.Contains(t, banner.Text(), "取得できませんでした")
	require.Equal(t, 0, doc.Find("[data-grid-empty]").Length(), "error state suppresses the empty placeholder")
}

func TestActivePanelStates(t *testing.T) {
	t.Parallel()

	entries := []adminshowcase.Entry{
		{Name: "repo-01", URL: "https://github.com/aoi/repo-01", UpdatedAt: time.Now().Add(-2 * time.Minute)},
		{Name: "repo-09", URL: "https://github.com/aoi/repo-09"},
	}

	doc := renderComponent(t, ActivePanel(ActivePayload("/admin", entries, true, 5*time.Second)))

	panel := doc.Find("[data-active-panel]")
	require.Equal(t, "/admin/active", panel.AttrOr("hx-get", ""), "panel should poll its own fragment route")
	require.Equal(t, "every 5s", panel.AttrOr("hx-trigger", ""))
	require.Equal(t, "2件", strings.TrimSpace(doc.Find("[data-active-count]").Text()))
	require.Equal(t, 2, doc.Find("[data-active-entry]").Length())
	require.Equal(t, "repo-01", strings.TrimSpace(doc.Find(`[data-active-entry="repo-01"] a`).Text()))

	empty := renderComponent(t, ActivePanel(ActivePayload("/admin", nil, true, 0)))
	require.Equal(t, 1, empty.Find("[data-active-empty]").Length(), "ready but empty set shows the empty line")
	require.Equal(t, "", empty.Find("[data-active-panel]").AttrOr("hx-trigger", ""), "polling off without an interval")

	pending := renderComponent(t, ActivePanel(ActivePayload("/admin", nil, false, 5*time.Second)))
	require.Equal(t, 1, pending.Find("[data-active-pending]").Length(), "mirror not ready shows the sync line")
}

func TestIndexComposesSections(t *testing.T) {
	t.Parallel()

	page := BuildPageData(
		ProfilePayload(repos.Profile{
			Login:      "aoi",
			Name:       "Aoi Takahashi",
			AvatarURL:  "https://avatars.example.com/u/1",
			ProfileURL: "https://github.com/aoi",
		}, ""),
		GridPayload("/admin", "", []repos.Repo{{Name: "repo-01"}}, nil, pagination.New(1, 9, 1), ""),
		ActivePayload("/admin", nil, true, 5*time.Second),
	)

	doc := renderComponent(t, Index(page))

	require.Equal(t, "リポジトリ表示設定", strings.TrimSpace(doc.Find("h1").Text()))
	profile := doc.Find("[data-profile-header]")
	require.Equal(t, 1, profile.Length())
	require.Contains(t, profile.Text(), "Aoi Takahashi")
	require.Equal(t, "https://github.com/aoi", profile.Find("a").AttrOr("href", ""))
	require.Equal(t, 1, doc.Find("[data-repo-grid]").Length())
	require.Equal(t, 1, doc.Find("[data-active-panel]").Length())
}

func TestIndexDegradesProfileFailure(t *testing.T) {
	t.Parallel()

	page := BuildPageData(
		ProfilePayload(repos.Profile{}, "プロフィールを取得できませんでした"),
		GridPayload("/admin", "", []repos.Repo{{Name: "repo-01"}}, nil, pagination.New(1, 9, 1), ""),
		ActivePayload("/admin", nil, false, 0),
	)

	doc := renderComponent(t, Index(page))

	require.Equal(t, 1, doc.Find("[data-profile-error]").Length(), "profile failure degrades to an inline notice")
	require.Equal(t, 1, doc.Find("[data-repo-grid]").Length(), "grid still renders when the profile fails")
}

func renderComponent(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	err := c.Render(context.Background(), &buf)
	require.NoError(t, err, "component must render without error")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}
