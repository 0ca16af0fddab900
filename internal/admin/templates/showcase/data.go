package showcase

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"showfolio.dev/showfolio-admin/internal/admin/pagination"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	adminshowcase "showfolio.dev/showfolio-admin/internal/admin/showcase"
	"showfolio.dev/showfolio-admin/internal/admin/templates/helpers"
)

// PageData represents the payload for the showcase admin page.
type PageData struct {
	Title       string
	Description string
	Profile     ProfileData
	Grid        GridData
	Active      ActiveData
}

// ProfileData summarises the owner's hosting profile for the page header.
type ProfileData struct {
	Login      string
	Name       string
	AvatarURL  string
	ProfileURL string
	Error      string
}

// GridData contains the fragment payload for the repository grid.
type GridData struct {
	FragmentPath string
	Cards        []CardData
	Error        string
	EmptyMessage string
	Pagination   PaginationData
}

// CardData represents a single repository card.
type CardData struct {
	Name        string
	Description string
	Topics      []string
	URL         string
	Active      bool
	ToggleURL   string
	ToggleLabel string
}

// PaginationData describes the pager controls under the grid.
type PaginationData struct {
	Page       int
	TotalPages int
	TotalItems int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

// ActiveData contains the fragment payload for the live active-display panel.
type ActiveData struct {
	FragmentPath string
	PollEvery    string
	Ready        bool
	Count        int
	Entries      []ActiveEntry
}

// ActiveEntry is one mirrored active-display document.
type ActiveEntry struct {
	Name     string
	URL      string
	Updated  string
	Relative string
}

// BuildPageData assembles the full SSR payload for the showcase page.
func BuildPageData(profile ProfileData, grid GridData, active ActiveData) PageData {
	return PageData{
		Title:       "リポジトリ表示設定",
		Description: "公開ポートフォリオに表示するリポジトリを選択します。カードの切り替えは即座に公開ページへ反映されます。",
		Profile:     profile,
		Grid:        grid,
		Active:      active,
	}
}

// ProfilePayload converts the owner profile into header data. A load failure
// degrades to an error line; the rest of the page still renders.
func ProfilePayload(profile repos.Profile, errMsg string) ProfileData {
	return ProfileData{
		Login:      profile.Login,
		Name:       profile.Name,
		AvatarURL:  profile.AvatarURL,
		ProfileURL: profile.ProfileURL,
		Error:      errMsg,
	}
}

// GridPayload prepares the repository grid fragment. The pager decides which
// window of list is visible; rawQuery carries the current grid query so page
// links preserve unrelated parameters.
func GridPayload(basePath, rawQuery string, list []repos.Repo, isActive func(string) bool, pager pagination.Pager, errMsg string) GridData {
	fragmentPath := helpers.JoinRoute(basePath, "/repos")

	visible := pagination.Slice(list, pager)
	cards := make([]CardData, 0, len(visible))
	for _, repo := range visible {
		cards = append(cards, cardData(basePath, repo, isActive != nil && isActive(repo.Name)))
	}

	empty := ""
	if errMsg == "" && len(cards) == 0 {
		empty = "表示できるリポジトリがありません。"
	}

	return GridData{
		FragmentPath: fragmentPath,
		Cards:        cards,
		Error:        errMsg,
		EmptyMessage: empty,
		Pagination:   paginationData(fragmentPath, rawQuery, pager),
	}
}

// CardPayload converts one repository into card data. Toggle responses swap a
// single card, so the builder is exposed on its own.
func CardPayload(basePath string, repo repos.Repo, active bool) CardData {
	return cardData(basePath, repo, active)
}

func cardData(basePath string, repo repos.Repo, active bool) CardData {
	label := "表示に追加"
	if active {
		label = "表示から外す"
	}
	return CardData{
		Name:        repo.Name,
		Description: repo.Description,
		Topics:      append([]string(nil), repo.Topics...),
		URL:         repo.URL,
		Active:      active,
		ToggleURL:   helpers.JoinRoute(basePath, "/repos/"+url.PathEscape(repo.Name)+"/toggle"),
		ToggleLabel: label,
	}
}

func paginationData(fragmentPath, rawQuery string, pager pagination.Pager) PaginationData {
	data := PaginationData{
		Page:       pager.Page,
		TotalPages: pager.TotalPages(),
		TotalItems: pager.TotalItems,
		HasPrev:    pager.HasPrev(),
		HasNext:    pager.HasNext(),
	}
	if data.HasPrev {
		data.PrevURL = helpers.BuildURL(fragmentPath, helpers.SetRawQuery(rawQuery, "page", strconv.Itoa(pager.Prev())))
	}
	if data.HasNext {
		data.NextURL = helpers.BuildURL(fragmentPath, helpers.SetRawQuery(rawQuery, "page", strconv.Itoa(pager.Next())))
	}
	return data
}

// ActivePayload prepares the live panel from the mirrored active-display set.
// ready is false until the mirror has received its first snapshot.
func ActivePayload(basePath string, entries []adminshowcase.Entry, ready bool, poll time.Duration) ActiveData {
	items := make([]ActiveEntry, 0, len(entries))
	for _, entry := range entries {
		item := ActiveEntry{
			Name: entry.Name,
			URL:  entry.URL,
		}
		if !entry.UpdatedAt.IsZero() {
			item.Updated = helpers.Date(entry.UpdatedAt, "2006-01-02 15:04")
			item.Relative = helpers.Relative(entry.UpdatedAt)
		}
		items = append(items, item)
	}

	pollEvery := ""
	if poll > 0 {
		pollEvery = fmt.Sprintf("every %s", poll)
	}

	return ActiveData{
		FragmentPath: helpers.JoinRoute(basePath, "/active"),
		PollEvery:    pollEvery,
		Ready:        ready,
		Count:        len(items),
		Entries:      items,
	}
}

// DescriptionOrFallback returns the description or a placeholder line.
func DescriptionOrFallback(description string) string {
	if strings.TrimSpace(description) == "" {
		return "説明は登録されていません。"
	}
	return description
}
