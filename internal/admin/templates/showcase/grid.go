package showcase

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"showfolio.dev/showfolio-admin/internal/admin/templates/helpers"
)

// Grid renders the repository grid fragment: cards, empty state and pager.
// Pager links swap the whole fragment so the markup stays self-contained.
func Grid(data GridData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="repo-grid" data-repo-grid>`); err != nil {
			return err
		}

		if data.Error != "" {
			if _, err := fmt.Fprintf(w,
				`<div data-grid-error role="alert" class="mb-4 rounded-md bg-rose-50 px-3 py-2 text-sm text-rose-700">%s</div>`,
				templ.EscapeString(data.Error)); err != nil {
				return err
			}
		}
		if data.EmptyMessage != "" {
			if _, err := fmt.Fprintf(w,
				`<p data-grid-empty class="rounded-md border border-dashed border-slate-300 px-4 py-8 text-center text-sm text-slate-500">%s</p>`,
				templ.EscapeString(data.EmptyMessage)); err != nil {
				return err
			}
		}

		if len(data.Cards) > 0 {
			if _, err := io.WriteString(w, `<div class="grid grid-cols-1 gap-4 sm:grid-cols-2 lg:grid-cols-3">`); err != nil {
				return err
			}
			for _, card := range data.Cards {
				if err := Card(card).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}

		if err := pager(w, data.Pagination); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// Card renders a single repository card. Toggle responses swap one card in
// place, so the component is exposed on its own.
func Card(data CardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<article data-repo-card="%s" class="flex flex-col rounded-xl border border-slate-200 bg-white p-4 shadow-sm"><div class="flex items-start justify-between gap-2"><h3 class="truncate text-sm font-semibold">`,
			templ.EscapeString(data.Name)); err != nil {
			return err
		}
		if data.URL != "" {
			if _, err := fmt.Fprintf(w,
				`<a href="%s" target="_blank" rel="noopener noreferrer" class="hover:underline">%s</a>`,
				templ.EscapeString(data.URL), templ.EscapeString(data.Name)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, templ.EscapeString(data.Name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</h3>`); err != nil {
			return err
		}
		if data.Active {
			if _, err := fmt.Fprintf(w,
				`<span data-active-badge class="%s">公開中</span>`,
				helpers.BadgeClass("success")); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w,
			`</div><p class="mt-1 flex-1 text-xs leading-5 text-slate-500">%s</p>`,
			templ.EscapeString(DescriptionOrFallback(data.Description))); err != nil {
			return err
		}

		if len(data.Topics) > 0 {
			if _, err := io.WriteString(w, `<div class="mt-2 flex flex-wrap gap-1">`); err != nil {
				return err
			}
			for _, topic := range data.Topics {
				if _, err := fmt.Fprintf(w,
					`<span class="rounded-full bg-slate-100 px-2 py-0.5 text-xs text-slate-600">%s</span>`,
					templ.EscapeString(topic)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w,
			`<button type="button" data-repo-toggle="%s" hx-post="%s" hx-target="closest article" hx-swap="outerHTML" hx-disabled-elt="this" class="mt-3 %s">%s</button></article>`,
			templ.EscapeString(data.Name), templ.EscapeString(data.ToggleURL),
			helpers.ToggleClass(data.Active), templ.EscapeString(data.ToggleLabel))
		return err
	})
}

func pager(w io.Writer, data PaginationData) error {
	if _, err := io.WriteString(w, `<nav data-grid-pager class="mt-6 flex items-center justify-between" aria-label="ページ送り">`); err != nil {
		return err
	}

	if err := pagerButton(w, "data-pager-prev", "前へ", data.PrevURL, data.HasPrev); err != nil {
		return err
	}

	status := fmt.Sprintf("%d / %d ページ（全%d件）", data.Page, data.TotalPages, data.TotalItems)
	if data.TotalPages == 0 {
		status = "0 件"
	}
	if _, err := fmt.Fprintf(w, `<span data-pager-status class="text-sm text-slate-500">%s</span>`, templ.EscapeString(status)); err != nil {
		return err
	}

	if err := pagerButton(w, "data-pager-next", "次へ", data.NextURL, data.HasNext); err != nil {
		return err
	}

	_, err := io.WriteString(w, `</nav>`)
	return err
}

func pagerButton(w io.Writer, marker, label, href string, enabled bool) error {
	if enabled {
		_, err := fmt.Fprintf(w,
			`<button type="button" %s hx-get="%s" hx-target="#repo-grid" hx-swap="outerHTML" class="%s">%s</button>`,
			marker, templ.EscapeString(href), helpers.PagerClass(true), label)
		return err
	}
	_, err := fmt.Fprintf(w,
		`<button type="button" %s class="%s" disabled>%s</button>`,
		marker, helpers.PagerClass(false), label)
	return err
}
