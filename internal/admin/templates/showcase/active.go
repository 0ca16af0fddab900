package showcase

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"showfolio.dev/showfolio-admin/internal/admin/templates/helpers"
)

// ActivePanel renders the live view over the active-display collection. The
// fragment polls itself when PollEvery is set; the poll attributes ride along
// on every swap so the panel keeps refreshing.
func ActivePanel(data ActiveData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		poll := ""
		if data.PollEvery != "" {
			poll = fmt.Sprintf(` hx-get="%s" hx-trigger="%s" hx-swap="outerHTML"`,
				templ.EscapeString(data.FragmentPath), templ.EscapeString(data.PollEvery))
		}

		if _, err := fmt.Fprintf(w,
			`<aside id="active-panel" data-active-panel%s class="rounded-xl border border-slate-200 bg-white p-4 shadow-sm"><div class="flex items-center justify-between"><h2 class="text-sm font-semibold">公開中のリポジトリ</h2><span data-active-count class="%s">%d件</span></div>`,
			poll, helpers.BadgeClass("default"), data.Count); err != nil {
			return err
		}

		switch {
		case !data.Ready:
			if _, err := io.WriteString(w,
				`<p data-active-pending class="mt-3 text-xs text-slate-400">ストアと同期しています。</p>`); err != nil {
				return err
			}
		case len(data.Entries) == 0:
			if _, err := io.WriteString(w,
				`<p data-active-empty class="mt-3 text-xs text-slate-500">公開中のリポジトリはありません。</p>`); err != nil {
				return err
			}
		default:
			if _, err := io.WriteString(w, `<ul data-active-list class="mt-3 space-y-2">`); err != nil {
				return err
			}
			for _, entry := range data.Entries {
				if err := activeItem(w, entry); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</aside>`)
		return err
	})
}

func activeItem(w io.Writer, entry ActiveEntry) error {
	if _, err := fmt.Fprintf(w,
		`<li data-active-entry="%s" class="flex items-center justify-between gap-2 text-sm">`,
		templ.EscapeString(entry.Name)); err != nil {
		return err
	}

	if entry.URL != "" {
		if _, err := fmt.Fprintf(w,
			`<a href="%s" target="_blank" rel="noopener noreferrer" class="truncate hover:underline">%s</a>`,
			templ.EscapeString(entry.URL), templ.EscapeString(entry.Name)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, `<span class="truncate">%s</span>`, templ.EscapeString(entry.Name)); err != nil {
			return err
		}
	}

	if entry.Relative != "" {
		if _, err := fmt.Fprintf(w,
			`<span class="shrink-0 text-xs text-slate-400" title="%s">%s</span>`,
			templ.EscapeString(entry.Updated), templ.EscapeString(entry.Relative)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</li>`)
	return err
}
