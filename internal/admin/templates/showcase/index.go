package showcase

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Index renders the showcase page body: heading, owner profile header and the
// two columns holding the repository grid and the live active-display panel.
func Index(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="space-y-8"><div><h1 class="text-xl font-semibold tracking-tight">%s</h1><p class="mt-1 text-sm text-slate-500">%s</p></div>`,
			templ.EscapeString(data.Title), templ.EscapeString(data.Description)); err != nil {
			return err
		}

		if err := profileHeader(w, data.Profile); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="grid grid-cols-1 gap-8 lg:grid-cols-3"><div class="lg:col-span-2">`); err != nil {
			return err
		}
		if err := Grid(data.Grid).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div><div>`); err != nil {
			return err
		}
		if err := ActivePanel(data.Active).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div></div></div>`)
		return err
	})
}

func profileHeader(w io.Writer, profile ProfileData) error {
	if profile.Error == "" && profile.Login == "" {
		return nil
	}

	if _, err := io.WriteString(w,
		`<section data-profile-header class="flex items-center gap-4 rounded-xl border border-slate-200 bg-white p-4 shadow-sm">`); err != nil {
		return err
	}

	if profile.Error != "" {
		if _, err := fmt.Fprintf(w,
			`<div data-profile-error class="text-sm text-amber-800">%s</div>`,
			templ.EscapeString(profile.Error)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	}

	if profile.AvatarURL != "" {
		if _, err := fmt.Fprintf(w,
			`<img src="%s" alt="" class="h-12 w-12 rounded-full border border-slate-200">`,
			templ.EscapeString(profile.AvatarURL)); err != nil {
			return err
		}
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	if _, err := fmt.Fprintf(w,
		`<div class="min-w-0"><p class="truncate text-sm font-semibold">%s</p>`,
		templ.EscapeString(name)); err != nil {
		return err
	}
	if profile.ProfileURL != "" {
		if _, err := fmt.Fprintf(w,
			`<a href="%s" target="_blank" rel="noopener noreferrer" class="text-xs text-slate-500 hover:underline">@%s</a>`,
			templ.EscapeString(profile.ProfileURL), templ.EscapeString(profile.Login)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w,
			`<p class="text-xs text-slate-500">@%s</p>`, templ.EscapeString(profile.Login)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</div></section>`)
	return err
}
