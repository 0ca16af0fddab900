package partials

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"

	"showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/session"
)

// TopbarActions renders the top bar for authenticated screens: brand link,
// environment badge and the owner menu with its logout form.
func TopbarActions() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := middleware.BasePathFromContext(ctx)
		owner, signedIn := middleware.OwnerFromContext(ctx)
		token := middleware.CSRFTokenFromContext(ctx)

		badge := ""
		if !middleware.IsProduction(ctx) {
			badge = environmentBadge(middleware.EnvironmentFromContext(ctx))
		}

		if _, err := fmt.Fprintf(w,
			`<header class="sticky top-0 z-40 border-b border-slate-200 bg-white"><div class="mx-auto flex max-w-6xl items-center justify-between gap-4 px-4 py-3"><div class="flex items-center gap-3"><a href="%s" class="text-lg font-semibold tracking-tight">Showfolio</a>`,
			templ.EscapeString(base)); err != nil {
			return err
		}
		if badge != "" {
			if _, err := fmt.Fprintf(w,
				`<span data-environment-badge class="inline-flex items-center rounded-full border border-amber-300 bg-amber-50 px-2 py-0.5"><span class="text-xs font-semibold text-amber-700" aria-hidden="true">%s</span><span class="sr-only">%s environment</span></span>`,
				templ.EscapeString(badge), templ.EscapeString(badge)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}

		if signedIn {
			summary, detail := ownerSummary(owner)
			if _, err := fmt.Fprintf(w,
				`<div class="flex items-center gap-4"><div data-user-menu class="flex items-center gap-2"><span class="flex h-8 w-8 items-center justify-center rounded-full bg-slate-900 text-sm font-medium text-white" aria-hidden="true">%s</span><div class="min-w-0">`,
				templ.EscapeString(ownerInitial(summary))); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<p class="truncate text-sm font-medium">%s</p>`, templ.EscapeString(summary)); err != nil {
				return err
			}
			if detail != "" {
				if _, err := fmt.Fprintf(w, `<p class="truncate text-xs text-slate-500">%s</p>`, templ.EscapeString(detail)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w,
				`</div></div><form method="post" action="/logout" data-user-menu-logout><input type="hidden" name="_csrf" value="%s"><button type="submit" class="rounded-md border border-slate-200 px-3 py-1.5 text-sm text-slate-600 hover:bg-slate-50">ログアウト</button></form></div>`,
				templ.EscapeString(token)); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div></header>`)
		return err
	})
}

func environmentBadge(env string) string {
	switch {
	case env == "":
		return ""
	case strings.EqualFold(env, "staging"):
		return "STG"
	case strings.EqualFold(env, "development"):
		return "DEV"
	default:
		label := strings.ToUpper(env)
		if utf8.RuneCountInString(label) > 3 {
			runes := []rune(label)
			label = string(runes[:3])
		}
		return label
	}
}

func ownerSummary(owner *session.User) (summary, detail string) {
	if owner == nil {
		return "", ""
	}
	switch {
	case owner.Name != "":
		summary = owner.Name
	case owner.Email != "":
		summary = owner.Email
	default:
		summary = owner.UID
	}
	if owner.Email != "" && owner.Email != summary {
		detail = owner.Email
	}
	return summary, detail
}

func ownerInitial(summary string) string {
	for _, r := range summary {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
