// Package partials holds the page chrome shared by the admin screens.
package partials

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Flash is a one-shot notice surfaced in the toast region on page load.
type Flash struct {
	Kind    string
	Message string
}

// LayoutData carries chrome state shared by authenticated screens.
type LayoutData struct {
	Title     string
	CSRFToken string
	Flash     *Flash
}

// Layout wraps body in the full admin document: head, top bar and the toast
// region that htmx toast events render into.
func Layout(data LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Showfolio Admin"
		if data.Title != "" {
			title = data.Title + " | Showfolio Admin"
		}

		if _, err := fmt.Fprintf(w,
			`<!doctype html><html lang="ja"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><meta name="csrf-token" content="%s"><title>%s</title><script src="https://cdn.tailwindcss.com"></script><link rel="stylesheet" href="/static/app.css"><script src="https://unpkg.com/htmx.org@1.9.12" defer></script><script src="/static/app.js" defer></script></head><body class="min-h-screen bg-slate-50 text-slate-900">`,
			templ.EscapeString(data.CSRFToken), templ.EscapeString(title)); err != nil {
			return err
		}

		if err := TopbarActions().Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main class="mx-auto max-w-6xl px-4 py-8">`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}

		if err := ToastRegion(data.Flash).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// ToastRegion renders the notification anchor. A pending flash becomes the
// first toast; later ones arrive through htmx trigger events.
func ToastRegion(flash *Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="toast-region" class="fixed bottom-4 right-4 z-50 flex flex-col items-end gap-2" aria-live="polite">`); err != nil {
			return err
		}
		if flash != nil && flash.Message != "" {
			kind := flash.Kind
			if kind == "" {
				kind = "info"
			}
			if _, err := fmt.Fprintf(w,
				`<div class="toast" data-toast-kind="%s" role="status">%s</div>`,
				templ.EscapeString(kind), templ.EscapeString(flash.Message)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
