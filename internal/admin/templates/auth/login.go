package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Login renders the standalone sign-in document. The login screen carries no
// admin chrome, so it does not go through partials.Layout. The form is posted
// plain (no htmx) and validated server side, hence novalidate.
func Login(data LoginPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loginPath := data.LoginPath
		if loginPath == "" {
			loginPath = "/login"
		}

		if _, err := io.WriteString(w,
			`<!doctype html><html lang="ja"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>ログイン | Showfolio Admin</title><script src="https://cdn.tailwindcss.com"></script><link rel="stylesheet" href="/static/app.css"></head><body class="flex min-h-screen items-center justify-center bg-slate-50 px-4"><div class="w-full max-w-sm"><div class="mb-6 text-center"><h1 class="text-xl font-semibold tracking-tight">Showfolio Admin</h1><p class="mt-1 text-sm text-slate-500">公開ポートフォリオの管理画面</p></div><div class="rounded-xl border border-slate-200 bg-white p-6 shadow-sm">`); err != nil {
			return err
		}

		if data.Notice != "" {
			if _, err := fmt.Fprintf(w,
				`<div data-login-notice class="mb-4 rounded-md bg-amber-50 px-3 py-2 text-sm text-amber-800">%s</div>`,
				templ.EscapeString(data.Notice)); err != nil {
				return err
			}
		}
		if data.Error != "" {
			if _, err := fmt.Fprintf(w,
				`<div data-login-error role="alert" class="mb-4 rounded-md bg-rose-50 px-3 py-2 text-sm text-rose-700">%s</div>`,
				templ.EscapeString(data.Error)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s" data-login-form class="space-y-4" novalidate><input type="hidden" name="_csrf" value="%s">`,
			templ.EscapeString(loginPath), templ.EscapeString(data.CSRFToken)); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<div><label for="email" class="block text-sm font-medium">メールアドレス</label><input id="email" name="email" type="email" value="%s" autocomplete="email" autofocus class="%s">`,
			templ.EscapeString(data.Email), fieldClass(data.EmailError)); err != nil {
			return err
		}
		if err := fieldError(w, "email", data.EmailError); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`</div><div><label for="password" class="block text-sm font-medium">パスワード</label><input id="password" name="password" type="password" autocomplete="current-password" class="%s">`,
			fieldClass(data.PasswordError)); err != nil {
			return err
		}
		if err := fieldError(w, "password", data.PasswordError); err != nil {
			return err
		}

		_, err := io.WriteString(w,
			`</div><button type="submit" class="w-full rounded-md bg-slate-900 px-3 py-2 text-sm font-medium text-white hover:bg-slate-800">ログイン</button></form></div></div></body></html>`)
		return err
	})
}

func fieldClass(fieldErr string) string {
	base := "mt-1 w-full rounded-md border px-3 py-2 text-sm focus:outline-none focus:ring-1 focus:ring-slate-400"
	if fieldErr != "" {
		return base + " border-rose-400"
	}
	return base + " border-slate-300"
}

func fieldError(w io.Writer, field, message string) error {
	if message == "" {
		return nil
	}
	_, err := fmt.Fprintf(w,
		`<p data-field-error="%s" class="mt-1 text-xs text-rose-600">%s</p>`,
		templ.EscapeString(field), templ.EscapeString(message))
	return err
}
