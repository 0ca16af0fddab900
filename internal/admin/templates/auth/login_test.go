package auth

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestLoginRendersForm(t *testing.T) {
	t.Parallel()

	doc := renderLogin(t, LoginPageData{
		LoginPath: "/login",
		CSRFToken: "tok-123",
	})

	form := doc.Find("form[data-login-form]")
	require.Equal(t, 1, form.Length(), "login form should render")
	require.Equal(t, "/login", form.AttrOr("action", ""))
	require.Equal(t, "post", form.AttrOr("method", ""))

	require.Equal(t, "tok-123", form.Find("input[name=\"_csrf\"]").AttrOr("value", ""), "CSRF field must carry the issued token")
	require.Equal(t, 1, form.Find("input[name=\"email\"]").Length())
	require.Equal(t, 1, form.Find("input[name=\"password\"]").Length())

	require.Equal(t, 0, doc.Find("[data-login-error]").Length(), "fresh form renders without a failure banner")
	require.Equal(t, 0, doc.Find("[data-field-error]").Length())
}

func TestLoginShowsFieldErrors(t *testing.T) {
	t.Parallel()

	doc := renderLogin(t, LoginPageData{
		Email:         "not-an-address",
		EmailError:    "メールアドレスの形式が正しくありません",
		PasswordError: "パスワードを入力してください",
		LoginPath:     "/login",
	})

	require.Equal(t, "not-an-address", doc.Find("input[name=\"email\"]").AttrOr("value", ""), "submitted email should be preserved")

	emailErr := doc.Find("[data-field-error=\"email\"]")
	require.Equal(t, 1, emailErr.Length())
	require.Equal(t, "メールアドレスの形式が正しくありません", strings.TrimSpace(emailErr.Text()))

	passwordErr := doc.Find("[data-field-error=\"password\"]")
	require.Equal(t, 1, passwordErr.Length())
	require.Equal(t, "パスワードを入力してください", strings.TrimSpace(passwordErr.Text()))
}

func TestLoginShowsFailureBannerAndNotice(t *testing.T) {
	t.Parallel()

	doc := renderLogin(t, LoginPageData{
		Error:     "メールアドレスまたはパスワードが正しくありません",
		Notice:    "セッションの有効期限が切れました。もう一度ログインしてください。",
		LoginPath: "/login",
	})

	banner := doc.Find("[data-login-error]")
	require.Equal(t, 1, banner.Length(), "failure banner should render")
	require.Equal(t, "メールアドレスまたはパスワードが正しくありません", strings.TrimSpace(banner.Text()))

	notice := doc.Find("[data-login-notice]")
	require.Equal(t, 1, notice.Length(), "notice should render")
	require.Contains(t, notice.Text(), "もう一度ログイン")
}

func renderLogin(t *testing.T, data LoginPageData) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	err := Login(data).Render(context.Background(), &buf)
	require.NoError(t, err, "login page must render without error")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc
}
