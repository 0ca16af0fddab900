package httpserver

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	custommw "showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/identity"
	"showfolio.dev/showfolio-admin/internal/admin/observability"
	appsession "showfolio.dev/showfolio-admin/internal/admin/session"
	authtpl "showfolio.dev/showfolio-admin/internal/admin/templates/auth"
)

type authHandlers struct {
	signer    identity.PasswordSigner
	verifier  identity.TokenVerifier
	revoker   identity.SessionRevoker
	basePath  string
	loginPath string
}

func newAuthHandlers(signer identity.PasswordSigner, verifier identity.TokenVerifier, revoker identity.SessionRevoker, basePath, loginPath string) *authHandlers {
	if signer == nil {
		panic("auth: password signer is required")
	}
	if strings.TrimSpace(basePath) == "" {
		basePath = "/"
	}
	if strings.TrimSpace(loginPath) == "" {
		loginPath = "/login"
	}
	return &authHandlers{
		signer:    signer,
		verifier:  verifier,
		revoker:   revoker,
		basePath:  basePath,
		loginPath: loginPath,
	}
}

// LoginForm serves the sign-in screen. Opening it always ends the current
// session: whoever looks at the login form is signed out from that moment.
func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess, ok := custommw.SessionFromContext(r.Context()); ok && sess.Authenticated() {
		observability.FromContext(r.Context()).Info("login form: ending existing session",
			zap.String("uid", sess.User().UID),
		)
		sess.Renew()
	}

	h.renderLoginPage(w, r, h.buildLoginPageData(r, nil), http.StatusOK)
}

// LoginSubmit validates the form, signs in against the identity provider and
// attaches the owner to the session. Validation failures re-render the form
// without contacting the provider.
func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		state := &loginFormState{Error: "フォームの送信に失敗しました。もう一度お試しください。"}
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	state := &loginFormState{Email: email}
	state.EmailError = validateEmail(email)
	if password == "" {
		state.PasswordError = "パスワードを入力してください"
	}
	if state.EmailError != "" || state.PasswordError != "" {
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusUnprocessableEntity)
		return
	}

	creds, err := h.signer.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		logger.Warn("login failed", zap.Error(err))
		state.Error = h.errorMessageFor(err)
		h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusUnauthorized)
		return
	}

	account := &identity.Account{UID: creds.UID, Email: creds.Email}
	if h.verifier != nil {
		verified, err := h.verifier.Verify(r.Context(), creds.IDToken)
		if err != nil {
			logger.Error("login: verify issued token", zap.Error(err))
			state.Error = "ログインに失敗しました。時間をおいて再度お試しください。"
			h.renderLoginPage(w, r, h.buildLoginPageData(r, state), http.StatusUnauthorized)
			return
		}
		account = verified
	}
	if account.Email == "" {
		account.Email = email
	}

	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		// Rotate the session identity before attaching the owner.
		sess.Renew()
		sess.SetUser(&appsession.User{
			UID:   account.UID,
			Email: account.Email,
			Name:  account.Name,
		})
	}

	logger.Info("login succeeded", zap.String("uid", account.UID))

	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", h.basePath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.basePath, http.StatusSeeOther)
}

// Logout destroys the session and revokes the provider refresh tokens.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	uid := ""
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		if user := sess.User(); user != nil {
			uid = user.UID
		}
		sess.Destroy()
	}

	if uid != "" && h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), uid); err != nil {
			logger.Error("logout: revoke provider sessions", zap.String("uid", uid), zap.Error(err))
		}
	}

	redirect := h.loginURLWithParams(map[string]string{"status": "logged_out"})
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", redirect)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

type loginFormState struct {
	Email         string
	EmailError    string
	PasswordError string
	Error         string
}

func (h *authHandlers) buildLoginPageData(r *http.Request, state *loginFormState) authtpl.LoginPageData {
	q := url.Values{}
	if r.URL != nil {
		q = r.URL.Query()
	}

	data := authtpl.LoginPageData{
		Notice:    noticeForQuery(q),
		LoginPath: h.loginPath,
	}
	if state != nil {
		data.Email = state.Email
		data.EmailError = state.EmailError
		data.PasswordError = state.PasswordError
		data.Error = state.Error
	}

	// Read the token from the live session rather than the request context:
	// LoginForm may have renewed the session after the CSRF middleware ran.
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		if token, err := sess.EnsureCSRFToken(); err == nil {
			data.CSRFToken = token
		}
	}
	if data.CSRFToken == "" {
		data.CSRFToken = custommw.CSRFTokenFromContext(r.Context())
	}

	return data
}

func (h *authHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, data authtpl.LoginPageData, status int) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templ.Handler(authtpl.Login(data)).ServeHTTP(w, r)
}

func (h *authHandlers) errorMessageFor(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "メールアドレスまたはパスワードが正しくありません。"
	case errors.Is(err, identity.ErrUserDisabled):
		return "このアカウントは無効化されています。管理者にお問い合わせください。"
	case errors.Is(err, identity.ErrTooManyAttempts):
		return "試行回数が多すぎます。時間をおいて再度お試しください。"
	default:
		return "ログインに失敗しました。時間をおいて再度お試しください。"
	}
}

func noticeForQuery(q url.Values) string {
	if q == nil {
		return ""
	}
	if q.Get("status") == "logged_out" {
		return "ログアウトしました。"
	}
	if q.Get("reason") == "expired" {
		return "セッションの有効期限が切れました。もう一度ログインしてください。"
	}
	return ""
}

func validateEmail(email string) string {
	if email == "" {
		return "メールアドレスを入力してください"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "メールアドレスの形式が正しくありません"
	}
	return ""
}

func (h *authHandlers) loginURLWithParams(params map[string]string) string {
	parsed, err := url.Parse(h.loginPath)
	if err != nil {
		return h.loginPath
	}
	q := parsed.Query()
	for key, val := range params {
		if strings.TrimSpace(val) == "" {
			continue
		}
		q.Set(key, val)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
