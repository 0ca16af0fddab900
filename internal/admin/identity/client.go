package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	identityToolkitBase = "https://identitytoolkit.googleapis.com/v1"
	signInEndpoint      = "accounts:signInWithPassword"

	defaultClientTimeout = 10 * time.Second
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// ClientConfig carries the settings needed to reach the Identity Toolkit API.
type ClientConfig struct {
	// WebAPIKey is the Firebase web API key sent with every request.
	WebAPIKey string
	// EmulatorHost points sign-in at a local Auth emulator when set.
	EmulatorHost string
}

// Client implements PasswordSigner against the Identity Toolkit REST API.
type Client struct {
	base   *url.URL
	apiKey string
	client HTTPClient
}

// NewClient constructs a PasswordSigner that talks to Firebase Authentication.
func NewClient(cfg ClientConfig, client HTTPClient) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.WebAPIKey)
	if apiKey == "" {
		return nil, errors.New("identity: web API key is required")
	}
	base := identityToolkitBase
	if host := strings.TrimSpace(cfg.EmulatorHost); host != "" {
		base = "http://" + host + "/identitytoolkit.googleapis.com/v1"
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("identity: parse base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &Client{
		base:   parsed,
		apiKey: apiKey,
		client: client,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// SignInWithPassword exchanges the email/password pair for Firebase
// credentials. Rejections map onto the package sentinels.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Credentials, error) {
	payload := signInRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}
	req, err := c.newJSONRequest(ctx, signInEndpoint, payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("identity: decode sign-in response: %w", err)
	}

	creds := &Credentials{
		UID:          body.LocalID,
		Email:        body.Email,
		IDToken:      body.IDToken,
		RefreshToken: body.RefreshToken,
	}
	if secs, err := strconv.Atoi(body.ExpiresIn); err == nil && secs > 0 {
		creds.ExpiresIn = time.Duration(secs) * time.Second
	}
	return creds, nil
}

func (c *Client) newJSONRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("identity: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), &buf)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// endpointURL joins the endpoint onto the base path directly. The Identity
// Toolkit method names contain a colon, so they cannot go through
// url.Parse/ResolveReference as a relative reference.
func (c *Client) endpointURL(endpoint string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + endpoint
	u.RawQuery = url.Values{"key": []string{c.apiKey}}.Encode()
	return u.String()
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
			if mapped := mapProviderError(payload.Error.Message); mapped != nil {
				return mapped
			}
			return fmt.Errorf("identity: provider error (%d): %s", resp.StatusCode, payload.Error.Message)
		}
	}
	if len(body) > 0 {
		return fmt.Errorf("identity: provider error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("identity: provider error (%d): %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// mapProviderError translates Identity Toolkit error codes into package
// sentinels. Messages occasionally carry suffixes such as
// "TOO_MANY_ATTEMPTS_TRY_LATER : ...", so only the leading token counts.
func mapProviderError(message string) error {
	code := strings.TrimSpace(message)
	if idx := strings.IndexAny(code, " :"); idx >= 0 {
		code = code[:idx]
	}
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "MISSING_PASSWORD":
		return ErrInvalidCredentials
	case "USER_DISABLED":
		return ErrUserDisabled
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return ErrTooManyAttempts
	}
	return nil
}

var _ PasswordSigner = (*Client)(nil)
