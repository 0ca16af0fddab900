package repos

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	defaultPageSize = 100
	defaultCacheTTL = 5 * time.Minute
)

// GitHubConfig tunes the GitHub-backed repository source.
type GitHubConfig struct {
	// Token is the bearer credential for the authenticated account.
	Token string
	// BaseURL overrides the API endpoint (emulators and tests).
	BaseURL string
	// PageSize is the per-page item count requested from the API.
	PageSize int
	// CacheTTL bounds how long a fetched repository list is reused.
	CacheTTL time.Duration
	Now      func() time.Time
}

// GitHubService lists the owner's repositories through the GitHub API.
// The full list is fetched page by page, concatenated, and cached for
// CacheTTL so one admin session sees a stable snapshot.
type GitHubService struct {
	client   *github.Client
	pageSize int
	cacheTTL time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	cached  []Repo
	expires time.Time

	fetchMu sync.Mutex
}

var _ Service = (*GitHubService)(nil)

// NewGitHubService constructs a GitHub-backed repository source
// authenticating with the supplied token.
func NewGitHubService(ctx context.Context, cfg GitHubConfig) (*GitHubService, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		parsed, err := url.Parse(strings.TrimRight(trimmed, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: invalid base url %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = parsed
	}

	return &GitHubService{
		client:   client,
		pageSize: cfg.PageSize,
		cacheTTL: cfg.CacheTTL,
		now:      nowFn,
	}, nil
}

// Profile fetches the authenticated account's public identity.
func (s *GitHubService) Profile(ctx context.Context) (Profile, error) {
	user, _, err := s.client.Users.Get(ctx, "")
	if err != nil {
		return Profile{}, fmt.Errorf("github: fetch authenticated user: %w", err)
	}
	return Profile{
		Login:      user.GetLogin(),
		Name:       user.GetName(),
		AvatarURL:  user.GetAvatarURL(),
		ProfileURL: user.GetHTMLURL(),
	}, nil
}

// List returns every repository owned by the authenticated account.
// Pages are concatenated in API order; the result is cached until the
// TTL elapses.
func (s *GitHubService) List(ctx context.Context) ([]Repo, error) {
	now := s.now()

	s.mu.RLock()
	if s.cached != nil && now.Before(s.expires) {
		cached := append([]Repo(nil), s.cached...)
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	now = s.now()
	s.mu.RLock()
	if s.cached != nil && now.Before(s.expires) {
		cached := append([]Repo(nil), s.cached...)
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	fetched, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = fetched
	s.expires = now.Add(s.cacheTTL)
	s.mu.Unlock()

	return append([]Repo(nil), fetched...), nil
}

func (s *GitHubService) fetchAll(ctx context.Context) ([]Repo, error) {
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: s.pageSize},
	}

	var all []Repo
	for {
		page, resp, err := s.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("github: list repositories page %d: %w", opts.Page, err)
		}
		for _, repo := range page {
			all = append(all, Repo{
				Name:        repo.GetName(),
				Description: repo.GetDescription(),
				URL:         repo.GetHTMLURL(),
				Topics:      append([]string(nil), repo.Topics...),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
