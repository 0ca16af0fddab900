package repos_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"showfolio.dev/showfolio-admin/internal/admin/repos"
)

type githubUserDoc struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type githubRepoDoc struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Topics      []string `json:"topics"`
}

func TestGitHubServiceProfile(t *testing.T) {
	t.Parallel()

	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		receivedAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(githubUserDoc{
			Login:     "aoi-dev",
			Name:      "Aoi Takahashi",
			AvatarURL: "https://avatars.example.com/u/1",
			HTMLURL:   "https://github.com/aoi-dev",
		})
	}))
	t.Cleanup(ts.Close)

	svc, err := repos.NewGitHubService(context.Background(), repos.GitHubConfig{
		Token:   "test-token",
		BaseURL: ts.URL,
	})
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer test-token", receivedAuth)
	require.Equal(t, "aoi-dev", profile.Login)
	require.Equal(t, "Aoi Takahashi", profile.Name)
	require.Equal(t, "https://avatars.example.com/u/1", profile.AvatarURL)
	require.Equal(t, "https://github.com/aoi-dev", profile.ProfileURL)
}

func TestGitHubServiceListConcatenatesPages(t *testing.T) {
	t.Parallel()

	var fetches int32
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/repos", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("per_page"))

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "", "1":
			atomic.AddInt32(&fetches, 1)
			w.Header().Set("Link", fmt.Sprintf(`<%s/user/repos?per_page=2&page=2>; rel="next", <%s/user/repos?per_page=2&page=2>; rel="last"`, ts.URL, ts.URL))
			_ = json.NewEncoder(w).Encode([]githubRepoDoc{
				{Name: "alpha", Description: "first", HTMLURL: "https://github.com/o/alpha", Topics: []string{"go"}},
				{Name: "beta", Description: "second", HTMLURL: "https://github.com/o/beta"},
			})
		case "2":
			_ = json.NewEncoder(w).Encode([]githubRepoDoc{
				{Name: "gamma", Description: "third", HTMLURL: "https://github.com/o/gamma", Topics: []string{"cli", "go"}},
			})
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	t.Cleanup(ts.Close)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, err := repos.NewGitHubService(context.Background(), repos.GitHubConfig{
		Token:    "test-token",
		BaseURL:  ts.URL,
		PageSize: 2,
		CacheTTL: time.Minute,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "alpha", list[0].Name)
	require.Equal(t, "beta", list[1].Name)
	require.Equal(t, "gamma", list[2].Name)
	require.Equal(t, []string{"cli", "go"}, list[2].Topics)

	// Within the TTL the cached snapshot is reused.
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&fetches))

	// Past the TTL the list is fetched again.
	now = now.Add(2 * time.Minute)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestGitHubServiceListError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	svc, err := repos.NewGitHubService(context.Background(), repos.GitHubConfig{
		Token:   "test-token",
		BaseURL: ts.URL,
	})
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "list repositories")
}

func TestGitHubServiceRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := repos.NewGitHubService(context.Background(), repos.GitHubConfig{})
	require.Error(t, err)
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	list := []repos.Repo{
		{Name: "alpha"},
		{Name: "beta"},
	}

	repo, err := repos.FindByName(list, "beta")
	require.NoError(t, err)
	require.Equal(t, "beta", repo.Name)

	_, err = repos.FindByName(list, "missing")
	require.ErrorIs(t, err, repos.ErrNotFound)
}
