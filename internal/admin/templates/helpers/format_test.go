package helpers

import (
	"net/url"
	"testing"
)

func TestSetRawQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawQuery string
		key      string
		value    string
		want     map[string]string
	}{
		{
			name:     "updates existing key",
			rawQuery: "status=active&page=2",
			key:      "page",
			value:    "3",
			want: map[string]string{
				"status": "active",
				"page":   "3",
			},
		},
		{
			name:     "adds new key when missing",
			rawQuery: "status=active",
			key:      "page",
			value:    "1",
			want: map[string]string{
				"status": "active",
				"page":   "1",
			},
		},
		{
			name:     "handles empty input",
			rawQuery: "",
			key:      "page",
			value:    "1",
			want: map[string]string{
				"page": "1",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SetRawQuery(tc.rawQuery, tc.key, tc.value)
			values, err := url.ParseQuery(got)
			if err != nil {
				t.Fatalf("ParseQuery returned error: %v", err)
			}
			for k, expected := range tc.want {
				if got := values.Get(k); got != expected {
					t.Errorf("expected %s=%s, got %s", k, expected, got)
				}
			}
		})
	}
}

func TestDelRawQuery(t *testing.T) {
	t.Parallel()

	raw := "status=active&page=2"
	got := DelRawQuery(raw, "page")
	values, err := url.ParseQuery(got)
	if err != nil {
		t.Fatalf("ParseQuery returned error: %v", err)
	}
	if values.Get("page") != "" {
		t.Errorf("expected page param removed, got %q", values.Get("page"))
	}
	if values.Get("status") != "active" {
		t.Errorf("expected status preserved, got %q", values.Get("status"))
	}
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	u := BuildURL("/admin/repos", "page=2")
	if u != "/admin/repos?page=2" {
		t.Errorf("unexpected URL: %s", u)
	}

	// handles empty raw query without trailing question mark
	u = BuildURL("/admin/repos?page=1", "")
	if u != "/admin/repos" {
		t.Errorf("expected query stripped when empty, got %s", u)
	}
}

func TestJoinRoute(t *testing.T) {
	t.Parallel()

	if got := JoinRoute("/admin", "/repos"); got != "/admin/repos" {
		t.Errorf("unexpected route: %s", got)
	}
	if got := JoinRoute("/", "/login"); got != "/login" {
		t.Errorf("unexpected route at root base: %s", got)
	}
	if got := JoinRoute("/admin/", ""); got != "/admin" {
		t.Errorf("unexpected route for empty suffix: %s", got)
	}
}
