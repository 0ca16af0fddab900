package helpers

import "strings"

// JoinRoute appends a suffix to the admin base path.
func JoinRoute(base, suffix string) string {
	base = normalizeRoute(base)
	raw := strings.TrimSpace(suffix)
	if raw == "" {
		return base
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	if base == "/" {
		return raw
	}
	return base + raw
}

func normalizeRoute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
