// Package ui holds the HTTP handlers behind the authenticated admin screens.
package ui

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	custommw "showfolio.dev/showfolio-admin/internal/admin/httpserver/middleware"
	"showfolio.dev/showfolio-admin/internal/admin/repos"
	"showfolio.dev/showfolio-admin/internal/admin/showcase"
	"showfolio.dev/showfolio-admin/internal/admin/templates/partials"
)

const (
	defaultGridPageSize    = 9
	defaultActivePollEvery = 5 * time.Second
)

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Repos   repos.Service
	Toggler *showcase.Toggler
	Mirror  *showcase.Mirror

	// PageSize overrides the repository grid page size.
	PageSize int
	// ActivePollEvery overrides the live panel refresh interval; zero
	// keeps the default, negative disables polling.
	ActivePollEvery time.Duration
}

// Handlers exposes HTTP handlers for admin UI pages and fragments.
type Handlers struct {
	repos     repos.Service
	toggler   *showcase.Toggler
	mirror    *showcase.Mirror
	pageSize  int
	pollEvery time.Duration
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	service := deps.Repos
	if service == nil {
		service = repos.NewStaticService()
	}

	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = defaultGridPageSize
	}

	pollEvery := deps.ActivePollEvery
	if pollEvery == 0 {
		pollEvery = defaultActivePollEvery
	}
	if pollEvery < 0 {
		pollEvery = 0
	}

	return &Handlers{
		repos:     service,
		toggler:   deps.Toggler,
		mirror:    deps.Mirror,
		pageSize:  pageSize,
		pollEvery: pollEvery,
	}
}

func triggerToast(w http.ResponseWriter, message, tone string) {
	_ = custommw.Trigger(w, "toast", map[string]string{
		"message": message,
		"tone":    tone,
	})
}

func popFlash(r *http.Request) *partials.Flash {
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		return nil
	}
	flash := sess.PopFlash()
	if flash == nil {
		return nil
	}
	return &partials.Flash{Kind: flash.Kind, Message: flash.Message}
}

func parsePositiveInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if parsed < 0 {
		parsed = 0
	}
	return parsed, nil
}

func parsePositiveIntDefault(raw string, fallback int) int {
	value, err := parsePositiveInt(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
