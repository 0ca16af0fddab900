package showcase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"showfolio.dev/showfolio-admin/internal/admin/repos"
)

// Outcome reports which way a toggle went.
type Outcome string

const (
	// OutcomeAdded means the repository was written to the store.
	OutcomeAdded Outcome = "added"
	// OutcomeRemoved means the repository was deleted from the store.
	OutcomeRemoved Outcome = "removed"
)

// Toggler flips a repository's membership in the active-display set.
// Present entries are removed, absent ones are added with the
// repository's current fields. Toggles of distinct names may overlap;
// each write targets its own document key so they cannot clobber each
// other.
type Toggler struct {
	source repos.Service
	store  Store
	mirror *Mirror
	logger *zap.Logger
	now    func() time.Time
}

// NewToggler constructs a Toggler. The mirror is optional; without it
// membership is checked against the store directly.
func NewToggler(source repos.Service, store Store, mirror *Mirror, logger *zap.Logger) (*Toggler, error) {
	if source == nil {
		return nil, errors.New("showcase: toggler requires a repository source")
	}
	if store == nil {
		return nil, errors.New("showcase: toggler requires a store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toggler{
		source: source,
		store:  store,
		mirror: mirror,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Toggle looks the name up in the owner's repository list and inverts
// its membership in the active-display set. An unknown name returns
// ErrUnknownRepo without touching the store. The affected repository is
// returned alongside the outcome so callers can re-render it.
func (t *Toggler) Toggle(ctx context.Context, name string) (Outcome, repos.Repo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", repos.Repo{}, ErrUnknownRepo
	}

	list, err := t.source.List(ctx)
	if err != nil {
		return "", repos.Repo{}, fmt.Errorf("showcase: load repository list: %w", err)
	}
	repo, err := repos.FindByName(list, name)
	if err != nil {
		return "", repos.Repo{}, ErrUnknownRepo
	}

	active, err := t.isActive(ctx, name)
	if err != nil {
		return "", repo, err
	}

	if active {
		if err := t.store.Remove(ctx, name); err != nil {
			t.logger.Error("toggle: remove entry", zap.String("repo", name), zap.Error(err))
			return "", repo, err
		}
		return OutcomeRemoved, repo, nil
	}

	entry := Entry{
		ID:          repo.Name,
		Name:        repo.Name,
		Description: repo.Description,
		URL:         repo.URL,
		Topics:      append([]string(nil), repo.Topics...),
		UpdatedAt:   t.now().UTC(),
	}
	if err := t.store.Put(ctx, entry); err != nil {
		t.logger.Error("toggle: put entry", zap.String("repo", name), zap.Error(err))
		return "", repo, err
	}
	return OutcomeAdded, repo, nil
}

func (t *Toggler) isActive(ctx context.Context, name string) (bool, error) {
	if t.mirror != nil {
		if active, ready := t.mirror.Contains(name); ready {
			return active, nil
		}
	}

	entries, err := t.store.List(ctx)
	if err != nil {
		return false, fmt.Errorf("showcase: load active set: %w", err)
	}
	for _, entry := range entries {
		if entry.Name == name {
			return true, nil
		}
	}
	return false, nil
}
