package showcase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Mirror keeps an in-memory copy of the active-display set fed by the
// store's snapshot stream. Every delivered snapshot replaces the whole
// local list; the mirror never writes back, the store stays the single
// source of truth.
type Mirror struct {
	store  Store
	logger *zap.Logger

	mu      sync.RWMutex
	entries []Entry
	ready   bool

	subsMu  sync.Mutex
	subs    map[int]func([]Entry)
	nextSub int
}

// NewMirror constructs a Mirror over the given store.
func NewMirror(store Store, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		store:  store,
		logger: logger,
		subs:   make(map[int]func([]Entry)),
	}
}

// Run consumes the snapshot stream until ctx is cancelled or the
// stream fails. Stream failures are logged and returned without retry;
// the mirror reports not-ready afterwards.
func (m *Mirror) Run(ctx context.Context) error {
	if m.store == nil {
		return errors.New("showcase: mirror requires a store")
	}

	snaps, err := m.store.Watch(ctx)
	if err != nil {
		m.logger.Error("mirror: open snapshot stream", zap.Error(err))
		return err
	}
	defer snaps.Stop()

	for {
		entries, err := snaps.Next()
		if err != nil {
			m.setReady(false)
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			m.logger.Error("mirror: snapshot stream failed", zap.Error(err))
			return err
		}
		m.replace(entries)
	}
}

// Snapshot returns a copy of the mirrored entry set in store order and
// whether the mirror has received at least one snapshot.
func (m *Mirror) Snapshot() ([]Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, m.ready
}

// Contains reports membership of name in the mirrored set. The second
// result is false until the first snapshot arrives.
func (m *Mirror) Contains(name string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return false, false
	}
	for _, entry := range m.entries {
		if entry.Name == name {
			return true, true
		}
	}
	return false, true
}

// Subscribe registers fn to run on every delivered snapshot. The
// returned function unregisters it; delivery stops afterwards.
func (m *Mirror) Subscribe(fn func([]Entry)) func() {
	if fn == nil {
		return func() {}
	}

	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

func (m *Mirror) replace(entries []Entry) {
	m.mu.Lock()
	m.entries = entries
	m.ready = true
	m.mu.Unlock()

	m.subsMu.Lock()
	subs := make([]func([]Entry), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range subs {
		snapshot := make([]Entry, len(entries))
		copy(snapshot, entries)
		fn(snapshot)
	}
}

func (m *Mirror) setReady(ready bool) {
	m.mu.Lock()
	m.ready = ready
	m.mu.Unlock()
}
