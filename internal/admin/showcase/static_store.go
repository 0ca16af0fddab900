package showcase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// StaticStore is an in-memory active-display store. It backs tests and
// token-less local runs, and mimics the backing store's behaviour:
// entries listed in lexical key order, watchers fed the full set on
// every change.
type StaticStore struct {
	mu       sync.Mutex
	entries  map[string]Entry
	watchers map[int]chan []Entry
	nextID   int
}

// NewStaticStore returns a store seeded with the given entries.
func NewStaticStore(seed ...Entry) *StaticStore {
	s := &StaticStore{
		entries:  make(map[string]Entry),
		watchers: make(map[int]chan []Entry),
	}
	for _, entry := range seed {
		if entry.Name == "" {
			continue
		}
		entry.ID = entry.Name
		s.entries[entry.Name] = entry
	}
	return s
}

// Put creates or replaces the entry keyed by entry.Name.
func (s *StaticStore) Put(_ context.Context, entry Entry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return errors.New("showcase: entry name is required")
	}
	entry.Name = name
	entry.ID = name
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.entries[name] = entry
	snapshot := s.snapshotLocked()
	watchers := s.watchersLocked()
	s.mu.Unlock()

	broadcast(watchers, snapshot)
	return nil
}

// Remove deletes the entry keyed by name; absent names are a no-op.
func (s *StaticStore) Remove(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("showcase: entry name is required")
	}

	s.mu.Lock()
	delete(s.entries, name)
	snapshot := s.snapshotLocked()
	watchers := s.watchersLocked()
	s.mu.Unlock()

	broadcast(watchers, snapshot)
	return nil
}

// List returns the current entry set in lexical key order.
func (s *StaticStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Watch opens a snapshot stream seeded with the current set.
func (s *StaticStore) Watch(ctx context.Context) (Snapshots, error) {
	ch := make(chan []Entry, 16)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	done := make(chan struct{})
	return &staticSnapshots{
		ctx:  ctx,
		ch:   ch,
		done: done,
		stop: func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(done)
		},
	}, nil
}

func (s *StaticStore) snapshotLocked() []Entry {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, s.entries[name])
	}
	return out
}

func (s *StaticStore) watchersLocked() []chan []Entry {
	out := make([]chan []Entry, 0, len(s.watchers))
	for _, ch := range s.watchers {
		out = append(out, ch)
	}
	return out
}

func broadcast(watchers []chan []Entry, snapshot []Entry) {
	for _, ch := range watchers {
		for {
			select {
			case ch <- snapshot:
			default:
				// Full buffer: drop the oldest pending snapshot so the
				// newest state always lands.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

type staticSnapshots struct {
	ctx  context.Context
	ch   chan []Entry
	done chan struct{}
	stop func()
	once sync.Once
}

func (s *staticSnapshots) Next() ([]Entry, error) {
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case <-s.done:
		return nil, context.Canceled
	case snapshot := <-s.ch:
		return snapshot, nil
	}
}

func (s *staticSnapshots) Stop() {
	s.once.Do(s.stop)
}

// Ensure interface compliance.
var _ Store = (*StaticStore)(nil)
