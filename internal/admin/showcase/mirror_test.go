package showcase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"showfolio.dev/showfolio-admin/internal/admin/showcase"
)

func entryNames(entries []showcase.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}

func TestMirrorReplacesWholeSnapshot(t *testing.T) {
	t.Parallel()

	store := showcase.NewStaticStore(showcase.Entry{Name: "alpha", UpdatedAt: time.Now().UTC()})
	mirror := showcase.NewMirror(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	runDone := make(chan error, 1)
	go func() { runDone <- mirror.Run(ctx) }()

	require.Eventually(t, func() bool {
		entries, ready := mirror.Snapshot()
		return ready && len(entries) == 1 && entries[0].Name == "alpha"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, store.Put(ctx, showcase.Entry{Name: "beta"}))
	require.Eventually(t, func() bool {
		entries, _ := mirror.Snapshot()
		names := entryNames(entries)
		return len(names) == 2 && names[0] == "alpha" && names[1] == "beta"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, store.Remove(ctx, "alpha"))
	require.Eventually(t, func() bool {
		entries, _ := mirror.Snapshot()
		names := entryNames(entries)
		return len(names) == 1 && names[0] == "beta"
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-runDone:
		require.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(time.Second):
		t.Fatal("mirror did not stop after cancellation")
	}
}

func TestMirrorSubscriberReceivesEachSnapshot(t *testing.T) {
	t.Parallel()

	store := showcase.NewStaticStore()
	mirror := showcase.NewMirror(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = mirror.Run(ctx) }()

	events := make(chan []string, 8)
	unsubscribe := mirror.Subscribe(func(entries []showcase.Entry) {
		events <- entryNames(entries)
	})

	require.NoError(t, store.Put(ctx, showcase.Entry{Name: "alpha"}))

	var lastEvent []string
	deadline := time.After(time.Second)
waitAdded:
	for {
		select {
		case lastEvent = <-events:
			if len(lastEvent) == 1 && lastEvent[0] == "alpha" {
				break waitAdded
			}
		case <-deadline:
			t.Fatalf("subscriber never saw alpha, last event %v", lastEvent)
		}
	}

	unsubscribe()
	require.NoError(t, store.Put(ctx, showcase.Entry{Name: "beta"}))

	select {
	case got := <-events:
		t.Fatalf("subscriber received event after unsubscribe: %v", got)
	case <-time.After(150 * time.Millisecond):
	}

	// The mirror itself keeps following the stream.
	require.Eventually(t, func() bool {
		entries, _ := mirror.Snapshot()
		return len(entries) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestMirrorContainsReportsReadiness(t *testing.T) {
	t.Parallel()

	store := showcase.NewStaticStore(showcase.Entry{Name: "alpha", UpdatedAt: time.Now().UTC()})
	mirror := showcase.NewMirror(store, nil)

	_, ready := mirror.Contains("alpha")
	require.False(t, ready, "mirror is not ready before the first snapshot")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = mirror.Run(ctx) }()

	require.Eventually(t, func() bool {
		active, ready := mirror.Contains("alpha")
		return ready && active
	}, time.Second, 10*time.Millisecond)

	active, ready := mirror.Contains("missing")
	require.True(t, ready)
	require.False(t, active)
}
