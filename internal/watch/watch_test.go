package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startWatcher runs w in the background and returns the change batches.
func startWatcher(t *testing.T, w *Watcher) <-chan []string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})

	// Give the watcher time to register before the test writes.
	time.Sleep(50 * time.Millisecond)
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

// ---------------------------------------------------------------------------
// TestWatcher_Run - Debounced change batches
// ---------------------------------------------------------------------------

func TestWatcher_Run_BatchesBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, New([]string{dir}, WithDebounce(100*time.Millisecond)))

	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	for _, p := range []string{a, b, a} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	got := waitBatch(t, batches)
	if !slices.Contains(got, a) || !slices.Contains(got, b) {
		t.Errorf("batch = %v, want both files", got)
	}
	if len(got) != 2 {
		t.Errorf("batch has %d paths, want 2 (deduplicated)", len(got))
	}
}

func TestWatcher_Run_NewSubdirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, New([]string{dir}, WithDebounce(50*time.Millisecond)))

	sub := filepath.Join(dir, "img")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	waitBatch(t, batches)

	file := filepath.Join(sub, "cover.svg")
	if err := os.WriteFile(file, []byte("<svg/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case b := <-batches:
			if slices.Contains(b, file) {
				return
			}
		case <-deadline:
			t.Fatal("change in new subdirectory not reported")
		}
	}
}

func TestWatcher_Run_MissingDir(t *testing.T) {
	t.Parallel()

	w := New([]string{filepath.Join(t.TempDir(), "nope")})
	if err := w.Run(context.Background(), func(context.Context, []string) {}); err == nil {
		t.Error("expected error for missing directory")
	}
}

// ---------------------------------------------------------------------------
// TestRelevant - Event filtering
// ---------------------------------------------------------------------------

func TestRelevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: "/p/a.md", Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: "/p/.a.md", Op: fsnotify.Write}, false},
		{"swap", fsnotify.Event{Name: "/p/a.md.swp", Op: fsnotify.Write}, false},
		{"backup", fsnotify.Event{Name: "/p/a.md~", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
