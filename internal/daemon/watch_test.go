package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/theirongolddev/fitdex/internal/fitrec/fittest"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/d/ride.fit", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/ride.FIT", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/ride.fit", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/d/old", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/d/old", Op: fsnotify.Rename}, true},
	}
	for _, tt := range tests {
		if got := relevant(tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestWatchTree_AddsSubdirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "2025", "08"), 0o750); err != nil {
		t.Fatal(err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := watchTree(w, root); err != nil {
		t.Fatal(err)
	}
	if n := len(w.WatchList()); n != 3 {
		t.Errorf("watched %d dirs, want 3", n)
	}
	if err := watchTree(w, filepath.Join(root, "missing")); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestWatch_RescansOnActivityFiles(t *testing.T) {
	root := t.TempDir()
	s := New(Config{DataDir: root, Debounce: 20 * time.Millisecond, MinRescanGap: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rescan := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- s.watch(ctx, rescan) }()

	// The watcher starts asynchronously; keep adding files until one is seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
wait:
	for i := 0; ; i++ {
		select {
		case <-rescan:
			break wait
		case <-tick.C:
			fittest.Write(t, root, fmt.Sprintf("ride-%d.fit", i), fittest.Activity{Created: testNow.Add(time.Duration(i) * time.Minute)})
		case <-deadline:
			t.Fatal("no rescan after writing activity files")
		}
	}
	// Let trailing events from the loop settle, then drain.
	time.Sleep(100 * time.Millisecond)
	select {
	case <-rescan:
	default:
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-rescan:
		t.Error("non-activity file triggered a rescan")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}
