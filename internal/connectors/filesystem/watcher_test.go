package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_HandleFsEvent(t *testing.T) {
	root := t.TempDir()
	visible := filepath.Join(root, "a.txt")
	hidden := filepath.Join(root, ".a.txt")
	require.NoError(t, os.WriteFile(visible, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(hidden, []byte("a"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	w := NewWatcher(root)

	tests := []struct {
		name   string
		event  fsnotify.Event
		wantOK bool
	}{
		{"create", fsnotify.Event{Name: visible, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: visible, Op: fsnotify.Write}, true},
		{"remove ignored", fsnotify.Event{Name: visible, Op: fsnotify.Remove}, false},
		{"chmod ignored", fsnotify.Event{Name: visible, Op: fsnotify.Chmod}, false},
		{"hidden ignored", fsnotify.Event{Name: hidden, Op: fsnotify.Create}, false},
		{"directory ignored", fsnotify.Event{Name: filepath.Join(root, "sub"), Op: fsnotify.Create}, false},
		{"vanished file ignored", fsnotify.Event{Name: filepath.Join(root, "gone.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleFsEvent(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.event.Name, path)
			}
		})
	}
}

func TestWatcher_EmitsCreatedFile(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	path := filepath.Join(root, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("novo"), 0o600))

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_ReportsBurstOnce(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root)
	w.debounce = 100 * time.Millisecond
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	path := filepath.Join(root, "notas.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = f.WriteString("primeira parte\n")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = f.WriteString("segunda parte\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-changes:
		t.Fatalf("path reported twice: %s", got)
	case <-time.After(5 * w.debounce):
	}
}

func TestTakeQuiet(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"b.txt": now.Add(-time.Millisecond),
		"a.txt": now,
		"c.txt": now.Add(40 * time.Millisecond),
		"d.txt": now.Add(90 * time.Millisecond),
	}

	ready, wait := takeQuiet(pending, now)

	assert.Equal(t, []string{"a.txt", "b.txt"}, ready)
	assert.Equal(t, 40*time.Millisecond, wait)
	assert.Len(t, pending, 2)
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	w := NewWatcher(t.TempDir())
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatcher_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	_, err := NewWatcher(path).Watch(context.Background())
	assert.Error(t, err)
}

func TestWatcher_ClosedWatcher(t *testing.T) {
	w := NewWatcher(t.TempDir())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err := w.Watch(context.Background())
	assert.Error(t, err)
}
