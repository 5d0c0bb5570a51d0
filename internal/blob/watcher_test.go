package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shift-metrics/internal/logging"
)

func ignoreFsnotify() goleak.Option {
	return goleak.IgnoreAnyFunction("github.com/fsnotify/fsnotify.(*inotify).readEvents")
}

func TestWatcher_EmitsCreatedObjects(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreFsnotify())

	l := newStore(t)
	w, err := l.Watch("shift_manager_imports/", logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, l.Put(ctx, "shift_manager_imports/2024-05-01.csv", strings.NewReader("Loc\n")))

	select {
	case ev := <-w.Events():
		assert.Equal(t, "shift_manager_imports/2024-05-01.csv", ev.Name)
		assert.Equal(t, "text/csv", ev.ContentType)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestWatcher_IgnoresHiddenFiles(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreFsnotify())

	l := newStore(t)
	w, err := l.Watch("in/", logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(l.Root(), "in", ".partial"), []byte("x"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(700 * time.Millisecond):
	}

	w.Stop()
	_, open := <-w.Events()
	assert.False(t, open)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreFsnotify())

	l := newStore(t)
	w, err := l.Watch("", logging.Discard())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()

	_, open := <-w.Events()
	assert.False(t, open)
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	l := newStore(t)
	w, err := l.Watch("x/", logging.Discard())
	require.NoError(t, err)

	w.Stop()
	require.NoError(t, w.Start(context.Background()))

	_, open := <-w.Events()
	assert.False(t, open)
}
