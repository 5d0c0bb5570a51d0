package blob

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Event announces a newly created object.
type Event struct {
	Name        string
	ContentType string
}

// Watcher turns filesystem activity under one prefix into blob-created events.
// Only the prefix directory itself is watched, not subdirectories.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	log     *slog.Logger
	prefix  string
	dir     string
	quiet   time.Duration
	pending map[string]time.Time
	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// Watch prepares a watcher for objects named prefix+<file>. Call Start to begin.
func (l *Local) Watch(prefix string, log *slog.Logger) (*Watcher, error) {
	const op = "blob.Local.Watch"

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dir := l.root
	if p := strings.Trim(prefix, "/"); p != "" {
		dir = filepath.Join(l.root, filepath.FromSlash(p))
	}

	return &Watcher{
		fsw:     fsw,
		log:     log,
		prefix:  prefix,
		dir:     dir,
		quiet:   300 * time.Millisecond,
		pending: make(map[string]time.Time),
		events:  make(chan Event, 64),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Events is closed once the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Start(ctx context.Context) error {
	const op = "blob.Watcher.Start"

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("%s: watch %s: %w", op, w.dir, err)
	}

	w.running = true
	go w.run(ctx)

	w.log.Info("watching for imports", slog.String("dir", w.dir))
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher. Safe to call twice.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	} else {
		close(w.events)
	}

	if err := w.fsw.Close(); err != nil {
		w.log.Error("closing watcher", slog.String("error", err.Error()))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", slog.String("error", err.Error()))
		case now := <-ticker.C:
			if !w.flush(ctx, now) {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return
	}
	w.pending[ev.Name] = time.Now()
}

// flush emits files that have been quiet long enough. It returns false when the
// watcher was told to stop while blocked on a full channel.
func (w *Watcher) flush(ctx context.Context, now time.Time) bool {
	for file, last := range w.pending {
		if now.Sub(last) < w.quiet {
			continue
		}
		delete(w.pending, file)

		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}

		name := path.Join(strings.Trim(w.prefix, "/"), filepath.Base(file))
		ev := Event{Name: name, ContentType: ContentType(name)}

		select {
		case w.events <- ev:
		case <-ctx.Done():
			return false
		case <-w.stopCh:
			return false
		}
	}
	return true
}
