package rebuild

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/venlacy0/venblog/internal/logfields"
	"github.com/venlacy0/venblog/internal/site"
)

// DefaultSettle is the quiet period after the last relevant file event
// before a rebuild is requested.
const DefaultSettle = 200 * time.Millisecond

// DefaultGlobalFiles are the site-root files whose changes trigger a rebuild.
var DefaultGlobalFiles = []string{"styles.css", "main.js", "post.js", "theme.js", "i18n.js", "math.js"}

// TriggerFunc requests a rebuild.
type TriggerFunc func(ctx context.Context, reason string)

// Watcher watches post sources and global assets and requests a rebuild once
// events have settled.
type Watcher struct {
	root     string
	postsDir string
	settle   time.Duration
	global   map[string]struct{}
	trigger  TriggerFunc
	logger   *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	reason string
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithGlobalFiles adds site-root file names to the watch set.
func WithGlobalFiles(names ...string) WatcherOption {
	return func(w *Watcher) {
		for _, n := range names {
			if n != "" {
				w.global[filepath.Base(n)] = struct{}{}
			}
		}
	}
}

// WithWatchLogger sets the logger (default slog.Default()).
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for the site at root.
func NewWatcher(root string, trigger TriggerFunc, opts ...WatcherOption) *Watcher {
	root = filepath.Clean(root)
	w := &Watcher{
		root:     root,
		postsDir: filepath.Join(root, site.PostsDir),
		settle:   DefaultSettle,
		global:   make(map[string]struct{}, len(DefaultGlobalFiles)),
		trigger:  trigger,
		logger:   slog.Default(),
	}
	for _, n := range DefaultGlobalFiles {
		w.global[n] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. It returns an error only when the
// filesystem watcher cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.addPostsDir(fw)
	w.logger.Info("Watching for changes", logfields.Path(w.root))

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) addPostsDir(fw *fsnotify.Watcher) {
	fi, err := os.Stat(w.postsDir)
	if err != nil || !fi.IsDir() {
		return
	}
	if err := fw.Add(w.postsDir); err != nil {
		w.logger.Warn("watch add failed", logfields.Path(w.postsDir), logfields.Error(err))
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create == fsnotify.Create && filepath.Clean(ev.Name) == w.postsDir {
		w.addPostsDir(fw)
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	if !w.Relevant(ev.Name) {
		return
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	w.schedule(ctx, w.relative(ev.Name))
}

// Relevant reports whether a change to path should trigger a rebuild: a
// post source directly in posts/, or one of the global files at the root.
func (w *Watcher) Relevant(path string) bool {
	path = filepath.Clean(path)
	base := filepath.Base(path)
	if shouldIgnoreEvent(base) {
		return false
	}
	switch filepath.Dir(path) {
	case w.postsDir:
		return site.IsSource(base)
	case w.root:
		_, ok := w.global[base]
		return ok
	default:
		return false
	}
}

// schedule (re)arms the settle timer.
func (w *Watcher) schedule(ctx context.Context, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reason = reason
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, func() {
		if ctx.Err() != nil {
			return
		}
		w.mu.Lock()
		r := w.reason
		w.mu.Unlock()
		w.trigger(ctx, r)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) relative(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// shouldIgnoreEvent returns true for hidden, editor temp and OS metadata files.
func shouldIgnoreEvent(base string) bool {
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
