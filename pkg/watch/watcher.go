package watch

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Config.Debounce is not positive
const DefaultDebounce = 250 * time.Millisecond

// Reloader rebuilds state after a change. core.Session satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Config holds the parameters for a Watcher
type Config struct {
	Targets  []Target
	Debounce time.Duration
	Reloader Reloader

	// OnReload, when set, is called after every reload attempt with the
	// changed paths (absolute) and the reload error, if any.
	OnReload func(changed []string, err error)
}

// Watcher fires a debounced Reload when a relevant file under one of its
// targets changes. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	targets  []Target
	debounce time.Duration
	started  atomic.Bool
	logger   zerolog.Logger
}

// New validates the target patterns and registers every existing target
// directory. Missing directories are skipped; they are common (an unused
// ~/.local/share/applications) and a later package install creates them
// under a parent that is not watched anyway.
func New(cfg Config) (*Watcher, error) {
	if cfg.Reloader == nil {
		return nil, errors.New(errors.ErrInvalidInput, "watch: a reloader is required")
	}
	for _, t := range cfg.Targets {
		if err := validatePatterns(t.Patterns); err != nil {
			return nil, err
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "watch: create fsnotify watcher")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: debounce,
		logger:   logging.GetLogger("watch"),
	}

	for _, t := range cfg.Targets {
		t.Dir = filepath.Clean(t.Dir)
		if err := w.addTarget(t); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	// Longest directory first so nested targets claim their own events.
	slices.SortStableFunc(w.targets, func(a, b Target) int {
		return len(b.Dir) - len(a.Dir)
	})

	return w, nil
}

// Watched returns the directories registered with fsnotify
func (w *Watcher) Watched() []string {
	return w.fsw.WatchList()
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when fsnotify fails beyond recovery.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrInternal, "watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if !running.CompareAndSwap(false, true) {
			// A reload is in flight; retry so the pending set is not lost.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		w.logger.Debug().Strs("changed", changed).Msg("Reloading after change")
		err := w.cfg.Reloader.Reload(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Msg("Reload failed")
		}
		if w.cfg.OnReload != nil {
			w.cfg.OnReload(changed, err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug().Err(err).Msg("Close fsnotify")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New(errors.ErrInternal, "watch: fsnotify event channel closed unexpectedly")
			}

			target, rel, ok := w.targetFor(evt.Name)
			if !ok {
				continue
			}

			if target.Recursive && evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if !matches(target.Patterns, rel) {
				continue
			}

			w.logger.Trace().Str("path", evt.Name).Str("op", evt.Op.String()).Msg("Relevant change")

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New(errors.ErrInternal, "watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return errors.Wrap(err, errors.ErrIO, "watch: fatal fsnotify error")
			}
			w.logger.Warn().Err(err).Msg("fsnotify error")
		}
	}
}

// addTarget registers t.Dir, and every subdirectory when t is recursive
func (w *Watcher) addTarget(t Target) error {
	info, err := os.Stat(t.Dir)
	if err != nil || !info.IsDir() {
		w.logger.Debug().Str("dir", t.Dir).Msg("Skipping missing watch target")
		return nil
	}
	w.targets = append(w.targets, t)

	if !t.Recursive {
		return w.add(t.Dir)
	}

	walkErr := filepath.WalkDir(t.Dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Debug().Err(walkErr).Str("path", path).Msg("Skipping inaccessible path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.add(path)
	})
	if walkErr != nil {
		return errors.Wrap(walkErr, errors.ErrIO, "watch: walk directory tree").
			WithDetail("path", t.Dir)
	}
	return nil
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "watch: add directory %q", dir).
			WithDetail("path", dir)
	}
	return nil
}

// maybeAddDir extends a recursive watch to a directory created after startup
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch new directory")
	}
}

// targetFor finds the target owning path and returns path relative to it.
// Non-recursive targets only own their direct children.
func (w *Watcher) targetFor(path string) (Target, string, bool) {
	for _, t := range w.targets {
		rel, err := filepath.Rel(t.Dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if !t.Recursive && strings.Contains(rel, "/") {
			continue
		}
		return t, rel, true
	}
	return Target{}, "", false
}

func matches(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return errors.Newf(errors.ErrInvalidInput, "watch: invalid pattern %q", pat).
				WithDetail("pattern", pat)
		}
	}
	return nil
}
