package ruleset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/rules"
)

// Cache holds the active rule set. Reads are lock-free on an atomically
// swapped snapshot; only the reload path takes the exclusive section. A failed
// reload keeps the last-known-good snapshot active.
type Cache struct {
	path    string
	ttl     time.Duration
	catalog []rules.Definition
	logger  *zerolog.Logger

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
}

// NewCache loads the initial rule set. The first load must succeed: without a
// last-known-good set there is nothing to fall back to.
func NewCache(path string, ttl time.Duration, catalog []rules.Definition, logger *zerolog.Logger) (*Cache, error) {
	c := &Cache{
		path:    path,
		ttl:     ttl,
		catalog: catalog,
		logger:  logger,
	}
	if err := c.Reload(); err != nil {
		return nil, fmt.Errorf("initial rule set load: %w", err)
	}
	return c, nil
}

// Snapshot returns the active rule set. When the TTL has lapsed a reload is
// attempted inline, but callers always get a usable snapshot: on reload
// failure the previous set stays active.
func (c *Cache) Snapshot() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("no active rule set")
	}
	if c.ttl > 0 && time.Since(snap.LoadedAt) > c.ttl {
		c.maybeReload()
		snap = c.current.Load()
	}
	return snap, nil
}

// maybeReload refreshes the snapshot unless another goroutine is already
// doing so. Concurrent validations never wait on a reload in progress.
func (c *Cache) maybeReload() {
	if !c.reloadMu.TryLock() {
		return
	}
	defer c.reloadMu.Unlock()

	snap := c.current.Load()
	if snap != nil && time.Since(snap.LoadedAt) <= c.ttl {
		return
	}
	if err := c.reloadLocked(); err != nil {
		c.logger.Warn().Err(err).Str("path", c.path).
			Msg("rule set reload failed, keeping last-known-good set")
	}
}

// Reload re-reads the configuration and atomically swaps the active rule set.
func (c *Cache) Reload() error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()
	return c.reloadLocked()
}

func (c *Cache) reloadLocked() error {
	cfg, err := LoadConfig(c.path)
	if err != nil {
		return err
	}
	snap, err := BuildSnapshot(cfg, c.catalog)
	if err != nil {
		return err
	}
	c.current.Store(snap)
	c.logger.Info().
		Int("rules", snap.Len()).
		Float64("acceptable_threshold", snap.Thresholds.Acceptable).
		Msg("rule set loaded")
	return nil
}

// Watch reloads the rule set when the config file changes on disk. Events are
// debounced because editors fire several writes per save. Blocks until ctx is
// done.
func (c *Cache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: writers that replace the file (rename+create)
	// would otherwise detach the watch.
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(c.path), err)
	}

	var (
		debounce = 200 * time.Millisecond
		timer    *time.Timer
		timerC   <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(c.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if err := c.Reload(); err != nil {
				c.logger.Warn().Err(err).
					Msg("rule set reload after file change failed, keeping last-known-good set")
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error().Err(watchErr).Msg("rule config watcher error")
		}
	}
}
