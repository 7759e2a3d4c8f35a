package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports bursts of filesystem activity under a working tree.
// Inside .git only the index and HEAD matter, so staging and checkouts
// trigger a refresh while object writes do not.
type Watcher struct {
	Root       string
	watcher    *fsnotify.Watcher
	ignoreDirs map[string]bool
	debounce   time.Duration
	logger     *zap.Logger
}

func NewWatcher(root string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		Root:     root,
		watcher:  watcher,
		debounce: debounce,
		logger:   logger,
		ignoreDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
			"vendor":       true,
		},
	}

	if err := w.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}
	if info, err := os.Stat(filepath.Join(root, ".git")); err == nil && info.IsDir() {
		if err := watcher.Add(filepath.Join(root, ".git")); err != nil {
			logger.Warn("not watching git index", zap.Error(err))
		}
	}
	return w, nil
}

// addTree adds dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && w.ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("adding directory to watcher: %w", err)
		}
		return nil
	})
}

// ShouldIgnore reports whether an event on the root-relative path can be
// skipped.
func (w *Watcher) ShouldIgnore(relPath string) bool {
	if relPath == "" || relPath == "." {
		return true
	}
	slashed := filepath.ToSlash(relPath)
	if slashed == ".git/index" || slashed == ".git/HEAD" {
		return false
	}
	for _, part := range strings.Split(slashed, "/") {
		if w.ignoreDirs[part] {
			return true
		}
	}
	return false
}

// Run calls onChange once immediately and again after every debounced
// burst of relevant events, until ctx is done or onChange fails.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	if err := onChange(ctx); err != nil {
		return err
	}

	// nil until an event arms the debounce
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleFSEvent(event) {
				pending = time.After(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := onChange(ctx); err != nil {
				return err
			}
		}
	}
}

// handleFSEvent reports whether event should trigger a refresh, and starts
// watching directories created under the tree.
func (w *Watcher) handleFSEvent(event fsnotify.Event) bool {
	relPath, err := filepath.Rel(w.Root, event.Name)
	if err != nil {
		w.logger.Error("getting relative path", zap.Error(err))
		return false
	}
	if w.ShouldIgnore(relPath) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Error("adding new directory to watcher", zap.Error(err))
			}
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	w.logger.Debug("change detected", zap.String("path", relPath), zap.String("op", event.Op.String()))
	return true
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
