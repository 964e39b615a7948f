// Package watcher imports PWB+ exports dropped into a watched directory,
// so the parts desk can save the spreadsheet from PWB+ straight into a
// folder instead of uploading it by hand.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"partsrecv/internal/services"
)

// settleDelay gives the exporting program time to finish writing before we
// read the file.
const settleDelay = 500 * time.Millisecond

// Watcher imports feed files as they appear in a directory.
type Watcher struct {
	dir    string
	feeds  *services.FeedService
	logger *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, feeds *services.FeedService, logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:    dir,
		feeds:  feeds,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is cancelled. Files already
// present at startup are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	w.importExisting()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start feed watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for feed files", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !feedFile(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("feed watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) importExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !feedFile(e.Name()) {
			continue
		}
		w.importFile(filepath.Join(w.dir, e.Name()))
	}
}

// schedule (re)arms the per-file settle timer; repeated write events while
// the export is still streaming collapse into one import.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.importFile(path)
	})
}

func (w *Watcher) importFile(path string) {
	po, err := w.feeds.ImportFile(path)
	if err != nil {
		w.logger.Warn("feed import failed", zap.String("file", path), zap.Error(err))
		return
	}
	w.logger.Info("feed imported",
		zap.String("file", filepath.Base(path)),
		zap.String("pbsPO", po.PBSPO),
		zap.String("gmControl", po.GMControl),
		zap.Int("lines", len(po.Lines)))
}

func feedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv", ".txt", ".tsv":
		return true
	}
	return false
}
