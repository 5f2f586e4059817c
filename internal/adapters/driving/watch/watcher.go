// Package watch ingests documents dropped into a filesystem folder.
//
// The watcher scans the folder once on startup, then follows change
// events: created or modified files are (re-)ingested, removed or
// renamed files are deleted from the index. Document IDs derive from
// the file path, so editing a file updates its entry in place.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
	"github.com/custodia-labs/localrag/internal/logger"
)

// DocType tags documents ingested from the drop folder.
const DocType = "file"

// maxFileSize bounds how much of a dropped file is ingested.
const maxFileSize = 1 << 20 // 1 MiB

// settleDelay is how long the watcher waits after a write event before
// reading the file, letting editors finish their save sequence.
const settleDelay = 200 * time.Millisecond

// Watcher follows a drop folder and mirrors it into the engine.
type Watcher struct {
	dir     string
	service driving.RetrievalService
}

// New creates a watcher for the given folder. The folder is watched
// non-recursively.
func New(dir string, service driving.RetrievalService) *Watcher {
	return &Watcher{dir: dir, service: service}
}

// Run scans the folder and then follows events until the context is
// cancelled. Per-file ingest failures are logged and skipped; only
// watcher-level failures end the run.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.scan(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// scan ingests every eligible file already present in the folder.
func (w *Watcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || skipName(entry.Name()) {
			continue
		}
		if err := w.ingestFile(ctx, filepath.Join(w.dir, entry.Name())); err != nil {
			logger.Warn("Skipping %s: %v", entry.Name(), err)
			continue
		}
		count++
	}

	logger.Info("Initial scan ingested %d files from %s", count, w.dir)
	return nil
}

// handle maps a filesystem event to an engine operation.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if skipName(name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		time.Sleep(settleDelay)

		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return
		}
		if err := w.ingestFile(ctx, event.Name); err != nil {
			logger.Warn("Ingesting %s failed: %v", name, err)
		}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if err := w.service.Delete(ctx, PathID(event.Name)); err != nil {
			logger.Warn("Removing %s failed: %v", name, err)
		}
	}
}

// ingestFile reads a file and upserts it under its path-derived ID.
func (w *Watcher) ingestFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("file exceeds %d bytes", maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	_, err = w.service.Ingest(ctx, &domain.Document{
		ID:      PathID(path),
		Title:   filepath.Base(path),
		Source:  path,
		DocType: DocType,
		Content: string(content),
		Metadata: map[string]string{
			"path": path,
		},
	})
	return err
}

// PathID derives a stable document ID from an absolute file path.
func PathID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return "file-" + hex.EncodeToString(sum[:8])
}

// skipName filters hidden files and common editor temp files.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".tmp")
}
