// Package docwatch ingests documents dropped into a watched folder.
// The folder has one subdirectory per tenant; a file written to
// <root>/<tenant>/ is read and ingested into that tenant's partition.
// Re-dropping a file with the same name replaces its chunks.
package docwatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// defaultExtensions are the file types ingested from the drop folder.
var defaultExtensions = []string{".txt", ".md"}

// Watcher monitors a drop folder and feeds dropped files through the
// ingest pipeline.
type Watcher struct {
	root       string
	ingestor   driving.IngestService
	watcher    *fsnotify.Watcher
	extensions []string
}

// NewWatcher creates a watcher over the given drop folder root. The root
// and its existing tenant subdirectories are watched immediately; tenant
// directories created later are picked up as they appear.
func NewWatcher(root string, ingestor driving.IngestService, extensions []string) (*Watcher, error) {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:       root,
		ingestor:   ingestor,
		watcher:    fsw,
		extensions: extensions,
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if err := fsw.Add(filepath.Join(root, entry.Name())); err != nil {
				logger.Warn("watching %s: %v", entry.Name(), err)
			}
		}
	}

	return w, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	logger.Info("watching drop folder %s", w.root)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("drop folder watch error: %v", err)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	// A new directory directly under the root is a new tenant folder.
	if info.IsDir() {
		if filepath.Dir(event.Name) == w.root {
			if err := w.watcher.Add(event.Name); err != nil {
				logger.Warn("watching %s: %v", event.Name, err)
			}
		}
		return
	}

	tenant, ok := w.tenantFor(event.Name)
	if !ok || !w.isWatchedExtension(event.Name) {
		return
	}

	content, err := os.ReadFile(event.Name)
	if err != nil {
		logger.Warn("reading dropped file %s: %v", event.Name, err)
		return
	}
	if strings.TrimSpace(string(content)) == "" {
		return
	}

	filename := filepath.Base(event.Name)
	ids, err := w.ingestor.Reingest(ctx, tenant, domain.SourceDocument, filename, string(content),
		map[string]string{"filename": filename})
	if err != nil {
		logger.Warn("ingesting dropped file %s for tenant %s: %v", filename, tenant, err)
		return
	}
	logger.Info("ingested dropped file %s for tenant %s: %d chunks", filename, tenant, len(ids))
}

// tenantFor derives the tenant from the file's parent directory. Files
// directly in the root have no tenant and are ignored.
func (w *Watcher) tenantFor(path string) (domain.TenantID, bool) {
	dir := filepath.Dir(path)
	if dir == w.root {
		return "", false
	}
	if filepath.Dir(dir) != w.root {
		return "", false
	}
	tenant := domain.TenantID(filepath.Base(dir))
	if err := tenant.Validate(); err != nil {
		return "", false
	}
	return tenant, true
}

func (w *Watcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
