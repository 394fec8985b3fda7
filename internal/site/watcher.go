package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/docview/internal/walker"
)

// Watcher reloads content when files under a local source change.
type Watcher struct {
	fsw  *fsnotify.Watcher
	root string
	site *Site
}

// Watch starts watching the source directory root and returns the
// running watcher. It stops when ctx is done or Close is called.
func (s *Site) Watch(ctx context.Context, root string) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{fsw: fsw, root: abs, site: s}
	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run(ctx)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addTree(dir string) error {
	dirs, err := walker.Dirs(dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for _, d := range dirs {
		if err := w.fsw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.site.logger.Warn("watcher error", "error", err)
		}
	}
}

// handle maps one file system event to a site change.
func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.site.logger.Warn("watching new directory failed", "dir", ev.Name, "error", err)
			}
			return
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	switch {
	case rel == w.site.document:
		w.site.DocumentChanged()
	case walker.IsMarkdown(rel):
		w.site.Changed(ctx, rel)
	}
}
