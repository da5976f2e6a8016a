package gen

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/springforge"
)

// FormatGo formats rendered Go sources and groups their imports. It never
// adds or removes imports, so the result depends only on the input.
func FormatGo(path string, src []byte) ([]byte, error) {
	return imports.Process(path, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// artifact is one rendered output file.
type artifact struct {
	// path is relative to the output root.
	path string
	unit string
	src  []byte
}

// writer writes artifacts below the output root in parallel and records
// the generated set.
type writer struct {
	root    string
	workers int
	log     *zap.Logger

	mu        sync.Mutex
	generated map[string]struct{}
	written   []string
	unchanged []string
}

func newWriter(root string, workers int, log *zap.Logger) *writer {
	return &writer{
		root:      root,
		workers:   workers,
		log:       log,
		generated: make(map[string]struct{}),
	}
}

// writeAll writes the artifacts. Cancelling ctx stops scheduling further
// writes; writes in flight complete.
func (w *writer) writeAll(ctx context.Context, arts []artifact) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return springforge.NewIOError("mkdir", w.root, err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, a := range arts {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			return w.write(a)
		})
	}
	return eg.Wait()
}

// write writes one artifact unless the file already holds the same content.
func (w *writer) write(a artifact) error {
	full := filepath.Join(w.root, a.path)
	old, err := os.ReadFile(full)
	switch {
	case err == nil && bytes.Equal(old, a.src):
		w.record(a.path, false)
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return springforge.NewIOError("read", full, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return springforge.NewIOError("mkdir", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, a.src, 0o644); err != nil {
		return springforge.NewIOError("write", full, err)
	}
	w.log.Debug("wrote file", zap.String("path", a.path), zap.String("unit", a.unit), zap.Int("bytes", len(a.src)))
	w.record(a.path, true)
	return nil
}

func (w *writer) record(path string, changed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generated[path] = struct{}{}
	if changed {
		w.written = append(w.written, path)
	} else {
		w.unchanged = append(w.unchanged, path)
	}
}

// results returns the written and unchanged paths, sorted.
func (w *writer) results() (written, unchanged []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	written, unchanged = slices.Clone(w.written), slices.Clone(w.unchanged)
	slices.Sort(written)
	slices.Sort(unchanged)
	return written, unchanged
}

// cleanup deletes the files below root whose extension is owned and whose
// path relative to root is not protected. It returns the deleted paths in
// walk order.
func cleanup(root string, exts []string, protected map[string]struct{}, log *zap.Logger) ([]string, error) {
	var deleted []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return springforge.NewIOError("walk", path, err)
		}
		if d.IsDir() || !slices.Contains(exts, filepath.Ext(path)) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return springforge.NewIOError("walk", path, err)
		}
		if _, ok := protected[rel]; ok {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return springforge.NewIOError("delete", path, err)
		}
		log.Info("deleted obsolete file", zap.String("path", rel))
		deleted = append(deleted, rel)
		return nil
	})
	return deleted, err
}
