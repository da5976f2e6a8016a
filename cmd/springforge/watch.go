package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/springforge/compiler/gen"
)

// settle is how long document events must be quiet before a run starts.
const settle = 250 * time.Millisecond

// watch runs g once and again after every burst of document changes below
// dirs, until ctx is done. Failed runs are logged and do not stop watching.
func watch(ctx context.Context, g *gen.Generator, dirs []string, recursive bool, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, dir := range dirs {
		if err := add(w, dir, recursive); err != nil {
			return err
		}
	}

	regenerate := func() {
		res, err := g.Run(ctx)
		switch {
		case errors.Is(err, context.Canceled):
		case err != nil:
			log.Error("generation failed, waiting for changes", zap.Error(err))
		default:
			report(log, res)
		}
	}
	regenerate()
	log.Info("watching for changes", zap.Strings("dirs", dirs))

	pctx := g.ParseContext()
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if recursive && ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := add(w, ev.Name, true); err != nil {
						log.Warn("cannot watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			if _, ok := pctx.FormatOf(ev.Name); !ok || ev.Has(fsnotify.Chmod) {
				continue
			}
			log.Debug("document changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(settle)
		case <-timer.C:
			regenerate()
		}
	}
}

// add watches dir and, when recursive, its subdirectories.
func add(w *fsnotify.Watcher, dir string, recursive bool) error {
	if !recursive {
		return w.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
