package daemon

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/theirongolddev/fitdex/internal/source"
	"golang.org/x/time/rate"
)

// watchTree watches root and every directory below it. fsnotify is not
// recursive, so each directory needs its own watch.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil //nolint:nilerr
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			log.Debug().Err(err).Str("dir", path).Msg("cannot watch directory")
		}
		return nil
	})
}

// relevant reports whether ev can change the index: any change to an
// activity file, or a removed/renamed path that may have been a directory.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if source.IsActivityFile(ev.Name) {
		return true
	}
	return ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// watch sends on rescan after filesystem activity under the data dir
// settles for Debounce. Watch-triggered rescans are limited to one per
// MinRescanGap; requests over the limit are deferred, not dropped.
func (s *Service) watch(ctx context.Context, rescan chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := watchTree(w, s.cfg.DataDir); err != nil {
		return err
	}
	log.Info().Str("dir", s.cfg.DataDir).Int("dirs", len(w.WatchList())).Msg("watching for changes")

	limiter := rate.NewLimiter(rate.Every(s.cfg.MinRescanGap), 1)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New directories are watched along with everything they
				// already contain.
				_ = watchTree(w, ev.Name)
				if !relevant(ev) && !isDir(ev.Name) {
					continue
				}
			} else if !relevant(ev) {
				continue
			}
			log.Trace().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change")
			timer.Reset(s.cfg.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			r := limiter.Reserve()
			if d := r.Delay(); d > 0 {
				r.Cancel()
				timer.Reset(d)
				continue
			}
			select {
			case rescan <- struct{}{}:
			default: // a rescan is already queued
			}
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
