package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the bursts of events editors produce on save
const reloadDelay = 100 * time.Millisecond

// Reload is one result of re-reading a watched config file. Exactly one of
// Config and Err is set.
type Reload struct {
	Config *Config
	Err    error
}

// Watch reloads the config at path whenever it changes and streams the
// results until ctx is cancelled. The directory is watched rather than the
// file so saves that replace the file are seen. The channel is closed when
// the watcher stops.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan Reload, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan Reload, 1)

	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDelay)
				} else {
					timer.Reset(reloadDelay)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				cfg, err := LoadConfig(abs)
				r := Reload{Config: cfg, Err: err}
				if err != nil {
					r.Config = nil
					logger.Warn("config reload failed", "path", abs, "error", err)
				} else {
					logger.Info("config reloaded", "path", abs)
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
