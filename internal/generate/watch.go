package generate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long Watch waits for writes to settle before regenerating.
const debounce = 100 * time.Millisecond

// Watch generates once, then regenerates whenever the description file
// changes, until ctx is cancelled. Every run, including failed ones, is
// reported to onResult.
func Watch(ctx context.Context, opts Options, onResult func(*Result, error)) error {
	opts = opts.withDefaults()
	target, err := filepath.Abs(opts.DescriptionPath)
	if err != nil {
		return fmt.Errorf("failed to resolve description path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	run := func() {
		if ctx.Err() != nil {
			return
		}
		onResult(Run(ctx, opts))
	}
	run()

	// Debounced runs happen on this goroutine, so none can outlive Watch.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			pending = nil
			opts.Logger.Debug("description changed", slog.String("description", opts.DescriptionPath))
			run()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}
			timer.Reset(debounce)
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
