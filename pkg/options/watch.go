package options

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the config file at path with LoadFile every time it changes
// on disk and invokes onChange with the freshly decoded Options. Only the
// mutable subset of configuration (CompactionThreshold, CompactInterval) is
// meant to be consumed from onChange: DataDir is fixed for the lifetime of
// an open engine per spec §5's single-owner rule, and a caller that acted on
// a changed DataDir here would violate that rule.
//
// Watch blocks until ctx is cancelled or the underlying watcher fails to
// start, so callers run it in its own goroutine.
func Watch(ctx context.Context, path string, log *zap.SugaredLogger, onChange func(Options)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			opts, err := LoadFile(path)
			if err != nil {
				log.Warnw("failed to reload config file after change", "path", path, "error", err)
				continue
			}
			log.Infow("reloaded config file", "path", path)
			onChange(opts)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("config watcher error", "error", err)
		}
	}
}
