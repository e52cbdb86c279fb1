package roster

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay lets spreadsheet editors finish flushing before we reload;
// most write the file in several quick bursts.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the roster whenever its spreadsheet changes on disk. Events
// for other files in the same directory are ignored. Reload failures (for
// example the file briefly locked by the editor) are logged and the cycle is
// skipped; the next change notification tries again.
type Watcher struct {
	syncer *Syncer
	path   string
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(syncer *Syncer, path string, logger *slog.Logger) *Watcher {
	return &Watcher{syncer: syncer, path: path, logger: logger}
}

// Start begins watching. The returned error covers subscription setup only;
// the watch loop itself runs on a background goroutine until Stop or context
// cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go w.run(ctx, fsw)

	w.logger.Info("watching roster file", "path", w.path)
	return nil
}

// Stop cancels the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.done != nil {
		<-w.done
	}
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()

	base := filepath.Base(w.path)

	// The timer is armed on the first relevant event and pushed back by each
	// subsequent one, so a burst of writes triggers a single reload.
	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-fsw.Events:
			if !open {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("roster change detected", "op", event.Op.String())
			debounce.Reset(debounceDelay)
		case err, open := <-fsw.Errors:
			if !open {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case <-debounce.C:
			if _, err := w.syncer.Reload(); err != nil {
				w.logger.Warn("roster reload failed, skipping cycle", "error", err)
			}
		}
	}
}
