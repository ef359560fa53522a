package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch reloads the session every time path is written, recreated, removed
// or renamed away, until ctx is cancelled. A removed file publishes the
// unavailable state. Reloads are not coalesced: each event starts its own load
// and the latest-started load wins. onReload, if set, is called after every
// load with the resulting state and error.
func (s *Session) Watch(ctx context.Context, path string, onReload func(*State, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("watching caption file", "path", target)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "err", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&reloadOps == 0 {
				continue
			}
			s.logger.Debug("caption file changed", "op", ev.Op.String())
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Load(ctx)
				if onReload != nil {
					onReload(s.Current(), err)
				}
			}()
		}
	}
}
