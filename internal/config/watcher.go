// ABOUTME: fsnotify-based config watcher for hot reload of theme and poll settings
// ABOUTME: Watches parent directories so editor rename-and-replace saves are seen

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mauromedda/agentdesk/internal/log"
)

// Watcher calls onChange when any of the monitored files is written,
// created, renamed or removed. Bursts are coalesced over the debounce window.
type Watcher struct {
	paths    map[string]struct{}
	onChange func()
	debounce time.Duration

	fs       *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the given files. Directories that do not
// exist are skipped; at least one must be watchable.
func NewWatcher(paths []string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		paths:    make(map[string]struct{}, len(paths)),
		onChange: onChange,
		debounce: 150 * time.Millisecond,
		fs:       fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.paths[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	added := 0
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.Add(dir); err != nil {
			log.Debug("config watcher: add %s: %v", dir, err)
			continue
		}
		added++
	}
	if added == 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("no watchable config directory")
	}
	return w, nil
}

// Start begins the event loop in a goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop halts the watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.fs.Close()
		<-w.doneCh
	})
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher: %v", err)
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.paths[abs]
	return ok
}
