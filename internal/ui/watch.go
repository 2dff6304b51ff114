package ui

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// StoreWatcher reports changes to a single tasks file. It watches the parent
// directory because saves replace the file by rename.
type StoreWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewStoreWatcher starts watching path. The parent directory must exist.
func NewStoreWatcher(path string) (*StoreWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	sw := &StoreWatcher{
		watcher: watcher,
		path:    abs,
		changes: make(chan struct{}, 1),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.processEvents()
	return sw, nil
}

// Changes emits once per burst of changes to the store file. Pending
// notifications are coalesced, so a slow reader sees at most one.
func (sw *StoreWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Errors returns watcher errors. The channel is closed once the watcher stops.
func (sw *StoreWatcher) Errors() <-chan error {
	return sw.errors
}

// Close stops watching. It is safe to call more than once.
func (sw *StoreWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		close(sw.done)
		err = sw.watcher.Close()
		sw.wg.Wait()
	})
	return err
}

func (sw *StoreWatcher) processEvents() {
	defer sw.wg.Done()
	defer close(sw.errors)

	for {
		select {
		case <-sw.done:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.relevant(event) {
				continue
			}
			select {
			case sw.changes <- struct{}{}:
			default:
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case sw.errors <- err:
			case <-sw.done:
				return
			default:
			}
		}
	}
}

// relevant reports whether event touches the store file. Chmod-only events
// and other files in the directory, including save temp files, are ignored.
func (sw *StoreWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != sw.path {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
