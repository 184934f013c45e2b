package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a configuration file whenever it changes on disk and hands each valid
// result to a callback. Invalid edits are logged and skipped; the previous configuration
// stays in effect.
type Watcher struct {
	mu       *sync.Mutex
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	done     chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewWatcher starts watching the file at path. The parent directory is watched rather than
// the file itself so editors that replace files on save are still seen.
//
// Parameters:
//   - path: the configuration file to watch
//   - onChange: called from the watcher goroutine with every successfully reloaded config
//
// Returns:
//   - *Watcher: the running watcher, stopped with Close
//   - error: an error if the file system watch could not be established
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %q: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		mu:       &sync.Mutex{},
		path:     abs,
		watcher:  fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			c, err := Load(w.path)
			if err != nil {
				log.Printf("[Config] reload skipped: %v", err)
				continue
			}
			log.Printf("[Config] reloaded %s", w.path)
			if w.onChange != nil {
				w.onChange(c)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] watch error: %v", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
