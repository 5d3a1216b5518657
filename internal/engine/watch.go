package engine

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// ReloadFunc builds a fresh Evaluator from whatever configuration path
// the caller is watching. It is invoked on every debounced filesystem
// change and its result is swapped into the Store atomically.
type ReloadFunc func() (*Evaluator, error)

// Watcher reloads a Store's Evaluator whenever the watched policy file
// changes on disk. Reload is always a full stop-the-world swap of the
// compiled policy value, never a mutation rules can observe
// half-applied; the watcher only decides when to trigger it.
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	reload  ReloadFunc
	done    chan struct{}
}

// Watch starts watching path and reloading store via reload on every
// write. Reloads are debounced by 300ms to absorb editors that emit
// several write events per save.
func Watch(path string, store *Store, reload ReloadFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{watcher: fw, store: store, reload: reload, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	var pending string

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = event.Name
				debounce.Reset(300 * time.Millisecond)
			}
		case <-debounce.C:
			w.reloadOnce(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("policy watcher error")
		case <-w.done:
			debounce.Stop()
			return
		}
	}
}

func (w *Watcher) reloadOnce(path string) {
	ev, err := w.reload()
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("policy reload failed; keeping previous policy")
		return
	}
	w.store.Swap(ev)
	log.Info().Str("path", path).Int("rules", len(ev.Policy().Rules)).Msg("policy reloaded")
}
