package workspace

import (
	"github.com/fsnotify/fsnotify"
	"github.com/juansaizh/quickscene/internal/log"
)

// Watcher forwards filesystem events for the scene directory into the
// manager's pending set. It only accelerates detection: the poll loop
// stays the source of truth, the watcher merely gets a changed path
// checked on the next tick instead of the next sweep.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// WatchDir starts watching dir for writes and creations.
func WatchDir(mgr *Manager, dir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fs.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					mgr.NoteFileEvent(ev.Name)
				}
			case err, ok := <-fs.Errors:
				if !ok {
					return
				}
				log.Printf("watch %s: %v", dir, err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
