package devserver

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

// fsWatcher wraps fsnotify and reports changes to individual files. Parent
// directories are watched rather than the files themselves so atomic write
// patterns (vim, VS Code rename-over) still produce events for the target.
type fsWatcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

func newFSWatcher(onChange func(path string)) (*fsWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &fsWatcher{fsw: fsw, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *fsWatcher) watchFile(path string) error {
	return w.fsw.Add(filepath.Dir(path))
}

func (w *fsWatcher) run(onChange func(path string)) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			onChange(abs)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			devlog.Debugf("File watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *fsWatcher) close() {
	close(w.done)
	w.fsw.Close()
}
