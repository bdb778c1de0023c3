package tui

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports writes to one file. It watches the parent directory
// so that editors replacing the file are noticed too.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func watchFile(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &fileWatcher{watcher: w, path: abs}, nil
}

// wait blocks until the file changes and returns its new content
func (f *fileWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-f.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != f.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(f.path)
				return fileChangedMsg{text: string(data), err: err}
			case err, ok := <-f.watcher.Errors:
				if !ok {
					return nil
				}
				return fileChangedMsg{err: err}
			}
		}
	}
}

func (f *fileWatcher) Close() error {
	return f.watcher.Close()
}
