package ui

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// sourceWatcher reports changes to the local .vcf file. The zero value never
// fires, so the worker can select on it when no local source is configured.
type sourceWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
}

// localSourcePath returns the vCard file to watch, or "" when the source is remote.
func (app *CalculatorApp) localSourcePath() string {
	if app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal) != config.SourceModeLocal {
		return ""
	}
	path := app.Preferences.String(config.PrefLocalPath)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// watchLocalSource starts watching the configured local file.
func (app *CalculatorApp) watchLocalSource() *sourceWatcher {
	return newSourceWatcher(app.localSourcePath())
}

func newSourceWatcher(path string) *sourceWatcher {
	if path == "" {
		return &sourceWatcher{}
	}
	log := slog.With(config.LogKeyComponent, config.CompWorker, config.LogKeyFile, path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn(config.ErrWatch, config.LogKeyError, err)
		return &sourceWatcher{path: path}
	}

	// Editors and sync clients often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		log.Warn(config.ErrWatch, config.LogKeyError, err)
		_ = w.Close()
		return &sourceWatcher{path: path}
	}

	sw := &sourceWatcher{
		path:    path,
		watcher: w,
		changes: make(chan struct{}, config.ChannelBufferSize),
		done:    make(chan struct{}),
	}
	go sw.loop(log)
	return sw
}

func (sw *sourceWatcher) loop(log *slog.Logger) {
	defer close(sw.done)
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != sw.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug(config.MsgWatchEvent, config.LogKeyValue, ev.Op.String())
			select {
			case sw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn(config.ErrWatch, config.LogKeyError, err)
		}
	}
}

// Path is the watched file, "" when nothing is watched.
func (sw *sourceWatcher) Path() string { return sw.path }

// Changes fires after the file was written, created or replaced.
func (sw *sourceWatcher) Changes() <-chan struct{} { return sw.changes }

// Close stops the watch and waits for the event loop to exit.
func (sw *sourceWatcher) Close() {
	if sw.watcher == nil {
		return
	}
	_ = sw.watcher.Close()
	<-sw.done
	sw.watcher = nil
}
