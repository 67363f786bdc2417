package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor save bursts into one reconciliation.
const debounceDelay = 100 * time.Millisecond

// watchGrammars re-runs reconciliation when a grammar document changes.
// Parent directories are watched rather than the files, because most
// editors replace files on save and the watch would be lost.
func (s *Server) watchGrammars(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watched := s.watchedFiles()
	for _, dir := range watchDirs(watched) {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("grammar document changed, reconciling", "file", event.Name)
				if err := s.reconcile(); err != nil {
					s.logger.Error("reconciliation failed", "error", err)
				}
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchedFiles returns the set of grammar inputs, keyed by cleaned path.
func (s *Server) watchedFiles() map[string]bool {
	files := map[string]bool{
		filepath.Clean(s.cfg.Reference): true,
		filepath.Clean(s.cfg.Community): true,
	}
	if s.cfg.Overrides != "" {
		files[filepath.Clean(s.cfg.Overrides)] = true
	}
	return files
}

// watchDirs returns the distinct parent directories of the given files.
func watchDirs(files map[string]bool) []string {
	seen := make(map[string]bool)
	var dirs []string
	for file := range files {
		dir := filepath.Dir(file)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
