package config

import (
	"context"
	"fmt"
	"path/filepath"

	"resumegen/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher reloads prompt files into the config's PromptStore when
// they change on disk. Directories are watched rather than files so that
// editors which replace files on save are handled.
type PromptWatcher struct {
	watcher *fsnotify.Watcher
	store   *PromptStore
	files   map[string][]promptFile // keyed by absolute path
	logger  *errors.Logger
}

// NewPromptWatcher returns nil when no prompt files are configured.
func NewPromptWatcher(cfg *Config, logger *errors.Logger) (*PromptWatcher, error) {
	files := cfg.promptFiles()
	if len(files) == 0 {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt file watcher: %w", err)
	}

	pw := &PromptWatcher{
		watcher: watcher,
		store:   cfg.Prompts(),
		files:   make(map[string][]promptFile),
		logger:  logger,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f.path)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve prompt file %s: %w", f.path, err)
		}
		pw.files[abs] = append(pw.files[abs], f)
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch prompt directory %s: %w", dir, err)
		}
	}

	return pw, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (pw *PromptWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pw.reload(event.Name)
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt watcher error")
		}
	}
}

func (pw *PromptWatcher) reload(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	for _, f := range pw.files[abs] {
		content, err := loadPromptFromFile(f.path, f.kind, f.operation)
		if err != nil {
			// Keep serving the previous prompt; partial writes show up as empty files.
			pw.logger.Warn("Prompt reload skipped", "file", abs, "error", err.Error())
			continue
		}
		pw.store.Set(f.operation, f.kind, content)
		pw.logger.Info("Prompt reloaded", "operation", f.operation, "kind", f.kind, "file", abs)
	}
}

func (pw *PromptWatcher) Close() error {
	return pw.watcher.Close()
}
