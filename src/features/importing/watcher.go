package importing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Watcher defines the interface for file system watchers
type Watcher interface {
	Start(ctx context.Context, watchPath string) error
	Stop()
}

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated  FileEventType = "created"
	FileRemoved  FileEventType = "removed"
	FileModified FileEventType = "modified"
)

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	EventType FileEventType
	Timestamp time.Time
}

// SetWatcher attaches a file system watcher to the service.
func (s *Service) SetWatcher(w Watcher) {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	s.watcher = w
}

// StartWatcher begins watching the library path. Each debounced file event
// triggers a directory import job.
func (s *Service) StartWatcher(ctx context.Context) error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	if s.watcher == nil {
		return fmt.Errorf("no watcher configured")
	}

	watchPath := s.config.Get().LibraryPath
	if err := s.watcher.Start(ctx, watchPath); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	s.watcherOn = true
	slog.Info("Library watcher started", "path", watchPath)
	return nil
}

// StopWatcher stops the file system watcher.
func (s *Service) StopWatcher() {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.watcherOn = false
}

// WatcherRunning reports whether the watcher is active.
func (s *Service) WatcherRunning() bool {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	return s.watcherOn
}

// HandleFileEvents consumes watcher events and starts import jobs for them.
// Blocks until the context is cancelled or the channel closes.
func (s *Service) HandleFileEvents(ctx context.Context, events <-chan FileEvent) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			slog.Info("File event received, starting import", "path", event.Path, "type", event.EventType)
			if _, err := s.ImportDirectory(ctx, event.Path); err != nil {
				slog.Error("Failed to start import for file event", "error", err, "path", event.Path)
			}
		case <-ctx.Done():
			return
		}
	}
}
