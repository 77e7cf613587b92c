package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/music"
	"golang.org/x/sync/errgroup"
)

// MetadataReader extracts metadata from a single audio file.
type MetadataReader interface {
	ReadFileTags(ctx context.Context, filePath string) (*music.FileMetadata, error)
}

// ProgressFunc reports scan progress. Percent is (processed*100)/total, or 0
// when the directory holds no audio files.
type ProgressFunc func(processed, total, percent int, message string)

// ErrorFunc reports a path that failed to yield metadata. The scan continues
// past it.
type ErrorFunc func(path string, err error)

// Service walks a directory tree and extracts metadata from every audio file
// it recognizes.
type Service struct {
	reader MetadataReader
	config *config.Manager
}

// NewService creates a new scanning service.
func NewService(reader MetadataReader, config *config.Manager) *Service {
	return &Service{reader: reader, config: config}
}

// Scan walks root and returns metadata for every audio file found. Files are
// counted first so progress reports a stable total. A single unreadable file
// is reported through errorFn and skipped. A missing root is reported through
// errorFn and yields an empty batch, not an error. Cancellation stops the
// scan early and returns the results gathered so far.
func (s *Service) Scan(ctx context.Context, root string, progressFn ProgressFunc, errorFn ErrorFunc) ([]music.FileMetadata, error) {
	info, err := os.Stat(root)
	if err != nil {
		slog.Warn("Scan root not accessible", "root", root, "error", err)
		if errorFn != nil {
			errorFn(root, fmt.Errorf("scan root not accessible: %w", err))
		}
		return nil, nil
	}
	if !info.IsDir() {
		if errorFn != nil {
			errorFn(root, fmt.Errorf("scan root is not a directory: %s", root))
		}
		return nil, nil
	}

	extensions := make(map[string]bool)
	for _, ext := range s.config.Get().Import.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path during scan", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if info.IsDir() {
			return nil
		}
		if extensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := len(files)
	slog.Info("Scan started", "root", root, "files", total)
	if total == 0 {
		if progressFn != nil {
			progressFn(0, 0, 0, "No audio files found")
		}
		return nil, nil
	}

	workers := s.config.Get().Import.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu        sync.Mutex
		results   []music.FileMetadata
		processed int
	)

	var g errgroup.Group
	g.SetLimit(workers)

	for _, path := range files {
		path := path
		// Cancellation between files yields a short batch, not an error
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			meta, err := s.reader.ReadFileTags(ctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Failed to read file metadata", "path", path, "error", err)
				if errorFn != nil {
					errorFn(path, err)
				}
			} else {
				results = append(results, *meta)
			}
			processed++
			if progressFn != nil {
				progressFn(processed, total, (processed*100)/total, fmt.Sprintf("Processed %s", filepath.Base(path)))
			}
			return nil
		})
	}
	g.Wait()

	slog.Info("Scan finished", "root", root, "files", total, "read", len(results))
	return results, nil
}
