package importing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cleriovision/musicdb/src/features/jobs"
)

// DirectoryImportTask implements jobs.Task for directory imports. The scan
// phase maps to the first half of the progress bar, reconciliation to the
// second.
type DirectoryImportTask struct {
	service *Service
}

// NewDirectoryImportTask creates a new DirectoryImportTask.
func NewDirectoryImportTask(service *Service) *DirectoryImportTask {
	return &DirectoryImportTask{service: service}
}

// MetadataKeys returns the required metadata keys for a directory import job.
func (e *DirectoryImportTask) MetadataKeys() []string {
	return []string{"path"}
}

// Execute scans the directory and reconciles every readable file into the
// catalog.
func (e *DirectoryImportTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	path := job.Metadata["path"].(string)

	var scanFailures []string
	files, err := e.service.scanner.Scan(ctx, path,
		func(processed, total, percent int, message string) {
			if progressUpdater != nil {
				progressUpdater(percent/2, fmt.Sprintf("Scanned %d of %d files", processed, total))
			}
		},
		func(filePath string, err error) {
			scanFailures = append(scanFailures, fmt.Sprintf("%s: %v", filePath, err))
			job.Logger.Warn("Could not read file during scan", "path", filepath.Base(filePath), "error", err)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	if progressUpdater != nil {
		progressUpdater(50, fmt.Sprintf("Reconciling %d files", len(files)))
	}

	stats, err := e.service.importFiles(ctx, files, job.Logger)
	stats.Errors = append(scanFailures, stats.Errors...)
	stats.FilesProcessed += len(scanFailures)
	if err != nil {
		return map[string]any{"stats": stats}, err
	}

	if ctx.Err() != nil {
		return map[string]any{"stats": stats}, ctx.Err()
	}

	finalMessage := fmt.Sprintf("Directory import finished. Processed %d files (%d imported, %d updated, %d errors).",
		stats.FilesProcessed, stats.TracksImported, stats.TracksUpdated, len(stats.Errors))
	job.Logger.Info(finalMessage)
	if progressUpdater != nil {
		progressUpdater(100, "Import completed")
	}

	result := map[string]any{"stats": stats, "msg": finalMessage}
	if len(stats.Errors) > 0 && stats.TracksImported == 0 && stats.TracksUpdated == 0 {
		return result, errors.New("no files were successfully processed")
	}
	if len(stats.Errors) > 0 {
		return result, &jobs.PartialFailure{
			Err: fmt.Errorf("partial import: %d of %d files failed", len(stats.Errors), stats.FilesProcessed),
		}
	}
	return result, nil
}

// Cleanup does nothing for directory imports.
func (e *DirectoryImportTask) Cleanup(job *jobs.Job) error {
	return nil
}
