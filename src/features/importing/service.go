package importing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/cleriovision/musicdb/src/features/metrics"
	"github.com/cleriovision/musicdb/src/features/scanning"
	"github.com/cleriovision/musicdb/src/music"
)

// ImportStats contains statistics about the import process. Errors collects
// one message per failed file or unresolvable group, each naming what failed.
type ImportStats struct {
	FilesProcessed int      `json:"filesProcessed"`
	TracksImported int      `json:"tracksImported"`
	TracksUpdated  int      `json:"tracksUpdated"`
	ArtistsCreated int      `json:"artistsCreated"`
	AlbumsCreated  int      `json:"albumsCreated"`
	Errors         []string `json:"errors"`
}

// ArtworkNormalizer prepares embedded cover art for storage.
type ArtworkNormalizer interface {
	Normalize(data []byte) []byte
}

// Service reconciles scanned file metadata into the catalog.
type Service struct {
	catalog    music.Catalog
	scanner    *scanning.Service
	artwork    ArtworkNormalizer
	config     *config.Manager
	jobService jobs.JobService

	watcherMu sync.Mutex
	watcher   Watcher
	watcherOn bool
}

// NewService creates a new importing service.
func NewService(catalog music.Catalog, scanner *scanning.Service, artwork ArtworkNormalizer, cfg *config.Manager, jobService jobs.JobService) *Service {
	return &Service{
		catalog:    catalog,
		scanner:    scanner,
		artwork:    artwork,
		config:     cfg,
		jobService: jobService,
	}
}

// ImportDirectory starts a job to scan a directory and import its contents.
func (s *Service) ImportDirectory(ctx context.Context, pathToImport string) (string, error) {
	slog.Debug("ImportDirectory service called", "path", pathToImport)
	jobID, err := s.jobService.StartJob("directory_import", "Directory Import", map[string]any{
		"path": pathToImport,
	})
	if err != nil {
		slog.Error("Service.ImportDirectory: failed to start job", "error", err)
		return "", fmt.Errorf("failed to start directory import job: %w", err)
	}
	return jobID, nil
}

// groupKey identifies one (artist, album) pair during reconciliation.
type groupKey struct {
	artist string
	album  string
}

// Import reconciles the given file metadata into the catalog. Files are
// grouped by (artist, album) so each pair is resolved once per run. A group
// whose artist or album cannot be resolved counts every one of its files as
// an error and the import moves on to the next group.
func (s *Service) Import(ctx context.Context, files []music.FileMetadata) (ImportStats, error) {
	return s.importFiles(ctx, files, slog.Default())
}

func (s *Service) importFiles(ctx context.Context, files []music.FileMetadata, logger *slog.Logger) (ImportStats, error) {
	var stats ImportStats
	started := time.Now()

	groups := make(map[groupKey][]music.FileMetadata)
	var order []groupKey
	for _, f := range files {
		key := groupKey{artist: f.Artist, album: f.Album}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	logger.Info("Service.importFiles: starting import", "files", len(files), "groups", len(order))

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s.importGroup(ctx, key, groups[key], &stats, logger)
	}

	logger.Info("Service.importFiles: import finished",
		"processed", stats.FilesProcessed,
		"imported", stats.TracksImported,
		"updated", stats.TracksUpdated,
		"artists_created", stats.ArtistsCreated,
		"albums_created", stats.AlbumsCreated,
		"errors", len(stats.Errors),
	)
	metrics.ObserveImport(stats.TracksImported, stats.TracksUpdated, len(stats.Errors), time.Since(started))
	return stats, nil
}

func (s *Service) importGroup(ctx context.Context, key groupKey, files []music.FileMetadata, stats *ImportStats, logger *slog.Logger) {
	artist, created, err := s.catalog.FindOrCreateArtist(ctx, key.artist)
	if err != nil {
		logger.Error("Service.importGroup: failed to resolve artist", "error", err, "artist", key.artist)
		stats.FilesProcessed += len(files)
		stats.Errors = append(stats.Errors, fmt.Sprintf("artist %q, album %q: %v", key.artist, key.album, err))
		return
	}
	if created {
		stats.ArtistsCreated++
	}

	album, created, err := s.catalog.FindOrCreateAlbum(ctx, key.album, artist.ID)
	if err != nil {
		logger.Error("Service.importGroup: failed to resolve album", "error", err, "album", key.album, "artist", key.artist)
		stats.FilesProcessed += len(files)
		stats.Errors = append(stats.Errors, fmt.Sprintf("artist %q, album %q: %v", key.artist, key.album, err))
		return
	}
	if created {
		stats.AlbumsCreated++
	}

	s.backfillAlbumArt(ctx, album, files, logger)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return
		}
		stats.FilesProcessed++
		updated, err := s.upsertTrack(ctx, &f, artist, album)
		if err != nil {
			logger.Error("Service.importGroup: failed to store track", "error", err, "path", f.FilePath, "title", f.Title)
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", f.FilePath, err))
			continue
		}
		if updated {
			stats.TracksUpdated++
			logger.Info("Service.importGroup: track updated", "title", f.Title, "path", f.FilePath)
		} else {
			stats.TracksImported++
			logger.Info("Service.importGroup: track imported", "title", f.Title, "path", f.FilePath)
		}
	}
}

// backfillAlbumArt stores cover art for an album that has none yet, using the
// first file in the group that carries embedded art. Art is written at most
// once; an album that already has art keeps it.
func (s *Service) backfillAlbumArt(ctx context.Context, album *music.Album, files []music.FileMetadata, logger *slog.Logger) {
	if len(album.CoverArtData) > 0 {
		return
	}
	for _, f := range files {
		if len(f.AlbumArt) == 0 {
			continue
		}
		art := f.AlbumArt
		if s.artwork != nil {
			art = s.artwork.Normalize(art)
		}
		if err := s.catalog.UpdateAlbumArt(ctx, album.ID, art); err != nil {
			logger.Warn("Service.backfillAlbumArt: failed to store album art", "error", err, "album", album.Title)
			return
		}
		album.CoverArtData = art
		logger.Info("Service.backfillAlbumArt: stored album art", "album", album.Title, "source", f.FilePath)
		return
	}
}

// upsertTrack creates the track or, when a track already exists at the same
// file path, refreshes its metadata in place. Returns true when an existing
// track was updated.
func (s *Service) upsertTrack(ctx context.Context, meta *music.FileMetadata, artist *music.Artist, album *music.Album) (bool, error) {
	existing, err := s.catalog.FindTrackByPath(ctx, meta.FilePath)
	if err != nil {
		return false, err
	}

	if existing == nil {
		track := &music.Track{
			Title:           meta.Title,
			ArtistID:        artist.ID,
			AlbumID:         album.ID,
			TrackNumber:     meta.TrackNumber,
			DurationSeconds: meta.DurationSeconds,
			FilePath:        meta.FilePath,
		}
		if err := s.catalog.CreateTrack(ctx, track); err != nil {
			return false, err
		}
		return false, nil
	}

	existing.Title = meta.Title
	existing.ArtistID = artist.ID
	existing.AlbumID = album.ID
	existing.TrackNumber = meta.TrackNumber
	existing.DurationSeconds = meta.DurationSeconds
	if err := s.catalog.UpdateTrack(ctx, existing); err != nil {
		return false, err
	}
	return true, nil
}
