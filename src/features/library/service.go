package library

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/music"
)

// Service is the domain service for the library feature.
type Service struct {
	catalog       music.Catalog
	configManager *config.Manager
}

// NewService creates a new library service.
func NewService(catalog music.Catalog, cfgManager *config.Manager) *Service {
	return &Service{
		catalog:       catalog,
		configManager: cfgManager,
	}
}

// GetLibraryFileTree returns a tree structure of the library path.
func (s *Service) GetLibraryFileTree() (string, error) {
	libraryPath := s.configManager.Get().LibraryPath
	cmd := exec.Command("tree", libraryPath)
	output, err := cmd.Output()
	if err != nil {
		slog.Error("Failed to execute tree command", "error", err)
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("failed to run tree command: %s. Is 'tree' installed on your system?", exitErr.Stderr)
		}
		return "", err
	}
	return string(output), nil
}

// SearchAlbumsByArtist returns albums whose artist name contains the term.
// A blank term matches nothing.
func (s *Service) SearchAlbumsByArtist(ctx context.Context, term string) ([]music.AlbumSearchResult, error) {
	slog.Debug("SearchAlbumsByArtist service called", "term", term)
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	results, err := s.catalog.SearchAlbumsByArtist(ctx, term)
	if err != nil {
		slog.Error("SearchAlbumsByArtist failed", "term", term, "error", err)
		return nil, err
	}
	slog.Debug("SearchAlbumsByArtist completed", "term", term, "count", len(results))
	return results, nil
}

// SearchTracksByArtist returns tracks whose artist name contains the term.
func (s *Service) SearchTracksByArtist(ctx context.Context, term string) ([]music.TrackSearchResult, error) {
	slog.Debug("SearchTracksByArtist service called", "term", term)
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	results, err := s.catalog.SearchTracksByArtist(ctx, term)
	if err != nil {
		slog.Error("SearchTracksByArtist failed", "term", term, "error", err)
		return nil, err
	}
	slog.Debug("SearchTracksByArtist completed", "term", term, "count", len(results))
	return results, nil
}

// SearchAlbumsByTrackTitle returns albums containing a track whose title
// contains the term.
func (s *Service) SearchAlbumsByTrackTitle(ctx context.Context, term string) ([]music.AlbumSearchResult, error) {
	slog.Debug("SearchAlbumsByTrackTitle service called", "term", term)
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	results, err := s.catalog.SearchAlbumsByTrackTitle(ctx, term)
	if err != nil {
		slog.Error("SearchAlbumsByTrackTitle failed", "term", term, "error", err)
		return nil, err
	}
	slog.Debug("SearchAlbumsByTrackTitle completed", "term", term, "count", len(results))
	return results, nil
}

// SearchTracksByAlbum returns tracks on albums whose title contains the term.
func (s *Service) SearchTracksByAlbum(ctx context.Context, term string) ([]music.TrackSearchResult, error) {
	slog.Debug("SearchTracksByAlbum service called", "term", term)
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	results, err := s.catalog.SearchTracksByAlbum(ctx, term)
	if err != nil {
		slog.Error("SearchTracksByAlbum failed", "term", term, "error", err)
		return nil, err
	}
	slog.Debug("SearchTracksByAlbum completed", "term", term, "count", len(results))
	return results, nil
}

// GetAlbumDetails returns the full view of one album, or nil when not found.
func (s *Service) GetAlbumDetails(ctx context.Context, albumID string) (*music.AlbumDetails, error) {
	slog.Debug("GetAlbumDetails service called", "albumID", albumID)
	details, err := s.catalog.GetAlbumDetails(ctx, albumID)
	if err != nil {
		slog.Error("GetAlbumDetails failed", "albumID", albumID, "error", err)
		return nil, err
	}
	return details, nil
}

// GetArtistNames returns all artist names sorted alphabetically.
func (s *Service) GetArtistNames(ctx context.Context) ([]string, error) {
	slog.Debug("GetArtistNames service called")
	names, err := s.catalog.ArtistNames(ctx)
	if err != nil {
		slog.Error("GetArtistNames failed", "error", err)
		return nil, err
	}
	slog.Debug("GetArtistNames completed", "count", len(names))
	return names, nil
}

// GetAlbumTitles returns all album titles sorted alphabetically.
func (s *Service) GetAlbumTitles(ctx context.Context) ([]string, error) {
	slog.Debug("GetAlbumTitles service called")
	titles, err := s.catalog.AlbumTitles(ctx)
	if err != nil {
		slog.Error("GetAlbumTitles failed", "error", err)
		return nil, err
	}
	slog.Debug("GetAlbumTitles completed", "count", len(titles))
	return titles, nil
}

// GetStats returns aggregate catalog statistics.
func (s *Service) GetStats(ctx context.Context) (*music.LibraryStats, error) {
	slog.Debug("GetStats service called")
	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		slog.Error("GetStats failed", "error", err)
		return nil, err
	}
	return stats, nil
}

// DeleteArtist deletes an artist from the catalog. Albums and tracks cascade.
func (s *Service) DeleteArtist(ctx context.Context, id string) error {
	slog.Debug("DeleteArtist service called", "id", id)
	if err := s.catalog.DeleteArtist(ctx, id); err != nil {
		slog.Error("DeleteArtist failed", "id", id, "error", err)
		return err
	}
	slog.Debug("DeleteArtist completed", "id", id)
	return nil
}

// DeleteAlbum deletes an album from the catalog. Tracks cascade.
func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	slog.Debug("DeleteAlbum service called", "id", id)
	if err := s.catalog.DeleteAlbum(ctx, id); err != nil {
		slog.Error("DeleteAlbum failed", "id", id, "error", err)
		return err
	}
	slog.Debug("DeleteAlbum completed", "id", id)
	return nil
}

// DeleteTrack deletes a track from the catalog.
func (s *Service) DeleteTrack(ctx context.Context, id string) error {
	slog.Debug("DeleteTrack service called", "id", id)
	if err := s.catalog.DeleteTrack(ctx, id); err != nil {
		slog.Error("DeleteTrack failed", "id", id, "error", err)
		return err
	}
	slog.Debug("DeleteTrack completed", "id", id)
	return nil
}

// Ping verifies the catalog's backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.catalog.Ping(ctx)
}
