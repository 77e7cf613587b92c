package music

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a single audio file in the catalog. FilePath is globally
// unique and is the sole signal distinguishing a new track from a re-scanned
// one. The artist is copied from the track's album at import time and is not
// re-validated against the album's artist.
type Track struct {
	ID              string
	Title           string
	ArtistID        string
	AlbumID         string
	TrackNumber     *int
	DurationSeconds int
	FilePath        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate validates the track fields.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("track title cannot be empty")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("track title cannot exceed 500 characters, got %d", len(t.Title))
	}
	if strings.TrimSpace(t.FilePath) == "" {
		return fmt.Errorf("track file path cannot be empty")
	}
	if len(t.FilePath) > 1000 {
		return fmt.Errorf("track file path cannot exceed 1000 characters, got %d", len(t.FilePath))
	}
	if t.ArtistID == "" {
		return fmt.Errorf("track must have an artist")
	}
	if t.AlbumID == "" {
		return fmt.Errorf("track must belong to an album")
	}
	if t.TrackNumber != nil && *t.TrackNumber < 0 {
		return fmt.Errorf("track number cannot be negative, got %d", *t.TrackNumber)
	}
	if t.DurationSeconds < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", t.DurationSeconds)
	}
	return nil
}
