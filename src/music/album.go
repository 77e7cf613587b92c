package music

import (
	"fmt"
	"strings"
	"time"
)

// UnknownAlbumName is the fallback for files with no album tag.
const UnknownAlbumName = "Unknown Album"

// Album represents a collection of tracks by a single artist.
// The (Title, ArtistID) pair is the natural key: the same title under a
// different artist is a different album.
type Album struct {
	ID           string
	Title        string
	ArtistID     string
	CoverArtPath string
	CoverArtData []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the album fields.
func (a *Album) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("album title cannot be empty")
	}
	if len(a.Title) > 500 {
		return fmt.Errorf("album title cannot exceed 500 characters, got %d", len(a.Title))
	}
	if a.ArtistID == "" {
		return fmt.Errorf("album must belong to an artist")
	}
	if a.CoverArtPath != "" && len(a.CoverArtPath) > 1000 {
		return fmt.Errorf("cover art path cannot exceed 1000 characters, got %d", len(a.CoverArtPath))
	}
	return nil
}
