package music

import (
	"fmt"
	"strings"
	"time"
)

// UnknownArtistName is the fallback for files with no performer tags.
const UnknownArtistName = "Unknown Artist"

// Artist represents a music artist.
type Artist struct {
	ID        string
	Name      string
	SortName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the artist fields.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("artist name cannot be empty")
	}
	if len(a.Name) > 500 {
		return fmt.Errorf("artist name cannot exceed 500 characters, got %d", len(a.Name))
	}
	if a.SortName != "" && len(a.SortName) > 500 {
		return fmt.Errorf("artist sort name cannot exceed 500 characters, got %d", len(a.SortName))
	}
	return nil
}
