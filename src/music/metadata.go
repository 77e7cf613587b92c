package music

import "fmt"

// FileMetadata is the normalized record extracted from one audio file before
// it is reconciled into the catalog.
type FileMetadata struct {
	FilePath        string
	Title           string
	Artist          string
	Album           string
	TrackNumber     *int
	DurationSeconds int
	AlbumArt        []byte
}

// MetadataReadError reports a file that could not be opened or read at all.
// Files that merely lack tags are not errors; those get fallback values
// derived from the filename instead.
type MetadataReadError struct {
	Path string
	Err  error
}

func (e *MetadataReadError) Error() string {
	return fmt.Sprintf("reading metadata from %s: %v", e.Path, e.Err)
}

func (e *MetadataReadError) Unwrap() error { return e.Err }
