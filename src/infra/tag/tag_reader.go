package tag

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleriovision/musicdb/src/music"
	"github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"
)

// TagReader extracts file metadata using the dhowden/tag library.
type TagReader struct{}

// NewTagReader creates a new TagReader
func NewTagReader() *TagReader {
	return &TagReader{}
}

// ReadFileTags reads metadata from a music file. Files without tags are not
// errors: title falls back to the filename, artist and album fall back to the
// unknown placeholders. An unreadable file, or one whose tag header is present
// but cannot be parsed, returns a MetadataReadError.
func (r *TagReader) ReadFileTags(ctx context.Context, filePath string) (*music.FileMetadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &music.MetadataReadError{Path: filePath, Err: err}
	}
	defer file.Close()

	meta := &music.FileMetadata{FilePath: filePath}

	tags, err := tag.ReadFrom(file)
	switch {
	case err == nil:
		meta.Title = strings.TrimSpace(tags.Title())
		meta.Artist = strings.TrimSpace(tags.Artist())
		if meta.Artist == "" {
			meta.Artist = strings.TrimSpace(tags.AlbumArtist())
		}
		meta.Album = strings.TrimSpace(tags.Album())
		if n, _ := tags.Track(); n > 0 {
			meta.TrackNumber = &n
		}
		if pic := tags.Picture(); pic != nil && len(pic.Data) > 0 {
			meta.AlbumArt = pic.Data
		}
	case errors.Is(err, tag.ErrNoTagsFound), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// No tag block at all, or a file too short to carry one.
		// Fall through to the filename fallbacks.
	default:
		return nil, &music.MetadataReadError{Path: filePath, Err: err}
	}

	if meta.Title == "" {
		meta.Title = titleFromFilename(filePath)
	}
	if meta.Artist == "" {
		meta.Artist = music.UnknownArtistName
	}
	if meta.Album == "" {
		meta.Album = music.UnknownAlbumName
	}

	meta.DurationSeconds = r.readDuration(filePath)

	return meta, nil
}

// titleFromFilename derives a title from the file name without its extension.
// The name is kept verbatim; a "07 - song.mp3" file titles as "07 - song".
func titleFromFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

// readDuration returns the track length in whole seconds. FLAC files carry
// an exact sample count in STREAMINFO; for lossy formats the length is
// estimated from the file size and a typical bitrate.
func (r *TagReader) readDuration(filePath string) int {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".flac" {
		if secs, ok := flacDuration(filePath); ok {
			return secs
		}
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	fileSizeBits := fileInfo.Size() * 8

	// Typical bitrates in kbps per format
	bitrate := 192
	switch ext {
	case ".flac", ".wav":
		bitrate = 1000
	case ".m4a", ".ogg":
		bitrate = 160
	}

	return int(fileSizeBits / int64(bitrate*1000))
}

func flacDuration(filePath string) (int, bool) {
	f, err := goflac.ParseFile(filePath)
	if err != nil {
		return 0, false
	}
	info, err := f.GetStreamInfo()
	if err != nil || info.SampleRate == 0 {
		return 0, false
	}
	return int(info.SampleCount / int64(info.SampleRate)), true
}
