package artwork

import (
	"bytes"
	"image"
	"image/jpeg"
	"log/slog"

	_ "image/gif"
	_ "image/png"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Service normalizes embedded album art before it is stored in the catalog.
type Service struct {
	config *config.Manager
}

// NewService creates a new artwork service
func NewService(config *config.Manager) *Service {
	return &Service{
		config: config,
	}
}

// Normalize decodes raw image data, downscales it to the configured maximum
// dimension, and re-encodes it as JPEG. Data that cannot be decoded is
// returned unchanged so an odd cover format never blocks an import.
func (s *Service) Normalize(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	cfg := s.config.Get()
	if !cfg.Artwork.Enabled {
		return data
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to decode album art, storing as-is", "error", err)
		return data
	}

	maxSize := cfg.Artwork.MaxSize
	bounds := img.Bounds()
	if maxSize > 0 && (bounds.Dx() > maxSize || bounds.Dy() > maxSize) {
		img = resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
	} else if format == "jpeg" {
		// Already JPEG and within bounds, nothing to do
		return data
	}

	quality := cfg.Artwork.Quality
	if quality <= 0 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		slog.Warn("Failed to re-encode album art, storing as-is", "error", err)
		return data
	}

	return buf.Bytes()
}
