package library

import (
	"encoding/base64"
	"log/slog"

	"github.com/cleriovision/musicdb/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the library feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the library feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func albumResultJSON(r *music.AlbumSearchResult) fiber.Map {
	m := fiber.Map{
		"albumId":    r.AlbumID,
		"albumTitle": r.AlbumTitle,
		"artistName": r.ArtistName,
		"trackCount": r.TrackCount,
		"hasCover":   len(r.CoverArt) > 0,
	}
	if r.MatchingTrackTitle != "" {
		m["matchingTrackTitle"] = r.MatchingTrackTitle
	}
	return m
}

func trackResultJSON(r *music.TrackSearchResult) fiber.Map {
	return fiber.Map{
		"trackId":         r.TrackID,
		"trackTitle":      r.TrackTitle,
		"artistName":      r.ArtistName,
		"albumTitle":      r.AlbumTitle,
		"trackNumber":     r.TrackNumber,
		"durationSeconds": r.DurationSeconds,
		"duration":        r.FormattedDuration(),
		"filePath":        r.FilePath,
	}
}

func albumDetailsJSON(d *music.AlbumDetails) fiber.Map {
	tracks := make([]fiber.Map, 0, len(d.Tracks))
	for _, t := range d.Tracks {
		tracks = append(tracks, fiber.Map{
			"trackId":         t.TrackID,
			"title":           t.Title,
			"trackNumber":     t.TrackNumber,
			"durationSeconds": t.DurationSeconds,
			"duration":        music.FormatDuration(t.DurationSeconds),
			"filePath":        t.FilePath,
		})
	}
	m := fiber.Map{
		"albumId":       d.AlbumID,
		"albumTitle":    d.AlbumTitle,
		"artistName":    d.ArtistName,
		"tracks":        tracks,
		"totalDuration": d.FormattedTotalDuration(),
	}
	if len(d.CoverArt) > 0 {
		m["coverArt"] = base64.StdEncoding.EncodeToString(d.CoverArt)
	}
	return m
}

// SearchAlbumsByArtist handles album searches by artist name.
func (h *Handler) SearchAlbumsByArtist(c *fiber.Ctx) error {
	term := c.Query("q")
	results, err := h.service.SearchAlbumsByArtist(c.Context(), term)
	if err != nil {
		slog.Error("Error searching albums by artist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	out := make([]fiber.Map, 0, len(results))
	for i := range results {
		out = append(out, albumResultJSON(&results[i]))
	}
	return c.JSON(fiber.Map{"albums": out})
}

// SearchTracksByArtist handles track searches by artist name.
func (h *Handler) SearchTracksByArtist(c *fiber.Ctx) error {
	term := c.Query("q")
	results, err := h.service.SearchTracksByArtist(c.Context(), term)
	if err != nil {
		slog.Error("Error searching tracks by artist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	out := make([]fiber.Map, 0, len(results))
	for i := range results {
		out = append(out, trackResultJSON(&results[i]))
	}
	return c.JSON(fiber.Map{"tracks": out})
}

// SearchAlbumsByTrackTitle handles album searches by track title.
func (h *Handler) SearchAlbumsByTrackTitle(c *fiber.Ctx) error {
	term := c.Query("q")
	results, err := h.service.SearchAlbumsByTrackTitle(c.Context(), term)
	if err != nil {
		slog.Error("Error searching albums by track title", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	out := make([]fiber.Map, 0, len(results))
	for i := range results {
		out = append(out, albumResultJSON(&results[i]))
	}
	return c.JSON(fiber.Map{"albums": out})
}

// SearchTracksByAlbum handles track searches by album title.
func (h *Handler) SearchTracksByAlbum(c *fiber.Ctx) error {
	term := c.Query("q")
	results, err := h.service.SearchTracksByAlbum(c.Context(), term)
	if err != nil {
		slog.Error("Error searching tracks by album", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	out := make([]fiber.Map, 0, len(results))
	for i := range results {
		out = append(out, trackResultJSON(&results[i]))
	}
	return c.JSON(fiber.Map{"tracks": out})
}

// GetAlbumDetails returns the full view of one album.
func (h *Handler) GetAlbumDetails(c *fiber.Ctx) error {
	albumID := c.Params("id")
	details, err := h.service.GetAlbumDetails(c.Context(), albumID)
	if err != nil {
		slog.Error("Error loading album details", "albumID", albumID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load album"})
	}
	if details == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "album not found"})
	}
	return c.JSON(albumDetailsJSON(details))
}

// GetArtistNames returns all artist names.
func (h *Handler) GetArtistNames(c *fiber.Ctx) error {
	names, err := h.service.GetArtistNames(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load artists"})
	}
	return c.JSON(fiber.Map{"artists": names})
}

// GetAlbumTitles returns all album titles.
func (h *Handler) GetAlbumTitles(c *fiber.Ctx) error {
	titles, err := h.service.GetAlbumTitles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load albums"})
	}
	return c.JSON(fiber.Map{"albums": titles})
}

// GetStats returns aggregate catalog statistics.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load stats"})
	}
	return c.JSON(fiber.Map{
		"artistCount":          stats.ArtistCount,
		"albumCount":           stats.AlbumCount,
		"trackCount":           stats.TrackCount,
		"totalDurationSeconds": stats.TotalDurationSeconds,
		"totalDuration":        music.FormatDuration(stats.TotalDurationSeconds),
	})
}

// DeleteArtist removes an artist and everything under it.
func (h *Handler) DeleteArtist(c *fiber.Ctx) error {
	if err := h.service.DeleteArtist(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete artist"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// DeleteAlbum removes an album and its tracks.
func (h *Handler) DeleteAlbum(c *fiber.Ctx) error {
	if err := h.service.DeleteAlbum(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete album"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// DeleteTrack removes a track.
func (h *Handler) DeleteTrack(c *fiber.Ctx) error {
	if err := h.service.DeleteTrack(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete track"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// GetLibraryFileTree renders the library path as a text tree.
func (h *Handler) GetLibraryFileTree(c *fiber.Ctx) error {
	tree, err := h.service.GetLibraryFileTree()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	c.Set("Content-Type", "text/plain")
	return c.SendString(tree)
}
