package reports

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cleriovision/musicdb/src/music"
)

// ArtistReport holds the albums and total listening time of one artist.
// ArtistFound is false when the requested artist does not exist; the rest of
// the report is empty in that case.
type ArtistReport struct {
	ArtistName           string
	ArtistFound          bool
	Albums               []music.AlbumDetails
	TotalDurationSeconds int
	GeneratedAt          time.Time
}

// LibraryReport holds the full catalog grouped by artist.
type LibraryReport struct {
	Artists     []ArtistReport
	Stats       music.LibraryStats
	GeneratedAt time.Time
}

// Service builds reports over the catalog.
type Service struct {
	catalog music.Catalog
}

// NewService creates a new reports service.
func NewService(catalog music.Catalog) *Service {
	return &Service{catalog: catalog}
}

// FullReport builds a report covering every artist in the catalog.
func (s *Service) FullReport(ctx context.Context) (*LibraryReport, error) {
	slog.Debug("FullReport service called")

	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library stats: %w", err)
	}

	albums, err := s.catalog.ListAlbumDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load albums: %w", err)
	}

	report := &LibraryReport{
		Stats:       *stats,
		GeneratedAt: time.Now(),
	}

	// Albums arrive ordered by artist name, so grouping is a single pass.
	var current *ArtistReport
	for _, album := range albums {
		if current == nil || current.ArtistName != album.ArtistName {
			report.Artists = append(report.Artists, ArtistReport{
				ArtistName:  album.ArtistName,
				ArtistFound: true,
				GeneratedAt: report.GeneratedAt,
			})
			current = &report.Artists[len(report.Artists)-1]
		}
		current.Albums = append(current.Albums, album)
		current.TotalDurationSeconds += album.TotalDurationSeconds
	}

	slog.Debug("FullReport completed", "artists", len(report.Artists))
	return report, nil
}

// ArtistReport builds a report for one artist, matched case-insensitively by
// name. A missing artist yields a report with ArtistFound set to false.
func (s *Service) ArtistReport(ctx context.Context, artistName string) (*ArtistReport, error) {
	slog.Debug("ArtistReport service called", "artist", artistName)

	report := &ArtistReport{
		ArtistName:  artistName,
		GeneratedAt: time.Now(),
	}

	albums, err := s.catalog.ListAlbumDetailsByArtist(ctx, artistName)
	if err != nil {
		return nil, fmt.Errorf("failed to load albums for artist: %w", err)
	}
	if len(albums) == 0 {
		// Distinguish an artist with no albums from an unknown artist
		artist, err := s.catalog.FindArtistByName(ctx, artistName)
		if err != nil {
			return nil, err
		}
		if artist == nil {
			return report, nil
		}
		report.ArtistFound = true
		report.ArtistName = artist.Name
		return report, nil
	}

	report.ArtistFound = true
	report.ArtistName = albums[0].ArtistName
	report.Albums = albums
	for _, album := range albums {
		report.TotalDurationSeconds += album.TotalDurationSeconds
	}
	return report, nil
}

// RenderText renders a library report as plain text.
func (r *LibraryReport) RenderText() string {
	var sb strings.Builder
	sb.WriteString("MUSIC LIBRARY REPORT\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format(time.RFC1123)))
	sb.WriteString(fmt.Sprintf("Artists: %d  Albums: %d  Tracks: %d  Total time: %s\n",
		r.Stats.ArtistCount, r.Stats.AlbumCount, r.Stats.TrackCount,
		music.FormatDuration(r.Stats.TotalDurationSeconds)))
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	for i := range r.Artists {
		sb.WriteString("\n")
		renderArtistSection(&sb, &r.Artists[i])
	}
	return sb.String()
}

// RenderText renders an artist report as plain text.
func (r *ArtistReport) RenderText() string {
	var sb strings.Builder
	sb.WriteString("ARTIST REPORT\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format(time.RFC1123)))
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	if !r.ArtistFound {
		sb.WriteString(fmt.Sprintf("Artist %q not found in the library.\n", r.ArtistName))
		return sb.String()
	}
	renderArtistSection(&sb, r)
	return sb.String()
}

func renderArtistSection(sb *strings.Builder, r *ArtistReport) {
	sb.WriteString(fmt.Sprintf("%s (%d albums, %s)\n",
		r.ArtistName, len(r.Albums), music.FormatDuration(r.TotalDurationSeconds)))
	for _, album := range r.Albums {
		sb.WriteString(fmt.Sprintf("  %s [%s]\n", album.AlbumTitle, album.FormattedTotalDuration()))
		for _, track := range album.Tracks {
			number := "--"
			if track.TrackNumber != nil {
				number = fmt.Sprintf("%02d", *track.TrackNumber)
			}
			sb.WriteString(fmt.Sprintf("    %s. %s (%s)\n",
				number, track.Title, music.FormatDuration(track.DurationSeconds)))
		}
	}
}
