package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/cleriovision/musicdb/src/music"
)

// MockCatalog is a mock implementation of music.Catalog
type MockCatalog struct {
	music.Catalog // Embed interface to avoid implementing all methods for now, will panic if unused methods called

	stats          *music.LibraryStats
	allAlbums      []music.AlbumDetails
	albumsByArtist map[string][]music.AlbumDetails
	artistsByName  map[string]*music.Artist
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		stats:          &music.LibraryStats{},
		albumsByArtist: make(map[string][]music.AlbumDetails),
		artistsByName:  make(map[string]*music.Artist),
	}
}

func (m *MockCatalog) Stats(ctx context.Context) (*music.LibraryStats, error) {
	return m.stats, nil
}

func (m *MockCatalog) ListAlbumDetails(ctx context.Context) ([]music.AlbumDetails, error) {
	return m.allAlbums, nil
}

func (m *MockCatalog) ListAlbumDetailsByArtist(ctx context.Context, artistName string) ([]music.AlbumDetails, error) {
	return m.albumsByArtist[strings.ToLower(artistName)], nil
}

func (m *MockCatalog) FindArtistByName(ctx context.Context, name string) (*music.Artist, error) {
	return m.artistsByName[name], nil
}

func albumDetails(artist, title string, duration int) music.AlbumDetails {
	return music.AlbumDetails{
		AlbumTitle:           title,
		ArtistName:           artist,
		TotalDurationSeconds: duration,
		Tracks: []music.AlbumTrack{
			{Title: title + " Track", DurationSeconds: duration},
		},
	}
}

func TestFullReport_GroupsAlbumsByArtist(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.stats = &music.LibraryStats{ArtistCount: 2, AlbumCount: 3, TrackCount: 3, TotalDurationSeconds: 900}
	// Ordered by artist name, as the store returns them
	mockCatalog.allAlbums = []music.AlbumDetails{
		albumDetails("Pink Floyd", "Animals", 300),
		albumDetails("The Beatles", "Abbey Road", 400),
		albumDetails("The Beatles", "Revolver", 200),
	}
	service := NewService(mockCatalog)

	report, err := service.FullReport(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(report.Artists) != 2 {
		t.Fatalf("expected 2 artist sections, got %d", len(report.Artists))
	}
	if report.Artists[0].ArtistName != "Pink Floyd" || report.Artists[1].ArtistName != "The Beatles" {
		t.Errorf("unexpected artist order: %s, %s", report.Artists[0].ArtistName, report.Artists[1].ArtistName)
	}
	if len(report.Artists[1].Albums) != 2 {
		t.Errorf("expected 2 Beatles albums, got %d", len(report.Artists[1].Albums))
	}
	if report.Artists[1].TotalDurationSeconds != 600 {
		t.Errorf("expected 600 seconds for The Beatles, got %d", report.Artists[1].TotalDurationSeconds)
	}
	if report.Stats.TrackCount != 3 {
		t.Errorf("expected stats carried into report, got %+v", report.Stats)
	}
}

func TestArtistReport_KnownArtist(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.albumsByArtist["the beatles"] = []music.AlbumDetails{
		albumDetails("The Beatles", "Abbey Road", 400),
		albumDetails("The Beatles", "Revolver", 200),
	}
	service := NewService(mockCatalog)

	report, err := service.ArtistReport(context.Background(), "the beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.ArtistFound {
		t.Fatal("expected artist to be found")
	}
	// Canonical casing comes from the catalog, not the query
	if report.ArtistName != "The Beatles" {
		t.Errorf("expected canonical artist name, got %s", report.ArtistName)
	}
	if len(report.Albums) != 2 {
		t.Errorf("expected 2 albums, got %d", len(report.Albums))
	}
	if report.TotalDurationSeconds != 600 {
		t.Errorf("expected 600 seconds, got %d", report.TotalDurationSeconds)
	}
}

func TestArtistReport_UnknownArtist(t *testing.T) {
	mockCatalog := NewMockCatalog()
	service := NewService(mockCatalog)

	report, err := service.ArtistReport(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.ArtistFound {
		t.Error("expected ArtistFound false for unknown artist")
	}
	if len(report.Albums) != 0 {
		t.Errorf("expected no albums, got %d", len(report.Albums))
	}

	text := report.RenderText()
	if !strings.Contains(text, "not found") {
		t.Errorf("expected not-found notice in rendering, got:\n%s", text)
	}
}

func TestArtistReport_ArtistWithNoAlbums(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.artistsByName["Silent Bob"] = &music.Artist{ID: "a1", Name: "Silent Bob"}
	service := NewService(mockCatalog)

	report, err := service.ArtistReport(context.Background(), "Silent Bob")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !report.ArtistFound {
		t.Error("expected artist with no albums to still be found")
	}
	if len(report.Albums) != 0 {
		t.Errorf("expected no albums, got %d", len(report.Albums))
	}
}

func TestRenderText_TrackNumbers(t *testing.T) {
	two := 2
	report := &ArtistReport{
		ArtistName:  "The Beatles",
		ArtistFound: true,
		Albums: []music.AlbumDetails{
			{
				AlbumTitle:           "Abbey Road",
				ArtistName:           "The Beatles",
				TotalDurationSeconds: 303,
				Tracks: []music.AlbumTrack{
					{Title: "Something", TrackNumber: &two, DurationSeconds: 183},
					{Title: "Hidden Jam", TrackNumber: nil, DurationSeconds: 120},
				},
			},
		},
		TotalDurationSeconds: 303,
	}

	text := report.RenderText()
	if !strings.Contains(text, "02. Something (3:03)") {
		t.Errorf("expected numbered track line, got:\n%s", text)
	}
	if !strings.Contains(text, "--. Hidden Jam (2:00)") {
		t.Errorf("expected unnumbered track line with placeholder, got:\n%s", text)
	}
	if !strings.Contains(text, "Abbey Road [5:03]") {
		t.Errorf("expected album header with duration, got:\n%s", text)
	}
}
