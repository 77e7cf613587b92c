package library

import (
	"context"
	"errors"
	"testing"

	"github.com/cleriovision/musicdb/src/music"
)

// MockCatalog is a mock implementation of music.Catalog
type MockCatalog struct {
	music.Catalog // Embed interface to avoid implementing all methods for now, will panic if unused methods called

	albumsByArtist []music.AlbumSearchResult
	tracksByArtist []music.TrackSearchResult
	stats          *music.LibraryStats
	details        map[string]*music.AlbumDetails
	searchErr      error

	lastTerm string
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{details: make(map[string]*music.AlbumDetails)}
}

func (m *MockCatalog) SearchAlbumsByArtist(ctx context.Context, term string) ([]music.AlbumSearchResult, error) {
	m.lastTerm = term
	return m.albumsByArtist, m.searchErr
}

func (m *MockCatalog) SearchTracksByArtist(ctx context.Context, term string) ([]music.TrackSearchResult, error) {
	m.lastTerm = term
	return m.tracksByArtist, m.searchErr
}

func (m *MockCatalog) GetAlbumDetails(ctx context.Context, albumID string) (*music.AlbumDetails, error) {
	return m.details[albumID], nil
}

func (m *MockCatalog) Stats(ctx context.Context) (*music.LibraryStats, error) {
	return m.stats, nil
}

func TestSearchAlbumsByArtist_BlankTermMatchesNothing(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.albumsByArtist = []music.AlbumSearchResult{{AlbumTitle: "Abbey Road"}}
	service := NewService(mockCatalog, nil)

	for _, term := range []string{"", "   ", "\t"} {
		results, err := service.SearchAlbumsByArtist(context.Background(), term)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if results != nil {
			t.Errorf("expected no results for blank term %q, got %d", term, len(results))
		}
	}

	if mockCatalog.lastTerm != "" {
		t.Error("catalog should not be queried for a blank term")
	}
}

func TestSearchAlbumsByArtist_ReturnsCatalogResults(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.albumsByArtist = []music.AlbumSearchResult{
		{AlbumID: "a1", AlbumTitle: "Abbey Road", ArtistName: "The Beatles", TrackCount: 17},
	}
	service := NewService(mockCatalog, nil)

	results, err := service.SearchAlbumsByArtist(context.Background(), "beat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].AlbumTitle != "Abbey Road" {
		t.Errorf("expected album Abbey Road, got %s", results[0].AlbumTitle)
	}
	if mockCatalog.lastTerm != "beat" {
		t.Errorf("expected catalog to be queried with 'beat', got %q", mockCatalog.lastTerm)
	}
}

func TestSearchTracksByArtist_PropagatesError(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.searchErr = errors.New("db locked")
	service := NewService(mockCatalog, nil)

	_, err := service.SearchTracksByArtist(context.Background(), "beat")
	if err == nil {
		t.Fatal("expected error from catalog to propagate")
	}
}

func TestGetAlbumDetails_NilWhenNotFound(t *testing.T) {
	mockCatalog := NewMockCatalog()
	service := NewService(mockCatalog, nil)

	details, err := service.GetAlbumDetails(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if details != nil {
		t.Error("expected nil details for an unknown album")
	}
}

func TestGetStats(t *testing.T) {
	mockCatalog := NewMockCatalog()
	mockCatalog.stats = &music.LibraryStats{
		ArtistCount:          2,
		AlbumCount:           3,
		TrackCount:           30,
		TotalDurationSeconds: 7200,
	}
	service := NewService(mockCatalog, nil)

	stats, err := service.GetStats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TrackCount != 30 {
		t.Errorf("expected 30 tracks, got %d", stats.TrackCount)
	}
	if stats.TotalDurationSeconds != 7200 {
		t.Errorf("expected 7200 seconds, got %d", stats.TotalDurationSeconds)
	}
}
