package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cleriovision/musicdb/src/music"
)

func testCatalog(t *testing.T) *SqliteCatalog {
	t.Helper()
	catalog, err := NewSqliteCatalog(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func intPtr(n int) *int { return &n }

func seedTrack(t *testing.T, catalog *SqliteCatalog, artistName, albumTitle, title string, number *int, duration int, path string) (*music.Artist, *music.Album, *music.Track) {
	t.Helper()
	ctx := context.Background()

	artist, _, err := catalog.FindOrCreateArtist(ctx, artistName)
	if err != nil {
		t.Fatalf("FindOrCreateArtist: %v", err)
	}
	album, _, err := catalog.FindOrCreateAlbum(ctx, albumTitle, artist.ID)
	if err != nil {
		t.Fatalf("FindOrCreateAlbum: %v", err)
	}
	track := &music.Track{
		Title:           title,
		ArtistID:        artist.ID,
		AlbumID:         album.ID,
		TrackNumber:     number,
		DurationSeconds: duration,
		FilePath:        path,
	}
	if err := catalog.CreateTrack(ctx, track); err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}
	return artist, album, track
}

func TestFindOrCreateArtist_Idempotent(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	first, created, err := catalog.FindOrCreateArtist(ctx, "The Beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !created {
		t.Error("first call should report the artist as created")
	}
	second, created, err := catalog.FindOrCreateArtist(ctx, "The Beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created {
		t.Error("second call should find the existing artist")
	}
	if first.ID != second.ID {
		t.Errorf("expected same artist, got %s and %s", first.ID, second.ID)
	}

	n, err := catalog.CountArtists(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 artist, got %d", n)
	}
	if first.SortName != "Beatles, The" {
		t.Errorf("expected sort name 'Beatles, The', got %q", first.SortName)
	}
}

func TestFindArtistByName_NotFound(t *testing.T) {
	catalog := testCatalog(t)

	artist, err := catalog.FindArtistByName(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if artist != nil {
		t.Errorf("expected nil for unknown artist, got %+v", artist)
	}
}

func TestFindOrCreateAlbum_ScopedToArtist(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	beatles, _, _ := catalog.FindOrCreateArtist(ctx, "The Beatles")
	floyd, _, _ := catalog.FindOrCreateArtist(ctx, "Pink Floyd")

	a1, created, err := catalog.FindOrCreateAlbum(ctx, "Greatest Hits", beatles.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first album should be created")
	}
	a2, _, err := catalog.FindOrCreateAlbum(ctx, "Greatest Hits", floyd.ID)
	if err != nil {
		t.Fatal(err)
	}
	if a1.ID == a2.ID {
		t.Error("same title under different artists must be distinct albums")
	}

	again, created, err := catalog.FindOrCreateAlbum(ctx, "Greatest Hits", beatles.ID)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("existing album must not report as created")
	}
	if again.ID != a1.ID {
		t.Error("expected existing album to be returned")
	}
}

func TestCreateTrack_DuplicatePathRejected(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	artist, album, _ := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")

	dup := &music.Track{
		Title:           "Something Else",
		ArtistID:        artist.ID,
		AlbumID:         album.ID,
		DurationSeconds: 100,
		FilePath:        "/m/01.mp3",
	}
	err := catalog.CreateTrack(ctx, dup)
	if err == nil {
		t.Fatal("expected unique violation for duplicate path")
	}
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUpdateTrack_PreservesCreatedAt(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	_, _, track := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	created := track.CreatedAt

	time.Sleep(10 * time.Millisecond)
	track.Title = "Come Together (Remastered)"
	if err := catalog.UpdateTrack(ctx, track); err != nil {
		t.Fatalf("UpdateTrack: %v", err)
	}

	stored, err := catalog.FindTrackByPath(ctx, "/m/01.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil {
		t.Fatal("track not found after update")
	}
	if stored.Title != "Come Together (Remastered)" {
		t.Errorf("expected updated title, got %s", stored.Title)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created, stored.CreatedAt)
	}
	if !stored.UpdatedAt.After(created) {
		t.Errorf("expected UpdatedAt to advance past %v, got %v", created, stored.UpdatedAt)
	}
}

func TestDeleteArtist_Cascades(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	artist, _, _ := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Revolver", "Taxman", intPtr(1), 159, "/m/02.mp3")

	if err := catalog.DeleteArtist(ctx, artist.ID); err != nil {
		t.Fatalf("DeleteArtist: %v", err)
	}

	for name, count := range map[string]func(context.Context) (int, error){
		"artists": catalog.CountArtists,
		"albums":  catalog.CountAlbums,
		"tracks":  catalog.CountTracks,
	} {
		n, err := count(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Errorf("expected 0 %s after cascade, got %d", name, n)
		}
	}
}

func TestDeleteAlbum_CascadesTracksOnly(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	_, album, _ := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Revolver", "Taxman", intPtr(1), 159, "/m/02.mp3")

	if err := catalog.DeleteAlbum(ctx, album.ID); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}

	artists, _ := catalog.CountArtists(ctx)
	albums, _ := catalog.CountAlbums(ctx)
	tracks, _ := catalog.CountTracks(ctx)
	if artists != 1 || albums != 1 || tracks != 1 {
		t.Errorf("expected 1/1/1 after album delete, got %d/%d/%d", artists, albums, tracks)
	}
}

func TestUpdateAlbumArt(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	_, album, _ := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	if len(album.CoverArtData) != 0 {
		t.Fatal("new album should have no art")
	}

	art := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if err := catalog.UpdateAlbumArt(ctx, album.ID, art); err != nil {
		t.Fatalf("UpdateAlbumArt: %v", err)
	}

	stored, err := catalog.FindAlbumByTitleAndArtist(ctx, "Abbey Road", album.ArtistID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.CoverArtData) != len(art) {
		t.Errorf("expected %d art bytes, got %d", len(art), len(stored.CoverArtData))
	}
}

func TestSearchAlbumsByArtist(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Something", intPtr(2), 183, "/m/02.mp3")
	seedTrack(t, catalog, "The Beatles", "Revolver", "Taxman", intPtr(1), 159, "/m/03.mp3")
	seedTrack(t, catalog, "Pink Floyd", "Animals", "Dogs", intPtr(2), 1025, "/m/04.mp3")

	results, err := catalog.SearchAlbumsByArtist(ctx, "beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(results))
	}
	if results[0].AlbumTitle != "Abbey Road" || results[1].AlbumTitle != "Revolver" {
		t.Errorf("expected albums ordered by title, got %s then %s", results[0].AlbumTitle, results[1].AlbumTitle)
	}
	if results[0].TrackCount != 2 {
		t.Errorf("expected 2 tracks on Abbey Road, got %d", results[0].TrackCount)
	}
}

func TestSearchTracksByArtist_UnnumberedTracksLast(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Hidden Jam", nil, 120, "/m/03.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Something", intPtr(2), 183, "/m/02.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")

	results, err := catalog.SearchTracksByArtist(ctx, "beat")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(results))
	}

	wantOrder := []string{"Come Together", "Something", "Hidden Jam"}
	for i, want := range wantOrder {
		if results[i].TrackTitle != want {
			t.Errorf("position %d: expected %s, got %s", i, want, results[i].TrackTitle)
		}
	}
	if results[2].TrackNumber != nil {
		t.Error("expected last track to be unnumbered")
	}
}

func TestSearchTracksByArtist_OrderedByAlbumTitle(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	// Both artists match the term; album title decides the order, not the
	// artist name.
	seedTrack(t, catalog, "Antelope Band", "Zulu Sessions", "Opener", intPtr(1), 180, "/m/01.mp3")
	seedTrack(t, catalog, "Zebra Band", "Alpha Takes", "Warmup", intPtr(1), 150, "/m/02.mp3")

	results, err := catalog.SearchTracksByArtist(ctx, "band")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(results))
	}
	if results[0].AlbumTitle != "Alpha Takes" || results[1].AlbumTitle != "Zulu Sessions" {
		t.Errorf("expected album title order Alpha Takes then Zulu Sessions, got %s then %s",
			results[0].AlbumTitle, results[1].AlbumTitle)
	}
}

func TestSearchAlbumsByTrackTitle(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "Aerosmith", "Greatest Hits", "Come Together", intPtr(5), 225, "/m/05.mp3")
	seedTrack(t, catalog, "Pink Floyd", "Animals", "Dogs", intPtr(2), 1025, "/m/04.mp3")

	results, err := catalog.SearchAlbumsByTrackTitle(ctx, "come together")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	// Ordered by artist name: Aerosmith before The Beatles
	if results[0].ArtistName != "Aerosmith" || results[1].ArtistName != "The Beatles" {
		t.Errorf("expected results ordered by artist name, got %s then %s", results[0].ArtistName, results[1].ArtistName)
	}
	for _, r := range results {
		if r.MatchingTrackTitle != "Come Together" {
			t.Errorf("expected matching track title populated, got %q", r.MatchingTrackTitle)
		}
	}
}

func TestSearchAlbumsByTrackTitle_OneRowPerAlbum(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	// Two tracks on the same album match the term; the album must still
	// appear exactly once.
	seedTrack(t, catalog, "Alpha Band", "Basement Takes", "Wanderlust", intPtr(1), 200, "/m/01.mp3")
	seedTrack(t, catalog, "Alpha Band", "Basement Takes", "Wandering Star", intPtr(2), 210, "/m/02.mp3")
	seedTrack(t, catalog, "Zeta Quartet", "Live Set", "Wander", intPtr(1), 310, "/m/03.mp3")

	results, err := catalog.SearchAlbumsByTrackTitle(ctx, "wander")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected one row per album, got %d rows", len(results))
	}
	if results[0].AlbumTitle != "Basement Takes" || results[1].AlbumTitle != "Live Set" {
		t.Errorf("expected Basement Takes then Live Set, got %s then %s", results[0].AlbumTitle, results[1].AlbumTitle)
	}
	if results[0].MatchingTrackTitle != "Wandering Star" {
		t.Errorf("expected first matching title alphabetically, got %q", results[0].MatchingTrackTitle)
	}
	if results[0].TrackCount != 2 {
		t.Errorf("expected track count 2, got %d", results[0].TrackCount)
	}
}

func TestSearchTracksByAlbum(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Something", intPtr(2), 183, "/m/02.mp3")
	seedTrack(t, catalog, "Pink Floyd", "Animals", "Dogs", intPtr(2), 1025, "/m/04.mp3")

	results, err := catalog.SearchTracksByAlbum(ctx, "abbey")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(results))
	}
	for _, r := range results {
		if r.AlbumTitle != "Abbey Road" {
			t.Errorf("unexpected album in results: %s", r.AlbumTitle)
		}
	}
}

func TestSearch_NoMatches(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")

	results, err := catalog.SearchAlbumsByArtist(ctx, "zeppelin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestGetAlbumDetails(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	_, album, _ := seedTrack(t, catalog, "The Beatles", "Abbey Road", "Something", intPtr(2), 183, "/m/02.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Hidden Jam", nil, 120, "/m/03.mp3")

	details, err := catalog.GetAlbumDetails(ctx, album.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if details == nil {
		t.Fatal("expected details, got nil")
	}
	if details.AlbumTitle != "Abbey Road" || details.ArtistName != "The Beatles" {
		t.Errorf("wrong album header: %s / %s", details.AlbumTitle, details.ArtistName)
	}
	if len(details.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(details.Tracks))
	}

	wantOrder := []string{"Come Together", "Something", "Hidden Jam"}
	for i, want := range wantOrder {
		if details.Tracks[i].Title != want {
			t.Errorf("position %d: expected %s, got %s", i, want, details.Tracks[i].Title)
		}
	}
	if details.TotalDurationSeconds != 259+183+120 {
		t.Errorf("expected total duration %d, got %d", 259+183+120, details.TotalDurationSeconds)
	}
}

func TestGetAlbumDetails_NotFound(t *testing.T) {
	catalog := testCatalog(t)

	details, err := catalog.GetAlbumDetails(context.Background(), "no-such-album")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if details != nil {
		t.Errorf("expected nil for unknown album, got %+v", details)
	}
}

func TestListAlbumDetailsByArtist_CaseInsensitive(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	seedTrack(t, catalog, "The Beatles", "Revolver", "Taxman", intPtr(1), 159, "/m/03.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")

	albums, err := catalog.ListAlbumDetailsByArtist(ctx, "the beatles")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[0].AlbumTitle != "Abbey Road" || albums[1].AlbumTitle != "Revolver" {
		t.Errorf("expected albums ordered by title, got %s then %s", albums[0].AlbumTitle, albums[1].AlbumTitle)
	}
}

func TestStats(t *testing.T) {
	catalog := testCatalog(t)
	ctx := context.Background()

	stats, err := catalog.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TrackCount != 0 || stats.TotalDurationSeconds != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Come Together", intPtr(1), 259, "/m/01.mp3")
	seedTrack(t, catalog, "The Beatles", "Abbey Road", "Something", intPtr(2), 183, "/m/02.mp3")
	seedTrack(t, catalog, "Pink Floyd", "Animals", "Dogs", intPtr(2), 1025, "/m/04.mp3")

	stats, err = catalog.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.ArtistCount != 2 || stats.AlbumCount != 2 || stats.TrackCount != 3 {
		t.Errorf("expected 2 artists, 2 albums, 3 tracks, got %+v", stats)
	}
	if stats.TotalDurationSeconds != 259+183+1025 {
		t.Errorf("expected total duration %d, got %d", 259+183+1025, stats.TotalDurationSeconds)
	}
}
