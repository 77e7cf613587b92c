package database

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/cleriovision/musicdb/src/music"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteCatalog is a SQLite implementation of the music.Catalog interface.
type SqliteCatalog struct {
	db *sql.DB
}

// NewSqliteCatalog creates a new SqliteCatalog.
func NewSqliteCatalog(path string) (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteCatalog{db: db}, nil
}

// DB exposes the underlying handle for tests.
func (d *SqliteCatalog) DB() *sql.DB {
	return d.db
}

// Close closes the underlying database handle.
func (d *SqliteCatalog) Close() error {
	return d.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS artists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			sort_name TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS albums (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist_id TEXT NOT NULL,
			cover_art_path TEXT,
			cover_art BLOB,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(title, artist_id),
			FOREIGN KEY (artist_id) REFERENCES artists(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist_id TEXT NOT NULL,
			album_id TEXT NOT NULL,
			track_number INTEGER,
			duration INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (artist_id) REFERENCES artists(id) ON DELETE CASCADE,
			FOREIGN KEY (album_id) REFERENCES albums(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
	`)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ping verifies the database is reachable.
func (d *SqliteCatalog) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// FindArtistByName returns the artist with the given name, or nil if none exists.
func (d *SqliteCatalog) FindArtistByName(ctx context.Context, name string) (*music.Artist, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, name, sort_name, created_at, updated_at
		FROM artists WHERE name = ?
	`, name)
	return scanArtist(row)
}

// CreateArtist inserts a new artist.
func (d *SqliteCatalog) CreateArtist(ctx context.Context, artist *music.Artist) error {
	if err := artist.Validate(); err != nil {
		slog.Error("CreateArtist: validation failed", "error", err, "name", artist.Name)
		return err
	}
	if artist.ID == "" {
		artist.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO artists (id, name, sort_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, artist.ID, artist.Name, artist.SortName, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	return err
}

// FindOrCreateArtist returns the existing artist with the given name, creating
// it if necessary. The second return reports whether this call created the
// artist. A concurrent insert of the same name is resolved by re-fetching
// after a unique constraint violation, in which case created is false.
func (d *SqliteCatalog) FindOrCreateArtist(ctx context.Context, name string) (*music.Artist, bool, error) {
	artist, err := d.FindArtistByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if artist != nil {
		return artist, false, nil
	}

	artist = &music.Artist{Name: name, SortName: sortName(name)}
	if err := d.CreateArtist(ctx, artist); err != nil {
		if isUniqueViolation(err) {
			existing, err := d.FindArtistByName(ctx, name)
			return existing, false, err
		}
		return nil, false, err
	}
	return artist, true, nil
}

// ArtistNames returns all artist names sorted alphabetically.
func (d *SqliteCatalog) ArtistNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM artists ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// DeleteArtist removes an artist. Its albums and tracks cascade.
func (d *SqliteCatalog) DeleteArtist(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	return err
}

// FindAlbumByTitleAndArtist returns the album with the given title under the
// given artist, or nil if none exists.
func (d *SqliteCatalog) FindAlbumByTitleAndArtist(ctx context.Context, title, artistID string) (*music.Album, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, artist_id, cover_art_path, cover_art, created_at, updated_at
		FROM albums WHERE title = ? AND artist_id = ?
	`, title, artistID)
	return scanAlbum(row)
}

// CreateAlbum inserts a new album.
func (d *SqliteCatalog) CreateAlbum(ctx context.Context, album *music.Album) error {
	if err := album.Validate(); err != nil {
		slog.Error("CreateAlbum: validation failed", "error", err, "title", album.Title)
		return err
	}
	if album.ID == "" {
		album.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	album.CreatedAt = now
	album.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO albums (id, title, artist_id, cover_art_path, cover_art, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, album.ID, album.Title, album.ArtistID, album.CoverArtPath, album.CoverArtData,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	return err
}

// FindOrCreateAlbum returns the existing album with the given title under the
// artist, creating it if necessary. The second return reports whether this
// call created the album.
func (d *SqliteCatalog) FindOrCreateAlbum(ctx context.Context, title, artistID string) (*music.Album, bool, error) {
	album, err := d.FindAlbumByTitleAndArtist(ctx, title, artistID)
	if err != nil {
		return nil, false, err
	}
	if album != nil {
		return album, false, nil
	}

	album = &music.Album{Title: title, ArtistID: artistID}
	if err := d.CreateAlbum(ctx, album); err != nil {
		if isUniqueViolation(err) {
			existing, err := d.FindAlbumByTitleAndArtist(ctx, title, artistID)
			return existing, false, err
		}
		return nil, false, err
	}
	return album, true, nil
}

// UpdateAlbumArt stores cover art for an album.
func (d *SqliteCatalog) UpdateAlbumArt(ctx context.Context, albumID string, art []byte) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE albums SET cover_art = ?, updated_at = ? WHERE id = ?
	`, art, time.Now().UTC().Format(time.RFC3339Nano), albumID)
	return err
}

// AlbumTitles returns all album titles sorted alphabetically.
func (d *SqliteCatalog) AlbumTitles(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT title FROM albums ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// DeleteAlbum removes an album. Its tracks cascade.
func (d *SqliteCatalog) DeleteAlbum(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	return err
}

// FindTrackByPath returns the track at the given file path, or nil if none exists.
func (d *SqliteCatalog) FindTrackByPath(ctx context.Context, path string) (*music.Track, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, artist_id, album_id, track_number, duration, path, created_at, updated_at
		FROM tracks WHERE path = ?
	`, path)
	return scanTrack(row)
}

// CreateTrack inserts a new track.
func (d *SqliteCatalog) CreateTrack(ctx context.Context, track *music.Track) error {
	if err := track.Validate(); err != nil {
		slog.Error("CreateTrack: validation failed", "error", err, "path", track.FilePath)
		return err
	}
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	track.CreatedAt = now
	track.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO tracks (id, title, artist_id, album_id, track_number, duration, path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, track.ID, track.Title, track.ArtistID, track.AlbumID, trackNumberValue(track.TrackNumber),
		track.DurationSeconds, track.FilePath, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	return err
}

// UpdateTrack updates an existing track's metadata in place. CreatedAt is
// preserved; UpdatedAt is advanced by the store.
func (d *SqliteCatalog) UpdateTrack(ctx context.Context, track *music.Track) error {
	if err := track.Validate(); err != nil {
		slog.Error("UpdateTrack: validation failed", "error", err, "trackID", track.ID)
		return err
	}
	now := time.Now().UTC()
	track.UpdatedAt = now

	_, err := d.db.ExecContext(ctx, `
		UPDATE tracks
		SET title = ?, artist_id = ?, album_id = ?, track_number = ?, duration = ?, path = ?, updated_at = ?
		WHERE id = ?
	`, track.Title, track.ArtistID, track.AlbumID, trackNumberValue(track.TrackNumber),
		track.DurationSeconds, track.FilePath, now.Format(time.RFC3339Nano), track.ID)
	return err
}

// DeleteTrack removes a track.
func (d *SqliteCatalog) DeleteTrack(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	return err
}

// CountArtists returns the number of artists in the catalog.
func (d *SqliteCatalog) CountArtists(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM artists`)
}

// CountAlbums returns the number of albums in the catalog.
func (d *SqliteCatalog) CountAlbums(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM albums`)
}

// CountTracks returns the number of tracks in the catalog.
func (d *SqliteCatalog) CountTracks(ctx context.Context) (int, error) {
	return d.count(ctx, `SELECT COUNT(*) FROM tracks`)
}

func (d *SqliteCatalog) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Stats returns aggregate counts and total duration for the catalog.
func (d *SqliteCatalog) Stats(ctx context.Context) (*music.LibraryStats, error) {
	stats := &music.LibraryStats{}
	err := d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM artists),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM tracks),
			(SELECT COALESCE(SUM(duration), 0) FROM tracks)
	`).Scan(&stats.ArtistCount, &stats.AlbumCount, &stats.TrackCount, &stats.TotalDurationSeconds)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func trackNumberValue(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanArtist(row *sql.Row) (*music.Artist, error) {
	var a music.Artist
	var sort sql.NullString
	var created, updated string
	err := row.Scan(&a.ID, &a.Name, &sort, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.SortName = sort.String
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	a.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &a, nil
}

func scanAlbum(row *sql.Row) (*music.Album, error) {
	var al music.Album
	var coverPath sql.NullString
	var created, updated string
	err := row.Scan(&al.ID, &al.Title, &al.ArtistID, &coverPath, &al.CoverArtData, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	al.CoverArtPath = coverPath.String
	al.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	al.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &al, nil
}

func scanTrack(row *sql.Row) (*music.Track, error) {
	var t music.Track
	var number sql.NullInt64
	var created, updated string
	err := row.Scan(&t.ID, &t.Title, &t.ArtistID, &t.AlbumID, &number, &t.DurationSeconds, &t.FilePath, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if number.Valid {
		n := int(number.Int64)
		t.TrackNumber = &n
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &t, nil
}
