package database

import (
	"context"
	"database/sql"

	"github.com/cleriovision/musicdb/src/music"
)

// Substring searches use LIKE, which in SQLite is case-insensitive for
// ASCII only. Non-ASCII matching is byte-exact.

// SearchAlbumsByArtist returns albums whose artist name contains the term,
// ordered by artist name then album title.
func (d *SqliteCatalog) SearchAlbumsByArtist(ctx context.Context, term string) ([]music.AlbumSearchResult, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT al.id, al.title, ar.name, al.cover_art,
			(SELECT COUNT(*) FROM tracks t WHERE t.album_id = al.id)
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id
		WHERE ar.name LIKE '%' || ? || '%'
		ORDER BY ar.name, al.title
	`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []music.AlbumSearchResult
	for rows.Next() {
		var r music.AlbumSearchResult
		if err := rows.Scan(&r.AlbumID, &r.AlbumTitle, &r.ArtistName, &r.CoverArt, &r.TrackCount); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SearchTracksByArtist returns tracks whose artist name contains the term,
// ordered by album title, then track number with unnumbered tracks last.
func (d *SqliteCatalog) SearchTracksByArtist(ctx context.Context, term string) ([]music.TrackSearchResult, error) {
	return d.searchTracks(ctx, `
		SELECT t.id, t.title, ar.name, al.title, t.track_number, t.duration, t.path
		FROM tracks t
		JOIN artists ar ON ar.id = t.artist_id
		JOIN albums al ON al.id = t.album_id
		WHERE ar.name LIKE '%' || ? || '%'
		ORDER BY al.title, t.track_number IS NULL, t.track_number
	`, term)
}

// SearchAlbumsByTrackTitle returns one row per album holding at least one
// track whose title contains the term. When several tracks on the same album
// match, the first matching title alphabetically is reported. Ordered by
// artist name then album title.
func (d *SqliteCatalog) SearchAlbumsByTrackTitle(ctx context.Context, term string) ([]music.AlbumSearchResult, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT al.id, al.title, ar.name, al.cover_art,
			(SELECT COUNT(*) FROM tracks tc WHERE tc.album_id = al.id),
			MIN(t.title)
		FROM tracks t
		JOIN albums al ON al.id = t.album_id
		JOIN artists ar ON ar.id = al.artist_id
		WHERE t.title LIKE '%' || ? || '%'
		GROUP BY al.id
		ORDER BY ar.name, al.title
	`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []music.AlbumSearchResult
	for rows.Next() {
		var r music.AlbumSearchResult
		if err := rows.Scan(&r.AlbumID, &r.AlbumTitle, &r.ArtistName, &r.CoverArt, &r.TrackCount, &r.MatchingTrackTitle); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SearchTracksByAlbum returns tracks on albums whose title contains the term,
// ordered by album title then track number with unnumbered tracks last.
func (d *SqliteCatalog) SearchTracksByAlbum(ctx context.Context, term string) ([]music.TrackSearchResult, error) {
	return d.searchTracks(ctx, `
		SELECT t.id, t.title, ar.name, al.title, t.track_number, t.duration, t.path
		FROM tracks t
		JOIN artists ar ON ar.id = t.artist_id
		JOIN albums al ON al.id = t.album_id
		WHERE al.title LIKE '%' || ? || '%'
		ORDER BY al.title, t.track_number IS NULL, t.track_number
	`, term)
}

func (d *SqliteCatalog) searchTracks(ctx context.Context, query, term string) ([]music.TrackSearchResult, error) {
	rows, err := d.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []music.TrackSearchResult
	for rows.Next() {
		var r music.TrackSearchResult
		var number sql.NullInt64
		if err := rows.Scan(&r.TrackID, &r.TrackTitle, &r.ArtistName, &r.AlbumTitle, &number, &r.DurationSeconds, &r.FilePath); err != nil {
			return nil, err
		}
		if number.Valid {
			n := int(number.Int64)
			r.TrackNumber = &n
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetAlbumDetails returns the full view of one album, or nil when the album
// does not exist.
func (d *SqliteCatalog) GetAlbumDetails(ctx context.Context, albumID string) (*music.AlbumDetails, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT al.id, al.title, ar.name, al.cover_art
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id
		WHERE al.id = ?
	`, albumID)

	var details music.AlbumDetails
	err := row.Scan(&details.AlbumID, &details.AlbumTitle, &details.ArtistName, &details.CoverArt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := d.fillAlbumTracks(ctx, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// ListAlbumDetails returns every album with its tracks, ordered by artist
// name then album title.
func (d *SqliteCatalog) ListAlbumDetails(ctx context.Context) ([]music.AlbumDetails, error) {
	return d.listAlbumDetails(ctx, `
		SELECT al.id, al.title, ar.name, al.cover_art
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id
		ORDER BY ar.name, al.title
	`)
}

// ListAlbumDetailsByArtist returns the albums of the named artist, matched
// case-insensitively, ordered by album title.
func (d *SqliteCatalog) ListAlbumDetailsByArtist(ctx context.Context, artistName string) ([]music.AlbumDetails, error) {
	return d.listAlbumDetails(ctx, `
		SELECT al.id, al.title, ar.name, al.cover_art
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id
		WHERE ar.name = ? COLLATE NOCASE
		ORDER BY al.title
	`, artistName)
}

func (d *SqliteCatalog) listAlbumDetails(ctx context.Context, query string, args ...any) ([]music.AlbumDetails, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []music.AlbumDetails
	for rows.Next() {
		var details music.AlbumDetails
		if err := rows.Scan(&details.AlbumID, &details.AlbumTitle, &details.ArtistName, &details.CoverArt); err != nil {
			return nil, err
		}
		albums = append(albums, details)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range albums {
		if err := d.fillAlbumTracks(ctx, &albums[i]); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

func (d *SqliteCatalog) fillAlbumTracks(ctx context.Context, details *music.AlbumDetails) error {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, track_number, duration, path
		FROM tracks
		WHERE album_id = ?
		ORDER BY track_number IS NULL, track_number, title
	`, details.AlbumID)
	if err != nil {
		return err
	}
	defer rows.Close()

	details.TotalDurationSeconds = 0
	for rows.Next() {
		var t music.AlbumTrack
		var number sql.NullInt64
		if err := rows.Scan(&t.TrackID, &t.Title, &number, &t.DurationSeconds, &t.FilePath); err != nil {
			return err
		}
		if number.Valid {
			n := int(number.Int64)
			t.TrackNumber = &n
		}
		details.TotalDurationSeconds += t.DurationSeconds
		details.Tracks = append(details.Tracks, t)
	}
	return rows.Err()
}
