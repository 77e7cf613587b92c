package music

import "context"

// Catalog is the persistence interface for the music catalog. Lookup methods
// return (nil, nil) when no row matches; only infrastructure failures
// surface as errors.
type Catalog interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Artists
	FindArtistByName(ctx context.Context, name string) (*Artist, error)
	CreateArtist(ctx context.Context, artist *Artist) error
	// FindOrCreateArtist reports whether the artist was created by this call.
	FindOrCreateArtist(ctx context.Context, name string) (*Artist, bool, error)
	ArtistNames(ctx context.Context) ([]string, error)
	DeleteArtist(ctx context.Context, id string) error

	// Albums
	FindAlbumByTitleAndArtist(ctx context.Context, title, artistID string) (*Album, error)
	CreateAlbum(ctx context.Context, album *Album) error
	// FindOrCreateAlbum reports whether the album was created by this call.
	FindOrCreateAlbum(ctx context.Context, title, artistID string) (*Album, bool, error)
	UpdateAlbumArt(ctx context.Context, albumID string, art []byte) error
	AlbumTitles(ctx context.Context) ([]string, error)
	DeleteAlbum(ctx context.Context, id string) error

	// Tracks
	FindTrackByPath(ctx context.Context, path string) (*Track, error)
	CreateTrack(ctx context.Context, track *Track) error
	UpdateTrack(ctx context.Context, track *Track) error
	DeleteTrack(ctx context.Context, id string) error

	// Counts
	CountArtists(ctx context.Context) (int, error)
	CountAlbums(ctx context.Context) (int, error)
	CountTracks(ctx context.Context) (int, error)

	// Queries
	SearchAlbumsByArtist(ctx context.Context, term string) ([]AlbumSearchResult, error)
	SearchTracksByArtist(ctx context.Context, term string) ([]TrackSearchResult, error)
	SearchAlbumsByTrackTitle(ctx context.Context, term string) ([]AlbumSearchResult, error)
	SearchTracksByAlbum(ctx context.Context, term string) ([]TrackSearchResult, error)
	GetAlbumDetails(ctx context.Context, albumID string) (*AlbumDetails, error)
	ListAlbumDetails(ctx context.Context) ([]AlbumDetails, error)
	ListAlbumDetailsByArtist(ctx context.Context, artistName string) ([]AlbumDetails, error)
	Stats(ctx context.Context) (*LibraryStats, error)
}
