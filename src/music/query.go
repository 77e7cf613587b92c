package music

// AlbumSearchResult is one row of an album search. MatchingTrackTitle is
// only populated by track-title searches, where it names the track that
// caused the album to match.
type AlbumSearchResult struct {
	AlbumID            string
	AlbumTitle         string
	ArtistName         string
	CoverArt           []byte
	TrackCount         int
	MatchingTrackTitle string
}

// TrackSearchResult is one row of a track search.
type TrackSearchResult struct {
	TrackID         string
	TrackTitle      string
	ArtistName      string
	AlbumTitle      string
	TrackNumber     *int
	DurationSeconds int
	FilePath        string
}

// FormattedDuration renders the track duration for display.
func (r *TrackSearchResult) FormattedDuration() string {
	return FormatDuration(r.DurationSeconds)
}

// AlbumTrack is one track row inside an album detail view, ordered by track
// number with unnumbered tracks last.
type AlbumTrack struct {
	TrackID         string
	Title           string
	TrackNumber     *int
	DurationSeconds int
	FilePath        string
}

// AlbumDetails is the full view of one album: its tracks plus aggregate
// duration.
type AlbumDetails struct {
	AlbumID              string
	AlbumTitle           string
	ArtistName           string
	CoverArt             []byte
	Tracks               []AlbumTrack
	TotalDurationSeconds int
}

// FormattedTotalDuration renders the album's aggregate duration for display.
func (d *AlbumDetails) FormattedTotalDuration() string {
	return FormatDuration(d.TotalDurationSeconds)
}

// LibraryStats summarizes the catalog.
type LibraryStats struct {
	ArtistCount          int
	AlbumCount           int
	TrackCount           int
	TotalDurationSeconds int
}
