package tag

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/cleriovision/musicdb/src/music"
)

// writeTaggedMP3 creates an mp3 fixture carrying an ID3v2 tag.
func writeTaggedMP3(t *testing.T, path, title, artist, album, trackNum string, art []byte) {
	t.Helper()
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x00}, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	tg, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		t.Fatalf("failed to open fixture for tagging: %v", err)
	}
	defer tg.Close()

	if title != "" {
		tg.SetTitle(title)
	}
	if artist != "" {
		tg.SetArtist(artist)
	}
	if album != "" {
		tg.SetAlbum(album)
	}
	if trackNum != "" {
		tg.AddTextFrame(tg.CommonID("Track number/Position in set"), tg.DefaultEncoding(), trackNum)
	}
	if len(art) > 0 {
		tg.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    tg.DefaultEncoding(),
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Picture:     art,
		})
	}
	if err := tg.Save(); err != nil {
		t.Fatalf("failed to save fixture tag: %v", err)
	}
}

func TestReadFileTags_FullyTagged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	art := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	writeTaggedMP3(t, path, "Come Together", "The Beatles", "Abbey Road", "1", art)

	reader := NewTagReader()
	meta, err := reader.ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if meta.Title != "Come Together" {
		t.Errorf("expected title 'Come Together', got %q", meta.Title)
	}
	if meta.Artist != "The Beatles" {
		t.Errorf("expected artist 'The Beatles', got %q", meta.Artist)
	}
	if meta.Album != "Abbey Road" {
		t.Errorf("expected album 'Abbey Road', got %q", meta.Album)
	}
	if meta.TrackNumber == nil || *meta.TrackNumber != 1 {
		t.Errorf("expected track number 1, got %v", meta.TrackNumber)
	}
	if !bytes.Equal(meta.AlbumArt, art) {
		t.Errorf("expected embedded art extracted, got %d bytes", len(meta.AlbumArt))
	}
	if meta.FilePath != path {
		t.Errorf("expected file path carried through, got %q", meta.FilePath)
	}
}

func TestReadFileTags_UntaggedFileFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "07 - Here Comes the Sun.mp3")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x00}, 1024), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewTagReader()
	meta, err := reader.ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatalf("untagged files must not error, got %v", err)
	}

	if meta.Title != "07 - Here Comes the Sun" {
		t.Errorf("expected verbatim filename title, got %q", meta.Title)
	}
	if meta.Artist != music.UnknownArtistName {
		t.Errorf("expected unknown artist placeholder, got %q", meta.Artist)
	}
	if meta.Album != music.UnknownAlbumName {
		t.Errorf("expected unknown album placeholder, got %q", meta.Album)
	}
	if meta.TrackNumber != nil {
		t.Errorf("expected no track number without tags, got %d", *meta.TrackNumber)
	}
}

func TestReadFileTags_PlainFilenameHasNoTrackNumber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "interlude.mp3")
	if err := os.WriteFile(path, []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewTagReader()
	meta, err := reader.ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if meta.Title != "interlude" {
		t.Errorf("expected title 'interlude', got %q", meta.Title)
	}
	if meta.TrackNumber != nil {
		t.Errorf("expected no track number, got %d", *meta.TrackNumber)
	}
}

func TestReadFileTags_TruncatedTagHeaderIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mangled.mp3")
	// An ID3 magic number followed by an unparseable header. The file claims
	// to carry tags, so it must surface an error rather than import with
	// filename fallbacks.
	garbage := append([]byte("ID3"), bytes.Repeat([]byte{0xFF}, 64)...)
	if err := os.WriteFile(path, garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewTagReader()
	_, err := reader.ReadFileTags(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for mangled tag header")
	}
	var readErr *music.MetadataReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected MetadataReadError, got %T", err)
	}
	if readErr.Path != path {
		t.Errorf("expected error to carry path %q, got %q", path, readErr.Path)
	}
}

func TestReadFileTags_MissingFile(t *testing.T) {
	reader := NewTagReader()

	_, err := reader.ReadFileTags(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var readErr *music.MetadataReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected MetadataReadError, got %T", err)
	}
}

func TestReadDuration_EstimatesFromFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.mp3")
	// 48000 bytes at the assumed 192 kbps is exactly 2 seconds
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x00}, 48000), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewTagReader()
	meta, err := reader.ReadFileTags(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if meta.DurationSeconds != 2 {
		t.Errorf("expected 2 second estimate, got %d", meta.DurationSeconds)
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/m/07 - song.mp3", "07 - song"},
		{"/m/Here Comes the Sun.mp3", "Here Comes the Sun"},
		{"/m/Blood - Sugar.mp3", "Blood - Sugar"},
		{"/m/plain.ogg", "plain"},
	}
	for _, c := range cases {
		if got := titleFromFilename(c.path); got != c.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
