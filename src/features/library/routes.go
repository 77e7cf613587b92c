package library

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the library feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	library := app.Group("/library")
	library.Get("/search/albums/by-artist", handler.SearchAlbumsByArtist)
	library.Get("/search/tracks/by-artist", handler.SearchTracksByArtist)
	library.Get("/search/albums/by-track", handler.SearchAlbumsByTrackTitle)
	library.Get("/search/tracks/by-album", handler.SearchTracksByAlbum)
	library.Get("/artists", handler.GetArtistNames)
	library.Get("/albums", handler.GetAlbumTitles)
	library.Get("/albums/:id", handler.GetAlbumDetails)
	library.Get("/stats", handler.GetStats)
	library.Get("/tree", handler.GetLibraryFileTree)
	library.Delete("/artists/:id", handler.DeleteArtist)
	library.Delete("/albums/:id", handler.DeleteAlbum)
	library.Delete("/tracks/:id", handler.DeleteTrack)
}
