// Package httpapi exposes the catalog over HTTP. Handlers are thin glue:
// decode the request, call the catalog, translate the error taxonomy to a
// status code.
package httpapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"musix/internal/catalog"
)

// Catalog captures the catalog operations needed by the HTTP handlers.
type Catalog interface {
	CreateArtist(ctx context.Context, params catalog.ArtistParams) (catalog.Artist, error)
	GetArtist(ctx context.Context, id string) (catalog.Artist, error)
	ListArtists(ctx context.Context) ([]catalog.Artist, error)
	UpdateArtist(ctx context.Context, id string, params catalog.ArtistParams) ([]catalog.CompletedItem, error)
	DeleteArtist(ctx context.Context, id string) ([]catalog.CompletedItem, error)

	CreateTrack(ctx context.Context, params catalog.TrackParams) (catalog.Track, error)
	GetTrack(ctx context.Context, id string) (catalog.Track, error)
	ListTracks(ctx context.Context) ([]catalog.Track, error)
	UpdateTrack(ctx context.Context, id string, params catalog.TrackParams) ([]catalog.CompletedItem, error)
	DeleteTrack(ctx context.Context, id string) ([]catalog.CompletedItem, error)

	CreateAlbum(ctx context.Context, params catalog.AlbumParams) (catalog.Album, error)
	GetAlbum(ctx context.Context, id string) (catalog.Album, error)
	ListAlbums(ctx context.Context) ([]catalog.Album, error)
	UpdateAlbum(ctx context.Context, id string, params catalog.AlbumParams) ([]catalog.CompletedItem, error)
	DeleteAlbum(ctx context.Context, id string) error

	CreatePlaylist(ctx context.Context, params catalog.PlaylistParams) (catalog.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (catalog.Playlist, error)
	ListPlaylists(ctx context.Context) ([]catalog.Playlist, error)
	UpdatePlaylist(ctx context.Context, id string, params catalog.PlaylistParams) ([]catalog.CompletedItem, error)
	DeletePlaylist(ctx context.Context, id string) error
}

// Server wires HTTP handlers to the catalog.
type Server struct {
	catalog Catalog
	log     zerolog.Logger
	metrics http.Handler
}

// New configures a Server. A nil metrics handler drops the /metrics route.
func New(cat Catalog, log zerolog.Logger, metrics http.Handler) *Server {
	return &Server{catalog: cat, log: log, metrics: metrics}
}

// Routes exposes the HTTP handlers for the catalog.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	mux.HandleFunc("POST /api/v1/artist", s.handleCreateArtist)
	mux.HandleFunc("GET /api/v1/artist", s.handleListArtists)
	mux.HandleFunc("GET /api/v1/artist/{id}", s.handleGetArtist)
	mux.HandleFunc("POST /api/v1/artist/update", s.handleUpdateArtist)
	mux.HandleFunc("DELETE /api/v1/artist/delete/{id}", s.handleDeleteArtist)

	mux.HandleFunc("POST /api/v1/track", s.handleCreateTrack)
	mux.HandleFunc("GET /api/v1/track", s.handleListTracks)
	mux.HandleFunc("GET /api/v1/track/{id}", s.handleGetTrack)
	mux.HandleFunc("POST /api/v1/track/update", s.handleUpdateTrack)
	mux.HandleFunc("DELETE /api/v1/track/delete/{id}", s.handleDeleteTrack)

	mux.HandleFunc("POST /api/v1/album", s.handleCreateAlbum)
	mux.HandleFunc("GET /api/v1/album", s.handleListAlbums)
	mux.HandleFunc("GET /api/v1/album/{id}", s.handleGetAlbum)
	mux.HandleFunc("POST /api/v1/album/update", s.handleUpdateAlbum)
	mux.HandleFunc("DELETE /api/v1/album/delete/{id}", s.handleDeleteAlbum)

	mux.HandleFunc("POST /api/v1/playlist", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/v1/playlist", s.handleListPlaylists)
	mux.HandleFunc("GET /api/v1/playlist/{id}", s.handleGetPlaylist)
	mux.HandleFunc("POST /api/v1/playlist/update", s.handleUpdatePlaylist)
	mux.HandleFunc("DELETE /api/v1/playlist/delete/{id}", s.handleDeletePlaylist)

	return mux
}
