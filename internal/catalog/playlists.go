package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"musix/internal/tablestore"
)

// CreatePlaylist validates the request and inserts a new playlist row.
// Supplied track items are re-resolved against the Track rows. The creation
// date defaults to the current time when the client leaves it out.
func (s *Service) CreatePlaylist(ctx context.Context, params PlaylistParams) (Playlist, error) {
	if params.ID != "" {
		return Playlist{}, &InvalidFieldError{Kind: KindPlaylist, Field: "id", Msg: "is set by the server and must not be supplied"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Playlist{}, &InvalidFieldError{Kind: KindPlaylist, Field: "name", Msg: "must not be empty"}
	}

	taken, err := s.nameTaken(ctx, KindPlaylist, name, "")
	if err != nil {
		return Playlist{}, err
	}
	if taken {
		s.metrics.nameConflict()
		return Playlist{}, &ConflictError{Kind: KindPlaylist, Name: name}
	}

	tracks, err := s.resolveTrackItems(ctx, params.Tracks)
	if err != nil {
		return Playlist{}, err
	}

	id, err := s.allocateID(ctx, KindPlaylist)
	if err != nil {
		return Playlist{}, err
	}

	creationDate := strValue(params.CreationDate)
	if creationDate == "" {
		creationDate = time.Now().UTC().Format(time.RFC3339)
	}

	playlist := Playlist{
		ID:                 id,
		Name:               name,
		CreationDate:       creationDate,
		ImageURL:           strValue(params.ImageURL),
		Tags:               tagsValue(params.Tags),
		Tracks:             tracks,
		DescriptionSummary: strValue(params.DescriptionSummary),
		DescriptionDate:    strValue(params.DescriptionDate),
	}
	doc, err := marshalDoc(playlist)
	if err != nil {
		return Playlist{}, err
	}
	if _, err := s.store.Insert(ctx, tablestore.Row{Kind: KindPlaylist, ID: id, Doc: doc}); err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	s.log.Info().Str("playlist", id).Str("name", name).Int("tracks", len(tracks)).Msg("created playlist")
	return playlist, nil
}

// GetPlaylist returns the playlist with the given id.
func (s *Service) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	row, err := s.getRow(ctx, KindPlaylist, id)
	if err != nil {
		return Playlist{}, err
	}
	var playlist Playlist
	if err := unmarshalDoc(row.Doc, &playlist); err != nil {
		return Playlist{}, err
	}
	return playlist, nil
}

// ListPlaylists returns every playlist, or ErrEmptyCollection if there are
// none.
func (s *Service) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.store.Scan(ctx, KindPlaylist)
	if err != nil {
		return nil, fmt.Errorf("scan %s partition: %w", KindPlaylist, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCollection
	}
	playlists := make([]Playlist, 0, len(rows))
	for _, row := range rows {
		var playlist Playlist
		if err := unmarshalDoc(row.Doc, &playlist); err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// UpdatePlaylist applies a partial update to the playlist row. Playlists are
// leaves of the dependency graph, so no cascade follows. A supplied track
// list replaces the stored one after re-resolution; a nil list leaves it
// unchanged.
func (s *Service) UpdatePlaylist(ctx context.Context, id string, params PlaylistParams) ([]CompletedItem, error) {
	if id == "" {
		return nil, &InvalidFieldError{Kind: KindPlaylist, Field: "id", Msg: "must not be empty"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &InvalidFieldError{Kind: KindPlaylist, Field: "name", Msg: "must not be empty"}
	}

	row, err := s.getRow(ctx, KindPlaylist, id)
	if err != nil {
		return nil, err
	}
	var playlist Playlist
	if err := unmarshalDoc(row.Doc, &playlist); err != nil {
		return nil, err
	}

	if name != playlist.Name {
		taken, err := s.nameTaken(ctx, KindPlaylist, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			s.metrics.nameConflict()
			return nil, &ConflictError{Kind: KindPlaylist, Name: name}
		}
	}

	playlist.Name = name
	applyStr(&playlist.CreationDate, params.CreationDate)
	applyStr(&playlist.ImageURL, params.ImageURL)
	applyStr(&playlist.DescriptionSummary, params.DescriptionSummary)
	applyStr(&playlist.DescriptionDate, params.DescriptionDate)
	if params.Tags != nil {
		playlist.Tags = params.Tags
	}
	if params.Tracks != nil {
		tracks, err := s.resolveTrackItems(ctx, params.Tracks)
		if err != nil {
			return nil, err
		}
		playlist.Tracks = tracks
	}

	doc, err := marshalDoc(playlist)
	if err != nil {
		return nil, err
	}
	row.Doc = doc
	if _, err := s.store.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return []CompletedItem{{Kind: KindPlaylist, ID: id}}, nil
}

// DeletePlaylist removes the playlist row. Nothing references playlists, so
// no cascade follows.
func (s *Service) DeletePlaylist(ctx context.Context, id string) error {
	row, err := s.getRow(ctx, KindPlaylist, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, KindPlaylist, id, row.Version); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	s.log.Info().Str("playlist", id).Msg("deleted playlist")
	return nil
}
