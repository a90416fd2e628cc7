package catalog

import (
	"context"
	"fmt"
	"strings"

	"musix/internal/tablestore"
)

// CreateAlbum validates the request, resolves the owning artist, and inserts
// a new album row. Supplied track items are re-resolved against the Track
// rows so the stored snapshots start out consistent.
func (s *Service) CreateAlbum(ctx context.Context, params AlbumParams) (Album, error) {
	if params.ID != "" {
		return Album{}, &InvalidFieldError{Kind: KindAlbum, Field: "id", Msg: "is set by the server and must not be supplied"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Album{}, &InvalidFieldError{Kind: KindAlbum, Field: "name", Msg: "must not be empty"}
	}

	artist, err := s.resolveArtist(ctx, KindAlbum, params.ArtistID, params.ArtistName)
	if err != nil {
		return Album{}, err
	}

	taken, err := s.nameTaken(ctx, KindAlbum, name, "")
	if err != nil {
		return Album{}, err
	}
	if taken {
		s.metrics.nameConflict()
		return Album{}, &ConflictError{Kind: KindAlbum, Name: name}
	}

	tracks, err := s.resolveTrackItems(ctx, params.Tracks)
	if err != nil {
		return Album{}, err
	}

	id, err := s.allocateID(ctx, KindAlbum)
	if err != nil {
		return Album{}, err
	}

	album := Album{
		ID:                 id,
		Name:               name,
		MBID:               strValue(params.MBID),
		ArtistName:         artist.Name,
		ArtistID:           artist.ID,
		ReleaseDate:        strValue(params.ReleaseDate),
		ImageURL:           strValue(params.ImageURL),
		Playcount:          intValue(params.Playcount),
		Listeners:          intValue(params.Listeners),
		Tags:               tagsValue(params.Tags),
		Tracks:             tracks,
		DescriptionSummary: strValue(params.DescriptionSummary),
		DescriptionLong:    strValue(params.DescriptionLong),
		DescriptionDate:    strValue(params.DescriptionDate),
	}
	doc, err := marshalDoc(album)
	if err != nil {
		return Album{}, err
	}
	if _, err := s.store.Insert(ctx, tablestore.Row{Kind: KindAlbum, ID: id, Doc: doc}); err != nil {
		return Album{}, fmt.Errorf("insert album: %w", err)
	}
	s.log.Info().Str("album", id).Str("name", name).Int("tracks", len(tracks)).Msg("created album")
	return album, nil
}

// GetAlbum returns the album with the given id.
func (s *Service) GetAlbum(ctx context.Context, id string) (Album, error) {
	row, err := s.getRow(ctx, KindAlbum, id)
	if err != nil {
		return Album{}, err
	}
	var album Album
	if err := unmarshalDoc(row.Doc, &album); err != nil {
		return Album{}, err
	}
	return album, nil
}

// ListAlbums returns every album, or ErrEmptyCollection if there are none.
func (s *Service) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.store.Scan(ctx, KindAlbum)
	if err != nil {
		return nil, fmt.Errorf("scan %s partition: %w", KindAlbum, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCollection
	}
	albums := make([]Album, 0, len(rows))
	for _, row := range rows {
		var album Album
		if err := unmarshalDoc(row.Doc, &album); err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// UpdateAlbum applies a partial update to the album row. Albums are leaves of
// the dependency graph, so no cascade follows; the returned list holds the
// album row alone. A supplied track list replaces the stored one after
// re-resolution; a nil list leaves it unchanged.
func (s *Service) UpdateAlbum(ctx context.Context, id string, params AlbumParams) ([]CompletedItem, error) {
	if id == "" {
		return nil, &InvalidFieldError{Kind: KindAlbum, Field: "id", Msg: "must not be empty"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &InvalidFieldError{Kind: KindAlbum, Field: "name", Msg: "must not be empty"}
	}
	if params.ArtistName != "" {
		return nil, &InvalidFieldError{Kind: KindAlbum, Field: "artistName", Msg: "is derived from artistId and must not be supplied"}
	}

	row, err := s.getRow(ctx, KindAlbum, id)
	if err != nil {
		return nil, err
	}
	var album Album
	if err := unmarshalDoc(row.Doc, &album); err != nil {
		return nil, err
	}

	if name != album.Name {
		taken, err := s.nameTaken(ctx, KindAlbum, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			s.metrics.nameConflict()
			return nil, &ConflictError{Kind: KindAlbum, Name: name}
		}
	}

	if params.ArtistID != "" && params.ArtistID != album.ArtistID {
		artist, err := s.artistByID(ctx, params.ArtistID)
		if err != nil {
			return nil, err
		}
		album.ArtistID = artist.ID
		album.ArtistName = artist.Name
	}

	album.Name = name
	applyStr(&album.MBID, params.MBID)
	applyStr(&album.ReleaseDate, params.ReleaseDate)
	applyStr(&album.ImageURL, params.ImageURL)
	applyStr(&album.DescriptionSummary, params.DescriptionSummary)
	applyStr(&album.DescriptionLong, params.DescriptionLong)
	applyStr(&album.DescriptionDate, params.DescriptionDate)
	applyInt(&album.Playcount, params.Playcount)
	applyInt(&album.Listeners, params.Listeners)
	if params.Tags != nil {
		album.Tags = params.Tags
	}
	if params.Tracks != nil {
		tracks, err := s.resolveTrackItems(ctx, params.Tracks)
		if err != nil {
			return nil, err
		}
		album.Tracks = tracks
	}

	doc, err := marshalDoc(album)
	if err != nil {
		return nil, err
	}
	row.Doc = doc
	if _, err := s.store.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update album: %w", err)
	}
	return []CompletedItem{{Kind: KindAlbum, ID: id}}, nil
}

// DeleteAlbum removes the album row. Nothing references albums, so no
// cascade follows.
func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	row, err := s.getRow(ctx, KindAlbum, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, KindAlbum, id, row.Version); err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	s.log.Info().Str("album", id).Msg("deleted album")
	return nil
}

// resolveTrackItems rebuilds each supplied snapshot from its Track row.
// Only the trackId is taken from the client; name, duration, and artist
// fields always come from the current row so a fresh snapshot can never be
// born stale.
func (s *Service) resolveTrackItems(ctx context.Context, items []TrackItem) ([]TrackItem, error) {
	resolved := make([]TrackItem, 0, len(items))
	for _, item := range items {
		if item.TrackID == "" {
			return nil, &InvalidFieldError{Kind: KindTrack, Field: "trackId", Msg: "must not be empty"}
		}
		track, err := s.GetTrack(ctx, item.TrackID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, TrackItem{
			Name:            track.Name,
			TrackID:         track.ID,
			DurationSeconds: track.Duration,
			ArtistName:      track.ArtistName,
			ArtistID:        track.ArtistID,
		})
	}
	return resolved, nil
}
