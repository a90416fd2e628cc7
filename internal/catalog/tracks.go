package catalog

import (
	"context"
	"fmt"
	"strings"

	"musix/internal/tablestore"
)

// CreateTrack validates the request, resolves the owning artist, and inserts
// a new track row carrying the artist's current display name. ArtistID takes
// precedence over ArtistName when both are supplied.
func (s *Service) CreateTrack(ctx context.Context, params TrackParams) (Track, error) {
	if params.ID != "" {
		return Track{}, &InvalidFieldError{Kind: KindTrack, Field: "id", Msg: "is set by the server and must not be supplied"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Track{}, &InvalidFieldError{Kind: KindTrack, Field: "name", Msg: "must not be empty"}
	}

	artist, err := s.resolveArtist(ctx, KindTrack, params.ArtistID, params.ArtistName)
	if err != nil {
		return Track{}, err
	}

	taken, err := s.trackNameTaken(ctx, name, artist.ID, "")
	if err != nil {
		return Track{}, err
	}
	if taken {
		s.metrics.nameConflict()
		return Track{}, &ConflictError{Kind: KindTrack, Name: name}
	}

	id, err := s.allocateID(ctx, KindTrack)
	if err != nil {
		return Track{}, err
	}

	track := Track{
		ID:                 id,
		Name:               name,
		Duration:           intValue(params.Duration),
		MBID:               strValue(params.MBID),
		ArtistName:         artist.Name,
		ArtistID:           artist.ID,
		ArtistMBID:         strValue(params.ArtistMBID),
		Album:              strValue(params.Album),
		AlbumMBID:          strValue(params.AlbumMBID),
		AlbumPos:           intValue(params.AlbumPos),
		Playcount:          intValue(params.Playcount),
		Listeners:          intValue(params.Listeners),
		ImageURL:           strValue(params.ImageURL),
		Tags:               tagsValue(params.Tags),
		DescriptionSummary: strValue(params.DescriptionSummary),
		DescriptionLong:    strValue(params.DescriptionLong),
		DescriptionDate:    strValue(params.DescriptionDate),
	}
	doc, err := marshalDoc(track)
	if err != nil {
		return Track{}, err
	}
	if _, err := s.store.Insert(ctx, tablestore.Row{Kind: KindTrack, ID: id, Doc: doc}); err != nil {
		return Track{}, fmt.Errorf("insert track: %w", err)
	}
	s.log.Info().Str("track", id).Str("name", name).Str("artist", artist.ID).Msg("created track")
	return track, nil
}

// GetTrack returns the track with the given id.
func (s *Service) GetTrack(ctx context.Context, id string) (Track, error) {
	row, err := s.getRow(ctx, KindTrack, id)
	if err != nil {
		return Track{}, err
	}
	var track Track
	if err := unmarshalDoc(row.Doc, &track); err != nil {
		return Track{}, err
	}
	return track, nil
}

// ListTracks returns every track, or ErrEmptyCollection if there are none.
func (s *Service) ListTracks(ctx context.Context) ([]Track, error) {
	rows, err := s.store.Scan(ctx, KindTrack)
	if err != nil {
		return nil, fmt.Errorf("scan %s partition: %w", KindTrack, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCollection
	}
	tracks := make([]Track, 0, len(rows))
	for _, row := range rows {
		var track Track
		if err := unmarshalDoc(row.Doc, &track); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// UpdateTrack applies a partial update to the track row. The artist display
// name is derived from ArtistID and cannot be set directly. When the name,
// artist name, or duration changed, every embedded snapshot of the track is
// rewritten. The returned list names each row that was written, the track
// row first.
func (s *Service) UpdateTrack(ctx context.Context, id string, params TrackParams) ([]CompletedItem, error) {
	if id == "" {
		return nil, &InvalidFieldError{Kind: KindTrack, Field: "id", Msg: "must not be empty"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &InvalidFieldError{Kind: KindTrack, Field: "name", Msg: "must not be empty"}
	}
	if params.ArtistName != "" {
		return nil, &InvalidFieldError{Kind: KindTrack, Field: "artistName", Msg: "is derived from artistId and must not be supplied"}
	}

	row, err := s.getRow(ctx, KindTrack, id)
	if err != nil {
		return nil, err
	}
	var track Track
	if err := unmarshalDoc(row.Doc, &track); err != nil {
		return nil, err
	}
	oldTrack := track

	// Track names are unique per artist, so a rename is only meaningful
	// relative to an explicit owner.
	if name != oldTrack.Name && params.ArtistID == "" {
		return nil, &InvalidFieldError{Kind: KindTrack, Field: "artistId", Msg: "is required when renaming a track"}
	}

	if params.ArtistID != "" && params.ArtistID != track.ArtistID {
		artist, err := s.artistByID(ctx, params.ArtistID)
		if err != nil {
			return nil, err
		}
		track.ArtistID = artist.ID
		track.ArtistName = artist.Name
	}

	if name != oldTrack.Name || track.ArtistID != oldTrack.ArtistID {
		taken, err := s.trackNameTaken(ctx, name, track.ArtistID, id)
		if err != nil {
			return nil, err
		}
		if taken {
			s.metrics.nameConflict()
			return nil, &ConflictError{Kind: KindTrack, Name: name}
		}
	}

	track.Name = name
	applyInt(&track.Duration, params.Duration)
	applyStr(&track.MBID, params.MBID)
	applyStr(&track.ArtistMBID, params.ArtistMBID)
	applyStr(&track.Album, params.Album)
	applyStr(&track.AlbumMBID, params.AlbumMBID)
	applyInt(&track.AlbumPos, params.AlbumPos)
	applyInt(&track.Playcount, params.Playcount)
	applyInt(&track.Listeners, params.Listeners)
	applyStr(&track.ImageURL, params.ImageURL)
	applyStr(&track.DescriptionSummary, params.DescriptionSummary)
	applyStr(&track.DescriptionLong, params.DescriptionLong)
	applyStr(&track.DescriptionDate, params.DescriptionDate)
	if params.Tags != nil {
		track.Tags = params.Tags
	}

	doc, err := marshalDoc(track)
	if err != nil {
		return nil, err
	}
	row.Doc = doc
	if _, err := s.store.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update track: %w", err)
	}

	// The cascade always runs and compares each snapshot against the target
	// values, so a resubmitted duration or artist change converges. A
	// resubmitted rename cannot find snapshots still carrying the old name,
	// because embedded items are matched by name rather than track id.
	completed := []CompletedItem{{Kind: KindTrack, ID: id}}
	if track.Name != oldTrack.Name || track.ArtistName != oldTrack.ArtistName || track.Duration != oldTrack.Duration {
		s.log.Info().Str("track", id).Msg("track display fields changed, propagating to embedded snapshots")
	}
	return s.cascadeTrackChange(ctx, oldTrack, track, completed)
}

// DeleteTrack removes the track row, then strips its snapshots out of every
// album and playlist.
func (s *Service) DeleteTrack(ctx context.Context, id string) ([]CompletedItem, error) {
	row, err := s.getRow(ctx, KindTrack, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, KindTrack, id, row.Version); err != nil {
		return nil, fmt.Errorf("delete track: %w", err)
	}
	s.log.Info().Str("track", id).Msg("deleted track, removing embedded snapshots")
	return s.cascadeTrackDelete(ctx, id)
}

// resolveArtist finds the owning artist by id when one is supplied, by name
// otherwise. At least one of the two is required. kind names the entity being
// validated, for error reporting.
func (s *Service) resolveArtist(ctx context.Context, kind, artistID, artistName string) (Artist, error) {
	if artistID != "" {
		return s.artistByID(ctx, artistID)
	}
	if artistName != "" {
		return s.artistByName(ctx, artistName)
	}
	return Artist{}, &InvalidFieldError{Kind: kind, Field: "artistId", Msg: "either artistId or artistName is required"}
}

// trackNameTaken reports whether another track of the same artist already
// uses the name. Track names are unique per artist, not globally.
func (s *Service) trackNameTaken(ctx context.Context, name, artistID, excludeID string) (bool, error) {
	rows, err := s.store.Scan(ctx, KindTrack)
	if err != nil {
		return false, fmt.Errorf("scan %s partition: %w", KindTrack, err)
	}
	for _, row := range rows {
		if row.ID == excludeID {
			continue
		}
		var track Track
		if err := unmarshalDoc(row.Doc, &track); err != nil {
			return false, fmt.Errorf("decode %s %s: %w", KindTrack, row.ID, err)
		}
		if track.Name == name && track.ArtistID == artistID {
			return true, nil
		}
	}
	return false, nil
}
