package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musix/internal/tablestore"
)

// CreateArtist validates and inserts a new artist row. Ids are always
// server-assigned; supplying one is rejected.
func (s *Service) CreateArtist(ctx context.Context, params ArtistParams) (Artist, error) {
	if params.ID != "" {
		return Artist{}, &InvalidFieldError{Kind: KindArtist, Field: "id", Msg: "is set by the server and must not be supplied"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return Artist{}, &InvalidFieldError{Kind: KindArtist, Field: "name", Msg: "must not be empty"}
	}

	taken, err := s.nameTaken(ctx, KindArtist, name, "")
	if err != nil {
		return Artist{}, err
	}
	if taken {
		s.metrics.nameConflict()
		return Artist{}, &ConflictError{Kind: KindArtist, Name: name}
	}

	id, err := s.allocateID(ctx, KindArtist)
	if err != nil {
		return Artist{}, err
	}

	artist := Artist{
		ID:                 id,
		Name:               name,
		MBID:               strValue(params.MBID),
		DescriptionSummary: strValue(params.DescriptionSummary),
		DescriptionLong:    strValue(params.DescriptionLong),
		DescriptionDate:    strValue(params.DescriptionDate),
		ImageURL:           strValue(params.ImageURL),
		Listeners:          intValue(params.Listeners),
		Tags:               tagsValue(params.Tags),
	}
	doc, err := marshalDoc(artist)
	if err != nil {
		return Artist{}, err
	}
	if _, err := s.store.Insert(ctx, tablestore.Row{Kind: KindArtist, ID: id, Doc: doc}); err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	s.log.Info().Str("artist", id).Str("name", name).Msg("created artist")
	return artist, nil
}

// GetArtist returns the artist with the given id.
func (s *Service) GetArtist(ctx context.Context, id string) (Artist, error) {
	row, err := s.getRow(ctx, KindArtist, id)
	if err != nil {
		return Artist{}, err
	}
	var artist Artist
	if err := unmarshalDoc(row.Doc, &artist); err != nil {
		return Artist{}, err
	}
	return artist, nil
}

// ListArtists returns every artist, or ErrEmptyCollection if there are none.
func (s *Service) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.store.Scan(ctx, KindArtist)
	if err != nil {
		return nil, fmt.Errorf("scan %s partition: %w", KindArtist, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCollection
	}
	artists := make([]Artist, 0, len(rows))
	for _, row := range rows {
		var artist Artist
		if err := unmarshalDoc(row.Doc, &artist); err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

// UpdateArtist applies a partial update to the artist row and, when the name
// changed, runs the rename cascade over every dependent row. The returned
// list names each row that was written, the artist row first.
func (s *Service) UpdateArtist(ctx context.Context, id string, params ArtistParams) ([]CompletedItem, error) {
	if id == "" {
		return nil, &InvalidFieldError{Kind: KindArtist, Field: "id", Msg: "must not be empty"}
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &InvalidFieldError{Kind: KindArtist, Field: "name", Msg: "must not be empty"}
	}

	row, err := s.getRow(ctx, KindArtist, id)
	if err != nil {
		return nil, err
	}
	var artist Artist
	if err := unmarshalDoc(row.Doc, &artist); err != nil {
		return nil, err
	}

	oldName := artist.Name
	if name != oldName {
		taken, err := s.nameTaken(ctx, KindArtist, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			s.metrics.nameConflict()
			return nil, &ConflictError{Kind: KindArtist, Name: name}
		}
	}

	artist.Name = name
	applyStr(&artist.MBID, params.MBID)
	applyStr(&artist.DescriptionSummary, params.DescriptionSummary)
	applyStr(&artist.DescriptionLong, params.DescriptionLong)
	applyStr(&artist.DescriptionDate, params.DescriptionDate)
	applyStr(&artist.ImageURL, params.ImageURL)
	applyInt(&artist.Listeners, params.Listeners)
	if params.Tags != nil {
		artist.Tags = params.Tags
	}

	doc, err := marshalDoc(artist)
	if err != nil {
		return nil, err
	}
	row.Doc = doc
	if _, err := s.store.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}

	// The cascade always runs and compares each dependent row against the
	// target name. That makes a resubmitted rename converge: rows fixed
	// before an earlier failure are skipped without a write.
	completed := []CompletedItem{{Kind: KindArtist, ID: id}}
	if name != oldName {
		s.log.Info().Str("artist", id).Str("oldName", oldName).Str("newName", name).
			Msg("artist renamed, propagating to dependent rows")
	}
	return s.cascadeArtistRename(ctx, id, name, completed)
}

// DeleteArtist removes the artist row, then deletes the artist's tracks and
// strips its snapshots out of every album and playlist.
func (s *Service) DeleteArtist(ctx context.Context, id string) ([]CompletedItem, error) {
	row, err := s.getRow(ctx, KindArtist, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, KindArtist, id, row.Version); err != nil {
		return nil, fmt.Errorf("delete artist: %w", err)
	}
	s.log.Info().Str("artist", id).Msg("deleted artist, removing dependent rows")
	return s.cascadeArtistDelete(ctx, id)
}

// getRow fetches a row, translating the store's miss into a NotFoundError.
func (s *Service) getRow(ctx context.Context, kind, id string) (tablestore.Row, error) {
	row, err := s.store.Get(ctx, kind, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return tablestore.Row{}, &NotFoundError{Kind: kind, ID: id}
	}
	if err != nil {
		return tablestore.Row{}, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	return row, nil
}

// nameTaken scans the kind's partition for another row with the same name.
// This is scan-then-write: two concurrent identical creates can both pass
// the check before either commits, because the store offers no
// insert-if-no-row-with-this-name primitive.
func (s *Service) nameTaken(ctx context.Context, kind, name, excludeID string) (bool, error) {
	rows, err := s.store.Scan(ctx, kind)
	if err != nil {
		return false, fmt.Errorf("scan %s partition: %w", kind, err)
	}
	for _, row := range rows {
		if row.ID == excludeID {
			continue
		}
		var probe struct {
			Name string `json:"name"`
		}
		if err := unmarshalDoc(row.Doc, &probe); err != nil {
			return false, fmt.Errorf("decode %s %s: %w", kind, row.ID, err)
		}
		if probe.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// artistByID returns the referenced artist or a NotFoundError.
func (s *Service) artistByID(ctx context.Context, id string) (Artist, error) {
	row, err := s.getRow(ctx, KindArtist, id)
	if err != nil {
		return Artist{}, err
	}
	var artist Artist
	if err := unmarshalDoc(row.Doc, &artist); err != nil {
		return Artist{}, err
	}
	return artist, nil
}

// artistByName finds the single artist with the given name. More than one
// match means the uniqueness invariant is already broken; that is corruption
// detected at read time, not a correctable request.
func (s *Service) artistByName(ctx context.Context, name string) (Artist, error) {
	rows, err := s.store.Scan(ctx, KindArtist)
	if err != nil {
		return Artist{}, fmt.Errorf("scan %s partition: %w", KindArtist, err)
	}
	var matches []Artist
	for _, row := range rows {
		var artist Artist
		if err := unmarshalDoc(row.Doc, &artist); err != nil {
			return Artist{}, err
		}
		if artist.Name == name {
			matches = append(matches, artist)
		}
	}
	switch len(matches) {
	case 0:
		return Artist{}, &NotFoundError{Kind: KindArtist}
	case 1:
		return matches[0], nil
	}
	s.log.Error().Str("name", name).Int("count", len(matches)).
		Msg("two artists share the same name, uniqueness invariant is broken")
	return Artist{}, &InvariantError{Kind: KindArtist, Name: name}
}
