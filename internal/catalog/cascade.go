package catalog

import (
	"context"
	"errors"
	"fmt"

	"musix/internal/tablestore"
)

// cascade drives the ordered propagation steps that follow a committed
// artist or track mutation. Steps run until the first failed write; there is
// no rollback, and earlier rewrites stay committed. Every touched row is
// recorded so a caller can resubmit the identical operation: rows already at
// their target value are skipped without a write on retry.
type cascade struct {
	svc       *Service
	trigger   CompletedItem
	completed []CompletedItem
}

func (s *Service) newCascade(kind, id string, seed []CompletedItem) *cascade {
	if seed == nil {
		seed = []CompletedItem{}
	}
	return &cascade{svc: s, trigger: CompletedItem{Kind: kind, ID: id}, completed: seed}
}

func (c *cascade) record(kind, id string) {
	c.completed = append(c.completed, CompletedItem{Kind: kind, ID: id})
	c.svc.metrics.rowTouched(kind)
}

func (c *cascade) fail(err error) error {
	c.svc.metrics.cascadeFailed()
	c.svc.log.Error().
		Err(err).
		Str("kind", c.trigger.Kind).
		Str("id", c.trigger.ID).
		Int("completed", len(c.completed)).
		Msg("cascade aborted, earlier rewrites remain committed")
	return &CascadeError{
		TriggerKind: c.trigger.Kind,
		TriggerID:   c.trigger.ID,
		Completed:   c.completed,
		Err:         err,
	}
}

// embeddedTracks decodes the TrackItem list out of an Album or Playlist
// document and returns a closure that re-serializes the full document with a
// replacement list. List fields live inside the row document, so they are
// rewritten wholesale.
func embeddedTracks(kind string, doc []byte) ([]TrackItem, func([]TrackItem) ([]byte, error), error) {
	switch kind {
	case KindAlbum:
		var album Album
		if err := unmarshalDoc(doc, &album); err != nil {
			return nil, nil, err
		}
		return album.Tracks, func(items []TrackItem) ([]byte, error) {
			album.Tracks = items
			return marshalDoc(album)
		}, nil
	case KindPlaylist:
		var playlist Playlist
		if err := unmarshalDoc(doc, &playlist); err != nil {
			return nil, nil, err
		}
		return playlist.Tracks, func(items []TrackItem) ([]byte, error) {
			playlist.Tracks = items
			return marshalDoc(playlist)
		}, nil
	}
	return nil, nil, fmt.Errorf("kind %s does not embed track items", kind)
}

// rewriteEmbedded scans one snapshot-carrying partition and applies mutate
// to every row's TrackItem list. There is no index from embedded ids back to
// owning rows, so every row of the kind is inspected. Rows whose list did
// not change are left untouched.
func (c *cascade) rewriteEmbedded(ctx context.Context, kind string, mutate func([]TrackItem) ([]TrackItem, bool)) error {
	rows, err := c.svc.store.Scan(ctx, kind)
	if err != nil {
		return c.fail(fmt.Errorf("scan %s partition: %w", kind, err))
	}
	for _, row := range rows {
		items, rewrap, err := embeddedTracks(kind, row.Doc)
		if err != nil {
			return c.fail(fmt.Errorf("decode %s %s: %w", kind, row.ID, err))
		}
		if len(items) == 0 {
			continue
		}
		next, changed := mutate(items)
		if !changed {
			continue
		}
		doc, err := rewrap(next)
		if err != nil {
			return c.fail(fmt.Errorf("encode %s %s: %w", kind, row.ID, err))
		}
		row.Doc = doc
		if _, err := c.svc.store.Update(ctx, row); err != nil {
			return c.fail(fmt.Errorf("rewrite %s %s: %w", kind, row.ID, err))
		}
		c.record(kind, row.ID)
		c.svc.log.Debug().Str("kind", kind).Str("id", row.ID).Msg("rewrote embedded track items")
	}
	return nil
}

// cascadeArtistRename propagates a committed artist rename: first the
// artist's track rows, then the embedded snapshots in every album and
// playlist.
func (s *Service) cascadeArtistRename(ctx context.Context, artistID, newName string, seed []CompletedItem) ([]CompletedItem, error) {
	c := s.newCascade(KindArtist, artistID, seed)

	rows, err := s.store.Scan(ctx, KindTrack)
	if err != nil {
		return nil, c.fail(fmt.Errorf("scan %s partition: %w", KindTrack, err))
	}
	for _, row := range rows {
		var track Track
		if err := unmarshalDoc(row.Doc, &track); err != nil {
			return nil, c.fail(fmt.Errorf("decode %s %s: %w", KindTrack, row.ID, err))
		}
		if track.ArtistID != artistID || track.ArtistName == newName {
			continue
		}
		track.ArtistName = newName
		doc, err := marshalDoc(track)
		if err != nil {
			return nil, c.fail(fmt.Errorf("encode %s %s: %w", KindTrack, row.ID, err))
		}
		row.Doc = doc
		if _, err := s.store.Update(ctx, row); err != nil {
			return nil, c.fail(fmt.Errorf("rewrite track %s: %w", row.ID, err))
		}
		c.record(KindTrack, row.ID)
		s.log.Debug().Str("track", row.ID).Str("artistName", newName).Msg("updated track artist name")
	}

	// Albums carry the artist name twice, as a header field and inside each
	// snapshot, so they get a dedicated pass that fixes both in one write.
	albumRows, err := s.store.Scan(ctx, KindAlbum)
	if err != nil {
		return nil, c.fail(fmt.Errorf("scan %s partition: %w", KindAlbum, err))
	}
	for _, row := range albumRows {
		var album Album
		if err := unmarshalDoc(row.Doc, &album); err != nil {
			return nil, c.fail(fmt.Errorf("decode %s %s: %w", KindAlbum, row.ID, err))
		}
		changed := false
		if album.ArtistID == artistID && album.ArtistName != newName {
			album.ArtistName = newName
			changed = true
		}
		for i := range album.Tracks {
			if album.Tracks[i].ArtistID == artistID && album.Tracks[i].ArtistName != newName {
				album.Tracks[i].ArtistName = newName
				changed = true
			}
		}
		if !changed {
			continue
		}
		doc, err := marshalDoc(album)
		if err != nil {
			return nil, c.fail(fmt.Errorf("encode %s %s: %w", KindAlbum, row.ID, err))
		}
		row.Doc = doc
		if _, err := s.store.Update(ctx, row); err != nil {
			return nil, c.fail(fmt.Errorf("rewrite album %s: %w", row.ID, err))
		}
		c.record(KindAlbum, row.ID)
		s.log.Debug().Str("album", row.ID).Str("artistName", newName).Msg("updated album artist name")
	}

	err = c.rewriteEmbedded(ctx, KindPlaylist, func(items []TrackItem) ([]TrackItem, bool) {
		changed := false
		for i := range items {
			if items[i].ArtistID == artistID && items[i].ArtistName != newName {
				items[i].ArtistName = newName
				changed = true
			}
		}
		return items, changed
	})
	if err != nil {
		return nil, err
	}
	return c.completed, nil
}

// cascadeTrackChange propagates a committed track mutation (rename, artist
// reassignment, or duration change) into every embedded snapshot. Items are
// matched by the track's old display name.
func (s *Service) cascadeTrackChange(ctx context.Context, oldTrack, newTrack Track, seed []CompletedItem) ([]CompletedItem, error) {
	c := s.newCascade(KindTrack, oldTrack.ID, seed)

	for _, kind := range []string{KindAlbum, KindPlaylist} {
		err := c.rewriteEmbedded(ctx, kind, func(items []TrackItem) ([]TrackItem, bool) {
			changed := false
			for i := range items {
				if items[i].Name != oldTrack.Name {
					continue
				}
				if items[i].Name != newTrack.Name {
					items[i].Name = newTrack.Name
					changed = true
				}
				if items[i].DurationSeconds != newTrack.Duration {
					items[i].DurationSeconds = newTrack.Duration
					changed = true
				}
				// Artist fields are only synced on items that belong to the
				// track's old or new artist. Name matching alone would
				// clobber a same-named track of another artist.
				if items[i].ArtistID != oldTrack.ArtistID && items[i].ArtistID != newTrack.ArtistID {
					continue
				}
				if items[i].ArtistID != newTrack.ArtistID {
					items[i].ArtistID = newTrack.ArtistID
					changed = true
				}
				if items[i].ArtistName != newTrack.ArtistName {
					items[i].ArtistName = newTrack.ArtistName
					changed = true
				}
			}
			return items, changed
		})
		if err != nil {
			return nil, err
		}
	}
	return c.completed, nil
}

// cascadeArtistDelete removes every track row of the artist, then strips
// matching snapshots out of every album and playlist. Deleting an
// already-absent row is a no-op, which keeps the pass safe to resume.
func (s *Service) cascadeArtistDelete(ctx context.Context, artistID string) ([]CompletedItem, error) {
	c := s.newCascade(KindArtist, artistID, nil)

	rows, err := s.store.Scan(ctx, KindTrack)
	if err != nil {
		return nil, c.fail(fmt.Errorf("scan %s partition: %w", KindTrack, err))
	}
	for _, row := range rows {
		var track Track
		if err := unmarshalDoc(row.Doc, &track); err != nil {
			return nil, c.fail(fmt.Errorf("decode %s %s: %w", KindTrack, row.ID, err))
		}
		if track.ArtistID != artistID {
			continue
		}
		err := s.store.Delete(ctx, KindTrack, row.ID, row.Version)
		if errors.Is(err, tablestore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, c.fail(fmt.Errorf("delete track %s: %w", row.ID, err))
		}
		c.record(KindTrack, row.ID)
		s.log.Debug().Str("track", row.ID).Str("artist", artistID).Msg("deleted track of removed artist")
	}

	for _, kind := range []string{KindAlbum, KindPlaylist} {
		err := c.rewriteEmbedded(ctx, kind, dropItems(func(item TrackItem) bool {
			return item.ArtistID == artistID
		}))
		if err != nil {
			return nil, err
		}
	}
	return c.completed, nil
}

// cascadeTrackDelete strips snapshots of the deleted track, matched by
// track id, out of every album and playlist.
func (s *Service) cascadeTrackDelete(ctx context.Context, trackID string) ([]CompletedItem, error) {
	c := s.newCascade(KindTrack, trackID, nil)

	for _, kind := range []string{KindAlbum, KindPlaylist} {
		err := c.rewriteEmbedded(ctx, kind, dropItems(func(item TrackItem) bool {
			return item.TrackID == trackID
		}))
		if err != nil {
			return nil, err
		}
	}
	return c.completed, nil
}

func dropItems(match func(TrackItem) bool) func([]TrackItem) ([]TrackItem, bool) {
	return func(items []TrackItem) ([]TrackItem, bool) {
		remaining := make([]TrackItem, 0, len(items))
		changed := false
		for _, item := range items {
			if match(item) {
				changed = true
				continue
			}
			remaining = append(remaining, item)
		}
		return remaining, changed
	}
}
