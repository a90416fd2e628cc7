package catalog

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"musix/internal/tablestore"
)

func newTestService(t *testing.T) (*Service, *tablestore.Memory) {
	t.Helper()
	store := tablestore.NewMemory()
	return New(store, zerolog.Nop(), nil), store
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestCreateArtist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher", Listeners: intPtr(1000)})
	require.NoError(t, err)
	require.Len(t, artist.ID, 32)
	require.Equal(t, "Cher", artist.Name)
	require.Equal(t, 1000, artist.Listeners)
	require.NotNil(t, artist.Tags)
	require.Empty(t, artist.Tags)

	defaulted, err := svc.CreateArtist(ctx, ArtistParams{Name: "Sonny"})
	require.NoError(t, err)
	require.Equal(t, -1, defaulted.Listeners, "absent numerics default to -1")

	got, err := svc.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	require.Equal(t, artist, got)
}

func TestCreateArtistRejectsSuppliedID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateArtist(context.Background(), ArtistParams{ID: "abc", Name: "Cher"})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "id", invalid.Field)
}

func TestCreateArtistRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateArtist(context.Background(), ArtistParams{Name: "   "})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "name", invalid.Field)
}

func TestCreateArtistDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)

	_, err = svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, KindArtist, conflict.Kind)
}

func TestListArtistsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListArtists(context.Background())
	require.ErrorIs(t, err, ErrEmptyCollection)
}

func TestGetArtistMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetArtist(context.Background(), "nope")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, KindArtist, notFound.Kind)
}

func TestUpdateArtistPartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher", MBID: strPtr("mb-1"), Listeners: intPtr(5)})
	require.NoError(t, err)

	completed, err := svc.UpdateArtist(ctx, artist.ID, ArtistParams{Name: "Cher", Listeners: intPtr(9)})
	require.NoError(t, err)
	require.Equal(t, []CompletedItem{{Kind: KindArtist, ID: artist.ID}}, completed)

	got, err := svc.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	require.Equal(t, "mb-1", got.MBID, "absent fields keep their stored value")
	require.Equal(t, 9, got.Listeners)
}

func TestUpdateArtistRenameConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	other, err := svc.CreateArtist(ctx, ArtistParams{Name: "Sonny"})
	require.NoError(t, err)

	_, err = svc.UpdateArtist(ctx, other.ID, ArtistParams{Name: "Cher"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateTrackResolvesArtistByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)

	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: artist.ID, Duration: intPtr(240)})
	require.NoError(t, err)
	require.Equal(t, artist.ID, track.ArtistID)
	require.Equal(t, "Cher", track.ArtistName)
	require.Equal(t, 240, track.Duration)
}

func TestCreateTrackResolvesArtistByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)

	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistName: "Cher"})
	require.NoError(t, err)
	require.Equal(t, artist.ID, track.ArtistID)
}

func TestCreateTrackUnknownArtist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistName: "Nobody"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, KindArtist, notFound.Kind)

	_, err = svc.CreateTrack(ctx, TrackParams{Name: "Believe"})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
}

func TestCreateTrackAmbiguousArtistName(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Two artist rows with the same name cannot be created through the
	// service, so plant them directly to simulate corrupted data.
	for _, id := range []string{"dup1", "dup2"} {
		doc, err := marshalDoc(Artist{ID: id, Name: "Cher", Tags: []string{}})
		require.NoError(t, err)
		_, err = store.Insert(ctx, tablestore.Row{Kind: KindArtist, ID: id, Doc: doc})
		require.NoError(t, err)
	}

	_, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistName: "Cher"})
	var invariant *InvariantError
	require.ErrorAs(t, err, &invariant)
	require.Equal(t, KindArtist, invariant.Kind)
}

func TestCreateTrackDuplicatePerArtist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cher, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	sonny, err := svc.CreateArtist(ctx, ArtistParams{Name: "Sonny"})
	require.NoError(t, err)

	_, err = svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: cher.ID})
	require.NoError(t, err)

	_, err = svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: cher.ID})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	// The same title under a different artist is fine.
	_, err = svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: sonny.ID})
	require.NoError(t, err)
}

func TestUpdateTrackRejectsArtistName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: artist.ID})
	require.NoError(t, err)

	_, err = svc.UpdateTrack(ctx, track.ID, TrackParams{ID: track.ID, Name: "Believe", ArtistName: "Other"})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "artistName", invalid.Field)
}

func TestUpdateTrackRenameRequiresArtistID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: artist.ID})
	require.NoError(t, err)

	_, err = svc.UpdateTrack(ctx, track.ID, TrackParams{ID: track.ID, Name: "Believe (Remix)"})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "artistId", invalid.Field)

	// The rename never reached the store.
	got, err := svc.GetTrack(ctx, track.ID)
	require.NoError(t, err)
	require.Equal(t, "Believe", got.Name)

	// With the owner named, the same rename goes through.
	_, err = svc.UpdateTrack(ctx, track.ID, TrackParams{ID: track.ID, Name: "Believe (Remix)", ArtistID: artist.ID})
	require.NoError(t, err)
}

func TestDescriptionFieldsRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{
		Name:               "Cher",
		DescriptionSummary: strPtr("short bio"),
		DescriptionLong:    strPtr("long bio"),
		DescriptionDate:    strPtr("2020-01-01"),
	})
	require.NoError(t, err)
	require.Equal(t, "short bio", artist.DescriptionSummary)
	require.Equal(t, "long bio", artist.DescriptionLong)
	require.Equal(t, "2020-01-01", artist.DescriptionDate)

	track, err := svc.CreateTrack(ctx, TrackParams{
		Name:       "Believe",
		ArtistID:   artist.ID,
		ArtistMBID: strPtr("amb-1"),
		AlbumMBID:  strPtr("bmb-1"),
		AlbumPos:   intPtr(3),
	})
	require.NoError(t, err)
	require.Equal(t, "amb-1", track.ArtistMBID)
	require.Equal(t, "bmb-1", track.AlbumMBID)
	require.Equal(t, 3, track.AlbumPos)

	bare, err := svc.CreateTrack(ctx, TrackParams{Name: "The Beat Goes On", ArtistID: artist.ID})
	require.NoError(t, err)
	require.Equal(t, -1, bare.AlbumPos, "absent album position defaults to -1")

	// Partial update keeps stored values when the fields are absent.
	_, err = svc.UpdateArtist(ctx, artist.ID, ArtistParams{Name: "Cher", DescriptionSummary: strPtr("revised bio")})
	require.NoError(t, err)
	got, err := svc.GetArtist(ctx, artist.ID)
	require.NoError(t, err)
	require.Equal(t, "revised bio", got.DescriptionSummary)
	require.Equal(t, "long bio", got.DescriptionLong)

	playlist, err := svc.CreatePlaylist(ctx, PlaylistParams{
		Name:               "Mix",
		DescriptionSummary: strPtr("party mix"),
		DescriptionDate:    strPtr("2021-06-01"),
	})
	require.NoError(t, err)
	require.Equal(t, "party mix", playlist.DescriptionSummary)
	require.Equal(t, "2021-06-01", playlist.DescriptionDate)
}

func TestAlbumSnapshotsResolvedFromTrackRows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: artist.ID, Duration: intPtr(240)})
	require.NoError(t, err)

	// Client-supplied snapshot values are stale on purpose; only the
	// trackId should be trusted.
	album, err := svc.CreateAlbum(ctx, AlbumParams{
		Name:     "Believe",
		ArtistID: artist.ID,
		Tracks:   []TrackItem{{TrackID: track.ID, Name: "Wrong", DurationSeconds: 1, ArtistName: "Wrong"}},
	})
	require.NoError(t, err)
	require.Len(t, album.Tracks, 1)
	require.Equal(t, TrackItem{
		Name:            "Believe",
		TrackID:         track.ID,
		DurationSeconds: 240,
		ArtistName:      "Cher",
		ArtistID:        artist.ID,
	}, album.Tracks[0])
}

func TestAlbumUnknownTrackSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)

	_, err = svc.CreateAlbum(ctx, AlbumParams{
		Name:     "Believe",
		ArtistID: artist.ID,
		Tracks:   []TrackItem{{TrackID: "ghost"}},
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, KindTrack, notFound.Kind)
}

func TestCreateAlbumRequiresArtistReference(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAlbum(context.Background(), AlbumParams{Name: "Believe"})
	var invalid *InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, KindAlbum, invalid.Kind)
}

func TestPlaylistCreationDateDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	playlist, err := svc.CreatePlaylist(ctx, PlaylistParams{Name: "Mix"})
	require.NoError(t, err)
	require.NotEmpty(t, playlist.CreationDate)

	pinned, err := svc.CreatePlaylist(ctx, PlaylistParams{Name: "Old Mix", CreationDate: strPtr("2001-01-01T00:00:00Z")})
	require.NoError(t, err)
	require.Equal(t, "2001-01-01T00:00:00Z", pinned.CreationDate)
}

func TestDeleteAlbumLeavesTracks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	artist, err := svc.CreateArtist(ctx, ArtistParams{Name: "Cher"})
	require.NoError(t, err)
	track, err := svc.CreateTrack(ctx, TrackParams{Name: "Believe", ArtistID: artist.ID})
	require.NoError(t, err)
	album, err := svc.CreateAlbum(ctx, AlbumParams{Name: "Believe", ArtistID: artist.ID, Tracks: []TrackItem{{TrackID: track.ID}}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAlbum(ctx, album.ID))

	_, err = svc.GetAlbum(ctx, album.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = svc.GetTrack(ctx, track.ID)
	require.NoError(t, err, "album deletion must not touch track rows")
}
