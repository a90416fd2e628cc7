package catalog

// Artist is the source of truth for an artist's name. The name is unique
// among artists; every other row that displays it holds a copy.
type Artist struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MBID               string   `json:"mbid"`
	DescriptionSummary string   `json:"descriptionSummary"`
	DescriptionLong    string   `json:"descriptionLong"`
	DescriptionDate    string   `json:"descriptionDate"`
	ImageURL           string   `json:"imageUrl"`
	Listeners          int      `json:"listeners"`
	Tags               []string `json:"tags"`
}

// Track denormalizes its artist's name next to the artist id so reads never
// need a second lookup. (Name, ArtistID) is unique among tracks.
type Track struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Duration           int      `json:"duration"`
	MBID               string   `json:"mbid"`
	ArtistName         string   `json:"artistName"`
	ArtistID           string   `json:"artistId"`
	ArtistMBID         string   `json:"artistMbid"`
	Album              string   `json:"album"`
	AlbumMBID          string   `json:"albumMbid"`
	AlbumPos           int      `json:"albumPos"`
	Playcount          int      `json:"playcount"`
	Listeners          int      `json:"listeners"`
	ImageURL           string   `json:"imageUrl"`
	Tags               []string `json:"tags"`
	DescriptionSummary string   `json:"descriptionSummary"`
	DescriptionLong    string   `json:"descriptionLong"`
	DescriptionDate    string   `json:"descriptionDate"`
}

// TrackItem is a point-in-time snapshot of a track's display fields, stored
// inline inside Album and Playlist rows. It is a copy, not a reference: the
// cascade engine is what keeps it consistent with the Track row.
type TrackItem struct {
	Name            string `json:"name"`
	TrackID         string `json:"trackId"`
	DurationSeconds int    `json:"durationSeconds"`
	ArtistName      string `json:"artistName"`
	ArtistID        string `json:"artistId"`
}

// Album holds TrackItem snapshots of its tracks. Name is unique among albums.
type Album struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	MBID               string      `json:"mbid"`
	ArtistName         string      `json:"artistName"`
	ArtistID           string      `json:"artistId"`
	ReleaseDate        string      `json:"releaseDate"`
	ImageURL           string      `json:"imageUrl"`
	Playcount          int         `json:"playcount"`
	Listeners          int         `json:"listeners"`
	Tags               []string    `json:"tags"`
	Tracks             []TrackItem `json:"tracks"`
	DescriptionSummary string      `json:"descriptionSummary"`
	DescriptionLong    string      `json:"descriptionLong"`
	DescriptionDate    string      `json:"descriptionDate"`
}

// Playlist holds TrackItem snapshots. Name is unique among playlists.
type Playlist struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	CreationDate       string      `json:"creationDate"`
	ImageURL           string      `json:"imageUrl"`
	Tags               []string    `json:"tags"`
	Tracks             []TrackItem `json:"tracks"`
	DescriptionSummary string      `json:"descriptionSummary"`
	DescriptionDate    string      `json:"descriptionDate"`
}

// CompletedItem identifies one row a cascade rewrote or deleted. It is both
// the success payload and, on failure, the partial-progress payload that
// makes a caller-driven retry meaningful.
type CompletedItem struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// ArtistParams carries the client-supplied fields of a create or update
// request. Nil pointer fields mean "leave unchanged" on update and "use the
// default" on create.
type ArtistParams struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MBID               *string  `json:"mbid"`
	DescriptionSummary *string  `json:"descriptionSummary"`
	DescriptionLong    *string  `json:"descriptionLong"`
	DescriptionDate    *string  `json:"descriptionDate"`
	ImageURL           *string  `json:"imageUrl"`
	Listeners          *int     `json:"listeners"`
	Tags               []string `json:"tags"`
}

// TrackParams carries track create/update fields. ArtistName is only
// consulted on create, and only when ArtistID is absent; on update it must
// be empty because it is derived from ArtistID.
type TrackParams struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Duration           *int     `json:"duration"`
	MBID               *string  `json:"mbid"`
	ArtistName         string   `json:"artistName"`
	ArtistID           string   `json:"artistId"`
	ArtistMBID         *string  `json:"artistMbid"`
	Album              *string  `json:"album"`
	AlbumMBID          *string  `json:"albumMbid"`
	AlbumPos           *int     `json:"albumPos"`
	Playcount          *int     `json:"playcount"`
	Listeners          *int     `json:"listeners"`
	ImageURL           *string  `json:"imageUrl"`
	Tags               []string `json:"tags"`
	DescriptionSummary *string  `json:"descriptionSummary"`
	DescriptionLong    *string  `json:"descriptionLong"`
	DescriptionDate    *string  `json:"descriptionDate"`
}

// AlbumParams carries album create/update fields. Supplied track items are
// always re-resolved from the Track rows; client snapshot values are not
// trusted.
type AlbumParams struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	MBID               *string     `json:"mbid"`
	ArtistName         string      `json:"artistName"`
	ArtistID           string      `json:"artistId"`
	ReleaseDate        *string     `json:"releaseDate"`
	ImageURL           *string     `json:"imageUrl"`
	Playcount          *int        `json:"playcount"`
	Listeners          *int        `json:"listeners"`
	Tags               []string    `json:"tags"`
	Tracks             []TrackItem `json:"tracks"`
	DescriptionSummary *string     `json:"descriptionSummary"`
	DescriptionLong    *string     `json:"descriptionLong"`
	DescriptionDate    *string     `json:"descriptionDate"`
}

// PlaylistParams carries playlist create/update fields.
type PlaylistParams struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	CreationDate       *string     `json:"creationDate"`
	ImageURL           *string     `json:"imageUrl"`
	Tags               []string    `json:"tags"`
	Tracks             []TrackItem `json:"tracks"`
	DescriptionSummary *string     `json:"descriptionSummary"`
	DescriptionDate    *string     `json:"descriptionDate"`
}
