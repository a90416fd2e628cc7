// Package catalog implements the music catalog: per-kind CRUD with
// validation and name uniqueness, opaque id allocation, and the cascade
// engine that keeps denormalized artist/track copies in sync across rows.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"musix/internal/tablestore"
)

// Partition keys, one per entity kind.
const (
	KindArtist   = "ARTIST"
	KindTrack    = "TRACK"
	KindAlbum    = "ALBUM"
	KindPlaylist = "PLAYLIST"
)

// Service provides the catalog operations. All mutations run synchronously
// within the calling request, including their cascades; the only concurrency
// control is the store's per-row version gating.
type Service struct {
	store   tablestore.Store
	log     zerolog.Logger
	metrics *Metrics
}

// New constructs a Service on top of the given row store. metrics may be nil.
func New(store tablestore.Store, log zerolog.Logger, metrics *Metrics) *Service {
	return &Service{store: store, log: log, metrics: metrics}
}

func marshalDoc(v any) ([]byte, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return doc, nil
}

func unmarshalDoc(doc []byte, v any) error {
	if err := json.Unmarshal(doc, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// Default fillers for create requests: absent numerics become -1, absent
// strings empty, absent lists empty lists.

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intValue(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func tagsValue(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func applyStr(dst *string, p *string) {
	if p != nil {
		*dst = *p
	}
}

func applyInt(dst *int, p *int) {
	if p != nil {
		*dst = *p
	}
}
