package catalog

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"musix/internal/tablestore"
)

func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// allocateID generates an id that is unused within the kind's partition,
// regenerating on the vanishingly rare collision. Kinds don't coordinate:
// collisions are independently improbable per partition.
func (s *Service) allocateID(ctx context.Context, kind string) (string, error) {
	for {
		id := newID()
		_, err := s.store.Get(ctx, kind, id)
		if errors.Is(err, tablestore.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check generated id: %w", err)
		}
		s.log.Warn().Str("kind", kind).Str("id", id).Msg("generated id already in use, regenerating")
	}
}
