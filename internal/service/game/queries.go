package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// List returns every game in the catalog, possibly empty.
func (s *Service) List(ctx context.Context) ([]domain.Game, error) {
	return s.games.List(ctx)
}

// GetByIDOrSlug returns the full game record for a key that is either a game
// id or a slug. A key that parses as a UUID is matched by id; anything else
// is treated as a slug. Returns domain.ErrNotFound when nothing matches.
func (s *Service) GetByIDOrSlug(ctx context.Context, key string) (*domain.Game, error) {
	if id, err := uuid.Parse(key); err == nil {
		return s.games.GetByID(ctx, id)
	}
	return s.games.GetBySlug(ctx, key)
}

// Lookup resolves a mixed list of ids and slugs to {id, slug} pairs. Keys
// that match nothing are silently omitted.
func (s *Service) Lookup(ctx context.Context, keys []string) ([]domain.LookupMatch, error) {
	ids := make([]uuid.UUID, 0, len(keys))
	slugs := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, err := uuid.Parse(key); err == nil {
			ids = append(ids, id)
			continue
		}
		slugs = append(slugs, key)
	}

	return s.games.LookupByKeys(ctx, ids, slugs)
}

// ListMetadata returns every catalog entry of one metadata kind.
func (s *Service) ListMetadata(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown metadata kind "+kind.String())
	}
	return s.metadata.ListByKind(ctx, kind)
}
