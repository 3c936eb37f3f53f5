package game

import (
	"context"
	"fmt"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// resolveKind resolves raw values of one metadata kind against the catalog,
// creating entries for unseen values. Equivalent values (same normalized form)
// are deduplicated within the call; the returned order is first-occurrence
// input order. Blank values are dropped.
//
// The repository's get-or-create absorbs insert races: a concurrent insert of
// the same value resolves to the existing row instead of failing the call.
func (s *Service) resolveKind(ctx context.Context, kind domain.MetadataKind, raw []string) ([]domain.MetadataEntry, error) {
	entries := make([]domain.MetadataEntry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, value := range raw {
		normalized := domain.NormalizeValue(value)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		entry, err := s.metadata.GetOrCreate(ctx, kind, value)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %q: %w", kind, value, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
