package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// buildGame assembles a domain.Game from a validated payload: scalar fields
// copied over, every metadata kind present resolved against the catalog and
// attached in input order. Metadata resolution is the only I/O here, and it
// deliberately happens before (outside) the game's insert transaction.
func (s *Service) buildGame(ctx context.Context, p *Payload, slug string) (*domain.Game, error) {
	g := &domain.Game{
		ID:           uuid.New(),
		BGGID:        p.BGGID,
		Slug:         slug,
		Published:    p.Published,
		MinPlayers:   p.MinPlayers,
		MaxPlayers:   p.MaxPlayers,
		MinPlayerAge: p.MinPlayerAge,
		PlayTime:     p.PlayTime,
		MinPlayTime:  p.MinPlayTime,
		MaxPlayTime:  p.MaxPlayTime,
		Description:  p.Description,
		Thumbnail:    p.Thumbnail,
		Image:        p.Image,
		Complexity:   p.Complexity,
	}

	for _, kind := range domain.MetadataKinds {
		entries, err := s.resolveKind(ctx, kind, p.values(kind))
		if err != nil {
			return nil, err
		}
		g.SetEntries(kind, entries)
	}

	return g, nil
}

// deriveSlug returns the payload's explicit slug, or one derived from the
// primary name. Same name always yields the same slug, which is what makes
// slug-based duplicate detection meaningful.
func deriveSlug(p *Payload) (string, error) {
	slug := domain.Slugify(p.Slug)
	if slug == "" {
		slug = domain.Slugify(p.PrimaryName())
	}
	if slug == "" {
		return "", domain.NewValidationError("slug", "cannot derive a slug from the primary name")
	}
	return slug, nil
}
