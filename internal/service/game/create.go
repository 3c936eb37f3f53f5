package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// Create inserts a game from an explicit payload. The flow is: validate,
// derive the slug, probe uniqueness (bgg id, slug), resolve metadata, then
// commit the game row plus its links in one transaction. On a uniqueness
// collision the returned error unwraps to domain.ErrAlreadyExists and names
// the collided field.
//
// Metadata entries created while resolving attributes stay behind even if the
// game insert itself fails; they are reusable catalog rows, not game state.
func (s *Service) Create(ctx context.Context, p *Payload) (*domain.Game, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	slug, err := deriveSlug(p)
	if err != nil {
		return nil, err
	}

	conflict, err := s.games.FindConflict(ctx, p.BGGID, slug)
	if err != nil {
		return nil, fmt.Errorf("check game uniqueness: %w", err)
	}
	if conflict != nil {
		return nil, conflict
	}

	g, err := s.buildGame(ctx, p, slug)
	if err != nil {
		return nil, err
	}

	saved, err := s.games.CreateWithLinks(ctx, g)
	if err != nil {
		// A concurrent insert can slip past the probe; surface it as the
		// same conflict the probe would have reported.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create game %s: %w", slug, err)
	}

	s.log.InfoContext(ctx, "game created",
		slog.String("game_id", saved.ID.String()),
		slog.String("slug", saved.Slug),
		slog.String("name", saved.PrimaryName()),
	)

	return saved, nil
}
