package game

import (
	"context"
	"fmt"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
	"github.com/meeplelog/meeplelog-backend/internal/provider"
)

// CreateFromBGG fetches a game from the upstream source by its BGG id and
// inserts it exactly as a manual payload would be. When the source has no
// record of the id the returned error unwraps to domain.ErrNotFound, and
// nothing is written.
func (s *Service) CreateFromBGG(ctx context.Context, bggID int64) (*domain.Game, error) {
	result, err := s.source.FetchByID(ctx, bggID)
	if err != nil {
		return nil, fmt.Errorf("fetch bgg game %d: %w", bggID, err)
	}
	if result == nil {
		return nil, fmt.Errorf("bgg game %d: %w", bggID, domain.ErrNotFound)
	}

	return s.Create(ctx, payloadFromResult(result))
}

// payloadFromResult converts the provider's normalized result into the same
// payload shape a manual insert uses.
func payloadFromResult(r *provider.GameResult) *Payload {
	bggID := r.BGGID
	return &Payload{
		BGGID:        &bggID,
		Name:         r.Names,
		Slug:         r.Slug,
		Published:    r.Published,
		MinPlayers:   r.MinPlayers,
		MaxPlayers:   r.MaxPlayers,
		MinPlayerAge: r.MinPlayerAge,
		PlayTime:     r.PlayTime,
		MinPlayTime:  r.MinPlayTime,
		MaxPlayTime:  r.MaxPlayTime,
		Description:  r.Description,
		Thumbnail:    r.Thumbnail,
		Image:        r.Image,
		Complexity:   r.Complexity,
		Category:     r.Categories,
		Mechanic:     r.Mechanics,
		Designer:     r.Designers,
		Artist:       r.Artists,
		Publisher:    r.Publishers,
	}
}
