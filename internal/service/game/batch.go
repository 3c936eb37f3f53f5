package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// BatchResult summarizes a batch ingestion: which ids became records and which
// were skipped, both in input order.
type BatchResult struct {
	Inserted []*domain.Game `json:"inserted"`
	Skipped  []SkippedGame  `json:"skipped"`
}

// SkippedGame records one classified, non-fatal batch outcome.
type SkippedGame struct {
	BGGID  int64  `json:"bggId"`
	Status int    `json:"status"`
	Reason string `json:"reason"`
}

// CreateBatchFromBGG inserts a list of games by BGG id, one at a time, in
// input order. Exactly two outcomes are recovered per item: the upstream
// source not knowing the id, and a uniqueness conflict with an existing game.
// Both land in the skipped list. Any other failure aborts the whole batch and
// propagates unchanged; no partial result is returned in that case.
func (s *Service) CreateBatchFromBGG(ctx context.Context, bggIDs []int64) (*BatchResult, error) {
	result := &BatchResult{
		Inserted: []*domain.Game{},
		Skipped:  []SkippedGame{},
	}

	for _, bggID := range bggIDs {
		g, err := s.CreateFromBGG(ctx, bggID)
		switch {
		case err == nil:
			result.Inserted = append(result.Inserted, g)

		case errors.Is(err, domain.ErrNotFound):
			result.Skipped = append(result.Skipped, SkippedGame{
				BGGID:  bggID,
				Status: 404,
				Reason: "not found",
			})

		case errors.Is(err, domain.ErrAlreadyExists):
			result.Skipped = append(result.Skipped, SkippedGame{
				BGGID:  bggID,
				Status: 409,
				Reason: "ID or slug already exists",
			})

		default:
			return nil, err
		}
	}

	s.log.InfoContext(ctx, "batch insert finished",
		slog.Int("requested", len(bggIDs)),
		slog.Int("inserted", len(result.Inserted)),
		slog.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}
