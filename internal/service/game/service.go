// Package game implements the ingestion and query service for the game
// catalog: manual inserts, BGG-sourced inserts (single and batch), and the
// read paths over games and their metadata.
package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
	"github.com/meeplelog/meeplelog-backend/internal/provider"
)

type gameRepo interface {
	FindConflict(ctx context.Context, bggID *int64, slug string) (*domain.ConflictError, error)
	CreateWithLinks(ctx context.Context, g *domain.Game) (*domain.Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Game, error)
	List(ctx context.Context) ([]domain.Game, error)
	LookupByKeys(ctx context.Context, ids []uuid.UUID, slugs []string) ([]domain.LookupMatch, error)
}

type metadataRepo interface {
	GetOrCreate(ctx context.Context, kind domain.MetadataKind, value string) (domain.MetadataEntry, error)
	ListByKind(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error)
}

type sourceProvider interface {
	FetchByID(ctx context.Context, id int64) (*provider.GameResult, error)
}

// Service implements game catalog operations.
type Service struct {
	log      *slog.Logger
	games    gameRepo
	metadata metadataRepo
	source   sourceProvider
}

// NewService creates a new game service.
func NewService(logger *slog.Logger, games gameRepo, metadata metadataRepo, source sourceProvider) *Service {
	return &Service{
		log:      logger.With("service", "game"),
		games:    games,
		metadata: metadata,
		source:   source,
	}
}
