package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedMetadataEntry creates one metadata catalog entry. Returns the filled entry.
func SeedMetadataEntry(t *testing.T, pool *pgxpool.Pool, kind domain.MetadataKind, value string) domain.MetadataEntry {
	t.Helper()
	ctx := context.Background()

	entry := domain.MetadataEntry{
		ID:              uuid.New(),
		Kind:            kind,
		Value:           value,
		ValueNormalized: domain.NormalizeValue(value),
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO metadata_entries (id, kind, value, value_normalized, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Kind.String(), entry.Value, entry.ValueNormalized, entry.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMetadataEntry insert: %v", err)
	}

	return entry
}

// SeedGame creates a game row with one name entry linked at position 0.
// The slug is suffixed to avoid collisions between tests sharing the container.
func SeedGame(t *testing.T, pool *pgxpool.Pool, name string) domain.Game {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)

	game := domain.Game{
		ID:         uuid.New(),
		Slug:       domain.Slugify(name) + "-" + suffix,
		Published:  2004,
		MinPlayers: 2,
		MaxPlayers: 4,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO games (id, slug, published, min_players, max_players, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		game.ID, game.Slug, game.Published, game.MinPlayers, game.MaxPlayers, game.CreatedAt, game.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedGame insert game: %v", err)
	}

	nameEntry := SeedMetadataEntry(t, pool, domain.MetadataKindName, name+" "+suffix)

	_, err = pool.Exec(ctx,
		`INSERT INTO game_metadata_links (game_id, entry_id, kind, position)
		 VALUES ($1, $2, $3, 0)`,
		game.ID, nameEntry.ID, nameEntry.Kind.String(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedGame insert name link: %v", err)
	}

	game.Names = []domain.MetadataEntry{nameEntry}
	return game
}
