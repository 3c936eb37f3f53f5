package testhelper

import (
	"context"
	"testing"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	game := SeedGame(t, pool, "Smoke Test Game")

	var slug string
	err := pool.QueryRow(
		context.Background(),
		`SELECT slug FROM games WHERE id = $1`,
		game.ID,
	).Scan(&slug)
	if err != nil {
		t.Fatalf("expected game in DB, got error: %v", err)
	}
	if slug != game.Slug {
		t.Fatalf("expected slug %q, got %q", game.Slug, slug)
	}

	entry := SeedMetadataEntry(t, pool, domain.MetadataKindCategory, "Smoke Category "+uniqueSuffix())

	var value string
	err = pool.QueryRow(
		context.Background(),
		`SELECT value FROM metadata_entries WHERE id = $1`,
		entry.ID,
	).Scan(&value)
	if err != nil {
		t.Fatalf("expected metadata entry in DB, got error: %v", err)
	}
	if value != entry.Value {
		t.Fatalf("expected value %q, got %q", entry.Value, value)
	}
}
