// Package metadata implements the shared metadata catalog repository using
// PostgreSQL. Entries are lazily created, shared across games, and never
// deleted; uniqueness is enforced per kind on the normalized value.
package metadata

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeplelog/meeplelog-backend/internal/adapter/postgres"
	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var entryColumns = []string{"id", "kind", "value", "value_normalized", "created_at"}

// Repo provides metadata entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new metadata repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetOrCreate performs an upsert: INSERT ON CONFLICT DO NOTHING, then SELECT.
// The stored value keeps its original casing (trimmed); uniqueness is decided
// on the normalized form. Concurrent callers with equivalent values all
// succeed and observe the same entry.
func (r *Repo) GetOrCreate(ctx context.Context, kind domain.MetadataKind, value string) (domain.MetadataEntry, error) {
	normalized := domain.NormalizeValue(value)

	insert, args, err := psql.Insert("metadata_entries").
		Columns("id", "kind", "value", "value_normalized").
		Values(uuid.New(), kind.String(), strings.TrimSpace(value), normalized).
		Suffix("ON CONFLICT (kind, value_normalized) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.MetadataEntry{}, fmt.Errorf("build metadata insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return domain.MetadataEntry{}, postgres.MapError(err, "metadata_entry", normalized)
	}

	// Always select to get the definitive row (new or existing).
	return r.GetByNormalizedValue(ctx, kind, normalized)
}

// GetByNormalizedValue returns the entry whose normalized value matches within
// the kind. Returns domain.ErrNotFound when absent.
func (r *Repo) GetByNormalizedValue(ctx context.Context, kind domain.MetadataKind, normalized string) (domain.MetadataEntry, error) {
	query, args, err := psql.Select(entryColumns...).
		From("metadata_entries").
		Where(sq.Eq{"kind": kind.String(), "value_normalized": normalized}).
		ToSql()
	if err != nil {
		return domain.MetadataEntry{}, fmt.Errorf("build metadata select: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := scanEntry(q.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.MetadataEntry{}, postgres.MapError(err, "metadata_entry", normalized)
	}

	return entry, nil
}

// ListByKind returns every entry of one kind ordered by value.
// Returns an empty slice (not nil) when the kind has no entries yet.
func (r *Repo) ListByKind(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error) {
	query, args, err := psql.Select(entryColumns...).
		From("metadata_entries").
		Where(sq.Eq{"kind": kind.String()}).
		OrderBy("value ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build metadata list: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list metadata %s: %w", kind, err)
	}
	defer rows.Close()

	entries := []domain.MetadataEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan metadata %s: %w", kind, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list metadata %s: %w", kind, err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (domain.MetadataEntry, error) {
	var (
		e    domain.MetadataEntry
		kind string
	)
	if err := row.Scan(&e.ID, &kind, &e.Value, &e.ValueNormalized, &e.CreatedAt); err != nil {
		return domain.MetadataEntry{}, err
	}
	e.Kind = domain.MetadataKind(kind)
	return e, nil
}
