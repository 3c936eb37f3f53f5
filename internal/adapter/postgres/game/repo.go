// Package game implements the game catalog repository using PostgreSQL.
// It manages the games table plus the game_metadata_links join table as a
// single aggregate: a game row and its links commit together, while the
// metadata entries they point at are owned by the metadata repository.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeplelog/meeplelog-backend/internal/adapter/postgres"
	"github.com/meeplelog/meeplelog-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var gameColumns = []string{
	"id", "bgg_id", "slug", "published",
	"min_players", "max_players", "min_player_age",
	"play_time", "min_play_time", "max_play_time",
	"description", "thumbnail", "image", "complexity",
	"created_at", "updated_at",
}

// Repo provides game persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new game repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// ---------------------------------------------------------------------------
// Raw SQL for JOIN read queries
// ---------------------------------------------------------------------------

const linksByGameSQL = `
SELECT
    l.kind, l.position,
    e.id, e.kind, e.value, e.value_normalized, e.created_at
FROM game_metadata_links l
JOIN metadata_entries e ON e.id = l.entry_id
WHERE l.game_id = $1
ORDER BY l.kind, l.position`

const listWithPrimaryNameSQL = `
SELECT
    g.id, g.bgg_id, g.slug, g.published,
    g.min_players, g.max_players, g.min_player_age,
    g.play_time, g.min_play_time, g.max_play_time,
    g.description, g.thumbnail, g.image, g.complexity,
    g.created_at, g.updated_at,
    e.id, e.value, e.value_normalized, e.created_at
FROM games g
LEFT JOIN game_metadata_links l
    ON l.game_id = g.id AND l.kind = 'name' AND l.position = 0
LEFT JOIN metadata_entries e ON e.id = l.entry_id
ORDER BY e.value NULLS LAST, g.slug`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// FindConflict probes the uniqueness constraints before an insert. It returns
// a *domain.ConflictError naming the collided field and the owning game, or
// nil when neither the bgg id nor the slug is taken.
func (r *Repo) FindConflict(ctx context.Context, bggID *int64, slug string) (*domain.ConflictError, error) {
	cond := sq.Or{sq.Eq{"slug": slug}}
	if bggID != nil {
		cond = append(cond, sq.Eq{"bgg_id": *bggID})
	}

	query, args, err := psql.Select("id", "bgg_id", "slug").
		From("games").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build conflict probe: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		existingID   uuid.UUID
		existingBGG  *int64
		existingSlug string
	)
	err = q.QueryRow(ctx, query, args...).Scan(&existingID, &existingBGG, &existingSlug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "game", slug)
	}

	// A bgg id collision is reported in preference to a slug collision.
	if bggID != nil && existingBGG != nil && *existingBGG == *bggID {
		return &domain.ConflictError{Field: "bggId", ExistingID: existingID}, nil
	}
	return &domain.ConflictError{Field: "slug", ExistingID: existingID}, nil
}

// CreateWithLinks inserts the game row and all its metadata links in one
// transaction. The referenced metadata entries must already exist; entries
// created during resolution deliberately live outside this transaction.
func (r *Repo) CreateWithLinks(ctx context.Context, g *domain.Game) (*domain.Game, error) {
	result := *g

	err := r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.pool)

		insert, args, err := psql.Insert("games").
			Columns(
				"id", "bgg_id", "slug", "published",
				"min_players", "max_players", "min_player_age",
				"play_time", "min_play_time", "max_play_time",
				"description", "thumbnail", "image", "complexity",
			).
			Values(
				g.ID, g.BGGID, g.Slug, g.Published,
				g.MinPlayers, g.MaxPlayers, g.MinPlayerAge,
				g.PlayTime, g.MinPlayTime, g.MaxPlayTime,
				g.Description, g.Thumbnail, g.Image, g.Complexity,
			).
			Suffix("RETURNING created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build game insert: %w", err)
		}

		if err := q.QueryRow(txCtx, insert, args...).Scan(&result.CreatedAt, &result.UpdatedAt); err != nil {
			return postgres.MapError(err, "game", g.Slug)
		}

		for _, kind := range domain.MetadataKinds {
			for position, entry := range g.Entries(kind) {
				if err := r.insertLink(txCtx, q, g.ID, entry.ID, kind, position); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// insertLink adds one game-to-entry association. ON CONFLICT DO NOTHING keeps
// the no-duplicate-link invariant even when the same entry is attached twice.
func (r *Repo) insertLink(ctx context.Context, q postgres.Querier, gameID, entryID uuid.UUID, kind domain.MetadataKind, position int) error {
	insert, args, err := psql.Insert("game_metadata_links").
		Columns("game_id", "entry_id", "kind", "position").
		Values(gameID, entryID, kind.String(), position).
		Suffix("ON CONFLICT (game_id, entry_id, kind) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build link insert: %w", err)
	}

	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return postgres.MapError(err, "game_metadata_link", entryID.String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a game with every metadata list loaded in stored order.
// Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	return r.getByKey(ctx, sq.Eq{"id": id}, id.String())
}

// GetBySlug returns a game by slug with every metadata list loaded.
// Returns domain.ErrNotFound if absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	return r.getByKey(ctx, sq.Eq{"slug": slug}, slug)
}

func (r *Repo) getByKey(ctx context.Context, cond sq.Eq, key string) (*domain.Game, error) {
	query, args, err := psql.Select(gameColumns...).
		From("games").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build game select: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	g, err := scanGame(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "game", key)
	}

	if err := r.loadLinks(ctx, q, &g); err != nil {
		return nil, err
	}

	return &g, nil
}

// loadLinks populates every metadata list on the game, preserving link
// position order and leaving empty (not nil) slices for absent kinds.
func (r *Repo) loadLinks(ctx context.Context, q postgres.Querier, g *domain.Game) error {
	rows, err := q.Query(ctx, linksByGameSQL, g.ID)
	if err != nil {
		return fmt.Errorf("load links for game %s: %w", g.ID, err)
	}
	defer rows.Close()

	byKind := make(map[domain.MetadataKind][]domain.MetadataEntry)
	for rows.Next() {
		var (
			linkKind  string
			position  int
			entry     domain.MetadataEntry
			entryKind string
		)
		if err := rows.Scan(&linkKind, &position, &entry.ID, &entryKind, &entry.Value, &entry.ValueNormalized, &entry.CreatedAt); err != nil {
			return fmt.Errorf("scan link for game %s: %w", g.ID, err)
		}
		entry.Kind = domain.MetadataKind(entryKind)
		kind := domain.MetadataKind(linkKind)
		byKind[kind] = append(byKind[kind], entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load links for game %s: %w", g.ID, err)
	}

	for _, kind := range domain.MetadataKinds {
		entries := byKind[kind]
		if entries == nil {
			entries = []domain.MetadataEntry{}
		}
		g.SetEntries(kind, entries)
	}

	return nil
}

// List returns every game with its primary name attached (first name link).
// Full metadata lists are not loaded here; use GetByID/GetBySlug for details.
// Returns an empty slice (not nil) for an empty catalog.
func (r *Repo) List(ctx context.Context) ([]domain.Game, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listWithPrimaryNameSQL)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []domain.Game{}
	for rows.Next() {
		var (
			g          domain.Game
			nameID     *uuid.UUID
			nameValue  *string
			nameNorm   *string
			nameCreate *time.Time
		)
		if err := rows.Scan(
			&g.ID, &g.BGGID, &g.Slug, &g.Published,
			&g.MinPlayers, &g.MaxPlayers, &g.MinPlayerAge,
			&g.PlayTime, &g.MinPlayTime, &g.MaxPlayTime,
			&g.Description, &g.Thumbnail, &g.Image, &g.Complexity,
			&g.CreatedAt, &g.UpdatedAt,
			&nameID, &nameValue, &nameNorm, &nameCreate,
		); err != nil {
			return nil, fmt.Errorf("scan game list row: %w", err)
		}

		g.Names = []domain.MetadataEntry{}
		if nameID != nil && nameValue != nil {
			entry := domain.MetadataEntry{
				ID:    *nameID,
				Kind:  domain.MetadataKindName,
				Value: *nameValue,
			}
			if nameNorm != nil {
				entry.ValueNormalized = *nameNorm
			}
			if nameCreate != nil {
				entry.CreatedAt = *nameCreate
			}
			g.Names = append(g.Names, entry)
		}

		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

// LookupByKeys returns {id, slug} for every game matched by id or slug.
// Unmatched keys are silently omitted.
func (r *Repo) LookupByKeys(ctx context.Context, ids []uuid.UUID, slugs []string) ([]domain.LookupMatch, error) {
	if len(ids) == 0 && len(slugs) == 0 {
		return []domain.LookupMatch{}, nil
	}

	cond := sq.Or{}
	if len(ids) > 0 {
		cond = append(cond, sq.Eq{"id": ids})
	}
	if len(slugs) > 0 {
		cond = append(cond, sq.Eq{"slug": slugs})
	}

	query, args, err := psql.Select("id", "slug").
		From("games").
		Where(cond).
		OrderBy("slug ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build game lookup: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup games: %w", err)
	}
	defer rows.Close()

	matches := []domain.LookupMatch{}
	for rows.Next() {
		var m domain.LookupMatch
		if err := rows.Scan(&m.ID, &m.Slug); err != nil {
			return nil, fmt.Errorf("scan lookup row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup games: %w", err)
	}

	return matches, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanGame(row pgx.Row) (domain.Game, error) {
	var g domain.Game
	err := row.Scan(
		&g.ID, &g.BGGID, &g.Slug, &g.Published,
		&g.MinPlayers, &g.MaxPlayers, &g.MinPlayerAge,
		&g.PlayTime, &g.MinPlayTime, &g.MaxPlayTime,
		&g.Description, &g.Thumbnail, &g.Image, &g.Complexity,
		&g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}
