package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
	"github.com/meeplelog/meeplelog-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Manual mocks (func fields)
// ---------------------------------------------------------------------------

type mockGameRepo struct {
	FindConflictFunc    func(ctx context.Context, bggID *int64, slug string) (*domain.ConflictError, error)
	CreateWithLinksFunc func(ctx context.Context, g *domain.Game) (*domain.Game, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetBySlugFunc       func(ctx context.Context, slug string) (*domain.Game, error)
	ListFunc            func(ctx context.Context) ([]domain.Game, error)
	LookupByKeysFunc    func(ctx context.Context, ids []uuid.UUID, slugs []string) ([]domain.LookupMatch, error)
}

func (m *mockGameRepo) FindConflict(ctx context.Context, bggID *int64, slug string) (*domain.ConflictError, error) {
	if m.FindConflictFunc != nil {
		return m.FindConflictFunc(ctx, bggID, slug)
	}
	return nil, nil
}

func (m *mockGameRepo) CreateWithLinks(ctx context.Context, g *domain.Game) (*domain.Game, error) {
	if m.CreateWithLinksFunc != nil {
		return m.CreateWithLinksFunc(ctx, g)
	}
	return g, nil
}

func (m *mockGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockGameRepo) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	return m.GetBySlugFunc(ctx, slug)
}

func (m *mockGameRepo) List(ctx context.Context) ([]domain.Game, error) {
	return m.ListFunc(ctx)
}

func (m *mockGameRepo) LookupByKeys(ctx context.Context, ids []uuid.UUID, slugs []string) ([]domain.LookupMatch, error) {
	return m.LookupByKeysFunc(ctx, ids, slugs)
}

// mockMetadataRepo behaves like the real catalog by default: equivalent values
// resolve to the same entry, and every creation is counted.
type mockMetadataRepo struct {
	GetOrCreateFunc func(ctx context.Context, kind domain.MetadataKind, value string) (domain.MetadataEntry, error)
	ListByKindFunc  func(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error)

	created map[string]domain.MetadataEntry
	creates int
}

func (m *mockMetadataRepo) GetOrCreate(ctx context.Context, kind domain.MetadataKind, value string) (domain.MetadataEntry, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, kind, value)
	}
	if m.created == nil {
		m.created = make(map[string]domain.MetadataEntry)
	}
	key := kind.String() + "/" + domain.NormalizeValue(value)
	if entry, ok := m.created[key]; ok {
		return entry, nil
	}
	entry := domain.MetadataEntry{
		ID:              uuid.New(),
		Kind:            kind,
		Value:           strings.TrimSpace(value),
		ValueNormalized: domain.NormalizeValue(value),
	}
	m.created[key] = entry
	m.creates++
	return entry, nil
}

func (m *mockMetadataRepo) ListByKind(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error) {
	return m.ListByKindFunc(ctx, kind)
}

type mockSource struct {
	FetchByIDFunc func(ctx context.Context, id int64) (*provider.GameResult, error)
}

func (m *mockSource) FetchByID(ctx context.Context, id int64) (*provider.GameResult, error) {
	return m.FetchByIDFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(games *mockGameRepo, metadata *mockMetadataRepo, source *mockSource) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if games == nil {
		games = &mockGameRepo{}
	}
	if metadata == nil {
		metadata = &mockMetadataRepo{}
	}
	return NewService(logger, games, metadata, source)
}

func validPayload() *Payload {
	return &Payload{
		Name:       []string{"Goa"},
		Published:  2004,
		MinPlayers: 2,
		MaxPlayers: 4,
		PlayTime:   90,
		Complexity: 3.37,
		Category:   []string{"Economic", "Exploration"},
		Mechanic:   []string{"Auction/Bidding"},
		Designer:   []string{"Rüdiger Dorn"},
		Publisher:  []string{"Hans im Glück"},
	}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestService_Create_Success(t *testing.T) {
	t.Parallel()

	metadata := &mockMetadataRepo{}
	var committed *domain.Game
	games := &mockGameRepo{
		CreateWithLinksFunc: func(_ context.Context, g *domain.Game) (*domain.Game, error) {
			committed = g
			return g, nil
		},
	}

	svc := newTestService(games, metadata, nil)
	created, err := svc.Create(context.Background(), validPayload())

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "goa", created.Slug, "slug derived from primary name")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Goa", created.PrimaryName())
	assert.Len(t, created.Categories, 2)
	assert.Equal(t, "Economic", created.Categories[0].Value, "input order preserved")
	assert.Same(t, committed, created)
}

func TestService_Create_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *Payload)
	}{
		{"no name", func(p *Payload) { p.Name = nil }},
		{"blank names only", func(p *Payload) { p.Name = []string{"  ", ""} }},
		{"no players bound", func(p *Payload) { p.MinPlayers, p.MaxPlayers = 0, 0 }},
		{"negative complexity", func(p *Payload) { p.Complexity = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conflictChecked := false
			games := &mockGameRepo{
				FindConflictFunc: func(context.Context, *int64, string) (*domain.ConflictError, error) {
					conflictChecked = true
					return nil, nil
				},
			}
			svc := newTestService(games, nil, nil)

			p := validPayload()
			tt.mutate(p)

			_, err := svc.Create(context.Background(), p)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.False(t, conflictChecked, "validation must fail before any storage access")
		})
	}
}

func TestService_Create_Conflict(t *testing.T) {
	t.Parallel()

	existing := uuid.New()
	games := &mockGameRepo{
		FindConflictFunc: func(_ context.Context, _ *int64, slug string) (*domain.ConflictError, error) {
			assert.Equal(t, "goa", slug)
			return &domain.ConflictError{Field: "slug", ExistingID: existing}, nil
		},
		CreateWithLinksFunc: func(context.Context, *domain.Game) (*domain.Game, error) {
			t.Fatal("CreateWithLinks must not be called on conflict")
			return nil, nil
		},
	}

	svc := newTestService(games, nil, nil)
	_, err := svc.Create(context.Background(), validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "slug", conflict.Field)
	assert.Equal(t, existing, conflict.ExistingID)
}

func TestService_Create_ConcurrentInsertRace(t *testing.T) {
	t.Parallel()

	// The probe sees nothing, but the insert hits the unique constraint.
	games := &mockGameRepo{
		CreateWithLinksFunc: func(context.Context, *domain.Game) (*domain.Game, error) {
			return nil, domain.ErrAlreadyExists
		},
	}

	svc := newTestService(games, nil, nil)
	_, err := svc.Create(context.Background(), validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Create_ExplicitSlugWins(t *testing.T) {
	t.Parallel()

	p := validPayload()
	p.Slug = "Goa New Edition"

	svc := newTestService(nil, nil, nil)
	created, err := svc.Create(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, "goa-new-edition", created.Slug)
}

func TestService_Create_StorageErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	games := &mockGameRepo{
		CreateWithLinksFunc: func(context.Context, *domain.Game) (*domain.Game, error) {
			return nil, boom
		},
	}

	svc := newTestService(games, nil, nil)
	_, err := svc.Create(context.Background(), validPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// CreateFromBGG tests
// ---------------------------------------------------------------------------

func TestService_CreateFromBGG_Success(t *testing.T) {
	t.Parallel()

	source := &mockSource{
		FetchByIDFunc: func(_ context.Context, id int64) (*provider.GameResult, error) {
			assert.Equal(t, int64(9216), id)
			return &provider.GameResult{
				BGGID:      9216,
				Names:      []string{"Goa"},
				Published:  2004,
				MinPlayers: 2,
				MaxPlayers: 4,
				Complexity: 3.37,
				Categories: []string{"Economic"},
			}, nil
		},
	}

	var probedBGGID *int64
	games := &mockGameRepo{
		FindConflictFunc: func(_ context.Context, bggID *int64, _ string) (*domain.ConflictError, error) {
			probedBGGID = bggID
			return nil, nil
		},
	}

	svc := newTestService(games, nil, source)
	created, err := svc.CreateFromBGG(context.Background(), 9216)

	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.BGGID)
	assert.Equal(t, int64(9216), *created.BGGID)
	require.NotNil(t, probedBGGID, "dedup probe must include the bgg id")
	assert.Equal(t, int64(9216), *probedBGGID)
}

func TestService_CreateFromBGG_UpstreamNotFound(t *testing.T) {
	t.Parallel()

	source := &mockSource{
		FetchByIDFunc: func(context.Context, int64) (*provider.GameResult, error) {
			return nil, nil
		},
	}
	games := &mockGameRepo{
		FindConflictFunc: func(context.Context, *int64, string) (*domain.ConflictError, error) {
			t.Fatal("dedup must not run when upstream has no record")
			return nil, nil
		},
	}

	svc := newTestService(games, nil, source)
	_, err := svc.CreateFromBGG(context.Background(), 42)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_CreateFromBGG_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream timeout")
	source := &mockSource{
		FetchByIDFunc: func(context.Context, int64) (*provider.GameResult, error) {
			return nil, boom
		},
	}

	svc := newTestService(nil, nil, source)
	_, err := svc.CreateFromBGG(context.Background(), 42)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Query tests
// ---------------------------------------------------------------------------

func TestService_GetByIDOrSlug(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	games := &mockGameRepo{
		GetByIDFunc: func(_ context.Context, got uuid.UUID) (*domain.Game, error) {
			assert.Equal(t, id, got)
			return &domain.Game{ID: got}, nil
		},
		GetBySlugFunc: func(_ context.Context, slug string) (*domain.Game, error) {
			assert.Equal(t, "goa", slug)
			return &domain.Game{Slug: slug}, nil
		},
	}

	svc := newTestService(games, nil, nil)

	byID, err := svc.GetByIDOrSlug(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, byID.ID)

	bySlug, err := svc.GetByIDOrSlug(context.Background(), "goa")
	require.NoError(t, err)
	assert.Equal(t, "goa", bySlug.Slug)
}

func TestService_Lookup_PartitionsKeys(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	games := &mockGameRepo{
		LookupByKeysFunc: func(_ context.Context, ids []uuid.UUID, slugs []string) ([]domain.LookupMatch, error) {
			assert.Equal(t, []uuid.UUID{id}, ids)
			assert.Equal(t, []string{"goa", "catan"}, slugs)
			return []domain.LookupMatch{{ID: id, Slug: "goa"}}, nil
		},
	}

	svc := newTestService(games, nil, nil)
	matches, err := svc.Lookup(context.Background(), []string{id.String(), "goa", "catan"})

	require.NoError(t, err)
	// Unmatched keys are omitted, not errored.
	assert.Len(t, matches, 1)
}

func TestService_ListMetadata_UnknownKind(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil, nil)
	_, err := svc.ListMetadata(context.Background(), domain.MetadataKind("genre"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_ListMetadata_Valid(t *testing.T) {
	t.Parallel()

	metadata := &mockMetadataRepo{
		ListByKindFunc: func(_ context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error) {
			assert.Equal(t, domain.MetadataKindMechanic, kind)
			return []domain.MetadataEntry{{Kind: kind, Value: "Set Collection"}}, nil
		},
	}

	svc := newTestService(nil, metadata, nil)
	entries, err := svc.ListMetadata(context.Background(), domain.MetadataKindMechanic)

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
