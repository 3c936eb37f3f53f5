package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/meeplelog/meeplelog-backend/internal/domain"
	"github.com/meeplelog/meeplelog-backend/internal/service/game"
)

// gameService defines the minimal interface needed by GameHandler.
type gameService interface {
	Create(ctx context.Context, p *game.Payload) (*domain.Game, error)
	CreateFromBGG(ctx context.Context, bggID int64) (*domain.Game, error)
	CreateBatchFromBGG(ctx context.Context, bggIDs []int64) (*game.BatchResult, error)
	List(ctx context.Context) ([]domain.Game, error)
	GetByIDOrSlug(ctx context.Context, key string) (*domain.Game, error)
	Lookup(ctx context.Context, keys []string) ([]domain.LookupMatch, error)
	ListMetadata(ctx context.Context, kind domain.MetadataKind) ([]domain.MetadataEntry, error)
}

// GameHandler serves the game catalog REST endpoints.
type GameHandler struct {
	svc gameService
	log *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(svc gameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{svc: svc, log: logger.With("handler", "game")}
}

// gameResponse is the wire shape of one game: scalar attributes plus the
// metadata lists flattened back to their stored values.
type gameResponse struct {
	ID           uuid.UUID `json:"id"`
	BGGID        *int64    `json:"bggId,omitempty"`
	Name         []string  `json:"name"`
	Slug         string    `json:"slug"`
	Published    int       `json:"published"`
	MinPlayers   int       `json:"minPlayers"`
	MaxPlayers   int       `json:"maxPlayers"`
	MinPlayerAge int       `json:"minPlayerAge"`
	PlayTime     int       `json:"playTime"`
	MinPlayTime  int       `json:"minPlayTime"`
	MaxPlayTime  int       `json:"maxPlayTime"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	Image        string    `json:"image"`
	Complexity   float64   `json:"complexity"`
	Category     []string  `json:"category"`
	Mechanic     []string  `json:"mechanic"`
	Designer     []string  `json:"designer"`
	Artist       []string  `json:"artist"`
	Publisher    []string  `json:"publisher"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toGameResponse(g *domain.Game) gameResponse {
	return gameResponse{
		ID:           g.ID,
		BGGID:        g.BGGID,
		Name:         entryValues(g.Names),
		Slug:         g.Slug,
		Published:    g.Published,
		MinPlayers:   g.MinPlayers,
		MaxPlayers:   g.MaxPlayers,
		MinPlayerAge: g.MinPlayerAge,
		PlayTime:     g.PlayTime,
		MinPlayTime:  g.MinPlayTime,
		MaxPlayTime:  g.MaxPlayTime,
		Description:  g.Description,
		Thumbnail:    g.Thumbnail,
		Image:        g.Image,
		Complexity:   g.Complexity,
		Category:     entryValues(g.Categories),
		Mechanic:     entryValues(g.Mechanics),
		Designer:     entryValues(g.Designers),
		Artist:       entryValues(g.Artists),
		Publisher:    entryValues(g.Publishers),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

func entryValues(entries []domain.MetadataEntry) []string {
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

// Create inserts one game from an explicit payload.
// POST /api/v1/game
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload game.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), &payload)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "game inserted", toGameResponse(created))
}

// CreateFromBGG inserts one game fetched from BGG by id.
// POST /api/v1/game/bgg/{bggGameId}
func (h *GameHandler) CreateFromBGG(w http.ResponseWriter, r *http.Request) {
	bggID, err := strconv.ParseInt(r.PathValue("bggGameId"), 10, 64)
	if err != nil || bggID <= 0 {
		writeFail(w, http.StatusBadRequest, "bggGameId must be a positive integer")
		return
	}

	created, err := h.svc.CreateFromBGG(r.Context(), bggID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "game inserted", toGameResponse(created))
}

// batchResponse mirrors BatchResult with games in wire shape.
type batchResponse struct {
	Inserted []gameResponse     `json:"inserted"`
	Skipped  []game.SkippedGame `json:"skipped"`
}

// CreateBatch inserts a list of games fetched from BGG by id.
// POST /api/v1/game/bgg/list
func (h *GameHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var bggIDs []int64
	if err := json.NewDecoder(r.Body).Decode(&bggIDs); err != nil {
		writeFail(w, http.StatusBadRequest, "request body should be an array of BGG ids")
		return
	}

	result, err := h.svc.CreateBatchFromBGG(r.Context(), bggIDs)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := batchResponse{
		Inserted: make([]gameResponse, 0, len(result.Inserted)),
		Skipped:  result.Skipped,
	}
	for _, g := range result.Inserted {
		resp.Inserted = append(resp.Inserted, toGameResponse(g))
	}

	writeSuccess(w, http.StatusOK, "batch processed", resp)
}

// List returns every game in the catalog.
// GET /api/v1/game/list
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]gameResponse, 0, len(games))
	for i := range games {
		resp = append(resp, toGameResponse(&games[i]))
	}

	writeSuccess(w, http.StatusOK, "games retrieved", resp)
}

// Get returns one game by UUID or slug.
// GET /api/v1/game/{idOrSlug}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetByIDOrSlug(r.Context(), r.PathValue("idOrSlug"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "game retrieved", toGameResponse(g))
}

// Lookup resolves a list of ids or slugs to {id, slug} pairs. Unknown keys are
// omitted from the result rather than failing the call.
// POST /api/v1/game/lookup
func (h *GameHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var keys []string
	if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
		writeFail(w, http.StatusBadRequest, "request body should be an array of ids or slugs")
		return
	}

	matches, err := h.svc.Lookup(r.Context(), keys)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "games matched", matches)
}

// metadataResponse is the wire shape of one metadata catalog entry.
type metadataResponse struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

// ListMetadata returns every catalog entry of one metadata kind.
// GET /api/v1/metadata/{kind}/list
func (h *GameHandler) ListMetadata(w http.ResponseWriter, r *http.Request) {
	kind := domain.MetadataKind(r.PathValue("kind"))

	entries, err := h.svc.ListMetadata(r.Context(), kind)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	resp := make([]metadataResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, metadataResponse{ID: e.ID, Value: e.Value})
	}

	writeSuccess(w, http.StatusOK, kind.String()+" entries retrieved", resp)
}
