package rest

import "net/http"

// NewRouter wires the REST endpoints onto a ServeMux using method patterns.
func NewRouter(games *GameHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/game", games.Create)
	mux.HandleFunc("POST /api/v1/game/bgg/list", games.CreateBatch)
	mux.HandleFunc("POST /api/v1/game/bgg/{bggGameId}", games.CreateFromBGG)
	mux.HandleFunc("GET /api/v1/game/list", games.List)
	mux.HandleFunc("POST /api/v1/game/lookup", games.Lookup)
	mux.HandleFunc("GET /api/v1/game/{idOrSlug}", games.Get)
	mux.HandleFunc("GET /api/v1/metadata/{kind}/list", games.ListMetadata)

	mux.HandleFunc("GET /healthz", health.Live)
	mux.HandleFunc("GET /readyz", health.Ready)

	return mux
}
