package main

import (
	"net/http"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/config"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/handler"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/middleware"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
)

// newRouter wires every route. A nil jwtMgr serves the API without
// authentication.
func newRouter(cfg *config.Config, svc *service.AdjudicationService, hub *handler.Hub, jwtMgr *auth.JWTManager) http.Handler {
	adjudicateHandler := handler.NewAdjudicateHandler(svc)
	mapHandler := handler.NewMapHandler(svc.Map())
	wsHandler := handler.NewWSHandler(hub, svc, jwtMgr)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Dev-only token endpoint
	if cfg.Dev && jwtMgr != nil {
		authHandler := handler.NewAuthHandler(jwtMgr)
		mux.HandleFunc("POST /auth/token", authHandler.IssueToken)
	}

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("POST /adjudicate/movement", adjudicateHandler.Movement)
	api.HandleFunc("POST /adjudicate/retreat", adjudicateHandler.Retreat)
	api.HandleFunc("POST /adjudicate/adjustment", adjudicateHandler.Adjustment)
	api.HandleFunc("POST /adjudicate/batch", adjudicateHandler.Batch)
	api.HandleFunc("GET /map", mapHandler.GetMap)
	api.HandleFunc("GET /map/territories/{name}", mapHandler.GetTerritory)

	authMw := auth.Disabled()
	if jwtMgr != nil {
		authMw = auth.Middleware(jwtMgr)
	}
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", middleware.Gzip(authMw(api))))

	// WebSocket (auth via query param, not middleware; never compressed)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	return middleware.Chain(mux,
		middleware.MaxBytes(cfg.MaxBodyBytes),
		middleware.Logger,
		middleware.CORS(cfg.CORSOrigins),
		middleware.JSON,
	)
}
