package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JupiterPi/verse/internal/api/handler"
	apimiddleware "github.com/JupiterPi/verse/internal/api/middleware"
	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/middleware"
	"github.com/JupiterPi/verse/internal/services/joincode"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	JoinCodes *joincode.Service
	Members   *membership.MemoryProvider
	// GameSocket serves the game websocket at /api/game.
	GameSocket http.Handler
	// APIToken guards the operational endpoints; empty disables the check.
	APIToken string
	// JoinLinkRoot is the client URL join links and redirects point at.
	JoinLinkRoot string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	joinCodeHandler := handler.NewJoinCodeHandler(cfg.JoinCodes, cfg.JoinLinkRoot)
	groupHandler := handler.NewGroupHandler(cfg.Members)

	authMiddleware := apimiddleware.Auth(cfg.APIToken)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Operational endpoints for the external bot integration
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/join-codes", joinCodeHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{group_id}/members", groupHandler.SetMembers).Methods(http.MethodPut)
	protected.HandleFunc("/groups/{group_id}/members", groupHandler.GetMembers).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Game websocket. Not behind the logging middleware: one connection is
	// hours of traffic, not one request.
	if cfg.GameSocket != nil {
		r.Handle("/api/game", cfg.GameSocket)
	}

	// Join link redirect into the client app
	if cfg.JoinLinkRoot != "" {
		r.HandleFunc("/join/{code}", handler.JoinRedirect(cfg.JoinLinkRoot)).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
