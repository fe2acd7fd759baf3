// Package api exposes the game over HTTP for local frontends. It is a thin
// translation layer: request decoding, validation, and error mapping live
// here; all game semantics live in the contract, history, and store packages.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/baucualabs/baucua-go/internal/contract"
	"github.com/baucualabs/baucua-go/internal/history"
	"github.com/baucualabs/baucua-go/internal/store"
	"github.com/baucualabs/baucua-go/internal/wallet"
)

// Version identifies the API build in response headers.
const Version = "1.0.0"

// Server handles HTTP requests.
type Server struct {
	game      *contract.GameContract
	bridge    *wallet.Bridge
	poller    *history.Poller
	store     *store.Store
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates an API server. store may be nil when persistence is
// disabled; the history endpoints then serve the in-memory snapshot only.
func NewServer(game *contract.GameContract, bridge *wallet.Bridge, poller *history.Poller, st *store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	return &Server{
		game:      game,
		bridge:    bridge,
		poller:    poller,
		store:     st,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(120 * time.Second)) // play blocks on wallet approval
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/symbols", s.handleSymbols)
		r.Get("/account", s.handleAccount)
		r.Get("/balance", s.handleBalance)
		r.Get("/limits", s.handleLimits)
		r.Get("/bank", s.handleBank)
		r.Post("/estimate", s.handleEstimate)
		r.Post("/play", s.handlePlay)
		r.Get("/history", s.handleHistory)
		r.Post("/history/refresh", s.handleHistoryRefresh)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// corsMiddleware allows browser frontends served from another local port.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-API-Version", Version)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
