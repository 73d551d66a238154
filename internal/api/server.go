package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/recipebox/internal/config"
	"github.com/dgallion1/recipebox/internal/importer"
	"github.com/dgallion1/recipebox/internal/recipe"
	"github.com/dgallion1/recipebox/internal/store"
)

// Server is the HTTP API server for recipebox.
type Server struct {
	router chi.Router
	store  *store.Store
	engine *recipe.Engine
	log    *slog.Logger
	cfg    config.Config
	stats  *OperationStats
}

// NewServer creates and configures the HTTP server.
func NewServer(st *store.Store, engine *recipe.Engine, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:  st,
		engine: engine,
		log:    log,
		cfg:    cfg,
		stats:  NewOperationStats(defaultWindow),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/api/recipes", s.handleListRecipes)
	r.Get("/api/recipes/{slug}", s.handleGetRecipe)
	r.Get("/api/recipes/{slug}/scaled", s.handleScaledRecipe)
	r.Get("/api/recipes/{slug}/images/{image}", s.handleGetImage)
	r.Post("/api/render", s.handleRender)
	r.Get("/api/stats", s.handleStats)

	// Write endpoints; open when no API key is configured.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/recipes/{slug}", s.handleCreateRecipe)
		r.Put("/api/recipes/{slug}", s.handleUpdateRecipe)
		r.Delete("/api/recipes/{slug}", s.handleDeleteRecipe)
		r.Put("/api/recipes/{slug}/images/{image}", s.handlePutImage)
		r.Post("/api/import", s.handleImport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		jsonError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) importOptions() importer.Options {
	return importer.Options{PDFFallback: s.cfg.PDFFallbackPdftotext}
}
