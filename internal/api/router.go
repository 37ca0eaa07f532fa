package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gamedex/tierboard/internal/storage"
)

// Server holds the HTTP server dependencies
type Server struct {
	store  *storage.Store
	router chi.Router
}

// New creates a new API server
func New(store *storage.Store) *Server {
	s := &Server{
		store:  store,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*.tierboard.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/users/{userID}/items", s.handleGetCatalog)

		// Tierlists
		r.Get("/users/{userID}/tierlists", s.handleListTierlists)
		r.Post("/tierlists", s.handleCreateTierlist)
		r.Get("/tierlists/{id}", s.handleGetTierlist)
		r.Put("/tierlists/{id}", s.handleUpdateTierlist)
		r.Delete("/tierlists/{id}", s.handleDeleteTierlist)
		r.Post("/tierlists/{id}/clone", s.handleCloneTierlist)

		// Share links
		r.Get("/s/{code}", s.handleGetTierlistByCode)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Static conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem under the given path.
func (s *Server) Static(path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("Static does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		s.router.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	s.router.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
