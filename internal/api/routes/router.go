package routes

import (
	"net/http"

	"github.com/emernav/backend/internal/api/handlers"
	"github.com/emernav/backend/internal/api/middleware"
	"github.com/emernav/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler     *handlers.SearchHandler
	vocabularyHandler *handlers.VocabularyHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	vocabularyHandler *handlers.VocabularyHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		searchHandler:     searchHandler,
		vocabularyHandler: vocabularyHandler,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Assessment search
	r.mux.HandleFunc("POST /api/v1/search", r.searchHandler.Search)

	// Capability vocabulary
	r.mux.HandleFunc("GET /api/v1/capabilities", r.vocabularyHandler.List)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
