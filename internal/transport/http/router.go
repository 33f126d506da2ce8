package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mediashelf/internal/handler"
	"mediashelf/internal/httputil"
	authmw "mediashelf/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler    *handler.UserHandler
	ListHandler    *handler.ListHandler
	MediaHandler   *handler.MediaHandler
	CatalogHandler *handler.CatalogHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoints (useful for deployment/monitoring)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})
	r.Get("/status/ping", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"message": "pong"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/reset-password", cfg.UserHandler.ResetPassword)
		r.Get("/public/{username}", cfg.UserHandler.PublicProfile)

		// Account routes require a bearer token
		r.Group(func(r chi.Router) {
			r.Use(authmw.AuthMiddleware(cfg.JWTSecret))
			r.Get("/{id}", cfg.UserHandler.GetUser)
			r.Put("/{id}", cfg.UserHandler.UpdateUser)
			r.Delete("/{id}", cfg.UserHandler.DeleteUser)
			r.Put("/{id}/avatar", cfg.UserHandler.UploadAvatar)
		})
	})

	r.Route("/lists/{userId}", func(r chi.Router) {
		r.Post("/create", cfg.ListHandler.Create)
		r.Get("/", cfg.ListHandler.GetByUser)
		r.Get("/{id}", cfg.ListHandler.GetOne)
		r.Put("/{id}/update", cfg.ListHandler.Update)
		r.Delete("/{id}/delete", cfg.ListHandler.Delete)
		r.Get("/{id}/counts", cfg.ListHandler.Counts)
	})

	r.Route("/media", func(r chi.Router) {
		r.Get("/latest/{userId}/{mediaType}", cfg.MediaHandler.Latest)
		r.Get("/stats/{userId}", cfg.MediaHandler.Stats)
		r.Post("/{listId}/add", cfg.MediaHandler.Add)
		r.Put("/{mediaId}/update", cfg.MediaHandler.Update)
		r.Delete("/{listId}/{mediaId}/delete", cfg.MediaHandler.Delete)
		r.Get("/{listId}/{tmdbId}", cfg.MediaHandler.GetDetails)
	})

	r.Route("/tmdb", func(r chi.Router) {
		r.Get("/movies/popular", cfg.CatalogHandler.Popular)
		r.Get("/movies/latest", cfg.CatalogHandler.Latest)
		r.Get("/movies/top-rated", cfg.CatalogHandler.TopRated)
		r.Get("/movies/category/{category}", cfg.CatalogHandler.ByCategory)
		r.Get("/tv/top-rated", cfg.CatalogHandler.TopRatedTV)
		r.Get("/media/search/{query}", cfg.CatalogHandler.Search)
		r.Get("/{mediaType}/{id}", cfg.CatalogHandler.Details)
	})

	return r
}
