package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mediashelf/internal/httputil"
	"mediashelf/internal/model"
	"mediashelf/internal/service"
)

// CatalogHandler serves provider browse and search endpoints.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Popular returns the merged popular movies feed
// GET /tmdb/movies/popular
func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogService.PopularMovies(r.Context())
	if err != nil {
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] popular: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch popular movies")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// Latest returns the movies now in theaters, newest first
// GET /tmdb/movies/latest
func (h *CatalogHandler) Latest(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.NewlyReleased(r.Context())
	if err != nil {
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] latest: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch latest movies")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, results)
}

// TopRated returns the most-voted movies of the current and previous year
// GET /tmdb/movies/top-rated
func (h *CatalogHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.TopRatedMovies(r.Context())
	if err != nil {
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] top rated: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch top rated movies")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, results)
}

// ByCategory returns popular movies in one genre
// GET /tmdb/movies/category/{category}
func (h *CatalogHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	results, err := h.catalogService.MoviesByCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			httputil.WriteNotFound(w, "Category not found")
			return
		}
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] category: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch movies by category")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, results)
}

// TopRatedTV returns the provider's top-rated TV shows
// GET /tmdb/tv/top-rated
func (h *CatalogHandler) TopRatedTV(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.TopRatedTVShows(r.Context())
	if err != nil {
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] top rated tv: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch top rated TV shows")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, results)
}

// Search runs a multi search over movies and TV shows
// GET /tmdb/media/search/{query}
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		httputil.WriteBadRequest(w, "Search query is required")
		return
	}

	results, err := h.catalogService.Search(r.Context(), query)
	if err != nil {
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] search: %v", err)
		httputil.WriteInternalError(w, "Failed to search")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, results)
}

// Details serves the merged provider view of one catalog item
// GET /tmdb/{mediaType}/{id}
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	mediaType := chi.URLParam(r, "mediaType")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid media ID")
		return
	}

	details, err := h.catalogService.MediaDetails(r.Context(), mediaType, id)
	if err != nil {
		if errors.Is(err, model.ErrInvalidMediaType) {
			httputil.WriteBadRequest(w, "Media type must be movie or tv")
			return
		}
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[CatalogHandler] details: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch details")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, details)
}
