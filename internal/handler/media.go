package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mediashelf/internal/httputil"
	"mediashelf/internal/model"
	"mediashelf/internal/service"
)

// MediaHandler groups media entry endpoints and their dependencies.
type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Add creates a media entry in a list
// POST /media/{listId}/add
func (h *MediaHandler) Add(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(chi.URLParam(r, "listId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}

	var req model.AddMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.TmdbID <= 0 {
		httputil.WriteBadRequest(w, "A valid tmdbId is required")
		return
	}

	media, err := h.mediaService.AddToList(r.Context(), listID, &req)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		switch {
		case errors.Is(err, model.ErrDuplicateMedia):
			httputil.WriteBadRequest(w, "Media already exists in this list")
		case errors.Is(err, model.ErrMediaTitleRequired):
			httputil.WriteBadRequest(w, "Media title is required")
		case errors.Is(err, model.ErrInvalidMediaType):
			httputil.WriteBadRequest(w, "Invalid media type")
		case errors.Is(err, model.ErrInvalidRating):
			httputil.WriteBadRequest(w, "Rating must be between 1 and 10")
		default:
			log.Printf("[MediaHandler] add: %v", err)
			httputil.WriteInternalError(w, "Failed to add media")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Media added successfully",
		"media":   media,
	})
}

// Update edits a media entry
// PUT /media/{mediaId}/update
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	mediaID, err := strconv.ParseInt(chi.URLParam(r, "mediaId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid media ID")
		return
	}

	var req model.UpdateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	media, err := h.mediaService.Update(r.Context(), mediaID, &req)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		switch {
		case errors.Is(err, model.ErrMediaTitleRequired):
			httputil.WriteBadRequest(w, "Media title is required")
		case errors.Is(err, model.ErrInvalidMediaType):
			httputil.WriteBadRequest(w, "Invalid media type")
		case errors.Is(err, model.ErrInvalidRating):
			httputil.WriteBadRequest(w, "Rating must be between 1 and 10")
		default:
			log.Printf("[MediaHandler] update: %v", err)
			httputil.WriteInternalError(w, "Failed to update media")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Media updated successfully",
		"media":   media,
	})
}

// Delete removes one entry from a list
// DELETE /media/{listId}/{mediaId}/delete
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(chi.URLParam(r, "listId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}
	mediaID, err := strconv.ParseInt(chi.URLParam(r, "mediaId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid media ID")
		return
	}

	if err := h.mediaService.Delete(r.Context(), listID, mediaID); err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		log.Printf("[MediaHandler] delete: %v", err)
		httputil.WriteInternalError(w, "Failed to delete media")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Media deleted successfully")
}

// GetDetails serves the full provider view of one entry
// GET /media/{listId}/{tmdbId}
func (h *MediaHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(chi.URLParam(r, "listId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}
	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "tmdbId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid TMDB ID")
		return
	}

	details, err := h.mediaService.GetDetails(r.Context(), listID, tmdbID)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		if writeUpstreamError(w, err) {
			return
		}
		log.Printf("[MediaHandler] details: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch media details")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, details)
}

// Latest returns the user's most recently added entries of one type
// GET /media/latest/{userId}/{mediaType}
func (h *MediaHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}
	mediaType := chi.URLParam(r, "mediaType")

	items, err := h.mediaService.LatestByType(r.Context(), userID, mediaType)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		if errors.Is(err, model.ErrInvalidMediaType) {
			httputil.WriteBadRequest(w, "Invalid media type")
			return
		}
		log.Printf("[MediaHandler] latest: %v", err)
		httputil.WriteInternalError(w, "Failed to get latest media")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

// Stats summarizes the user's rated entries
// GET /media/stats/{userId}
func (h *MediaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	stats, err := h.mediaService.Stats(r.Context(), userID)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		log.Printf("[MediaHandler] stats: %v", err)
		httputil.WriteInternalError(w, "Failed to get stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
