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

// ListHandler groups list endpoints and their dependencies.
type ListHandler struct {
	listService *service.ListService
}

func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// Create adds a new list for the user
// POST /lists/{userId}/create
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req model.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	list, err := h.listService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrListTitleRequired):
			httputil.WriteBadRequest(w, "List title is required")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			log.Printf("[ListHandler] create: %v", err)
			httputil.WriteInternalError(w, "Failed to create list")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "List created successfully",
		"list":    list,
	})
}

// GetByUser returns the user's lists in creation order
// GET /lists/{userId}
func (h *ListHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	lists, err := h.listService.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ListHandler] get by user: %v", err)
		httputil.WriteInternalError(w, "Failed to get lists")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, lists)
}

// GetOne serves one enriched page of a list's media
// GET /lists/{userId}/{id}?page=N
func (h *ListHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}
	listID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			httputil.WriteBadRequest(w, "Invalid page number")
			return
		}
		page = parsed
	}

	result, err := h.listService.GetListWithItems(r.Context(), userID, listID, page)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		log.Printf("[ListHandler] get one: %v", err)
		httputil.WriteInternalError(w, "Failed to get list")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Update edits a list's title and/or description
// PUT /lists/{userId}/{id}/update
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}
	listID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}

	var req model.UpdateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	list, err := h.listService.Update(r.Context(), userID, listID, &req)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		if errors.Is(err, model.ErrListTitleRequired) {
			httputil.WriteBadRequest(w, "List title is required")
			return
		}
		log.Printf("[ListHandler] update: %v", err)
		httputil.WriteInternalError(w, "Failed to update list")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "List updated successfully",
		"list":    list,
	})
}

// Delete removes a list and everything in it
// DELETE /lists/{userId}/{id}/delete
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}
	listID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}

	if err := h.listService.Delete(r.Context(), userID, listID); err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		log.Printf("[ListHandler] delete: %v", err)
		httputil.WriteInternalError(w, "Failed to delete list")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "List deleted successfully")
}

// Counts returns how many entries of each type the list holds
// GET /lists/{userId}/{id}/counts
func (h *ListHandler) Counts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}
	listID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid list ID")
		return
	}

	counts, err := h.listService.CountsByType(r.Context(), userID, listID)
	if err != nil {
		if writeOwnershipError(w, err) {
			return
		}
		log.Printf("[ListHandler] counts: %v", err)
		httputil.WriteInternalError(w, "Failed to count media")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, counts)
}
