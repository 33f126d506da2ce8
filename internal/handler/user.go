package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mediashelf/internal/httputil"
	"mediashelf/internal/model"
	"mediashelf/internal/service"
	"mediashelf/internal/transport/http/middleware"
)

// UserHandler groups account endpoints and their dependencies.
type UserHandler struct {
	userService   *service.UserService
	avatarService *service.AvatarService
}

func NewUserHandler(userService *service.UserService, avatarService *service.AvatarService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		avatarService: avatarService,
	}
}

// Register handles sign-up
// POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "All fields are required")
		return
	}

	user, lists, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteBadRequest(w, "Email already exists")
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteBadRequest(w, "Username already exists")
		default:
			log.Printf("[UserHandler] register: %v", err)
			httputil.WriteInternalError(w, "Failed to register user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
		"lists":   lists,
	})
}

// Login handles user login
// POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Email and password are required")
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		log.Printf("[UserHandler] login: %v", err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// ResetPassword replaces the password for the given email
// POST /users/reset-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.NewPassword == "" {
		httputil.WriteBadRequest(w, "Email and new password are required")
		return
	}

	if err := h.userService.ResetPassword(r.Context(), &req); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] reset password: %v", err)
		httputil.WriteInternalError(w, "Failed to reset password")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password reset successfully")
}

// GetUser returns one account
// GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] get user: %v", err)
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial profile edit
// PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	authedID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	if authedID != userID {
		httputil.WriteForbidden(w, "Cannot modify another user's account")
		return
	}

	var req model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteBadRequest(w, "Email already exists")
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteBadRequest(w, "Username already exists")
		case errors.Is(err, model.ErrBioTooLong):
			httputil.WriteBadRequest(w, "Bio must be 150 characters or fewer")
		default:
			log.Printf("[UserHandler] update user: %v", err)
			httputil.WriteInternalError(w, "Failed to update user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser removes an account
// DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	authedID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	if authedID != userID {
		httputil.WriteForbidden(w, "Cannot delete another user's account")
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] delete user: %v", err)
		httputil.WriteInternalError(w, "Failed to delete user")
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

// PublicProfile returns the public view of an account by username
// GET /users/public/{username}
func (h *UserHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	profile, err := h.userService.PublicProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] public profile: %v", err)
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UploadAvatar replaces the account's profile picture
// PUT /users/{id}/avatar
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	authedID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}
	if authedID != userID {
		httputil.WriteForbidden(w, "Cannot change another user's avatar")
		return
	}

	if h.avatarService == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "Avatar uploads are not configured")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "Avatar file is required")
		return
	}
	defer file.Close()

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] load user for avatar: %v", err)
		httputil.WriteInternalError(w, "Failed to upload avatar")
		return
	}

	upload, err := h.avatarService.UploadAvatar(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[UserHandler] upload avatar: %v", err)
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return
	}

	if err := h.userService.SetAvatar(r.Context(), userID, upload.URL); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[UserHandler] save avatar: %v", err)
		httputil.WriteInternalError(w, "Failed to save avatar")
		return
	}

	// The replaced object is garbage now. Shared defaults resolve to no key
	// and are left alone.
	if oldKey, ok := h.avatarService.KeyFromURL(user.Avatar); ok {
		if err := h.avatarService.DeleteObject(r.Context(), oldKey); err != nil {
			log.Printf("[UserHandler] delete old avatar: %v", err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Avatar updated successfully",
		"avatar":  upload.URL,
	})
}
