package handler

import (
	"errors"
	"net/http"

	"mediashelf/internal/httputil"
	"mediashelf/internal/model"
	"mediashelf/internal/tmdb"
)

// writeOwnershipError maps the user/list/media lookup errors shared by every
// list- and media-scoped endpoint. Returns false when err is none of them.
func writeOwnershipError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrListNotFound):
		httputil.WriteNotFound(w, "List not found")
	case errors.Is(err, model.ErrListNotOwned):
		httputil.WriteForbidden(w, "List not associated with this user")
	case errors.Is(err, model.ErrMediaNotFound):
		httputil.WriteNotFound(w, "Media not found")
	default:
		return false
	}
	return true
}

// writeUpstreamError surfaces a failed provider call with the provider's own
// HTTP status. Returns false when err is not an upstream failure.
func writeUpstreamError(w http.ResponseWriter, err error) bool {
	var upstream *tmdb.UpstreamError
	if errors.As(err, &upstream) {
		httputil.WriteError(w, upstream.Status, "Failed to fetch data from TMDB")
		return true
	}
	return false
}
