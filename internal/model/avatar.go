package model

import "errors"

// Avatar upload constraints. Uploads are normalized to a square JPEG before
// being stored.
const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "avatars"
	AvatarExt          = ".jpg"
	ContentTypeJPEG    = "image/jpeg"
	AvatarCacheControl = "public, max-age=31536000, immutable"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the content type is an accepted upload.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// UploadResult holds the public URL and storage key of an uploaded object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var (
	// ErrFileTooLarge is returned when an upload exceeds MaxAvatarSizeBytes
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidImageType is returned for unsupported image content types
	ErrInvalidImageType = errors.New("invalid image type")
)
