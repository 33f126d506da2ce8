package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"mediashelf/internal/model"
)

func TestAvatarService_KeyFromURL(t *testing.T) {
	svc := &AvatarService{publicURL: "https://cdn.example.com"}

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "uploaded avatar resolves to its key",
			url:     "https://cdn.example.com/avatars/abc.jpg",
			wantKey: "avatars/abc.jpg",
			wantOK:  true,
		},
		{
			name: "shared default is not deletable",
			url:  "boy1.png",
		},
		{
			name: "foreign host",
			url:  "https://elsewhere.example.com/avatars/abc.jpg",
		},
		{
			name: "bucket object outside the avatar folder",
			url:  "https://cdn.example.com/readme.txt",
		},
		{
			name: "empty",
			url:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := svc.KeyFromURL(tt.url)
			if ok != tt.wantOK || key != tt.wantKey {
				t.Errorf("KeyFromURL(%q) = %q, %v, want %q, %v", tt.url, key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func uploadPart(data []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: "avatar",
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{},
	}
	if contentType != "" {
		header.Header.Set("Content-Type", contentType)
	}
	return memFile{bytes.NewReader(data)}, header
}

func TestReadUpload(t *testing.T) {
	jpegMagic := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	t.Run("rejects oversize upload", func(t *testing.T) {
		file, header := uploadPart(jpegMagic, "image/jpeg")
		header.Size = model.MaxAvatarSizeBytes + 1

		_, err := readUpload(file, header)
		if !errors.Is(err, model.ErrFileTooLarge) {
			t.Errorf("error = %v, want %v", err, model.ErrFileTooLarge)
		}
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		file, header := uploadPart([]byte("hello"), "text/plain")

		_, err := readUpload(file, header)
		if !errors.Is(err, model.ErrInvalidImageType) {
			t.Errorf("error = %v, want %v", err, model.ErrInvalidImageType)
		}
	})

	t.Run("sniffs the type when the part header has none", func(t *testing.T) {
		file, header := uploadPart(jpegMagic, "")

		data, err := readUpload(file, header)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(data, jpegMagic) {
			t.Error("upload bytes should pass through unchanged")
		}
	})

	t.Run("strips content type parameters", func(t *testing.T) {
		file, header := uploadPart(jpegMagic, "image/jpeg; charset=binary")

		if _, err := readUpload(file, header); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
