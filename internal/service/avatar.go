package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"mediashelf/internal/config"
	"mediashelf/internal/model"
)

const avatarJPEGQuality = 85

// AvatarService stores profile pictures in a Cloudflare R2 bucket through its
// S3-compatible API. Every upload is normalized to a square JPEG under a fresh
// key, so replacing an avatar never overwrites the old object in place.
type AvatarService struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewAvatarService builds the R2 client. All five R2 settings must be present.
func NewAvatarService(ctx context.Context, cfg *config.Config) (*AvatarService, error) {
	switch "" {
	case cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicURL:
		return nil, errors.New("incomplete R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 credentials: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	return &AvatarService{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}),
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadAvatar validates the upload, normalizes it to a 200x200 JPEG and
// stores it under a fresh key.
func (s *AvatarService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, err := readUpload(file, header)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	square := imaging.Fill(img, model.AvatarWidth, model.AvatarHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.JPEG, imaging.JPEGQuality(avatarJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	key := path.Join(model.AvatarFolder, uuid.NewString()+model.AvatarExt)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String(model.ContentTypeJPEG),
		CacheControl: aws.String(model.AvatarCacheControl),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return &model.UploadResult{URL: s.publicURL + "/" + key, Key: key}, nil
}

// KeyFromURL maps a stored avatar URL back to its object key. Only URLs under
// this bucket's public avatar prefix resolve; the shared default avatars live
// elsewhere and report false.
func (s *AvatarService) KeyFromURL(url string) (string, bool) {
	prefix := s.publicURL + "/" + model.AvatarFolder + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, s.publicURL+"/"), true
}

// DeleteObject removes a previously uploaded avatar by key.
func (s *AvatarService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete avatar %s: %w", key, err)
	}
	return nil
}

// readUpload loads the file into memory, enforcing the size cap and the
// allowed image types. The content type comes from the part header, falling
// back to sniffing the bytes.
func readUpload(file multipart.File, header *multipart.FileHeader) ([]byte, error) {
	if header.Size > model.MaxAvatarSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, model.MaxAvatarSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > model.MaxAvatarSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidImageType
	}

	return data, nil
}
