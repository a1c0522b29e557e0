package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
	"github.com/mediblog/mediblog-backend/pkg/storage"
)

// allowed featured-image content types
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MediaService uploads featured images to object storage
type MediaService interface {
	UploadImage(ctx context.Context, session *domain.Session, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)
}

type mediaService struct {
	store *storage.S3Client
}

// NewMediaService creates a new MediaService
func NewMediaService(store *storage.S3Client) MediaService {
	return &mediaService{store: store}
}

const maxImageSize = 10 << 20 // 10 MiB

func (s *mediaService) UploadImage(ctx context.Context, session *domain.Session, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	if session == nil || !session.Role.CanWrite() {
		return nil, common.ErrForbidden
	}
	if s.store == nil {
		return nil, common.ErrNotFound
	}

	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, common.ErrInvalidInput
	}
	if size <= 0 || size > maxImageSize {
		return nil, common.ErrInvalidInput
	}

	// Object keys are opaque; the original name only contributes its extension
	if e := strings.ToLower(filepath.Ext(filename)); e != "" {
		ext = e
	}
	key := uuid.New().String() + ext

	return s.store.Upload(ctx, key, body, contentType, size)
}
