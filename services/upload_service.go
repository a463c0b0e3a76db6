package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dosada05/poker-dream-api/storage"
	"github.com/google/uuid"
)

const MaxImageSize = 10 << 20

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UploadedImage struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type UploadService interface {
	UploadImage(ctx context.Context, originalName string, size int64, body io.Reader) (*UploadedImage, error)
	DeleteImage(ctx context.Context, filename string) error
}

type uploadService struct {
	uploader storage.FileUploader
	now      func() time.Time
}

func NewUploadService(uploader storage.FileUploader) UploadService {
	return &uploadService{uploader: uploader, now: time.Now}
}

// UploadImage stores the file as <unix-nanos>-<uuid><ext>. The returned URL may
// be relative when the local backend is used.
func (s *uploadService) UploadImage(ctx context.Context, originalName string, size int64, body io.Reader) (*UploadedImage, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, ErrInvalidFileType
	}
	if size > MaxImageSize {
		return nil, ErrFileTooLarge
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixNano(), uuid.NewString(), ext)
	res, err := s.uploader.Upload(ctx, name, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &UploadedImage{Filename: name, OriginalName: originalName, Size: size, URL: res.Location}, nil
}

func (s *uploadService) DeleteImage(ctx context.Context, filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return ErrInvalidFilename
	}
	if err := s.uploader.Delete(ctx, filename); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
