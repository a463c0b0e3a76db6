package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound возвращается Delete, если файла с таким ключом нет.
var ErrObjectNotFound = errors.New("storage: object not found")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores uploaded images. GetPublicURL may return a path relative
// to the API host when the backend serves files itself.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
