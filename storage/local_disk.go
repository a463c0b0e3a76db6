package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type localDiskUploader struct {
	dir       string
	urlPrefix string
}

// NewLocalDiskUploader stores files under dir. Public URLs are urlPrefix + key,
// so the router must serve dir at urlPrefix.
func NewLocalDiskUploader(dir, urlPrefix string) (FileUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &localDiskUploader{dir: dir, urlPrefix: urlPrefix}, nil
}

func (u *localDiskUploader) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(u.dir, key), nil
}

func (u *localDiskUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	p, err := u.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(p)
		return nil, fmt.Errorf("failed to write file %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to close file %s: %w", key, err)
	}
	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *localDiskUploader) Delete(ctx context.Context, key string) error {
	p, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

func (u *localDiskUploader) GetPublicURL(key string) string {
	return path.Join(u.urlPrefix, key)
}
