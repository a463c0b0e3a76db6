package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalDiskUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalDiskUploader(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalDiskUploader: %v", err)
	}
	ctx := context.Background()

	res, err := u.Upload(ctx, "1700000000-abc.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Location != "/uploads/1700000000-abc.png" {
		t.Errorf("Location = %q", res.Location)
	}
	data, err := os.ReadFile(filepath.Join(dir, "1700000000-abc.png"))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	if _, err := u.Upload(ctx, "1700000000-abc.png", "image/png", strings.NewReader("again")); err == nil {
		t.Error("second upload with the same key should fail")
	}

	if err := u.Delete(ctx, "1700000000-abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := u.Delete(ctx, "1700000000-abc.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Delete missing = %v, want ErrObjectNotFound", err)
	}
}

func TestLocalDiskRejectsPathKeys(t *testing.T) {
	u, err := NewLocalDiskUploader(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalDiskUploader: %v", err)
	}
	for _, key := range []string{"", "..", "../etc/passwd", "a/b.png"} {
		if err := u.Delete(context.Background(), key); err == nil || errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Delete(%q) = %v, want invalid key error", key, err)
		}
	}
}
