package services

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"github.com/Dosada05/poker-dream-api/storage"
	"github.com/google/uuid"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit       int
		wantPage, wantLim int
		wantErr           bool
	}{
		{0, 0, 1, 10, false},
		{3, 25, 3, 25, false},
		{1, 1000, 1, maxPageLimit, false},
		{-1, 10, 0, 0, true},
		{1, -5, 0, 0, true},
		{math.MaxInt/100 + 2, 100, 0, 0, true},
		{math.MaxInt, 0, 0, 0, true},
		{math.MaxInt/100 + 1, 100, math.MaxInt/100 + 1, 100, false},
	}
	for _, tt := range tests {
		page, limit, err := normalizePage(tt.page, tt.limit, 10)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizePage(%d, %d) err = %v", tt.page, tt.limit, err)
			continue
		}
		if !tt.wantErr && (page != tt.wantPage || limit != tt.wantLim) {
			t.Errorf("normalizePage(%d, %d) = %d, %d; want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLim)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "is required", "chips": "chips cannot be negative"}}
	want := "validation failed: chips: chips cannot be negative; name: is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Error("ValidationError should unwrap to ErrValidationFailed")
	}
}

func TestHandleRepositoryError(t *testing.T) {
	if got := handleRepositoryError(repositories.ErrStandingExists, "op"); got != ErrStandingExists {
		t.Errorf("got %v, want ErrStandingExists", got)
	}
	raw := errors.New("boom")
	got := handleRepositoryError(raw, "list things")
	if !errors.Is(got, raw) || got.Error() != "list things: boom" {
		t.Errorf("got %v", got)
	}
	if handleRepositoryError(nil, "op") != nil {
		t.Error("nil error should stay nil")
	}
}

type fakeSponsorRepo struct {
	repositories.SponsorRepository
	items  map[string]*models.Sponsor
	orders map[string]int
}

func (r *fakeSponsorRepo) UpdateDisplayOrder(ctx context.Context, exec repositories.SQLExecutor, id string, order int) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrSponsorNotFound
	}
	r.orders[id] = order
	return nil
}

func (r *fakeSponsorRepo) List(ctx context.Context, isActive *bool) ([]models.Sponsor, error) {
	out := make([]models.Sponsor, 0, len(r.items))
	for id, s := range r.items {
		cp := *s
		cp.DisplayOrder = r.orders[id]
		out = append(out, cp)
	}
	return out, nil
}

func TestSponsorReorderUnknownIDRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	known := uuid.NewString()
	repo := &fakeSponsorRepo{
		items:  map[string]*models.Sponsor{known: {ID: known, Name: "Deck Co"}},
		orders: map[string]int{},
	}
	svc := NewSponsorService(db, repo, discardLogger())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Reorder(context.Background(), []string{known, uuid.NewString()})
	if !errors.Is(err, ErrSponsorNotFound) {
		t.Fatalf("err = %v, want ErrSponsorNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	sponsors, err := svc.Reorder(context.Background(), []string{known})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if len(sponsors) != 1 || sponsors[0].DisplayOrder != 0 {
		t.Errorf("sponsors = %+v", sponsors)
	}
}

func TestSponsorReorderDuplicateIDs(t *testing.T) {
	svc := NewSponsorService(nil, &fakeSponsorRepo{}, discardLogger())
	id := uuid.NewString()
	if _, err := svc.Reorder(context.Background(), []string{id, id}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

type fakeNewsRepo struct {
	repositories.NewsRepository
	slugs map[string]bool
}

func (r *fakeNewsRepo) Create(ctx context.Context, n *models.NewsArticle) error {
	if r.slugs[n.Slug] {
		return repositories.ErrNewsSlugTaken
	}
	r.slugs[n.Slug] = true
	n.ID = uuid.NewString()
	return nil
}

func TestNewsCreateSlugCollision(t *testing.T) {
	repo := &fakeNewsRepo{slugs: map[string]bool{}}
	svc := NewNewsService(repo)
	ctx := context.Background()
	in := NewsInput{Title: ptr("Main Event Day 1"), Content: ptr("Day one recap with all the hands."), IsPublished: ptr(true)}

	first, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Slug != "main-event-day-1" {
		t.Errorf("slug = %q", first.Slug)
	}
	if first.PublishedAt == nil {
		t.Error("published article without publishedAt")
	}
	if first.Category != models.CategoryGeneral {
		t.Errorf("category = %q, want GENERAL", first.Category)
	}

	second, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if second.Slug == first.Slug || !strings.HasPrefix(second.Slug, "main-event-day-1-") {
		t.Errorf("second slug = %q", second.Slug)
	}
}

type memoryUploader struct {
	files map[string]string
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.files[key] = string(b)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	if _, ok := u.files[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(u.files, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string { return "/uploads/" + key }

func TestUploadImage(t *testing.T) {
	up := &memoryUploader{files: map[string]string{}}
	svc := &uploadService{uploader: up, now: func() time.Time { return time.Unix(0, 1700000000000000000) }}
	ctx := context.Background()

	img, err := svc.UploadImage(ctx, "Final Table.PNG", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(img.Filename, "1700000000000000000-") || !strings.HasSuffix(img.Filename, ".png") {
		t.Errorf("filename = %q", img.Filename)
	}
	if img.URL != "/uploads/"+img.Filename || img.OriginalName != "Final Table.PNG" {
		t.Errorf("image = %+v", img)
	}

	if _, err := svc.UploadImage(ctx, "notes.txt", 3, strings.NewReader("txt")); !errors.Is(err, ErrInvalidFileType) {
		t.Errorf("txt upload = %v, want ErrInvalidFileType", err)
	}
	if _, err := svc.UploadImage(ctx, "big.jpg", MaxImageSize+1, strings.NewReader("")); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("large upload = %v, want ErrFileTooLarge", err)
	}

	if err := svc.DeleteImage(ctx, img.Filename); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := svc.DeleteImage(ctx, img.Filename); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("second delete = %v, want ErrFileNotFound", err)
	}
	if err := svc.DeleteImage(ctx, "../secret.png"); !errors.Is(err, ErrInvalidFilename) {
		t.Errorf("path delete = %v, want ErrInvalidFilename", err)
	}
}
