package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
	"github.com/go-chi/chi/v5"
)

func testResponder(development bool) *Responder {
	return NewResponder(slog.New(slog.NewTextHandler(io.Discard, nil)), development)
}

// fakeTournamentService хранит турниры в памяти и повторяет слияние полей сервиса.
type fakeTournamentService struct {
	services.TournamentService
	mu    sync.Mutex
	items map[string]models.Tournament
	err   error
}

func newFakeTournamentService() *fakeTournamentService {
	return &fakeTournamentService{items: make(map[string]models.Tournament)}
}

func (s *fakeTournamentService) Create(ctx context.Context, in services.TournamentInput) (*models.Tournament, error) {
	if s.err != nil {
		return nil, s.err
	}
	if in.Name == nil || len(*in.Name) < 3 {
		return nil, &services.ValidationError{Fields: map[string]string{"name": "must be at least 3 characters"}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tournament{ID: "t-1", Name: *in.Name, BuyIn: in.BuyIn, Status: models.StatusUpcoming}
	if in.Status != nil {
		t.Status = *in.Status
	}
	s.items[t.ID] = t
	return &t, nil
}

func (s *fakeTournamentService) FindByID(ctx context.Context, id string) (*models.Tournament, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, services.ErrTournamentNotFound
	}
	return &t, nil
}

func (s *fakeTournamentService) Update(ctx context.Context, id string, in services.TournamentInput) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, services.ErrTournamentNotFound
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	s.items[id] = t
	return &t, nil
}

func tournamentRouter(h *TournamentHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/tournaments", h.Create)
	r.Get("/tournaments/{id}", h.GetByID)
	r.Put("/tournaments/{id}", h.Update)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, out
}

func TestTournamentCreateUpdateScenario(t *testing.T) {
	router := tournamentRouter(NewTournamentHandler(testResponder(false), newFakeTournamentService()))

	rec, body := doJSON(t, router, http.MethodPost, "/tournaments", `{"name":"Test Cup","buyIn":100,"status":"UPCOMING"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Tournament created successfully" {
		t.Errorf("message = %v", body["message"])
	}
	data := body["data"].(map[string]any)
	if data["totalEntries"] != float64(0) {
		t.Errorf("totalEntries = %v, want 0", data["totalEntries"])
	}

	rec, _ = doJSON(t, router, http.MethodPut, "/tournaments/t-1", `{"status":"LIVE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/tournaments/t-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	data = body["data"].(map[string]any)
	if data["status"] != "LIVE" || data["name"] != "Test Cup" || data["buyIn"] != float64(100) {
		t.Errorf("tournament after update = %v", data)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		target      string
		method      string
		svcErr      error
		development bool
		wantStatus  int
		wantError   string
	}{
		{"validation", `{"name":"ab"}`, "/tournaments", http.MethodPost, nil, false, http.StatusBadRequest, "Validation error"},
		{"malformed json", `{"name":`, "/tournaments", http.MethodPost, nil, false, http.StatusBadRequest, "body contains badly-formed JSON"},
		{"empty body", ``, "/tournaments", http.MethodPost, nil, false, http.StatusBadRequest, "body must not be empty"},
		{"not found", ``, "/tournaments/missing", http.MethodGet, nil, false, http.StatusNotFound, "tournament not found"},
		{"duplicate", `{"name":"Test Cup"}`, "/tournaments", http.MethodPost, services.ErrStandingExists, false, http.StatusBadRequest, services.ErrStandingExists.Error()},
		{"unauthorized", `{"name":"Test Cup"}`, "/tournaments", http.MethodPost, services.ErrInvalidToken, false, http.StatusUnauthorized, "invalid or expired token"},
		{"forbidden", `{"name":"Test Cup"}`, "/tournaments", http.MethodPost, services.ErrSelfModification, false, http.StatusForbidden, services.ErrSelfModification.Error()},
		{"internal", `{"name":"Test Cup"}`, "/tournaments", http.MethodPost, errors.New("connection reset"), false, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeTournamentService()
			svc.err = tt.svcErr
			router := tournamentRouter(NewTournamentHandler(testResponder(tt.development), svc))

			rec, body := doJSON(t, router, tt.method, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	router := tournamentRouter(NewTournamentHandler(testResponder(false), newFakeTournamentService()))
	_, body := doJSON(t, router, http.MethodPost, "/tournaments", `{"name":"ab","unknownField":true}`)
	details, ok := body["details"].(map[string]any)
	if !ok || details["name"] == nil {
		t.Errorf("details = %v, want a name entry", body["details"])
	}
}

func TestServerErrorDetailOnlyInDevelopment(t *testing.T) {
	for _, dev := range []bool{true, false} {
		svc := newFakeTournamentService()
		svc.err = errors.New("connection reset")
		router := tournamentRouter(NewTournamentHandler(testResponder(dev), svc))

		_, body := doJSON(t, router, http.MethodGet, "/tournaments/t-1", "")
		want := "Something went wrong"
		if dev {
			want = "connection reset"
		}
		if body["message"] != want {
			t.Errorf("development=%v: message = %v, want %q", dev, body["message"], want)
		}
	}
}

func TestBadQueryParameter(t *testing.T) {
	h := NewTournamentHandler(testResponder(false), newFakeTournamentService())
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/tournaments?page=first", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type fakeUploadService struct {
	gotName string
	gotBody []byte
	url     string
	delErr  error
}

func (s *fakeUploadService) UploadImage(ctx context.Context, name string, size int64, body io.Reader) (*services.UploadedImage, error) {
	if !strings.HasSuffix(name, ".png") {
		return nil, services.ErrInvalidFileType
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.gotName, s.gotBody = name, data
	return &services.UploadedImage{Filename: "1-abc.png", OriginalName: name, Size: size, URL: s.url}, nil
}

func (s *fakeUploadService) DeleteImage(ctx context.Context, filename string) error {
	return s.delErr
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Host = "api.example.com"
	return req
}

func TestUploadImage(t *testing.T) {
	svc := &fakeUploadService{url: "/uploads/1-abc.png"}
	h := NewUploadHandler(testResponder(false), svc)

	rec := httptest.NewRecorder()
	h.UploadImage(rec, multipartRequest(t, "image", "chips.png", []byte("png-bytes")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["imageUrl"] != "http://api.example.com/uploads/1-abc.png" {
		t.Errorf("imageUrl = %q", body["imageUrl"])
	}
	if body["filename"] != "1-abc.png" || body["message"] != "Image uploaded successfully" {
		t.Errorf("body = %v", body)
	}
	if svc.gotName != "chips.png" || string(svc.gotBody) != "png-bytes" {
		t.Errorf("service got %q / %q", svc.gotName, svc.gotBody)
	}
}

func TestUploadImageRejects(t *testing.T) {
	h := NewUploadHandler(testResponder(false), &fakeUploadService{url: "/uploads/x.png"})

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"wrong field", multipartRequest(t, "file", "chips.png", []byte("x"))},
		{"wrong type", multipartRequest(t, "image", "notes.txt", []byte("x"))},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/api/upload/image", strings.NewReader("{}"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.UploadImage(rec, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestDeleteImageNotFound(t *testing.T) {
	h := NewUploadHandler(testResponder(false), &fakeUploadService{delErr: services.ErrFileNotFound})
	r := chi.NewRouter()
	r.Delete("/image/{filename}", h.DeleteImage)

	rec, body := doJSON(t, r, http.MethodDelete, "/image/missing.png", "")
	if rec.Code != http.StatusNotFound || body["error"] != "Image not found" {
		t.Errorf("status = %d, body = %v", rec.Code, body)
	}
}

func TestAbsoluteURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Host = "cdn.local:8080"
	req.Header.Set("X-Forwarded-Proto", "https, http")

	if got := absoluteURL(req, "uploads/a.png"); got != "https://cdn.local:8080/uploads/a.png" {
		t.Errorf("relative = %q", got)
	}
	if got := absoluteURL(req, "https://pub.r2.dev/a.png"); got != "https://pub.r2.dev/a.png" {
		t.Errorf("absolute = %q", got)
	}
}
