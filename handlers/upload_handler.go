package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/poker-dream-api/services"
)

// Запас сверх лимита файла на заголовки multipart.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	*Responder
	uploadService services.UploadService
}

func NewUploadHandler(resp *Responder, us services.UploadService) *UploadHandler {
	return &UploadHandler{Responder: resp, uploadService: us}
}

// UploadImage godoc
// @Summary      Upload an image
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Image file (jpg, jpeg, png, gif, webp; max 10MB)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /upload/image [post]
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(services.MaxImageSize); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			h.mapServiceErrorToHTTP(w, r, services.ErrFileTooLarge)
			return
		}
		h.badRequestResponse(w, r, errors.New("No file uploaded"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("No file uploaded"))
		return
	}
	defer file.Close()

	image, err := h.uploadService.UploadImage(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, jsonResponse{
		"message":  "Image uploaded successfully",
		"imageUrl": absoluteURL(r, image.URL),
		"filename": image.Filename,
	})
}

func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.uploadService.DeleteImage(r.Context(), urlParam(r, "filename")); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			h.notFoundResponse(w, r, "Image not found")
			return
		}
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Image deleted successfully"})
}

// absoluteURL prefixes a host-relative storage URL with the request's scheme and host.
func absoluteURL(r *http.Request, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return scheme + "://" + r.Host + u
}
