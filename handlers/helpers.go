package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/poker-dream-api/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576

// Responder writes JSON responses and turns service errors into HTTP errors.
// Every handler embeds it.
type Responder struct {
	Logger *slog.Logger
	// Development exposes internal error text in 500 responses.
	Development bool
}

func NewResponder(logger *slog.Logger, development bool) *Responder {
	return &Responder{Logger: logger, Development: development}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (h *Responder) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		h.Logger.Error("failed to write response", h.requestAttrs(r, slog.Any("error", err))...)
	}
}

func (h *Responder) requestAttrs(r *http.Request, extra ...any) []any {
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
	}
	return append(attrs, extra...)
}

func (h *Responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, env jsonResponse) {
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.Logger.Log(r.Context(), level, "request failed", h.requestAttrs(r, slog.Int("status", status), slog.Any("error", env["error"]))...)
	h.respond(w, r, status, env)
}

func (h *Responder) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Error("internal server error", h.requestAttrs(r, slog.Any("error", err))...)
	env := jsonResponse{"error": "Internal server error"}
	if h.Development {
		env["message"] = err.Error()
	} else {
		env["message"] = "Something went wrong"
	}
	h.respond(w, r, http.StatusInternalServerError, env)
}

func (h *Responder) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, jsonResponse{"error": err.Error()})
}

func (h *Responder) failedValidationResponse(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	h.errorResponse(w, r, http.StatusBadRequest, jsonResponse{"error": "Validation error", "details": fields})
}

func (h *Responder) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	h.errorResponse(w, r, http.StatusNotFound, jsonResponse{"error": message})
}

// mapServiceErrorToHTTP выбирает статус по категории ошибки сервиса.
func (h *Responder) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		h.failedValidationResponse(w, r, ve.Fields)
	case errors.Is(err, services.ErrNotFound):
		h.notFoundResponse(w, r, err.Error())
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrBadRequest),
		errors.Is(err, services.ErrValidationFailed):
		h.badRequestResponse(w, r, err)
	case errors.Is(err, services.ErrUnauthorized):
		h.errorResponse(w, r, http.StatusUnauthorized, jsonResponse{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		h.errorResponse(w, r, http.StatusForbidden, jsonResponse{"error": err.Error()})
	default:
		h.serverErrorResponse(w, r, err)
	}
}

// Хелперы для query-параметров. Пустое значение означает "не задано".

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s query parameter", key)
	}
	return v, nil
}

func queryIntPtr(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s query parameter", key)
	}
	return &v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s query parameter", key)
	}
	return &v, nil
}

func queryString(r *http.Request, key string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// pageParams reads page and limit; a non-numeric value is a bad request.
func pageParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
