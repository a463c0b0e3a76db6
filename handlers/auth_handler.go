package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/middleware"
	"github.com/Dosada05/poker-dream-api/services"
)

type AuthHandler struct {
	*Responder
	authService services.AuthService
}

func NewAuthHandler(resp *Responder, as services.AuthService) *AuthHandler {
	return &AuthHandler{Responder: resp, authService: as}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body services.RegisterInput true "Account"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, jsonResponse{"message": "User registered successfully", "data": result})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body services.LoginInput true "Credentials"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Login successful", "data": result})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	result, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Token refreshed successfully", "data": result})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.errorResponse(w, r, http.StatusUnauthorized, jsonResponse{"error": "authentication required"})
		return
	}
	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": user})
}

// Logout ничего не хранит на сервере: клиент просто забывает токены.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Logout successful"})
}
