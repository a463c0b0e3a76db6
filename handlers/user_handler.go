package handlers

import (
	"net/http"

	"github.com/Dosada05/poker-dream-api/middleware"
	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/services"
)

// AdminUserHandler manages accounts; mounted for SUPER_ADMIN only.
type AdminUserHandler struct {
	*Responder
	adminUserService services.AdminUserService
}

func NewAdminUserHandler(resp *Responder, s services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{Responder: resp, adminUserService: s}
}

func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	filter := models.UserFilter{
		Search:   r.URL.Query().Get("search"),
		IsActive: isActive,
		Page:     page,
		Limit:    limit,
	}
	if role := queryString(r, "role"); role != nil {
		ur := models.UserRole(*role)
		filter.Role = &ur
	}

	res, err := h.adminUserService.ListUsers(r.Context(), filter)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, res)
}

func (h *AdminUserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminUserService.GetUser(r.Context(), urlParam(r, "id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"data": user})
}

func (h *AdminUserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.errorResponse(w, r, http.StatusUnauthorized, jsonResponse{"error": "authentication required"})
		return
	}
	var input services.UserUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.adminUserService.UpdateUser(r.Context(), actorID, urlParam(r, "id"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "User updated successfully", "data": user})
}

func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.errorResponse(w, r, http.StatusUnauthorized, jsonResponse{"error": "authentication required"})
		return
	}
	if err := h.adminUserService.DeleteUser(r.Context(), actorID, urlParam(r, "id")); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "User deleted successfully"})
}
