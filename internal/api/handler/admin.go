package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kinetikids/motionhub/internal/api/request"
	"github.com/kinetikids/motionhub/internal/api/response"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/admin"
)

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	adminService *admin.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.adminService.ListProfiles(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, response.ProfileFromModel(p))
	}
	response.JSON(w, http.StatusOK, out)
}

// SetPermission handles PATCH /api/v1/admin/users/{user_id}/permissions
func (h *AdminHandler) SetPermission(w http.ResponseWriter, r *http.Request) {
	var req request.SetPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.EntryID == "" {
		WriteError(w, NewInvalidRequestError("entry_id is required"))
		return
	}

	userID := model.UserID(mux.Vars(r)["user_id"])
	updated, err := h.adminService.SetPermission(r.Context(), userID, model.EntryID(req.EntryID), req.Granted)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(updated))
}

// GiftCoins handles POST /api/v1/admin/users/{user_id}/coins
func (h *AdminHandler) GiftCoins(w http.ResponseWriter, r *http.Request) {
	var req request.GiftCoinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	userID := model.UserID(mux.Vars(r)["user_id"])
	updated, err := h.adminService.GiftCoins(r.Context(), userID, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(updated))
}
