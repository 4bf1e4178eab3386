package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kinetikids/motionhub/internal/api/response"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
)

// CatalogHandler handles catalog browsing endpoints
type CatalogHandler struct {
	catalog  *catalog.Service
	profiles *profile.Store
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Service, profiles *profile.Store) *CatalogHandler {
	return &CatalogHandler{
		catalog:  cat,
		profiles: profiles,
	}
}

// List handles GET /api/v1/catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	prof, err := h.profiles.Current()
	if err != nil {
		WriteError(w, err)
		return
	}

	entries := h.catalog.VisibleFor(prof)
	out := make([]response.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, response.CatalogEntryFromModel(entry))
	}
	response.JSON(w, http.StatusOK, out)
}

// Phases handles GET /api/v1/catalog/{entry_id}/phases
func (h *CatalogHandler) Phases(w http.ResponseWriter, r *http.Request) {
	prof, err := h.profiles.Current()
	if err != nil {
		WriteError(w, err)
		return
	}

	entryID := model.EntryID(mux.Vars(r)["entry_id"])
	entry, err := h.catalog.Get(entryID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !prof.CanAccess(entryID) {
		WriteError(w, model.ErrEntryNotVisible)
		return
	}

	phases := h.catalog.PhasesFor(entry, prof)
	out := make([]response.PhaseStatus, 0, len(phases))
	for _, ps := range phases {
		out = append(out, response.PhaseStatusFromModel(ps))
	}
	response.JSON(w, http.StatusOK, out)
}
