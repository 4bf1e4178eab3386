package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kinetikids/motionhub/internal/api/request"
	"github.com/kinetikids/motionhub/internal/api/response"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/session"
)

// SessionHandler exposes the orchestrator state machine over HTTP
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	response.JSON(w, http.StatusOK, response.SessionSnapshotFromController(snap))
}

// SelectEntry handles POST /api/v1/session/entry
func (h *SessionHandler) SelectEntry(w http.ResponseWriter, r *http.Request) {
	var req request.SelectEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.EntryID == "" {
		WriteError(w, NewInvalidRequestError("entry_id is required"))
		return
	}

	if err := h.controller.SelectEntry(model.EntryID(req.EntryID)); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// SelectPhase handles POST /api/v1/session/phase
func (h *SessionHandler) SelectPhase(w http.ResponseWriter, r *http.Request) {
	var req request.SelectPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PhaseID == "" {
		WriteError(w, NewInvalidRequestError("phase_id is required"))
		return
	}

	if err := h.controller.SelectPhase(r.Context(), model.PhaseID(req.PhaseID)); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// Finish handles POST /api/v1/session/finish
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req request.FinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Score < 0 {
		WriteError(w, NewInvalidRequestError("score must not be negative"))
		return
	}
	if req.BonusCoins < 0 {
		WriteError(w, NewInvalidRequestError("bonus_coins must not be negative"))
		return
	}

	if err := h.controller.Finish(r.Context(), req.Score, req.Win, req.BonusCoins); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// Dismiss handles POST /api/v1/session/dismiss
func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Dismiss(); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// Abort handles POST /api/v1/session/abort
func (h *SessionHandler) Abort(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Abort(); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// EnterAdmin handles POST /api/v1/session/admin
func (h *SessionHandler) EnterAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.EnterAdmin(); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

// ExitAdmin handles DELETE /api/v1/session/admin
func (h *SessionHandler) ExitAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ExitAdmin(); err != nil {
		WriteError(w, err)
		return
	}
	h.writeSnapshot(w)
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter) {
	snap := h.controller.Snapshot()
	response.JSON(w, http.StatusOK, response.SessionSnapshotFromController(snap))
}
