package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kinetikids/motionhub/internal/api/middleware"
	"github.com/kinetikids/motionhub/internal/api/request"
	"github.com/kinetikids/motionhub/internal/api/response"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/auth"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/services/session"
)

// UserHandler handles authentication and profile endpoints. Sign-in attaches
// the profile to the kiosk and advances the orchestrator past the auth
// screen; sign-out detaches it and returns there.
type UserHandler struct {
	authService *auth.Service
	profiles    *profile.Store
	controller  *session.Controller
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, profiles *profile.Store, controller *session.Controller) *UserHandler {
	return &UserHandler{
		authService: authService,
		profiles:    profiles,
		controller:  controller,
	}
}

// Register handles POST /api/v1/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	sess, err := h.authService.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	prof, err := h.attachAndEnter(r, sess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(sess, prof))
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	sess, err := h.authService.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	prof, err := h.attachAndEnter(r, sess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(sess, prof))
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	h.controller.SignedOut()
	h.profiles.Detach()
	h.authService.SignOut(sess.Token)

	response.NoContent(w)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	prof, err := h.profiles.Current()
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(prof))
}

// attachAndEnter binds the signed-in user's profile to the kiosk and moves
// the orchestrator to the menu. A kiosk serves one player at a time; a new
// sign-in replaces the previous attachment.
func (h *UserHandler) attachAndEnter(r *http.Request, sess *auth.Session) (*model.Profile, error) {
	if err := h.profiles.Attach(r.Context(), sess.UserID); err != nil {
		return nil, err
	}
	h.controller.SignedIn()

	prof, err := h.profiles.Current()
	if err != nil && !errors.Is(err, model.ErrNotAttached) {
		return nil, err
	}
	return prof, nil
}
