package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotAttached     = errors.New("no profile attached")

	// Catalog errors
	ErrEntryNotFound   = errors.New("catalog entry not found")
	ErrEntryNotVisible = errors.New("catalog entry not accessible for this profile")
	ErrPhaseNotFound   = errors.New("phase not found")
	ErrPhaseLocked     = errors.New("phase is locked")

	// Session errors
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrSessionNotActive  = errors.New("no active play session")
	ErrNotAdmin          = errors.New("profile is not an admin")

	// Camera errors
	ErrCameraUnavailable = errors.New("camera acquisition failed")
	ErrNoStream          = errors.New("no active camera stream")

	// Admin errors
	ErrInvalidGiftAmount = errors.New("gift amount must be a positive number")
)
