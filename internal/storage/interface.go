package storage

import (
	"context"

	"github.com/kinetikids/motionhub/internal/model"
)

// Storage defines the interface to the profile store. It mirrors the remote
// document service the kiosk depends on: full overwrite, read-once, shallow
// merge update, and subscribe-on-change.
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id model.UserID) (*model.Profile, error)
	MergeProfile(ctx context.Context, id model.UserID, patch model.ProfilePatch) (*model.Profile, error)
	DeleteProfile(ctx context.Context, id model.UserID) error
	ListProfiles(ctx context.Context) ([]*model.Profile, error)

	// WatchProfile opens a live subscription to a profile record. Every write
	// (save or merge) emits a full snapshot. The returned channel is closed
	// when ctx is cancelled or the profile is deleted.
	WatchProfile(ctx context.Context, id model.UserID) (<-chan *model.Profile, error)

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error)
}
