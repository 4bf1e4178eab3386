package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage"
)

// Service implements the maintenance operations exposed on the admin panel:
// listing player profiles, granting or revoking catalog entries, and gifting
// coins. All writes go through the storage merge path so attached watchers
// see the change immediately.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new AdminService
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "admin")),
	}
}

// ListProfiles returns every stored profile
func (s *Service) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	return s.storage.ListProfiles(ctx)
}

// SetPermission grants or revokes a catalog entry for a user
func (s *Service) SetPermission(ctx context.Context, userID model.UserID, entryID model.EntryID, granted bool) (*model.Profile, error) {
	current, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	permissions := make(map[model.EntryID]bool, len(current.Permissions)+1)
	for id, ok := range current.Permissions {
		permissions[id] = ok
	}
	permissions[entryID] = granted

	updated, err := s.storage.MergeProfile(ctx, userID, model.ProfilePatch{
		Permissions: permissions,
	})
	if err != nil {
		return nil, fmt.Errorf("setting permission: %w", err)
	}

	s.logger.Info("permission changed",
		slog.String("user_id", string(userID)),
		slog.String("entry_id", string(entryID)),
		slog.Bool("granted", granted),
	)
	return updated, nil
}

// GiftCoins adds coins to a user's balance. The amount must be positive; a
// zero or negative amount is rejected without touching storage.
func (s *Service) GiftCoins(ctx context.Context, userID model.UserID, amount int) (*model.Profile, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidGiftAmount, amount)
	}

	current, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	coins := current.Coins + amount
	updated, err := s.storage.MergeProfile(ctx, userID, model.ProfilePatch{
		Coins: &coins,
	})
	if err != nil {
		return nil, fmt.Errorf("gifting coins: %w", err)
	}

	s.logger.Info("coins gifted",
		slog.String("user_id", string(userID)),
		slog.Int("amount", amount),
		slog.Int("balance", updated.Coins),
	)
	return updated, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	SetPermission(ctx context.Context, userID model.UserID, entryID model.EntryID, granted bool) (*model.Profile, error)
	GiftCoins(ctx context.Context, userID model.UserID, amount int) (*model.Profile, error)
}

var _ ServiceInterface = (*Service)(nil)
