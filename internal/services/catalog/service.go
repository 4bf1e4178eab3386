package catalog

import (
	"log/slog"
	"sync"

	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
)

// Service is the mutable registry of playable units. Entries keep their
// registration order; re-registering an id replaces the whole entry in place.
type Service struct {
	logger *slog.Logger

	mu      sync.RWMutex
	order   []model.EntryID
	entries map[model.EntryID]*model.CatalogEntry
	units   map[model.EntryID]games.Unit

	listeners []func()
}

// New creates a new catalog service
func New(logger *slog.Logger) *Service {
	return &Service{
		logger:  logger.With(slog.String("component", "catalog")),
		entries: make(map[model.EntryID]*model.CatalogEntry),
		units:   make(map[model.EntryID]games.Unit),
	}
}

// Register upserts an entry by id. An existing id is replaced wholesale and
// keeps its original position; a new id is appended. Consumers are notified
// on every registration.
func (s *Service) Register(id model.EntryID, title, icon string, unit games.Unit, opts model.EntryOptions) {
	entry := &model.CatalogEntry{
		ID:      id,
		Title:   title,
		Icon:    icon,
		Options: opts,
	}

	s.mu.Lock()
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = entry
	s.units[id] = unit
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Info("catalog entry registered",
		slog.String("entry_id", string(id)),
		slog.String("title", title),
		slog.String("camera", string(opts.Camera)),
	)

	for _, notify := range listeners {
		notify()
	}
}

// Get returns the entry with the given id
func (s *Service) Get(id model.EntryID) (*model.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

// Unit returns the play-logic unit registered for an entry
func (s *Service) Unit(id model.EntryID) (games.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unit, ok := s.units[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return unit, nil
}

// EntryIDs returns all registered ids in registration order
func (s *Service) EntryIDs() []model.EntryID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.EntryID, len(s.order))
	copy(ids, s.order)
	return ids
}

// VisibleFor returns the entries the profile may access, in registration
// order. Admin profiles see every entry regardless of their permission set.
func (s *Service) VisibleFor(profile *model.Profile) []*model.CatalogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]*model.CatalogEntry, 0, len(s.order))
	for _, id := range s.order {
		if profile.CanAccess(id) {
			visible = append(visible, s.entries[id])
		}
	}
	return visible
}

// PhasesFor returns the entry's phases with their unlock state for the
// profile. Entries that declare no phases get exactly one default phase so
// every visible entry stays playable.
func (s *Service) PhasesFor(entry *model.CatalogEntry, profile *model.Profile) []model.PhaseStatus {
	phases := entry.Options.Phases
	if len(phases) == 0 {
		phases = []model.Phase{model.DefaultPhase()}
	}

	statuses := make([]model.PhaseStatus, len(phases))
	for i, phase := range phases {
		statuses[i] = model.PhaseStatus{
			Phase:    phase,
			Unlocked: profile.Level >= phase.RequiredLevel,
		}
	}
	return statuses
}

// OnChange registers a callback invoked after every registration
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Interface for dependency injection
type ServiceInterface interface {
	Register(id model.EntryID, title, icon string, unit games.Unit, opts model.EntryOptions)
	Get(id model.EntryID) (*model.CatalogEntry, error)
	Unit(id model.EntryID) (games.Unit, error)
	EntryIDs() []model.EntryID
	VisibleFor(profile *model.Profile) []*model.CatalogEntry
	PhasesFor(entry *model.CatalogEntry, profile *model.Profile) []model.PhaseStatus
	OnChange(fn func())
}

var _ ServiceInterface = (*Service)(nil)
