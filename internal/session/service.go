package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/core/events"
)

type ServiceAPI interface {
	Get(ctx context.Context, sessionID string) (access.GrantSet, error)
	Replace(ctx context.Context, sessionID string, raw []byte) (access.GrantSet, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// Service owns writes to the persisted grant sets. Every change is a whole
// replacement followed by an event so in-process guards can swap snapshots.
type Service struct {
	store  Store
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(store Store, bus *events.EventBus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Get returns the stored grant set. It returns ErrNotFound when the session
// has none and ErrMalformedGrantSet when the stored value no longer decodes.
func (s *Service) Get(ctx context.Context, sessionID string) (access.GrantSet, error) {
	raw, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return access.GrantSet{}, err
	}
	return Decode(raw)
}

func (s *Service) Replace(ctx context.Context, sessionID string, raw []byte) (access.GrantSet, error) {
	grants, err := Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "rejected grant set", "session_id", sessionID, "error", err)
		return access.GrantSet{}, err
	}

	encoded, err := Encode(grants)
	if err != nil {
		return access.GrantSet{}, fmt.Errorf("encode grant set: %w", err)
	}
	if err := s.store.Save(ctx, sessionID, encoded); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist grant set", "session_id", sessionID, "error", err)
		return access.GrantSet{}, fmt.Errorf("save grant set: %w", err)
	}

	s.logger.InfoContext(ctx, "grant set replaced",
		"session_id", sessionID,
		"roles", len(grants.Roles),
		"privileges", len(grants.Privileges),
		"superadmin", grants.IsSuperAdmin())

	if s.bus != nil {
		if err := s.bus.PublishSync(ctx, events.NewGrantsReplacedEvent(sessionID, grants)); err != nil {
			return grants, err
		}
	}
	return grants, nil
}

func (s *Service) Invalidate(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete grant set", "session_id", sessionID, "error", err)
		return fmt.Errorf("delete grant set: %w", err)
	}

	s.logger.InfoContext(ctx, "grant set invalidated", "session_id", sessionID)
	if s.bus != nil {
		return s.bus.PublishSync(ctx, events.NewGrantsInvalidatedEvent(sessionID))
	}
	return nil
}
