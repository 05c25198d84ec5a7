package events

import (
	"time"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/google/uuid"
)

const (
	EventTypeGrantsReplaced    = "grants.replaced"
	EventTypeGrantsInvalidated = "grants.invalidated"
	EventTypeGuardRedirected   = "guard.redirected"
)

func newBase(eventType, sessionID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// GrantsReplacedEvent carries the whole new grant set; there are no partial updates.
type GrantsReplacedEvent struct {
	BaseEvent
	Grants access.GrantSet `json:"grants"`
}

func NewGrantsReplacedEvent(sessionID string, grants access.GrantSet) *GrantsReplacedEvent {
	return &GrantsReplacedEvent{
		BaseEvent: newBase(EventTypeGrantsReplaced, sessionID),
		Grants:    grants,
	}
}

func (e *GrantsReplacedEvent) Payload() interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"roles":      len(e.Grants.Roles),
		"privileges": len(e.Grants.Privileges),
	}
}

type GrantsInvalidatedEvent struct {
	BaseEvent
}

func NewGrantsInvalidatedEvent(sessionID string) *GrantsInvalidatedEvent {
	return &GrantsInvalidatedEvent{BaseEvent: newBase(EventTypeGrantsInvalidated, sessionID)}
}

type GuardRedirectedEvent struct {
	BaseEvent
	From   string `json:"from"`
	Target string `json:"target"`
	Denied bool   `json:"denied"`
}

func NewGuardRedirectedEvent(sessionID, from, target string, denied bool) *GuardRedirectedEvent {
	return &GuardRedirectedEvent{
		BaseEvent: newBase(EventTypeGuardRedirected, sessionID),
		From:      from,
		Target:    target,
		Denied:    denied,
	}
}

func (e *GuardRedirectedEvent) Payload() interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"from":       e.From,
		"target":     e.Target,
		"denied":     e.Denied,
	}
}
