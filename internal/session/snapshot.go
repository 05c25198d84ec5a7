package session

import (
	"bytes"
	"sync/atomic"

	"github.com/frahmantamala/navguard/internal/access"
)

// Snapshot is one immutable view of a session's grant set. Grants is nil
// while nothing valid has been loaded.
type Snapshot struct {
	Version uint64
	Grants  *access.GrantSet
}

func (s Snapshot) Loaded() bool {
	return s.Grants != nil
}

// SameGrants reports whether both snapshots hold the same grant set in
// persisted form, whatever their versions.
func (s Snapshot) SameGrants(other Snapshot) bool {
	if !s.Loaded() || !other.Loaded() {
		return s.Loaded() == other.Loaded()
	}
	a, errA := Encode(*s.Grants)
	b, errB := Encode(*other.Grants)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// Holder publishes snapshots by swapping whole values. Readers never observe
// a partially updated grant set and versions only ever increase.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(&Snapshot{})
	return h
}

func (h *Holder) Current() Snapshot {
	return *h.current.Load()
}

func (h *Holder) Replace(grants access.GrantSet) Snapshot {
	return h.swap(&grants)
}

// Invalidate drops the grant set, for example on logout.
func (h *Holder) Invalidate() Snapshot {
	return h.swap(nil)
}

func (h *Holder) swap(grants *access.GrantSet) Snapshot {
	for {
		prev := h.current.Load()
		next := &Snapshot{Version: prev.Version + 1, Grants: grants}
		if h.current.CompareAndSwap(prev, next) {
			return *next
		}
	}
}
