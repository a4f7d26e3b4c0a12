// Package registry maps placement ids to rewarded ad slots.
// A Registry is created once per process and handed to every screen, so
// screens that use the same placement share one slot.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// Factory creates the slot for a placement on first use.
type Factory func(placementID string) *ads.Slot

// Entry describes a registered slot.
type Entry struct {
	PlacementID string
	State       ads.State
	ValidUntil  time.Time  // Zero unless State is loaded
	Ad          ads.AdInfo // Held ad, if any
}

// Registry holds one slot per placement. Entries are created lazily and
// live as long as the registry.
type Registry struct {
	factory Factory

	mu    sync.RWMutex
	slots map[string]*ads.Slot
}

// New creates an empty registry.
func New(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		slots:   make(map[string]*ads.Slot),
	}
}

// Get returns the slot for placementID, creating it if needed.
func (r *Registry) Get(placementID string) *ads.Slot {
	r.mu.RLock()
	slot, ok := r.slots[placementID]
	r.mu.RUnlock()
	if ok {
		return slot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another session may have created it between the locks
	if slot, ok := r.slots[placementID]; ok {
		return slot
	}
	slot = r.factory(placementID)
	r.slots[placementID] = slot
	return slot
}

// Lookup returns the slot for placementID without creating it.
func (r *Registry) Lookup(placementID string) (*ads.Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[placementID]
	return slot, ok
}

// List returns a snapshot of all slots, sorted by placement id.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	slots := make([]*ads.Slot, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	result := make([]Entry, 0, len(slots))
	for _, s := range slots {
		e := Entry{PlacementID: s.PlacementID(), State: s.State()}
		if until, ok := s.ValidUntil(); ok {
			e.ValidUntil = until
		}
		if info, ok := s.Loaded(); ok {
			e.Ad = info
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PlacementID < result[j].PlacementID
	})

	return result
}

// Len returns the number of registered slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
