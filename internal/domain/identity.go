package domain

import "fmt"

// IdentityMap records source-side identifiers against sink-assigned ones for
// a single entity type. It is built during the load phase, scoped to one
// pipeline run, and never persisted. Entries are append-only and 1:1.
type IdentityMap struct {
	entity string
	ids    map[string]int64
}

// NewIdentityMap returns an empty map for the named entity type
// ("customer", "product"). The name only appears in error messages.
func NewIdentityMap(entity string) *IdentityMap {
	return &IdentityMap{entity: entity, ids: make(map[string]int64)}
}

// Add records sourceID -> sinkID. Remapping an already-mapped source id
// violates the 1:1 invariant and returns an error.
func (m *IdentityMap) Add(sourceID string, sinkID int64) error {
	if prev, ok := m.ids[sourceID]; ok {
		return fmt.Errorf("%s identity map: source id %q already mapped to %d", m.entity, sourceID, prev)
	}
	m.ids[sourceID] = sinkID
	return nil
}

// Lookup returns the sink id for sourceID, if mapped.
func (m *IdentityMap) Lookup(sourceID string) (int64, bool) {
	id, ok := m.ids[sourceID]
	return id, ok
}

// Len reports the number of mapped identifiers.
func (m *IdentityMap) Len() int { return len(m.ids) }
