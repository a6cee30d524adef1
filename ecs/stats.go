package ecs

import (
	"slices"
	"strings"
)

// StoreStats is a snapshot of a store's size and subscriptions.
type StoreStats struct {
	EntityCount int
	SlotCount   int
	NextEntity  Entity
	NextSlot    Slot
	Types       []TypeStats
}

// TypeStats describes one component type known to the store.
type TypeStats struct {
	Name            string
	Type            ComponentType
	Holders         int
	Stored          int
	AddListeners    int
	RemoveListeners int
}

// CollectStats gathers a snapshot of the store. Types are sorted by name.
func (s *Store) CollectStats() StoreStats {
	stats := StoreStats{
		EntityCount: s.entities.Len(),
		SlotCount:   len(s.pool),
		NextEntity:  s.nextEntity,
		NextSlot:    s.nextSlot,
		Types:       make([]TypeStats, 0, len(s.types)),
	}

	for t, index := range s.types {
		ts := TypeStats{
			Name:    t.String(),
			Type:    t,
			Holders: index.Len(),
		}
		if a, ok := s.arenas[t]; ok {
			ts.Stored = a.live()
		}
		ts.AddListeners, ts.RemoveListeners = s.hub.ListenerCount(t)
		stats.Types = append(stats.Types, ts)
	}

	// Subscriptions can exist for types the store has never held.
	for _, t := range s.hub.watchedTypes() {
		if _, ok := s.types[t]; ok {
			continue
		}
		added, removed := s.hub.ListenerCount(t)
		if added+removed == 0 {
			continue
		}
		stats.Types = append(stats.Types, TypeStats{
			Name:            t.String(),
			Type:            t,
			AddListeners:    added,
			RemoveListeners: removed,
		})
	}

	slices.SortFunc(stats.Types, func(a, b TypeStats) int {
		return strings.Compare(a.Name, b.Name)
	})
	return stats
}
