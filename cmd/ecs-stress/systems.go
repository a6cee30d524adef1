package main

import (
	"math/rand/v2"

	"github.com/plus3/entstore/ecs"
)

// OpCounts tallies the structural operations the churn system performed.
type OpCounts struct {
	Creates           int64
	Attaches          int64
	Detaches          int64
	Removes           int64
	RemovedComponents int64
	Skipped           int64
}

// ChurnSystem applies OpsPerFrame random structural operations every frame:
// entity creation, attachment (including replacement), detachment and
// entity removal. Removals are queued and applied at the end of the frame.
type ChurnSystem struct {
	Rand        *rand.Rand
	Kinds       []componentKind
	OpsPerFrame int
	// Target is the population the churn steers towards.
	Target int

	live     []ecs.Entity
	commands *ecs.Commands
	counts   OpCounts
}

func (c *ChurnSystem) Initialize(store *ecs.Store) error {
	c.commands = ecs.NewCommands()
	for e := range store.EachEntity() {
		c.live = append(c.live, e)
	}
	return nil
}

// Populate creates n entities holding one to five random components each.
func (c *ChurnSystem) Populate(store *ecs.Store, n int) error {
	for i := 0; i < n; i++ {
		if err := c.create(store, c.Rand.IntN(5)+1); err != nil {
			return err
		}
	}
	return nil
}

func (c *ChurnSystem) Update(dt float64, store *ecs.Store) error {
	for i := 0; i < c.OpsPerFrame; i++ {
		if err := c.step(store); err != nil {
			return err
		}
	}
	return c.commands.Flush(store)
}

func (c *ChurnSystem) step(store *ecs.Store) error {
	roll := c.Rand.IntN(100)
	if len(c.live) == 0 || (len(c.live) < c.Target/2 && roll < 50) {
		return c.create(store, c.Rand.IntN(3)+1)
	}

	idx := c.Rand.IntN(len(c.live))
	e := c.live[idx]
	kind := c.Kinds[c.Rand.IntN(len(c.Kinds))]

	switch {
	case roll < 20:
		return c.create(store, c.Rand.IntN(3)+1)
	case roll < 55:
		if err := kind.attach(store, e, c.Rand); err != nil {
			return err
		}
		c.counts.Attaches++
	case roll < 80:
		if !kind.has(store, e) {
			c.counts.Skipped++
			return nil
		}
		if err := kind.detach(store, e); err != nil {
			return err
		}
		c.counts.Detaches++
	default:
		types, err := store.ComponentTypes(e)
		if err != nil {
			return err
		}
		c.commands.RemoveEntity(e)
		c.live[idx] = c.live[len(c.live)-1]
		c.live = c.live[:len(c.live)-1]
		c.counts.Removes++
		c.counts.RemovedComponents += int64(len(types))
	}
	return nil
}

func (c *ChurnSystem) create(store *ecs.Store, components int) error {
	e := store.CreateEntity()
	c.live = append(c.live, e)
	c.counts.Creates++
	for i := 0; i < components; i++ {
		kind := c.Kinds[c.Rand.IntN(len(c.Kinds))]
		if err := kind.attach(store, e, c.Rand); err != nil {
			return err
		}
		c.counts.Attaches++
	}
	return nil
}

// Counts returns the operations performed so far.
func (c *ChurnSystem) Counts() OpCounts {
	return c.counts
}

// Live returns the number of entities the churn believes exist.
func (c *ChurnSystem) Live() int {
	return len(c.live)
}

// MutateSystem writes to every component of every kind once per frame.
type MutateSystem struct {
	Kinds []componentKind

	touched int64
}

func (m *MutateSystem) Initialize(store *ecs.Store) error {
	return nil
}

func (m *MutateSystem) Update(dt float64, store *ecs.Store) error {
	for _, kind := range m.Kinds {
		m.touched += int64(kind.touch(store))
	}
	return nil
}

// Touched returns the number of component writes so far.
func (m *MutateSystem) Touched() int64 {
	return m.touched
}

// EventCounts tallies notifications delivered per component type.
type EventCounts struct {
	Name    string
	Added   int64
	Removed int64
}

// ObserverSystem subscribes to the add and remove notifications of every
// kind and drains them once per frame.
type ObserverSystem struct {
	Kinds []componentKind

	added   []*ecs.Listener
	removed []*ecs.Listener
	counts  []EventCounts
}

func (o *ObserverSystem) Initialize(store *ecs.Store) error {
	o.added = make([]*ecs.Listener, len(o.Kinds))
	o.removed = make([]*ecs.Listener, len(o.Kinds))
	o.counts = make([]EventCounts, len(o.Kinds))
	for i, kind := range o.Kinds {
		o.added[i] = kind.add(store)
		o.removed[i] = kind.remove(store)
		o.counts[i].Name = kind.name
	}
	return nil
}

func (o *ObserverSystem) Update(dt float64, store *ecs.Store) error {
	o.Drain()
	return nil
}

// Drain polls every listener without waiting for the next frame.
func (o *ObserverSystem) Drain() {
	for i := range o.Kinds {
		o.counts[i].Added += int64(len(o.added[i].Poll()))
		o.counts[i].Removed += int64(len(o.removed[i].Poll()))
	}
}

// Counts returns the per-type event totals.
func (o *ObserverSystem) Counts() []EventCounts {
	return o.counts
}

// Totals sums the event counts over every type.
func (o *ObserverSystem) Totals() (added, removed int64) {
	for _, c := range o.counts {
		added += c.Added
		removed += c.Removed
	}
	return added, removed
}
