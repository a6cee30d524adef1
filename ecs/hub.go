package ecs

import "weak"

type eventKind uint8

const (
	eventAdded eventKind = iota
	eventRemoved
)

// Listener is a FIFO queue of entities delivered by a Hub. It is polled by
// its owner, typically once per frame from a system's Update.
type Listener struct {
	queue  []Entity
	hub    *Hub
	typ    ComponentType
	kind   eventKind
	closed bool
}

// Poll drains and returns every queued entity in the order the events
// happened. It returns nil when nothing is pending and never blocks. A
// closed listener always returns nil.
func (l *Listener) Poll() []Entity {
	if len(l.queue) == 0 {
		return nil
	}
	events := l.queue
	l.queue = nil
	return events
}

// Pending returns the number of queued events.
func (l *Listener) Pending() int {
	return len(l.queue)
}

// Type returns the component type the listener watches.
func (l *Listener) Type() ComponentType {
	return l.typ
}

// Close detaches the listener from its hub and discards queued events.
// Listeners that are simply dropped are reclaimed by the garbage collector
// and pruned from the hub on a later notification.
func (l *Listener) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	l.hub.unregister(l)
}

type listenerSet map[ComponentType][]weak.Pointer[Listener]

// Hub fans out "component added" and "component removed" events to the
// listeners registered for each component type.
type Hub struct {
	added   listenerSet
	removed listenerSet
}

// NewHub creates a hub with no listeners.
func NewHub() *Hub {
	return &Hub{
		added:   make(listenerSet),
		removed: make(listenerSet),
	}
}

// RegisterForAdd creates a listener for attachments of type t.
func (h *Hub) RegisterForAdd(t ComponentType) *Listener {
	return h.register(t, eventAdded)
}

// RegisterForRemove creates a listener for detachments of type t.
func (h *Hub) RegisterForRemove(t ComponentType) *Listener {
	return h.register(t, eventRemoved)
}

// NotifyAdd queues e on every listener registered for additions of t.
// Without listeners this is a no-op.
func (h *Hub) NotifyAdd(t ComponentType, e Entity) {
	h.notify(h.added, t, e)
}

// NotifyRemove queues e on every listener registered for removals of t.
func (h *Hub) NotifyRemove(t ComponentType, e Entity) {
	h.notify(h.removed, t, e)
}

// ListenerCount returns the number of live add and remove listeners for t.
func (h *Hub) ListenerCount(t ComponentType) (added, removed int) {
	return liveCount(h.added[t]), liveCount(h.removed[t])
}

// watchedTypes returns every type with at least one registered listener of
// either kind, each type once.
func (h *Hub) watchedTypes() []ComponentType {
	types := make([]ComponentType, 0, len(h.added)+len(h.removed))
	for t := range h.added {
		types = append(types, t)
	}
	for t := range h.removed {
		if _, ok := h.added[t]; !ok {
			types = append(types, t)
		}
	}
	return types
}

func (h *Hub) set(kind eventKind) listenerSet {
	if kind == eventAdded {
		return h.added
	}
	return h.removed
}

func (h *Hub) register(t ComponentType, kind eventKind) *Listener {
	l := &Listener{hub: h, typ: t, kind: kind}
	set := h.set(kind)
	set[t] = append(set[t], weak.Make(l))
	return l
}

func (h *Hub) unregister(l *Listener) {
	set := h.set(l.kind)
	refs := set[l.typ][:0]
	for _, ref := range set[l.typ] {
		if v := ref.Value(); v != nil && v != l {
			refs = append(refs, ref)
		}
	}
	h.store(set, l.typ, refs)
}

func (h *Hub) notify(set listenerSet, t ComponentType, e Entity) {
	refs, ok := set[t]
	if !ok {
		return
	}

	live := refs[:0]
	for _, ref := range refs {
		l := ref.Value()
		if l == nil {
			continue
		}
		l.queue = append(l.queue, e)
		live = append(live, ref)
	}
	h.store(set, t, live)
}

func (h *Hub) store(set listenerSet, t ComponentType, refs []weak.Pointer[Listener]) {
	if len(refs) == 0 {
		delete(set, t)
		return
	}
	set[t] = refs
}

func liveCount(refs []weak.Pointer[Listener]) int {
	n := 0
	for _, ref := range refs {
		if ref.Value() != nil {
			n++
		}
	}
	return n
}
