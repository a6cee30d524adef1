package ecs

import "errors"

// Commands buffers structural changes so that systems can decide on them
// while iterating over the store and apply them once iteration is over.
type Commands struct {
	removes  []Entity
	detaches []detachCommand
	attaches []attachCommand
	defers   []func()
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type detachCommand struct {
	entity   Entity
	compType ComponentType
}

type attachCommand struct {
	entity Entity
	apply  func(*Store) error
}

// QueueAttach queues Attach(s, e, value) for the next Flush.
func QueueAttach[T any](c *Commands, e Entity, value T) {
	c.attaches = append(c.attaches, attachCommand{
		entity: e,
		apply: func(s *Store) error {
			return Attach(s, e, value)
		},
	})
}

// QueueDetach queues Detach[T](s, e) for the next Flush.
func QueueDetach[T any](c *Commands, e Entity) {
	c.detaches = append(c.detaches, detachCommand{
		entity:   e,
		compType: TypeOf[T](),
	})
}

// RemoveEntity queues an entity removal.
func (c *Commands) RemoveEntity(e Entity) {
	c.removes = append(c.removes, e)
}

// Defer queues a function to run after every structural change is applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.removes) + len(c.detaches) + len(c.attaches) + len(c.defers)
}

// Flush applies queued operations to the store in the order removals,
// detachments, attachments, deferred functions, and resets the buffer.
// Operations queued while flushing, from a deferred function for example,
// are kept for the next Flush.
// Detach and attach operations on entities removed by the same flush are
// skipped. Every operation runs even if an earlier one fails; the failures
// are joined into the returned error.
func (c *Commands) Flush(s *Store) error {
	removes, detaches, attaches, defers := c.removes, c.detaches, c.attaches, c.defers
	c.removes, c.detaches, c.attaches, c.defers = nil, nil, nil, nil

	var errs []error
	removed := make(map[Entity]bool, len(removes))

	for _, e := range removes {
		if removed[e] {
			continue
		}
		if err := s.RemoveEntity(e); err != nil {
			errs = append(errs, err)
		}
		removed[e] = true
	}

	for _, cmd := range detaches {
		if removed[cmd.entity] {
			continue
		}
		if err := s.detach(cmd.entity, cmd.compType); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range attaches {
		if removed[cmd.entity] {
			continue
		}
		if err := cmd.apply(s); err != nil {
			errs = append(errs, err)
		}
	}

	for _, fn := range defers {
		fn()
	}

	if c.Len() == 0 {
		clear(attaches)
		clear(defers)
		c.removes, c.detaches = removes[:0], detaches[:0]
		c.attaches, c.defers = attaches[:0], defers[:0]
	}

	return errors.Join(errs...)
}
