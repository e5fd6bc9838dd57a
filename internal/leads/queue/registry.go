package queue

import (
	"sync"

	"leadqueue_backend/platform/apperr"
)

// Factory builds the controller for an operator.
type Factory func(operator string) *Controller

// Registry holds one controller per authenticated operator.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     Factory
}

// NewRegistry returns an empty registry creating controllers with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		factory:     factory,
	}
}

// Get returns the operator's controller, creating it on first use. The
// second return value reports whether it was just created.
func (r *Registry) Get(operator string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[operator]; ok {
		return c, false
	}
	c := r.factory(operator)
	r.controllers[operator] = c
	return c, true
}

// Close discards the operator's queue. While unsaved edits exist it refuses
// with a conflict unless force is set.
func (r *Registry) Close(operator string, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[operator]
	if !ok {
		return nil
	}
	if !c.RequestLeave(func() bool { return force }) {
		return apperr.Conflict("unsaved edits would be discarded").
			WithOp("queue.Close").
			WithDetails(map[string]bool{"hasUnsavedEdits": true})
	}
	delete(r.controllers, operator)
	return nil
}

// Len returns the number of open queues.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
