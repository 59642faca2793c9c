package session

import (
	"errors"
	"io"
	"sync"
)

// closerStack releases resources in reverse acquisition order, exactly
// once.
type closerStack struct {
	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// Push registers a resource for teardown.
func (c *closerStack) Push(closer io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, closer)
}

// Close releases everything pushed so far, last first. Subsequent calls
// are no-ops.
func (c *closerStack) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
