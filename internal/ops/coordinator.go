package ops

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"file-categorizer/internal/logging"
)

// ErrAlreadyActive is returned when a second operation of the same kind
// is started while one is in flight. Requests are rejected, not queued.
var ErrAlreadyActive = errors.New("operation already in progress")

// Coordinator runs at most one background operation of its kind at a
// time. The snapshot is written only by the active worker and read by
// arbitrarily many observers through an atomic value swap.
type Coordinator struct {
	kind string

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc

	snapshot atomic.Value // Snapshot
}

// NewCoordinator creates a coordinator for one operation kind
// ("scan" or "cleanup").
func NewCoordinator(kind string) *Coordinator {
	c := &Coordinator{kind: kind}
	c.snapshot.Store(Snapshot{Status: StatusIdle})
	return c
}

// Kind returns the operation kind this coordinator owns.
func (c *Coordinator) Kind() string { return c.kind }

// Start launches run on a background goroutine. The check-and-set on
// the active flag is atomic: a concurrent second Start gets
// ErrAlreadyActive and the running operation's snapshot is untouched.
func (c *Coordinator) Start(run func(ctx context.Context)) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.active = true
	c.cancel = cancel
	c.mu.Unlock()

	logging.Info("Starting %s operation", c.kind)

	go func() {
		defer func() {
			cancel()
			c.mu.Lock()
			c.active = false
			c.cancel = nil
			c.mu.Unlock()
		}()
		run(ctx)
	}()

	return nil
}

// Cancel requests cooperative cancellation of the active operation and
// reports whether one was active. The worker observes the cancellation
// at its next entry or batch boundary.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.cancel == nil {
		return false
	}
	logging.Info("Cancellation requested for %s operation", c.kind)
	c.cancel()
	return true
}

// Active reports whether an operation is currently in flight.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Snapshot returns the most recently published progress snapshot.
func (c *Coordinator) Snapshot() Snapshot {
	return c.snapshot.Load().(Snapshot)
}

// publish atomically replaces the snapshot. Only the active worker
// calls this.
func (c *Coordinator) publish(s Snapshot) {
	c.snapshot.Store(s.clone())
}
