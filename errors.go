package ringbench

import (
	"errors"
	"fmt"
)

// AllocationError indicates the pool's backing memory could not be reserved.
// Fatal before the ring starts.
type AllocationError struct {
	Contexts int // requested slot count
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("ringbench: cannot allocate context pool for %d slots (want 2 to %d)",
		e.Contexts, maxContexts)
}

// ContextInitError indicates a single slot could not capture its initial
// execution state. Fatal before the ring starts; already-initialized slots
// are still released.
type ContextInitError struct {
	Slot   int
	Reason string
}

func (e *ContextInitError) Error() string {
	return fmt.Sprintf("ringbench: slot %d init failed: %s", e.Slot, e.Reason)
}

// HandoffError indicates the resume primitive failed mid-run. Fatal: the run
// aborts, the pool is bulk-released, and no corruption report is produced.
type HandoffError struct {
	From   int // handing slot, -1 for the outer context
	To     int
	Reason string
}

func (e *HandoffError) Error() string {
	return fmt.Sprintf("ringbench: handoff %d -> %d failed: %s", e.From, e.To, e.Reason)
}

// errReleased signals a fiber woken by pool release rather than by a handoff.
var errReleased = errors.New("ringbench: pool released")
