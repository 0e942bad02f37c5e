package ringbench

import "sync/atomic"

// SlotState tracks a slot through its lifecycle. Init happens once, Retired
// is terminal, and Active/Suspended alternate once per lap in between.
type SlotState int32

const (
	SlotInit SlotState = iota
	SlotActive
	SlotSuspended
	SlotExiting
	SlotRetired
)

func (s SlotState) String() string {
	switch s {
	case SlotInit:
		return "INIT"
	case SlotActive:
		return "ACTIVE"
	case SlotSuspended:
		return "SUSPENDED"
	case SlotExiting:
		return "EXITING"
	case SlotRetired:
		return "RETIRED"
	default:
		return "UNKNOWN"
	}
}

// fiber is one cooperatively scheduled execution context: a parked goroutine
// that runs its entry function on first resume and transfers control to link
// when the entry function returns. Exactly one fiber in a pool runs at any
// instant; the only suspension point is switchTo, which does not return
// until some other fiber hands control back.
type fiber struct {
	slot   int // -1 for the outer context
	resume chan struct{}
	quit   <-chan struct{}
	link   *fiber
	state  atomic.Int32
}

func (f *fiber) loadState() SlotState { return SlotState(f.state.Load()) }
func (f *fiber) setState(s SlotState) { f.state.Store(int32(s)) }

// newOuterFiber represents the caller. It owns no goroutine: the calling
// goroutine itself parks in switchTo and wakes when a ring slot unwinds.
func newOuterFiber(quit <-chan struct{}) *fiber {
	f := &fiber{slot: -1, resume: make(chan struct{}), quit: quit}
	f.setState(SlotActive)
	return f
}

// newFiber parks a goroutine that runs entry once first resumed. When entry
// returns, the fiber retires and unwinds to link.
func newFiber(slot int, entry EntryFunc, link *fiber, quit <-chan struct{}) *fiber {
	f := &fiber{slot: slot, resume: make(chan struct{}), quit: quit, link: link}
	f.setState(SlotInit)
	go func() {
		select {
		case <-f.resume:
			f.setState(SlotActive)
		case <-f.quit:
			f.setState(SlotRetired)
			return
		}
		entry()
		f.setState(SlotExiting)
		// Retire before waking link so a later handoff targeting this
		// fiber observes SlotRetired instead of parking forever.
		f.setState(SlotRetired)
		select {
		case f.link.resume <- struct{}{}:
		case <-f.quit:
		}
	}()
	return f
}

// switchTo hands control to the target fiber and parks the caller until
// control comes back. Synchronous: by the time it returns, f has been
// resumed by a peer (nil) or the pool was released (errReleased).
func (f *fiber) switchTo(to *fiber) error {
	if to.loadState() == SlotRetired {
		return &HandoffError{From: f.slot, To: to.slot, Reason: "target context retired"}
	}
	f.setState(SlotSuspended)
	select {
	case to.resume <- struct{}{}:
	case <-f.quit:
		f.setState(SlotRetired)
		return errReleased
	}
	select {
	case <-f.resume:
		f.setState(SlotActive)
		return nil
	case <-f.quit:
		f.setState(SlotRetired)
		return errReleased
	}
}
