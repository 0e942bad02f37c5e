package ringbench

import (
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// EntryFunc is the body a slot executes once it first receives control.
// When it returns, the slot unwinds to the pool's outer context.
type EntryFunc func()

const (
	// StackSize is each slot's private stack buffer size, before alignment
	// padding.
	StackSize = 16 << 10

	stackAlignment = 16
	canaryBytes    = 4
	stateBytes     = 120

	// stackOffset places the stack buffer after the leading canary and the
	// saved-state region, rounded up so the buffer stays 16-byte aligned
	// within its slot block.
	stackOffset = (canaryBytes + stateBytes + stackAlignment - 1) &^ (stackAlignment - 1)

	// slotBytes is the guarded portion of one slot: leading canary,
	// saved-state region, stack buffer, trailing canary.
	slotBytes = stackOffset + StackSize + canaryBytes

	// maxContexts bounds a pool at roughly 1 GiB of backing memory.
	maxContexts = 1 << 16
)

// CanaryPair holds the two sentinel values guarding one slot's memory.
// Once written at initialization they are read-only for the rest of the run.
type CanaryPair struct {
	Before uint32 // written immediately before the saved-state region
	After  uint32 // written immediately after the stack buffer
}

// Slot is one execution context: a private stack buffer, guard canaries,
// and the fiber holding its suspended state.
type Slot struct {
	Index int

	fib    *fiber
	shadow CanaryPair // init-time copy, never touched by the ring
	off    int        // slot block offset within the pool's backing memory
	pool   *Pool
}

// State reports where the slot is in its lifecycle.
func (s *Slot) State() SlotState { return s.fib.loadState() }

// stateRegion is the saved-state scratch area between the canaries, written
// on every activation.
func (s *Slot) stateRegion() []byte {
	return s.pool.backing[s.off+canaryBytes : s.off+canaryBytes+stateBytes]
}

// stack is the slot's private stack buffer. Bounds-checked by construction;
// the trailing canary sits at the first byte past it.
func (s *Slot) stack() []byte {
	base := s.off + stackOffset
	return s.pool.backing[base : base+StackSize]
}

func (s *Slot) liveBefore() uint32 {
	return binary.LittleEndian.Uint32(s.pool.backing[s.off:])
}

func (s *Slot) liveAfter() uint32 {
	return binary.LittleEndian.Uint32(s.pool.backing[s.off+stackOffset+StackSize:])
}

// Pool is an ordered, fixed-length sequence of slots backed by a single
// allocation. Lifetime is one benchmark run: NewPool reserves, Release frees.
type Pool struct {
	slots    []Slot
	backing  []byte
	stride   int
	outer    *fiber
	quit     chan struct{}
	released bool
}

// NewPool reserves one backing block for n slots and parks one fiber per
// slot, each with a fresh canary pair and the shared outer context as its
// resume target. On any per-slot failure the already-initialized slots are
// released and the error names the offending slot.
func NewPool(n int, entries []EntryFunc) (*Pool, error) {
	if n < 2 || n > maxContexts {
		return nil, &AllocationError{Contexts: n}
	}
	if len(entries) != n {
		return nil, &ContextInitError{
			Slot:   len(entries),
			Reason: "entry function count does not match slot count",
		}
	}

	stride := alignUp(slotBytes, cacheLineSize())
	p := &Pool{
		slots:   make([]Slot, n),
		backing: make([]byte, n*stride), // zeroed slot memory
		stride:  stride,
		quit:    make(chan struct{}),
	}
	p.outer = newOuterFiber(p.quit)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range p.slots {
		if entries[i] == nil {
			p.Release()
			return nil, &ContextInitError{Slot: i, Reason: "nil entry function"}
		}
		s := &p.slots[i]
		s.Index = i
		s.off = i * stride
		s.pool = p
		s.shadow = CanaryPair{Before: rng.Uint32(), After: rng.Uint32()}
		binary.LittleEndian.PutUint32(p.backing[s.off:], s.shadow.Before)
		binary.LittleEndian.PutUint32(p.backing[s.off+stackOffset+StackSize:], s.shadow.After)
		s.fib = newFiber(i, entries[i], p.outer, p.quit)
	}
	return p, nil
}

// Slots reports the pool's slot count.
func (p *Pool) Slots() int { return len(p.slots) }

// Slot returns slot i for inspection.
func (p *Pool) Slot(i int) *Slot { return &p.slots[i] }

// Release frees the backing memory and unparks every suspended fiber so its
// goroutine can exit. Idempotent and safe on a partially-initialized pool.
func (p *Pool) Release() {
	if p.released {
		return
	}
	p.released = true
	close(p.quit)
	p.backing = nil
}

// enter performs the initiating handoff from the outer context into slot 0
// and blocks until a ring slot unwinds back.
func (p *Pool) enter() error {
	if p.released {
		return &HandoffError{From: -1, To: 0, Reason: "pool released"}
	}
	return p.outer.switchTo(p.slots[0].fib)
}

// cacheLineSize pads the slot stride so adjacent slots never share a cache
// line.
func cacheLineSize() int {
	if n := cpuid.CPU.CacheLine; n > 0 {
		return n
	}
	return 64
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
