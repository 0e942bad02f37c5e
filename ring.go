package ringbench

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"
)

// Config controls one benchmark run.
type Config struct {
	// Contexts is the ring size N. Traversal order is the fixed cycle
	// 0 -> 1 -> ... -> N-1 -> 0. Minimum 2.
	Contexts int

	// MaxSwitches caps total handoffs. 0 means unbounded: the run then
	// halts only when Stop clears the running flag, so an uncapped run
	// must be bounded externally by the caller.
	MaxSwitches uint64

	// ScaleDivisor scales the reported switch count. Stress harnesses
	// usually account in batches of 1000.
	ScaleDivisor uint64

	// Now supplies monotonic timestamps for the rate sampler.
	// Defaults to time.Now.
	Now func() time.Time

	// Hooks, when non-empty, holds one callback per slot, invoked once
	// per activation before the handoff. Must be empty or have length
	// Contexts.
	Hooks []func(slot int)
}

// DefaultConfig mirrors the classic three-context ring with per-1000 switch
// accounting.
func DefaultConfig() Config {
	return Config{
		Contexts:     3,
		ScaleDivisor: 1000,
		Now:          time.Now,
	}
}

// Result contains the measurements of a completed run.
type Result struct {
	Contexts       int
	Switches       uint64        // total handoffs performed
	ScaledSwitches uint64        // Switches / ScaleDivisor
	Duration       time.Duration // accumulated in-ring time
	Rate           float64       // handoffs per second, 0 when Duration is 0
	Verification   Report        // post-run canary validation
}

// Run owns the mutable state of one benchmark run: the context pool, the
// switch counter, the rate sampler, and the cooperative cancellation flag.
//
// Exactly one logical fiber mutates the counter and the sampler at any
// instant, so they need no locking. Only the running flag may be touched
// from outside the ring, which is why it alone is atomic. This structural
// exclusion does not extend to driving one Run from multiple goroutines.
type Run struct {
	cfg      Config
	pool     *Pool
	sampler  *rateSampler
	running  atomic.Bool
	switches uint64
	err      error // first HandoffError observed inside the ring
	started  bool
}

// NewRun validates cfg, reserves the context pool, and parks one fiber per
// slot. The caller must Release the run when done with it.
func NewRun(cfg Config) (*Run, error) {
	def := DefaultConfig()
	if cfg.Contexts == 0 {
		cfg.Contexts = def.Contexts
	}
	if cfg.ScaleDivisor == 0 {
		cfg.ScaleDivisor = def.ScaleDivisor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Contexts < 2 {
		return nil, fmt.Errorf("ringbench: need at least 2 contexts, got %d", cfg.Contexts)
	}
	if len(cfg.Hooks) != 0 && len(cfg.Hooks) != cfg.Contexts {
		return nil, fmt.Errorf("ringbench: have %d hooks for %d contexts", len(cfg.Hooks), cfg.Contexts)
	}

	r := &Run{cfg: cfg, sampler: newRateSampler(cfg.Contexts, cfg.Now)}

	entries := make([]EntryFunc, cfg.Contexts)
	for i := range entries {
		slot := i
		entries[i] = func() { r.slotLoop(slot) }
	}
	pool, err := NewPool(cfg.Contexts, entries)
	if err != nil {
		return nil, err
	}
	r.pool = pool
	return r, nil
}

// Running reports the cooperative cancellation flag.
func (r *Run) Running() bool { return r.running.Load() }

// Stop clears the running flag. Each slot observes the flag once per
// completed hop, so the ring halts within at most Contexts further handoffs.
func (r *Run) Stop() { r.running.Store(false) }

// Release frees the run's context pool. Idempotent.
func (r *Run) Release() { r.pool.Release() }

// Pool exposes the run's context pool for inspection and corruption
// experiments.
func (r *Run) Pool() *Pool { return r.pool }

// Execute raises the running flag, performs the initiating handoff into
// slot 0, and blocks until the ring unwinds back. On a HandoffError the pool
// is bulk-released, the run is incomplete, and no corruption report is
// produced; the partial switch count is still returned alongside the error.
func (r *Run) Execute() (Result, error) {
	if r.started {
		return Result{}, fmt.Errorf("ringbench: run already executed")
	}
	if r.pool.released {
		return Result{}, fmt.Errorf("ringbench: run already released")
	}
	r.started = true
	r.running.Store(true)

	if err := r.pool.enter(); err != nil {
		r.pool.Release()
		return Result{Contexts: r.cfg.Contexts}, err
	}
	if r.err != nil {
		r.pool.Release()
		return Result{Contexts: r.cfg.Contexts, Switches: r.switches}, r.err
	}

	return Result{
		Contexts:       r.cfg.Contexts,
		Switches:       r.switches,
		ScaledSwitches: r.switches / r.cfg.ScaleDivisor,
		Duration:       r.sampler.accum,
		Rate:           r.sampler.rate(r.switches),
		Verification:   r.pool.Verify(),
	}, nil
}

// slotLoop is the entry function of slot i: sample time, count the handoff,
// scribble into the slot's guarded memory, hand control to slot (i+1) mod N,
// and re-check the stop condition on wakeup. The check runs once per
// completed hop, never globally, so up to N-1 extra hops may land past a cap
// before every slot has observed it.
func (r *Run) slotLoop(i int) {
	self := r.pool.slots[i].fib
	next := r.pool.slots[(i+1)%len(r.pool.slots)].fib
	for {
		now := r.sampler.observe(i)
		r.switches++
		r.scribble(i, now)
		if len(r.cfg.Hooks) > 0 {
			r.cfg.Hooks[i](i)
		}
		if err := self.switchTo(next); err != nil {
			if err != errReleased && r.err == nil {
				r.err = err
			}
			return
		}
		if !r.keepGoing() {
			return
		}
	}
}

func (r *Run) keepGoing() bool {
	if !r.running.Load() {
		return false
	}
	return r.cfg.MaxSwitches == 0 || r.switches < r.cfg.MaxSwitches
}

// scribble writes the activation record into the slot's saved-state region
// and touches one stack byte per hop, so the guard canaries have live
// neighbours to defend.
func (r *Run) scribble(i int, now time.Time) {
	s := &r.pool.slots[i]
	state := s.stateRegion()
	binary.LittleEndian.PutUint64(state[0:], r.switches)
	binary.LittleEndian.PutUint64(state[8:], uint64(now.UnixNano()))
	stack := s.stack()
	stack[int(r.switches%uint64(len(stack)))]++
}

// Benchmark is the one-shot form: reserve a pool, drive the ring, validate,
// release.
func Benchmark(cfg Config) (Result, error) {
	run, err := NewRun(cfg)
	if err != nil {
		return Result{}, err
	}
	defer run.Release()
	return run.Execute()
}
