// Package ringbench measures cooperative context-switch throughput.
//
// # Overview
//
// ringbench rotates control among a fixed set of independently-stacked
// execution contexts in a deterministic ring, counts handoffs per second,
// and detects silent memory corruption of each context's guarded memory via
// canary sentinels. "Concurrency" here is entirely cooperative: exactly one
// logical fiber runs at any instant, the only suspension point is the
// explicit handoff, and ring order is the strict cycle 0 -> 1 -> ... -> N-1
// -> 0. There are no OS threads racing each other and no locks, only
// structural mutual exclusion.
//
// # Architecture
//
// The components:
//
//   - Pool      - N isolated context slots in one backing allocation, each
//     with a private 16 KiB stack buffer bracketed by guard canaries
//   - Run       - round-robin ring driver and per-run mutable state
//   - sampler   - per-hop timing, reduced to handoffs per second
//   - Verify    - post-run comparison of live canaries against shadows
//
// # Quick Start
//
// Drive a capped run and check the outcome:
//
//	cfg := ringbench.DefaultConfig()
//	cfg.MaxSwitches = 3_000_000
//
//	res, err := ringbench.Benchmark(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("switches: %d (x%d batches)\n", res.Switches, res.ScaledSwitches)
//	fmt.Printf("rate:     %.0f handoffs/sec\n", res.Rate)
//	if !res.Verification.OK() {
//	    log.Fatalf("memory clobbered: %s", res.Verification)
//	}
//
// For an unbounded run the caller owns termination. Clearing the running
// flag is observed by whichever slot holds control, once per completed hop,
// so the ring halts within at most N further handoffs:
//
//	run, err := ringbench.NewRun(ringbench.Config{Contexts: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer run.Release()
//
//	time.AfterFunc(5*time.Second, run.Stop)
//	res, err := run.Execute()
//
// # Corruption Detection
//
// Each slot's block in the backing allocation is laid out as
//
//	[canary][saved-state region][stack buffer][canary]
//
// with the block padded out to a cache-line multiple so adjacent slots do
// not interfere. Both canaries are random 32-bit values written once at
// initialization, with shadow copies kept outside the block. After the ring
// halts, Verify compares live values against the shadows independently per
// slot and per region; an out-of-bounds write just past a stack buffer shows
// up as "corruption after region" for exactly that slot.
//
// The canary check is a diagnostic, not a safety boundary: all slot memory
// is a bounds-checked byte slice, so the check serves as a regression test
// for the layout, not as the primary defense.
//
// # Error Model
//
// AllocationError and ContextInitError are fatal before the ring starts;
// partially-initialized pools are still released. HandoffError aborts a run
// mid-flight: the pool is bulk-released and no corruption report is
// produced. A failed verification is not an error at all - it is a Report
// with findings, left to the caller to act on. Nothing retries.
//
// # Testing
//
// Assertion helpers validate the ring's contracts in your own tests:
//
//	func TestRing(t *testing.T) {
//	    res, err := ringbench.Benchmark(ringbench.Config{Contexts: 3, MaxSwitches: 3000})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    ringbench.AssertBoundedOvershoot(t, res, 3000)
//	    ringbench.AssertCanariesIntact(t, res)
//	    ringbench.AssertRateValid(t, res)
//	}
//
// # See Also
//
//   - examples/context-ring - a small harness with structured logging
package ringbench
