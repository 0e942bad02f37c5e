package ringbench

import (
	"math"
	"testing"
)

// AssertBoundedOvershoot verifies the cooperative-cancellation contract: a
// capped run performs at least cap handoffs and fewer than cap + N, because
// each slot observes the stop condition at most one hop late.
func AssertBoundedOvershoot(t *testing.T, res Result, cap uint64) {
	t.Helper()

	if cap == 0 {
		t.Fatal("AssertBoundedOvershoot requires a non-zero cap")
	}
	if res.Switches < cap {
		t.Errorf("Run stopped early: %d switches (cap: %d)", res.Switches, cap)
		return
	}
	if over := res.Switches - cap; over >= uint64(res.Contexts) {
		t.Errorf("Overshoot too large: %d extra hops (max: %d)\n"+
			"Every slot should observe the stop condition within one lap.",
			over, res.Contexts-1)
		return
	}

	t.Logf("✓ Bounded overshoot: %d switches for cap %d (N=%d)", res.Switches, cap, res.Contexts)
}

// AssertCanariesIntact fails if post-run validation found corruption in any
// slot's guard regions.
func AssertCanariesIntact(t *testing.T, res Result) {
	t.Helper()

	if !res.Verification.OK() {
		t.Errorf("Canary corruption detected:\n  %s", res.Verification)
		return
	}

	t.Logf("✓ Canaries intact across %d slots", res.Contexts)
}

// AssertRateValid verifies the reported throughput is finite and
// non-negative, and that a zero accumulated duration reports exactly 0.
func AssertRateValid(t *testing.T, res Result) {
	t.Helper()

	if math.IsNaN(res.Rate) || math.IsInf(res.Rate, 0) {
		t.Errorf("Rate not finite: %v", res.Rate)
	}
	if res.Rate < 0 {
		t.Errorf("Rate negative: %v", res.Rate)
	}
	if res.Duration == 0 && res.Rate != 0 {
		t.Errorf("Zero duration must report rate 0, got %v", res.Rate)
	}

	t.Logf("✓ Rate valid: %.2f handoffs/sec over %v", res.Rate, res.Duration)
}
