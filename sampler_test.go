package ringbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampler_ChargesPredecessorIntervals(t *testing.T) {
	base := time.Unix(0, 0)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Microsecond)
	}

	s := newRateSampler(3, clock)

	s.observe(0) // first hop: predecessor has no sample yet
	assert.Equal(t, time.Duration(0), s.accum)

	s.observe(1) // 1µs since slot 0 sampled
	s.observe(2) // 1µs since slot 1 sampled
	s.observe(0) // 1µs since slot 2 sampled
	assert.Equal(t, 3*time.Microsecond, s.accum)
}

func TestSampler_Rate(t *testing.T) {
	s := newRateSampler(2, time.Now)
	s.accum = 2 * time.Second
	assert.Equal(t, 2.0, s.rate(4))
}

func TestSampler_ZeroDurationRate(t *testing.T) {
	s := newRateSampler(2, time.Now)
	assert.Equal(t, 0.0, s.rate(100), "zero accumulated duration reports 0, not an error")
}
