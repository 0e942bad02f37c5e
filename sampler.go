package ringbench

import "time"

// rateSampler keeps one timestamp per slot, taken immediately before that
// slot hands off, and accumulates inter-hop intervals. The sum approximates
// wall-clock time spent inside the ring.
type rateSampler struct {
	now   func() time.Time
	last  []time.Time
	accum time.Duration
}

func newRateSampler(n int, now func() time.Time) *rateSampler {
	return &rateSampler{now: now, last: make([]time.Time, n)}
}

// observe records slot's pre-handoff timestamp and charges the interval
// since the predecessor's last sample. The very first hop has no predecessor
// sample and contributes nothing.
func (s *rateSampler) observe(slot int) time.Time {
	now := s.now()
	pred := slot - 1
	if pred < 0 {
		pred = len(s.last) - 1
	}
	if !s.last[pred].IsZero() {
		s.accum += now.Sub(s.last[pred])
	}
	s.last[slot] = now
	return now
}

// rate reports handoffs per second. A zero accumulated duration reports 0
// rather than failing.
func (s *rateSampler) rate(hops uint64) float64 {
	secs := s.accum.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(hops) / secs
}
