package ringbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Intact(t *testing.T) {
	p, err := NewPool(3, idleEntries(3))
	require.NoError(t, err)
	defer p.Release()

	rep := p.Verify()
	assert.True(t, rep.OK())
	assert.Equal(t, "canaries intact", rep.String())
}

func TestVerify_AfterRegion(t *testing.T) {
	p, err := NewPool(3, idleEntries(3))
	require.NoError(t, err)
	defer p.Release()

	// One-byte out-of-bounds write just past slot 1's stack buffer lands on
	// the first byte of its trailing canary.
	p.backing[p.slots[1].off+stackOffset+StackSize] ^= 0xa5

	rep := p.Verify()
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, Finding{Slot: 1, Region: RegionAfter}, rep.Findings[0])
	assert.Equal(t, "slot 1: corruption after region", rep.Findings[0].String())
}

func TestVerify_BeforeRegion(t *testing.T) {
	p, err := NewPool(3, idleEntries(3))
	require.NoError(t, err)
	defer p.Release()

	p.backing[p.slots[2].off] ^= 0xa5

	rep := p.Verify()
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, Finding{Slot: 2, Region: RegionBefore}, rep.Findings[0])
}

func TestVerify_SlotsReportIndependently(t *testing.T) {
	p, err := NewPool(4, idleEntries(4))
	require.NoError(t, err)
	defer p.Release()

	p.backing[p.slots[0].off] ^= 0xa5
	p.backing[p.slots[1].off] ^= 0xa5
	p.backing[p.slots[1].off+stackOffset+StackSize] ^= 0xa5

	rep := p.Verify()
	assert.False(t, rep.OK())
	assert.ElementsMatch(t, []Finding{
		{Slot: 0, Region: RegionBefore},
		{Slot: 1, Region: RegionBefore},
		{Slot: 1, Region: RegionAfter},
	}, rep.Findings)
}

func TestVerify_ReleasedPool(t *testing.T) {
	p, err := NewPool(2, idleEntries(2))
	require.NoError(t, err)

	p.Release()
	assert.True(t, p.Verify().OK())
}

// TestVerify_CorruptionDuringRun drives a real ring whose slot 1 clobbers
// the byte past its own stack buffer mid-run.
func TestVerify_CorruptionDuringRun(t *testing.T) {
	var run *Run
	hooks := []func(int){
		func(int) {},
		func(int) {
			// Idempotent clobber: guaranteed to differ from the shadow's
			// low byte no matter how many laps run.
			p := run.Pool()
			p.backing[p.slots[1].off+stackOffset+StackSize] = byte(p.slots[1].shadow.After) ^ 0xa5
		},
		func(int) {},
	}

	run, err := NewRun(Config{Contexts: 3, MaxSwitches: 30, Hooks: hooks})
	require.NoError(t, err)
	defer run.Release()

	res, err := run.Execute()
	require.NoError(t, err)

	assert.False(t, res.Verification.OK())
	assert.Contains(t, res.Verification.Findings, Finding{Slot: 1, Region: RegionAfter})
}
