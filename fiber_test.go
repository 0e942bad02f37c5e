package ringbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiber_HandoffChain(t *testing.T) {
	var p *Pool
	var order []int

	entries := make([]EntryFunc, 3)
	for i := range entries {
		i := i
		entries[i] = func() {
			order = append(order, i)
			if i+1 < len(entries) {
				// Never returns on the happy path: the chain ends at
				// slot 2 and release unparks the rest.
				_ = p.slots[i].fib.switchTo(p.slots[i+1].fib)
			}
		}
	}

	p, err := NewPool(3, entries)
	require.NoError(t, err)
	defer p.Release()

	// Slot 2 returns without handing back, so it unwinds to the outer
	// context and slots 0 and 1 stay suspended until release.
	require.NoError(t, p.enter())

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, SlotSuspended, p.Slot(0).State())
	assert.Equal(t, SlotSuspended, p.Slot(1).State())
	assert.Equal(t, SlotRetired, p.Slot(2).State())
}

func TestFiber_HandoffToRetired(t *testing.T) {
	var p *Pool
	var handoffErr error

	entries := []EntryFunc{
		func() {
			for {
				if err := p.slots[0].fib.switchTo(p.slots[1].fib); err != nil {
					handoffErr = err
					return
				}
			}
		},
		func() {}, // retires on first activation
	}

	p, err := NewPool(2, entries)
	require.NoError(t, err)
	defer p.Release()

	// First pass: slot 0 hands to slot 1, which retires and unwinds here.
	require.NoError(t, p.enter())
	require.Equal(t, SlotRetired, p.Slot(1).State())

	// Resume slot 0 so its next handoff targets the retired slot.
	require.NoError(t, p.outer.switchTo(p.slots[0].fib))

	var herr *HandoffError
	require.ErrorAs(t, handoffErr, &herr)
	assert.Equal(t, 0, herr.From)
	assert.Equal(t, 1, herr.To)
}

func TestSlotState_String(t *testing.T) {
	states := map[SlotState]string{
		SlotInit:      "INIT",
		SlotActive:    "ACTIVE",
		SlotSuspended: "SUSPENDED",
		SlotExiting:   "EXITING",
		SlotRetired:   "RETIRED",
	}
	for state, want := range states {
		assert.Equal(t, want, state.String())
	}
	assert.Equal(t, "UNKNOWN", SlotState(42).String())
}
