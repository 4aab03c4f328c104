package envelope

import (
	"fmt"
	"sync"

	"dpe-envelope/core/types"
)

// PhaseGate is the barrier between the per-floor first pass and the grouped
// second pass. Aggregating through an open gate is a programming error and
// panics.
type PhaseGate struct {
	mu       sync.RWMutex
	expected int
	done     int
}

// NewPhaseGate creates a gate waiting for expected first passes
func NewPhaseGate(expected int) *PhaseGate {
	return &PhaseGate{expected: expected}
}

// Done records one completed first pass
func (g *PhaseGate) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done >= g.expected {
		panic("INVARIANT VIOLATED: more first passes than floors")
	}
	g.done++
}

// Closed reports whether every first pass has completed
func (g *PhaseGate) Closed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.done == g.expected
}

// AssertClosed panics if the second pass is not allowed yet
func (g *PhaseGate) AssertClosed() {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.done != g.expected {
		panic(fmt.Sprintf("INVARIANT VIOLATED: aggregation before first pass completed (%d/%d)", g.done, g.expected))
	}
}

// FirstPass runs the legacy correction and the method dispatch on a fresh
// accumulator.
func (c *Calculator) FirstPass(in types.FloorInput, fc types.Context) types.FloorResult {
	res := types.NewFloorResult(in)
	method, res := c.Correct(in, res)
	return c.Dispatch(in, fc, method, res)
}

// ComputeFloors computes every floor of a dwelling: first pass for all
// floors, then the grouped second pass. Floors are each other's siblings.
func (c *Calculator) ComputeFloors(floors []types.FloorInput, fc types.Context) []types.FloorResult {
	fc.Siblings = floors
	gate := NewPhaseGate(len(floors))

	results := make([]types.FloorResult, len(floors))
	for i, in := range floors {
		results[i] = c.FirstPass(in, fc)
		gate.Done()
	}
	for i, in := range floors {
		results[i] = c.Aggregate(gate, in, fc, results[i])
	}
	return results
}
