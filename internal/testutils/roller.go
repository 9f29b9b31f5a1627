package testutils

import (
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// SequenceRoller is a dice.Roller that returns scripted values in order and
// repeats the last one when exhausted. An error set with SetErr is returned by
// every roll.
type SequenceRoller struct {
	mu     sync.Mutex
	values []int
	next   int
	err    error
}

var _ dice.Roller = (*SequenceRoller)(nil)

// NewSequenceRoller creates a roller that yields values in order
func NewSequenceRoller(values ...int) *SequenceRoller {
	return &SequenceRoller{values: values}
}

// UnitRoll returns the die face a d(size) must show for the resolver to see
// unit as its [0,1) draw
func UnitRoll(unit float64, size int) int {
	return int(unit*float64(size)) + 1
}

// Roll returns the next scripted value, clamped to [1,size]
func (r *SequenceRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}

	v := 1
	if len(r.values) > 0 {
		idx := r.next
		if idx >= len(r.values) {
			idx = len(r.values) - 1
		}
		v = r.values[idx]
		r.next++
	}

	if v < 1 {
		v = 1
	}
	if v > size {
		v = size
	}
	return v, nil
}

// SetErr makes every later roll fail with err. Nil restores normal rolls.
func (r *SequenceRoller) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// RollN rolls count dice of the given size
func (r *SequenceRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Calls reports how many single rolls have been made
func (r *SequenceRoller) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}
