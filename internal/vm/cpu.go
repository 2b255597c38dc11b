package vm

import (
	"context"
	"errors"
)

// State is the CPU loop's state machine: RUNNING or HALTED. ABORT (invalid
// opcode, host I/O failure, or external interrupt) is surfaced as an error
// from Run rather than tracked as a state, since the caller (cmd/lc3) is
// what decides the process exit code for each.
type State int

const (
	StateRunning State = iota
	StateHalted
)

// Run repeatedly steps the machine until it halts, hits an invalid opcode,
// a host I/O error, or ctx is cancelled. A clean HALT returns
// (StateHalted, nil); every other termination returns (StateRunning, err)
// with err wrapping one of ErrInvalidOpcode, ErrHostIO, or ctx.Err().
func (m *Machine) Run(ctx context.Context) (State, error) {
	for {
		select {
		case <-ctx.Done():
			return StateRunning, ctx.Err()
		default:
		}

		err := m.Step(ctx)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrHalted):
			return StateHalted, nil
		default:
			return StateRunning, err
		}
	}
}
