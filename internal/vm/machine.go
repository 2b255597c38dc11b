// Package vm implements the LC-3 virtual CPU: register file, word-addressed
// memory, the memory-mapped keyboard bus, the instruction decoder, the
// opcode/trap executor, and the fetch-decode-execute loop.
package vm

import (
	"errors"

	"github.com/hejops/lc3vm/internal/host"
)

// Register names the ten named words of the register file.
type Register int

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC
	COND
	registerCount
)

// Condition flags. Exactly one is set in COND at every instruction
// boundary: never zero, never more than one bit.
const (
	FlagPOS uint16 = 1 << 0
	FlagZRO uint16 = 1 << 1
	FlagNEG uint16 = 1 << 2
)

// PCStart is the address NewMachine sets PC to.
const PCStart uint16 = 0x3000

// Memory-mapped I/O addresses: keyboard status and keyboard data.
const (
	KBSR uint16 = 0xFE00
	KBDR uint16 = 0xFE02
)

// Sentinel errors for the three recoverable failure kinds the interpreter
// distinguishes.
var (
	ErrInvalidOpcode = errors.New("vm: invalid opcode")
	ErrImageLoad     = errors.New("vm: image load failed")
	ErrHostIO        = errors.New("vm: terminal host I/O failed")
)

// Machine is the process-wide mutable state of the interpreter: the
// register file and the 64KiB word memory, plus the terminal capability
// the memory bus polls on keyboard-status reads. It is owned by one
// Machine value, never by package-level globals, so the VM stays reusable
// and testable in isolation.
type Machine struct {
	Reg  [registerCount]uint16
	Mem  [65536]uint16
	Host host.TerminalHost
}

// NewMachine returns a Machine with COND=ZRO and PC=PCStart, memory
// zeroed.
func NewMachine(h host.TerminalHost) *Machine {
	m := &Machine{Host: h}
	m.Reg[COND] = FlagZRO
	m.Reg[PC] = PCStart
	return m
}

// UpdateFlags sets COND from the current value of the named register. It
// must be called after every instruction that writes a general-purpose
// register, and never after a pure store/branch/jump.
func (m *Machine) UpdateFlags(r Register) {
	v := m.Reg[r]
	switch {
	case v == 0:
		m.Reg[COND] = FlagZRO
	case v&0x8000 != 0:
		m.Reg[COND] = FlagNEG
	default:
		m.Reg[COND] = FlagPOS
	}
}
