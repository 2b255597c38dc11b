package vm

import (
	"context"
	"fmt"
)

// Step fetches the instruction at R[PC], advances PC, decodes it, and
// executes exactly one instruction. It returns ErrHalted when the
// instruction was TRAP HALT, a wrapped ErrInvalidOpcode for RTI, RES, or
// any opcode outside the 16 defined values, and a wrapped ErrHostIO if a
// blocking terminal read fails.
//
// PC is incremented before operand computation: fetch performs PC<-PC+1
// and returns the original word, so all PC-relative offsets below add to
// the already-incremented PC, per the LC-3 ISA.
func (m *Machine) Step(ctx context.Context) error {
	instr := m.Read(m.Reg[PC])
	m.Reg[PC]++

	switch decodeOpcode(instr) {
	case OpADD:
		m.execAdd(instr)
	case OpAND:
		m.execAnd(instr)
	case OpNOT:
		m.execNot(instr)
	case OpBR:
		m.execBr(instr)
	case OpJMP:
		m.execJmp(instr)
	case OpJSR:
		m.execJsr(instr)
	case OpLD:
		m.execLd(instr)
	case OpLDI:
		m.execLdi(instr)
	case OpLDR:
		m.execLdr(instr)
	case OpLEA:
		m.execLea(instr)
	case OpST:
		m.execSt(instr)
	case OpSTI:
		m.execSti(instr)
	case OpSTR:
		m.execStr(instr)
	case OpTRAP:
		return m.execTrap(ctx, instr)
	case OpRTI, OpRES:
		return fmt.Errorf("%w: opcode %#x (RTI/RES)", ErrInvalidOpcode, decodeOpcode(instr))
	default:
		return fmt.Errorf("%w: opcode %#x", ErrInvalidOpcode, decodeOpcode(instr))
	}
	return nil
}

func (m *Machine) execAdd(instr uint16) {
	d, r1 := dr(instr), sr1(instr)
	if immFlag(instr) {
		m.Reg[d] = m.Reg[r1] + imm5(instr)
	} else {
		m.Reg[d] = m.Reg[r1] + m.Reg[sr2(instr)]
	}
	m.UpdateFlags(d)
}

func (m *Machine) execAnd(instr uint16) {
	d, r1 := dr(instr), sr1(instr)
	if immFlag(instr) {
		m.Reg[d] = m.Reg[r1] & imm5(instr)
	} else {
		m.Reg[d] = m.Reg[r1] & m.Reg[sr2(instr)]
	}
	m.UpdateFlags(d)
}

func (m *Machine) execNot(instr uint16) {
	d, r1 := dr(instr), sr1(instr)
	m.Reg[d] = ^m.Reg[r1]
	m.UpdateFlags(d)
}

func (m *Machine) execBr(instr uint16) {
	if nzp(instr)&m.Reg[COND] != 0 {
		m.Reg[PC] += pcOffset9(instr)
	}
}

func (m *Machine) execJmp(instr uint16) {
	m.Reg[PC] = m.Reg[baseR(instr)]
}

func (m *Machine) execJsr(instr uint16) {
	// R7 is written before the new PC is computed, so a JSR(R) to a
	// subroutine that itself uses R7 sees the correct return address.
	m.Reg[R7] = m.Reg[PC]
	if jsrLongFlag(instr) {
		m.Reg[PC] += pcOffset11(instr)
	} else {
		m.Reg[PC] = m.Reg[baseR(instr)]
	}
}

func (m *Machine) execLd(instr uint16) {
	d := dr(instr)
	m.Reg[d] = m.Read(m.Reg[PC] + pcOffset9(instr))
	m.UpdateFlags(d)
}

func (m *Machine) execLdi(instr uint16) {
	d := dr(instr)
	m.Reg[d] = m.Read(m.Read(m.Reg[PC] + pcOffset9(instr)))
	m.UpdateFlags(d)
}

func (m *Machine) execLdr(instr uint16) {
	d := dr(instr)
	m.Reg[d] = m.Read(m.Reg[baseR(instr)] + offset6(instr))
	m.UpdateFlags(d)
}

func (m *Machine) execLea(instr uint16) {
	d := dr(instr)
	m.Reg[d] = m.Reg[PC] + pcOffset9(instr)
	m.UpdateFlags(d)
}

func (m *Machine) execSt(instr uint16) {
	m.Write(m.Reg[PC]+pcOffset9(instr), m.Reg[dr(instr)])
}

func (m *Machine) execSti(instr uint16) {
	m.Write(m.Read(m.Reg[PC]+pcOffset9(instr)), m.Reg[dr(instr)])
}

func (m *Machine) execStr(instr uint16) {
	m.Write(m.Reg[baseR(instr)]+offset6(instr), m.Reg[dr(instr)])
}

// Trap vectors for the six built-in LC-3 TRAP service routines.
const (
	TrapGETC  uint16 = 0x20
	TrapOUT   uint16 = 0x21
	TrapPUTS  uint16 = 0x22
	TrapIN    uint16 = 0x23
	TrapPUTSP uint16 = 0x24
	TrapHALT  uint16 = 0x25
)

// ErrHalted signals a clean TRAP HALT; the run loop treats it as the only
// non-error termination.
var ErrHalted = fmt.Errorf("vm: halted")

// execTrap dispatches on the 8-bit trap vector. R7 holds the caller's
// return PC, set here before dispatch: it is not restored by any trap
// routine.
func (m *Machine) execTrap(ctx context.Context, instr uint16) error {
	m.Reg[R7] = m.Reg[PC]
	switch trapVector(instr) {
	case TrapGETC:
		b, err := m.readByte(ctx)
		if err != nil {
			return err
		}
		m.Reg[R0] = uint16(b)
		m.UpdateFlags(R0)
	case TrapOUT:
		if err := m.writeByte(byte(m.Reg[R0])); err != nil {
			return err
		}
		if err := m.flush(); err != nil {
			return err
		}
	case TrapPUTS:
		if err := m.trapPUTS(); err != nil {
			return err
		}
	case TrapIN:
		if err := m.trapIN(ctx); err != nil {
			return err
		}
	case TrapPUTSP:
		if err := m.trapPUTSP(); err != nil {
			return err
		}
	case TrapHALT:
		if err := m.trapHALT(); err != nil {
			return err
		}
		return ErrHalted
	default:
		// Undefined trap vectors no-op beyond the R7 write above,
		// following the reference implementation's missing default
		// case for an unrecognized trapvect.
	}
	return nil
}

// trapPUTS writes the low byte of each memory word starting at R0 until a
// word equal to 0 is read.
func (m *Machine) trapPUTS() error {
	addr := m.Reg[R0]
	for {
		w := m.Mem[addr]
		if w == 0 {
			break
		}
		if err := m.writeByte(byte(w)); err != nil {
			return err
		}
		addr++
	}
	return m.flush()
}

// trapPUTSP writes two characters per word (low byte, then high byte if
// nonzero), stopping only when the whole word is 0. A word whose low byte
// is zero but whose high byte is nonzero still has both bytes emitted --
// the NUL low byte appears in the output stream before the high byte --
// matching the reference LC-3 PUTSP routine's termination test, which
// checks the whole word rather than either byte independently.
func (m *Machine) trapPUTSP() error {
	addr := m.Reg[R0]
	for {
		w := m.Mem[addr]
		if w == 0 {
			break
		}
		lo := byte(w & 0xFF)
		if err := m.writeByte(lo); err != nil {
			return err
		}
		if hi := byte(w >> 8); hi != 0 {
			if err := m.writeByte(hi); err != nil {
				return err
			}
		}
		addr++
	}
	return m.flush()
}

func (m *Machine) trapIN(ctx context.Context) error {
	for _, b := range []byte("Enter a character: ") {
		if err := m.writeByte(b); err != nil {
			return err
		}
	}
	if err := m.flush(); err != nil {
		return err
	}
	b, err := m.readByte(ctx)
	if err != nil {
		return err
	}
	if err := m.writeByte(b); err != nil {
		return err
	}
	if err := m.flush(); err != nil {
		return err
	}
	m.Reg[R0] = uint16(b)
	m.UpdateFlags(R0)
	return nil
}

func (m *Machine) trapHALT() error {
	for _, b := range []byte("HALT\n") {
		if err := m.writeByte(b); err != nil {
			return err
		}
	}
	return m.flush()
}

// readByte performs the single blocking suspension point in the executor:
// TerminalHost.ReadByte(). ctx is checked once before the read, so a
// cancelled context stops a GETC/IN trap before it blocks; a read already
// blocked in ReadByte is not interrupted, since the TerminalHost has no
// cancellation hook of its own.
func (m *Machine) readByte(ctx context.Context) (byte, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %w", ErrHostIO, ctx.Err())
	default:
	}
	b, err := m.Host.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrHostIO, err)
	}
	return b, nil
}

func (m *Machine) writeByte(b byte) error {
	if err := m.Host.WriteByte(b); err != nil {
		return fmt.Errorf("%w: %w", ErrHostIO, err)
	}
	return nil
}

func (m *Machine) flush() error {
	if err := m.Host.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrHostIO, err)
	}
	return nil
}
