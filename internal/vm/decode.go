package vm

import "github.com/hejops/lc3vm/internal/bits"

// Opcode is the top 4 bits of an instruction word.
type Opcode uint16

const (
	OpBR   Opcode = 0x0
	OpADD  Opcode = 0x1
	OpLD   Opcode = 0x2
	OpST   Opcode = 0x3
	OpJSR  Opcode = 0x4
	OpAND  Opcode = 0x5
	OpLDR  Opcode = 0x6
	OpSTR  Opcode = 0x7
	OpRTI  Opcode = 0x8
	OpNOT  Opcode = 0x9
	OpLDI  Opcode = 0xA
	OpSTI  Opcode = 0xB
	OpJMP  Opcode = 0xC
	OpRES  Opcode = 0xD
	OpLEA  Opcode = 0xE
	OpTRAP Opcode = 0xF
)

// decodeOpcode extracts the opcode (I[15:12]) from an instruction word.
func decodeOpcode(instr uint16) Opcode {
	return Opcode(instr >> 12)
}

// Operand field accessors, named per the LC-3 ISA's own instruction-format
// notation (DR, SR1, SR2, imm5, offset6, PCoffset9, PCoffset11, BaseR).
// Each reads the instruction word without mutating it; sign extension is
// applied where the field is a signed immediate/offset.

func dr(instr uint16) Register      { return Register((instr >> 9) & 0x7) }
func sr1(instr uint16) Register     { return Register((instr >> 6) & 0x7) }
func sr2(instr uint16) Register     { return Register(instr & 0x7) }
func baseR(instr uint16) Register   { return Register((instr >> 6) & 0x7) }
func immFlag(instr uint16) bool     { return (instr>>5)&0x1 != 0 }
func imm5(instr uint16) uint16      { return bits.SignExtend(instr&0x1F, 5) }
func offset6(instr uint16) uint16   { return bits.SignExtend(instr&0x3F, 6) }
func pcOffset9(instr uint16) uint16 { return bits.SignExtend(instr&0x1FF, 9) }
func pcOffset11(instr uint16) uint16 {
	return bits.SignExtend(instr&0x7FF, 11)
}
func nzp(instr uint16) uint16        { return (instr >> 9) & 0x7 }
func jsrLongFlag(instr uint16) bool  { return (instr>>11)&0x1 != 0 }
func trapVector(instr uint16) uint16 { return instr & 0xFF }
