package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeOpcode(t *testing.T) {
	assert.Equal(t, OpADD, decodeOpcode(0x1265))
	assert.Equal(t, OpBR, decodeOpcode(0x0402))
	assert.Equal(t, OpTRAP, decodeOpcode(0xF025))
	assert.Equal(t, OpRTI, decodeOpcode(0x8000))
	assert.Equal(t, OpRES, decodeOpcode(0xD000))
}

func TestOperandFields(t *testing.T) {
	instr := uint16(0x1265) // ADD R1, R1, #5
	assert.Equal(t, R1, dr(instr))
	assert.Equal(t, R1, sr1(instr))
	assert.True(t, immFlag(instr))
	assert.Equal(t, uint16(5), imm5(instr))
}

func TestImm5SignExtension(t *testing.T) {
	instr := uint16(0x127F) // ADD R1, R1, #-1
	assert.Equal(t, uint16(0xFFFF), imm5(instr))
}

func TestPcOffsets(t *testing.T) {
	assert.Equal(t, uint16(0xFF), pcOffset9(0xE0FF))
	assert.Equal(t, uint16(2), pcOffset11(0x4802&0x7FF))
}

func TestTrapVector(t *testing.T) {
	assert.Equal(t, uint16(0x25), trapVector(0xF025))
}
