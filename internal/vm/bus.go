package vm

// Write performs an unconditional store: memory[addr] = val. Writes to
// KBSR/KBDR have no I/O side effect; they behave as ordinary memory.
func (m *Machine) Write(addr uint16, val uint16) {
	m.Mem[addr] = val
}

// Read loads memory[addr]. Reading KBSR polls the TerminalHost: if a byte
// is ready, KBSR is set to 0x8000 and KBDR is loaded with the byte
// (zero-extended); otherwise KBSR is cleared to 0. This is what pumps the
// host keyboard -- an LC-3 program spin-polls KBSR, and the act of polling
// is what consumes a byte from the host. Status polling and data
// consumption are coupled this way in the reference LC-3 implementation;
// a program that reads KBSR twice between KBDR reads can lose a byte, and
// that coupling is preserved here rather than fixed.
//
// Reads of KBDR without a prior KBSR read return whatever was last stored
// there; there is no independent side effect on that path.
func (m *Machine) Read(addr uint16) uint16 {
	if addr == KBSR {
		if m.Host != nil && m.Host.KeyReady() {
			b, err := m.Host.ReadByte()
			if err != nil {
				m.Mem[KBSR] = 0
			} else {
				m.Mem[KBSR] = 0x8000
				m.Mem[KBDR] = uint16(b)
			}
		} else {
			m.Mem[KBSR] = 0
		}
	}
	return m.Mem[addr]
}
