package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// LoadImage reads a big-endian LC-3 object image from r and stores it into
// m.Mem. The first word is the load origin O; subsequent words are placed
// at memory[O], memory[O+1], ... The loader reads at most 65536-O words and
// silently stops at EOF. Loading multiple images in sequence is supported
// by calling LoadImage once per image; later images overwrite overlapping
// regions.
//
// LoadImage returns a wrapped ErrImageLoad if the stream is shorter than
// two bytes (no origin present) or a read error occurs reading the origin.
// A read error on a data word other than EOF is also reported; EOF after
// zero or more whole words, including a stray odd trailing byte, is the
// normal truncation path and is not an error.
func LoadImage(m *Machine, r io.Reader) error {
	var origin uint16
	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		return fmt.Errorf("%w: reading origin: %w", ErrImageLoad, err)
	}

	maxWords := int(uint32(65536) - uint32(origin))
	for i := 0; i < maxWords; i++ {
		var word uint16
		err := binary.Read(r, binary.BigEndian, &word)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading word %d: %w", ErrImageLoad, i, err)
		}
		m.Mem[int(origin)+i] = word
	}
	return nil
}
