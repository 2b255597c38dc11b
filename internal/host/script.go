package host

import (
	"errors"
)

// ErrNoInput is returned by ScriptedTerminal.ReadByte when the scripted
// input is exhausted.
var ErrNoInput = errors.New("host: scripted input exhausted")

// ScriptedTerminal is an in-memory TerminalHost test double: a fixed
// sequence of input bytes and a buffer collecting output bytes. It lets
// cpu/exec tests substitute a scripted keyboard instead of driving a real
// tty.
type ScriptedTerminal struct {
	Input  []byte
	pos    int
	Output []byte
	Raw    bool
}

var _ TerminalHost = (*ScriptedTerminal)(nil)

// NewScriptedTerminal constructs a ScriptedTerminal that will yield the
// given input bytes in order.
func NewScriptedTerminal(input []byte) *ScriptedTerminal {
	return &ScriptedTerminal{Input: input}
}

func (s *ScriptedTerminal) EnableRaw() error {
	s.Raw = true
	return nil
}

func (s *ScriptedTerminal) Restore() error {
	s.Raw = false
	return nil
}

func (s *ScriptedTerminal) KeyReady() bool {
	return s.pos < len(s.Input)
}

func (s *ScriptedTerminal) ReadByte() (byte, error) {
	if s.pos >= len(s.Input) {
		return 0, ErrNoInput
	}
	b := s.Input[s.pos]
	s.pos++
	return b, nil
}

func (s *ScriptedTerminal) WriteByte(b byte) error {
	s.Output = append(s.Output, b)
	return nil
}

func (s *ScriptedTerminal) Flush() error {
	return nil
}
