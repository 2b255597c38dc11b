// Package host provides the TerminalHost capability the LC-3 memory bus and
// trap executor consume for keyboard I/O. It is deliberately narrow: raw
// mode control, a non-blocking readiness poll, and blocking/unbuffered byte
// I/O. Terminal raw-mode configuration and keypress detection are
// platform-specific (POSIX termios vs. Win32 console APIs), so this
// interpreter treats the terminal as an external collaborator behind a
// capability interface rather than reaching for syscalls directly.
package host

import (
	"bufio"
	"os"

	"golang.org/x/term"
)

// TerminalHost is the capability interface injected into the memory bus
// (internal/vm.Machine's Read) and the GETC/IN trap handlers. Two implementations
// exist: PosixTerminal, backed by the real stdin/stdout of the process, and
// ScriptedTerminal, a test double that lets tests substitute a scripted
// keyboard instead of driving a real tty.
type TerminalHost interface {
	// EnableRaw disables line buffering and local echo.
	EnableRaw() error

	// Restore restores prior terminal attributes. Idempotent: calling it
	// when raw mode was never enabled, or more than once, is a no-op.
	Restore() error

	// KeyReady reports, without blocking, whether a byte is available to
	// read.
	KeyReady() bool

	// ReadByte blocks until one byte is available and returns it.
	ReadByte() (byte, error)

	// WriteByte writes one byte to the terminal's output.
	WriteByte(b byte) error

	// Flush flushes any buffered output.
	Flush() error
}

// PosixTerminal implements TerminalHost against the process's real stdin
// and stdout, using golang.org/x/term for raw-mode control instead of
// hand-rolled tcgetattr/tcsetattr calls.
type PosixTerminal struct {
	in     *os.File
	out    *bufio.Writer
	fd     int
	state  *term.State
	isRaw  bool
	reader *bufio.Reader
}

var _ TerminalHost = (*PosixTerminal)(nil)

// NewPosixTerminal constructs a TerminalHost around os.Stdin/os.Stdout.
func NewPosixTerminal() *PosixTerminal {
	return &PosixTerminal{
		in:     os.Stdin,
		out:    bufio.NewWriter(os.Stdout),
		fd:     int(os.Stdin.Fd()),
		reader: bufio.NewReader(os.Stdin),
	}
}

// EnableRaw disables canonical mode and echo on the controlling terminal.
// If stdin is not a terminal (e.g. redirected from a file/pipe in tests or
// scripted runs), EnableRaw is a no-op: KeyReady/ReadByte still work against
// whatever stdin actually is.
func (p *PosixTerminal) EnableRaw() error {
	if !term.IsTerminal(p.fd) {
		return nil
	}
	state, err := term.MakeRaw(p.fd)
	if err != nil {
		return err
	}
	p.state = state
	p.isRaw = true
	return nil
}

// Restore restores the terminal's prior attributes. Idempotent.
func (p *PosixTerminal) Restore() error {
	if !p.isRaw || p.state == nil {
		return nil
	}
	err := term.Restore(p.fd, p.state)
	p.isRaw = false
	p.state = nil
	return err
}

// KeyReady reports whether a byte is currently buffered and ready to read
// without blocking. True non-blocking keypress detection (select/poll on
// the fd) is platform-specific and out of scope here; this checks bufio's
// own buffer only.
func (p *PosixTerminal) KeyReady() bool {
	return p.reader.Buffered() > 0
}

// ReadByte blocks until one byte is available on stdin.
func (p *PosixTerminal) ReadByte() (byte, error) {
	return p.reader.ReadByte()
}

// WriteByte writes one byte to the buffered stdout writer.
func (p *PosixTerminal) WriteByte(b byte) error {
	return p.out.WriteByte(b)
}

// Flush flushes buffered stdout.
func (p *PosixTerminal) Flush() error {
	return p.out.Flush()
}
