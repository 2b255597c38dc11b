// Command lc3 interprets LC-3 object images.
//
// Usage: lc3 IMAGE [IMAGE ...]
//
// Each image is loaded, in argument order, into a single 64KiB machine;
// later images overwrite earlier ones on overlap. Execution begins at
// 0x3000 and runs until TRAP HALT, an invalid opcode, or SIGINT.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hejops/lc3vm/internal/host"
	"github.com/hejops/lc3vm/internal/vm"
)

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Println("lc3 [image-file1] ...")
		return 2
	}

	term := host.NewPosixTerminal()
	m := vm.NewMachine(term)

	for _, path := range args {
		if err := loadImageFile(m, path); err != nil {
			fmt.Printf("failed to load image: %s\n", path)
			return 1
		}
	}

	if err := term.EnableRaw(); err != nil {
		log.Printf("lc3: warning: could not enable raw terminal mode: %v", err)
	}
	defer term.Restore()

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		// The handler only triggers cleanup and exit; it touches no
		// VM state.
		term.Restore()
		fmt.Println()
		os.Exit(-2)
	}()
	defer cancel()

	_, err := m.Run(ctx)
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		// SIGINT path already exits from the goroutine above; this
		// only covers a non-signal cancellation of ctx.
		return -2
	}
	log.Printf("lc3: %v", err)
	return 1
}

func loadImageFile(m *vm.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", vm.ErrImageLoad, err)
	}
	defer f.Close()
	return vm.LoadImage(m, f)
}
