package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/lixenwraith/matrix-rain/terminal"
)

// Finalizer restores a terminal; terminal.Terminal satisfies it
type Finalizer interface {
	Fini()
}

var crashTerminal atomic.Pointer[Finalizer]

// RegisterTerminal sets the terminal HandleCrash restores; nil clears it
func RegisterTerminal(t Finalizer) {
	if t == nil {
		crashTerminal.Store(nil)
		return
	}
	crashTerminal.Store(&t)
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}
	reportCrash(r, os.Stdout, os.Stderr)
	os.Exit(1)
}

// reportCrash restores the registered terminal, falling back to raw reset sequences on out
func reportCrash(r any, out, errOut io.Writer) {
	if t := crashTerminal.Load(); t != nil {
		(*t).Fini()
	} else {
		terminal.EmergencyReset(out)
	}

	// \r\n in case the terminal is still in raw mode
	fmt.Fprintf(errOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(errOut, "Stack Trace:\r\n%s\r\n", debug.Stack())
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
