package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/marquee/terminal"
)

var (
	crashMu       sync.Mutex
	crashTerminal terminal.Terminal

	// Process hooks, replaced in tests
	crashExit   = os.Exit
	crashOutput io.Writer = os.Stderr
	crashReset  = func() { terminal.EmergencyReset(os.Stdout) }
)

// SetCrashTerminal registers the terminal restored by HandleCrash; nil unregisters
func SetCrashTerminal(t terminal.Terminal) {
	crashMu.Lock()
	crashTerminal = t
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	t := crashTerminal
	crashMu.Unlock()

	// Terminal cleanup if available
	if t != nil {
		t.Fini()
	} else {
		crashReset()
	}

	// \r\n keeps the trace readable if raw mode survived the reset
	fmt.Fprintf(crashOutput, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOutput, "Stack Trace:\r\n%s\r\n", debug.Stack())
	if f, ok := crashOutput.(*os.File); ok {
		f.Sync()
	}

	crashExit(1)
}

// Guard wraps an errgroup worker so a panic restores the terminal before the process exits
func Guard(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		return fn()
	}
}
