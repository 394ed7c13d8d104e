package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	crashMu   sync.Mutex
	crashHook func()
)

// SetCrashHook registers cleanup run before a crash report, typically terminal restore
func SetCrashHook(fn func()) {
	crashMu.Lock()
	crashHook = fn
	crashMu.Unlock()
}

// HandleCrash restores the terminal, logs the panic with stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	hook := crashHook
	crashMu.Unlock()
	if hook != nil {
		hook()
	}

	stack := debug.Stack()
	log.WithField("panic", r).Errorf("crash\n%s", stack)

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the 'go' keyword so a crash restores the terminal
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
