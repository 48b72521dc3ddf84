package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// activeScreen is the screen owned by the terminal host, restored on crash
var activeScreen struct {
	sync.Mutex
	screen tcell.Screen
}

func setActiveScreen(s tcell.Screen) {
	activeScreen.Lock()
	activeScreen.screen = s
	activeScreen.Unlock()
}

// restoreScreen finalizes the active screen so the shell is usable again
func restoreScreen() {
	activeScreen.Lock()
	defer activeScreen.Unlock()
	if activeScreen.screen != nil {
		activeScreen.screen.Fini()
		activeScreen.screen = nil
	}
}

func main() {
	// Panic Recovery: ensure the terminal is reset even if the host crashes
	defer func() {
		if r := recover(); r != nil {
			restoreScreen()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mPETAL-BLOOM CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
