package utils

import (
	"os"
	"os/signal"
	"time"
)

// Wait blocks for d or until the user interrupts, whichever comes first.
// Reports whether the wait was interrupted. Interruption is not an error:
// during a secure display it means "clear now", and the surrounding
// operation still completes normally.
func Wait(d time.Duration) bool {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return false
	case <-sig:
		return true
	}
}
