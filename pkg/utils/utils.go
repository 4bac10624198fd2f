package utils

import (
	"context"
	"log"
	"runtime/debug"

	"gaming-sentiment-tracker/pkg/logger"
)

// GoSafe runs fn in a new goroutine and recovers from panics so a
// single misbehaving task cannot crash the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still live, logging
// the cancellation reason when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
