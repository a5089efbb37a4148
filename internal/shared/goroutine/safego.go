// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// SafeGo launches a goroutine with panic recovery. If the goroutine panics,
// the panic is caught and logged with stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}

// Recover logs a panic of the current goroutine and swallows it. It must be
// deferred directly:
//
//	defer goroutine.Recover(log, "sync-provider")
//
// It reports whether a panic was recovered through the optional panicked flag.
func Recover(log logger.Interface, name string, panicked ...*bool) {
	r := recover()
	if r == nil {
		return
	}
	for _, p := range panicked {
		if p != nil {
			*p = true
		}
	}
	log.Errorw("goroutine panicked",
		"goroutine", name,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()),
	)
}
