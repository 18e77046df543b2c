package common

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/ternarybob/arbor"
)

var goroutineCounter int64

// GetGoroutineCount returns the number of goroutines spawned via SafeGo
func GetGoroutineCount() int64 {
	return atomic.LoadInt64(&goroutineCounter)
}

// SafeGo runs fn in a goroutine with panic recovery.
// A panic is logged with its stack and the process keeps running.
//
//	common.SafeGo(logger, "ws-reader", func() {
//	    h.readLoop(conn, view)
//	})
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	atomic.AddInt64(&goroutineCounter, 1)

	go func() {
		defer RecoverAndLog(logger, name)
		fn()
	}()
}

// RecoverAndLog is the deferred half of SafeGo, usable on goroutines started elsewhere
// (cron jobs, http handlers).
func RecoverAndLog(logger arbor.ILogger, name string) {
	r := recover()
	if r == nil {
		return
	}

	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	stackTrace := string(buf[:n])

	if logger != nil {
		logger.Error().
			Str("goroutine", name).
			Str("panic", fmt.Sprintf("%v", r)).
			Str("stack", stackTrace).
			Msg("Recovered from panic in goroutine - continuing service operation")
		return
	}
	fmt.Fprintf(os.Stderr, "PANIC in goroutine %s: %v\n%s\n", name, r, stackTrace)
}
