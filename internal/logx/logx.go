// Package logx is a minimal [gopt]-prefixed logger over
// fmt.Fprintf(os.Stderr, ...), matching the teacher's own ad hoc
// logging style rather than pulling in a structured logging library the
// teacher never uses. Trace logging (NaN-radiance warnings, worker
// park/Shutdown/workload-discard events) is off by default and enabled
// with SetVerbose(true), mirroring the -v flag on the gopt binary.
package logx

import (
	"fmt"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose toggles whether Trace actually prints.
func SetVerbose(v bool) { verbose.Store(v) }

// Trace logs a low-level diagnostic (NaN radiance, a worker parking, a
// discarded stale workload). Silent unless SetVerbose(true).
func Trace(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	fmt.Fprintf(os.Stderr, "[gopt] trace: "+format+"\n", args...)
}

// Warn logs a recoverable anomaly that doesn't prevent rendering from
// continuing.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[gopt] warn: "+format+"\n", args...)
}

// Error logs a failure, typically right before the caller aborts.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[gopt] error: "+format+"\n", args...)
}
