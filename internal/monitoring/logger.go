// Package monitoring carries the package-level diagnostic logger shared by
// the renderers and the results store.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var verbose bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose toggles Debugf output.
func SetVerbose(v bool) { verbose = v }

// Debugf logs through Logf only when verbose mode is on. Render and store
// paths use it for per-step tracing that would drown normal runs.
func Debugf(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
