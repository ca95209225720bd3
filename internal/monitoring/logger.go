// Package monitoring holds the driver's diagnostic logging hook.
package monitoring

import "log"

// Logf is the package-level diagnostic logger for the driver. It defaults to
// log.Printf but may be replaced by SetLogger so tests and embedding
// processes can redirect or mute driver output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
