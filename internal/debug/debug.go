// Package debug carries the verbose diagnostics switch used by single-address
// lookups. Output goes through the caller's zap logger at info level so it is
// visible without lowering the configured level.
package debug

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Debugger writes diagnostics when enabled and is a no-op otherwise. The zero
// value and a nil *Debugger are both disabled.
type Debugger struct {
	enabled bool
	log     *zap.Logger
}

// New returns a Debugger writing to log when enabled is true.
func New(log *zap.Logger, enabled bool) *Debugger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Debugger{enabled: enabled, log: log.WithOptions(zap.AddCallerSkip(1))}
}

// Enabled reports whether output is written.
func (d *Debugger) Enabled() bool {
	return d != nil && d.enabled
}

// Header marks the start of a diagnostic block.
func (d *Debugger) Header(title string) {
	if d.Enabled() {
		d.log.Info("=== " + title + " ===")
	}
}

// Output writes one formatted diagnostic line.
func (d *Debugger) Output(format string, args ...interface{}) {
	if d.Enabled() {
		d.log.Info(fmt.Sprintf(format, args...))
	}
}

// Timing logs how long operation took once the returned func is called.
func (d *Debugger) Timing(operation string) func() {
	if !d.Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		d.log.Info("completed "+operation, zap.Duration("took", time.Since(start)))
	}
}
