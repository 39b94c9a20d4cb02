package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebuggerEnabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := New(zap.New(core), true)

	d.Header("Scoring")
	d.Output("[%4.2f] %s", 3.5, "12 SMITH ST")
	d.Timing("scoring")()

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "=== Scoring ===", entries[0].Message)
	assert.Equal(t, "[3.50] 12 SMITH ST", entries[1].Message)
	assert.Equal(t, "completed scoring", entries[2].Message)
}

func TestDebuggerDisabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := New(zap.New(core), false)

	d.Header("Scoring")
	d.Output("hidden %d", 1)
	d.Timing("scoring")()

	assert.Zero(t, logs.Len())
}

func TestNilDebugger(t *testing.T) {
	var d *Debugger
	assert.False(t, d.Enabled())
	assert.NotPanics(t, func() {
		d.Output("x")
		d.Header("x")
		d.Timing("x")()
	})
}
