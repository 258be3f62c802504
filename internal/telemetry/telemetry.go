// Package telemetry builds the structured logger handed to every core
// component's constructor. It is the one place a process wires up a real
// hclog.Logger; the core packages themselves never reach for a package
// global or call hclog.Default.
package telemetry

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options configures the root logger.
type Options struct {
	Name   string
	Level  string // "trace", "debug", "info", "warn", "error"
	Output io.Writer
}

// New builds a root hclog.Logger. An unrecognized or empty Level falls
// back to hclog's own default (info).
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   opts.Name,
		Level:  hclog.LevelFromString(opts.Level),
		Output: out,
	})
}
