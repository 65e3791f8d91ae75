package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger provides component-tagged structured logging.
type Logger interface {
	Info(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Debug(component string, message string, fields map[string]interface{})
}

type Options struct {
	Debug bool
	JSON  bool
	Out   io.Writer
}

// New builds the application logger from runtime options.
func New(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	if opts.JSON {
		return NewZerolog(out, level)
	}
	return NewZerolog(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}, level)
}

// NoOp discards everything. Used by tests and the headless command when --quiet is set.
type NoOp struct{}

func (NoOp) Info(component string, message string, fields map[string]interface{})    {}
func (NoOp) Error(component string, err error, fields map[string]interface{})        {}
func (NoOp) Warning(component string, message string, fields map[string]interface{}) {}
func (NoOp) Debug(component string, message string, fields map[string]interface{})   {}
