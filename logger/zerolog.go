package logger

import (
	"github.com/rs/zerolog"

	"latchtree"
)

// Zerolog wraps a zerolog.Logger to implement latchtree.Logger.
type Zerolog struct {
	logger zerolog.Logger
}

// NewZerolog creates a latchtree.Logger from a zerolog.Logger.
func NewZerolog(logger zerolog.Logger) latchtree.Logger {
	return &Zerolog{logger: logger}
}

// Error logs an error message with key-value pairs.
func (z *Zerolog) Error(msg string, args ...any) {
	withArgs(z.logger.Error(), args).Msg(msg)
}

// Warn logs a warning message with key-value pairs.
func (z *Zerolog) Warn(msg string, args ...any) {
	withArgs(z.logger.Warn(), args).Msg(msg)
}

// Info logs an info message with key-value pairs.
func (z *Zerolog) Info(msg string, args ...any) {
	withArgs(z.logger.Info(), args).Msg(msg)
}

func withArgs(e *zerolog.Event, args []any) *zerolog.Event {
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			e = e.Interface(key, args[i+1])
		}
	}
	return e
}
