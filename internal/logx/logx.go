// Package logx configures the process-wide zerolog logger.
package logx

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where and how much to log.
type Options struct {
	Production bool
	Level      zerolog.Level

	// File receives logs instead of stderr. Required while the terminal UI
	// owns the screen.
	File string

	// Discard drops everything. Used when the UI runs and no file is set.
	Discard bool
}

// Init installs the global logger and returns a closer for any opened file.
func Init(opts Options) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	case opts.Discard:
		out = io.Discard
	}

	log.Logger = New(out, opts)
	zerolog.SetGlobalLevel(opts.Level)
	return closer, nil
}

// New builds a logger writing to w. Development logs are human readable
// unless they go to a file.
func New(w io.Writer, opts Options) zerolog.Logger {
	if !opts.Production && opts.File == "" && w != io.Discard {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	ctx := zerolog.New(w).With().Timestamp()
	if !opts.Production {
		ctx = ctx.Caller()
	}
	return ctx.Logger().Level(opts.Level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
