package hunlint

import (
	"io"
	"log"
	"runtime"
)

var discardLogger = log.New(io.Discard, "", 0)

// settings holds what every Option may tune.
type settings struct {
	logger  *log.Logger
	workers int
}

// Option configures a Generator or a Reducer.
type Option func(s *settings)

// WithLogger sets the logger used for lints and statistics. The default
// discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds the goroutines used by batch operations. Values below
// one mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: discardLogger}
	for _, opt := range opts {
		opt(&s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}
