package bridge

import (
	"io"
	"log/slog"
)

// Stream names passed to a Tap.
const (
	StreamCoordinates = "coordinates"
	StreamMuscles     = "muscles"
	StreamControl     = "control"
)

// Tap observes every frame a handler exchanges with the controller. The
// values slice is reused by the handler and must be copied to be kept.
type Tap func(stream string, t float64, values []float64)

type options struct {
	pnt    io.Writer
	tap    Tap
	logger *slog.Logger
}

type Option func(*options)

// WithPnt sets the secondary output that receives time-stamped frames.
// The handler closes it on Close if it is an io.Closer.
func WithPnt(w io.Writer) Option {
	return func(o *options) { o.pnt = w }
}

func WithTap(tap Tap) Option {
	return func(o *options) { o.tap = tap }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func closeIfCloser(w interface{}) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
