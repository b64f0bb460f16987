package bridge

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/armbridge/internal/config"
	"github.com/san-kum/armbridge/internal/dynamo"
	"github.com/san-kum/armbridge/internal/musculo"
)

// Streams are the process streams shared by the handlers.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// Bridge is the set of configured handlers, in execution order.
type Bridge struct {
	Handlers []dynamo.Handler
	closers  []io.Closer
}

// Close closes every handler and its output files.
func (b *Bridge) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build resolves every enabled handler block of cfg against sys. Any
// unknown name, wrong entity kind, unknown variable or unopenable .pnt
// file fails the whole build and leaves nothing open.
func Build(cfg *config.Config, sys musculo.System, streams Streams, logger *slog.Logger, tap Tap) (*Bridge, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Bridge{}
	fail := func(handler string, err error) (*Bridge, error) {
		b.Close()
		return nil, &ConfigError{Handler: handler, Err: err}
	}

	if es := cfg.ExcitationSetter; es != nil {
		sub, err := musculo.ResolveMuscleSubsystem(sys, es.ForceSubsystem)
		if err != nil {
			return fail(ExcitationIngestorName, err)
		}
		muscles, err := musculo.SelectMuscles(sub, selection(es.Muscles))
		if err != nil {
			return fail(ExcitationIngestorName, err)
		}
		var src LineSource
		if es.ReadMode == config.ReadModeLatest {
			src = NewLatestSource(streams.In)
		} else {
			src = NewReaderSource(streams.In)
		}
		ing, err := NewExcitationIngestor(es.Interval, muscles, src,
			WithLogger(logger.With("handler", ExcitationIngestorName)), WithTap(tap))
		if err != nil {
			return fail(ExcitationIngestorName, err)
		}
		b.add(ing, ing)
		logger.Debug("configured", "handler", ExcitationIngestorName, "muscles", len(muscles), "driven", ing.Driven(), "read_mode", es.ReadMode)
	}

	if co := cfg.CoordinateOutput; co != nil {
		body, err := musculo.ResolveArticulatedBody(sys, co.Body)
		if err != nil {
			return fail(CoordinateEmitterName, err)
		}
		coords, err := musculo.SelectCoordinates(body, selection(co.Coordinates))
		if err != nil {
			return fail(CoordinateEmitterName, err)
		}
		opts := []Option{WithLogger(logger.With("handler", CoordinateEmitterName)), WithTap(tap)}
		if !co.DisablePnt {
			f, err := openPnt(cfg.PntDir, co.PntOutput, co.Body+"_coordates_status.pnt")
			if err != nil {
				return fail(CoordinateEmitterName, err)
			}
			opts = append(opts, WithPnt(f))
		}
		em, err := NewCoordinateEmitter(co.Interval, coords, streams.Out, opts...)
		if err != nil {
			closePnt(opts)
			return fail(CoordinateEmitterName, err)
		}
		b.add(em, em)
		logger.Debug("configured", "handler", CoordinateEmitterName, "coordinates", len(coords))
	}

	if ms := cfg.MuscleStatus; ms != nil {
		sub, err := musculo.ResolveMuscleSubsystem(sys, ms.ForceSubsystem)
		if err != nil {
			return fail(MuscleEmitterName, err)
		}
		muscles, err := musculo.SelectMuscles(sub, selection(ms.Muscles))
		if err != nil {
			return fail(MuscleEmitterName, err)
		}
		vars, err := ResolveVariables(selection(ms.Variables))
		if err != nil {
			return fail(MuscleEmitterName, err)
		}
		if ms.FrameWidth > 0 && len(muscles) > ms.FrameWidth {
			return fail(MuscleEmitterName, fmt.Errorf("%w: %d muscles for %d slots", ErrFrameOverflow, len(muscles), ms.FrameWidth))
		}
		opts := []Option{WithLogger(logger.With("handler", MuscleEmitterName)), WithTap(tap)}
		if !ms.DisablePnt {
			f, err := openPnt(cfg.PntDir, ms.PntOutput, ms.ForceSubsystem+"_status.pnt")
			if err != nil {
				return fail(MuscleEmitterName, err)
			}
			opts = append(opts, WithPnt(f))
		}
		em, err := NewMuscleEmitter(ms.Interval, muscles, vars, ms.FrameWidth, streams.Out, opts...)
		if err != nil {
			closePnt(opts)
			return fail(MuscleEmitterName, err)
		}
		b.add(em, em)
		logger.Debug("configured", "handler", MuscleEmitterName, "muscles", len(muscles), "variables", len(vars))
	}

	return b, nil
}

// Shape is the stdout layout of a configuration: the names of the
// emitted coordinates and the muscle frame width. A disabled emitter
// leaves its part empty.
type Shape struct {
	Coordinates []string
	Muscles     int
}

// FrameShape resolves the emitter blocks of cfg against sys without
// opening anything, so a controller can size its reader before the
// bridge starts.
func FrameShape(cfg *config.Config, sys musculo.System) (Shape, error) {
	var s Shape
	if co := cfg.CoordinateOutput; co != nil {
		body, err := musculo.ResolveArticulatedBody(sys, co.Body)
		if err != nil {
			return Shape{}, &ConfigError{Handler: CoordinateEmitterName, Err: err}
		}
		coords, err := musculo.SelectCoordinates(body, selection(co.Coordinates))
		if err != nil {
			return Shape{}, &ConfigError{Handler: CoordinateEmitterName, Err: err}
		}
		for _, c := range coords {
			s.Coordinates = append(s.Coordinates, c.Name())
		}
	}
	if ms := cfg.MuscleStatus; ms != nil {
		sub, err := musculo.ResolveMuscleSubsystem(sys, ms.ForceSubsystem)
		if err != nil {
			return Shape{}, &ConfigError{Handler: MuscleEmitterName, Err: err}
		}
		muscles, err := musculo.SelectMuscles(sub, selection(ms.Muscles))
		if err != nil {
			return Shape{}, &ConfigError{Handler: MuscleEmitterName, Err: err}
		}
		s.Muscles = ms.FrameWidth
		if s.Muscles == 0 {
			s.Muscles = len(muscles)
		}
	}
	return s, nil
}

func (b *Bridge) add(h dynamo.Handler, c io.Closer) {
	b.Handlers = append(b.Handlers, h)
	b.closers = append(b.closers, c)
}

// closePnt releases a .pnt file that never reached a handler.
func closePnt(opts []Option) {
	if o := buildOptions(opts); o.pnt != nil {
		closeIfCloser(o.pnt)
	}
}

func selection(s config.Selection) musculo.Selection {
	return musculo.Selection{All: s.All, Names: s.Names}
}

func openPnt(dir, name, fallback string) (*os.File, error) {
	if name == "" {
		name = fallback
	}
	if dir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOutputFile, name, err)
	}
	return f, nil
}
