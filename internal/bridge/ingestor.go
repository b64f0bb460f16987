package bridge

import (
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/armbridge/internal/dynamo"
	"github.com/san-kum/armbridge/internal/musculo"
	"github.com/san-kum/armbridge/internal/schedule"
)

const ExcitationIngestorName = "excitation_setter"

type target struct {
	muscle  musculo.Muscle
	channel int
}

// ExcitationIngestor reads one control line per eligible step and sets
// the excitation of every classified muscle from its group's channel.
// Muscles no rule matches are never touched.
type ExcitationIngestor struct {
	gate    *schedule.Gate
	src     LineSource
	vec     ControlVector
	targets []target
	opts    options
}

func NewExcitationIngestor(interval float64, muscles []musculo.Muscle, src LineSource, opts ...Option) (*ExcitationIngestor, error) {
	gate, err := schedule.NewGate(interval)
	if err != nil {
		return nil, err
	}
	ing := &ExcitationIngestor{
		gate: gate,
		src:  src,
		opts: buildOptions(opts),
	}
	for _, m := range muscles {
		g, ok := Classify(m.Name())
		if !ok {
			ing.opts.logger.Debug("muscle not driven by any channel", "muscle", m.Name())
			continue
		}
		ing.targets = append(ing.targets, target{muscle: m, channel: g.Channel()})
	}
	return ing, nil
}

func (e *ExcitationIngestor) Name() string { return ExcitationIngestorName }

// Vector returns the current control vector.
func (e *ExcitationIngestor) Vector() ControlVector { return e.vec }

// Driven returns the number of muscles the ingestor sets.
func (e *ExcitationIngestor) Driven() int { return len(e.targets) }

func (e *ExcitationIngestor) Handle(t float64) (bool, error) {
	if !e.gate.Due(t) {
		return false, nil
	}
	e.gate.Commit(t)

	line, ok, err := e.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			e.opts.logger.Info("controller closed input", "t", t)
			return true, dynamo.ErrHalt
		}
		return true, fmt.Errorf("read control line: %w", err)
	}
	if ok {
		n := e.vec.Apply(line)
		e.opts.logger.Debug("received", "t", t, "channels", n, "vector", e.vec)
		if e.opts.tap != nil {
			e.opts.tap(StreamControl, t, e.vec[:])
		}
	}

	for _, tg := range e.targets {
		tg.muscle.SetExcitation(e.vec[tg.channel])
	}
	return true, nil
}

func (e *ExcitationIngestor) Close() error {
	return closeIfCloser(e.src)
}
