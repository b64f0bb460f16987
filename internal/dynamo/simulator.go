package dynamo

import (
	"context"
	"errors"
	"fmt"
)

// Simulator advances a System and drives its periodic handlers. Each
// step runs, in order: Sync, handlers (registration order), metrics,
// integration.
type Simulator struct {
	dyn        System
	integrator Integrator
	handlers   []Handler
	metrics    []Metric
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		handlers:   make([]Handler, 0),
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddHandler(h Handler) { s.handlers = append(s.handlers, h) }
func (s *Simulator) AddMetric(m Metric)   { s.metrics = append(s.metrics, m) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d entries, system expects %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	steps := cfg.Steps()
	result := &Result{
		Handled: make(map[string]int, len(s.handlers)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	sync, _ := s.dyn.(Synchronizer)
	actuated, _ := s.dyn.(Actuated)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return s.finish(result, x, t), ctx.Err()
		default:
		}

		// Times are derived from the step index so that a fixed sampling
		// interval lines up with dt multiples.
		t = float64(i) * cfg.Dt

		if sync != nil {
			sync.Sync(x, t)
		}

		halted, err := s.dispatch(result, i, t)
		if err != nil {
			return s.finish(result, x, t), err
		}
		if halted {
			result.Halted = true
			break
		}

		var u Control
		if actuated != nil {
			u = actuated.Control()
		}
		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}

		newX := s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		if cfg.ValidateState && !newX.IsValid() {
			return s.finish(result, x, t), &SimulationError{
				Step:    i,
				Time:    t,
				Wrapped: fmt.Errorf("%w: %v", ErrInvalidState, SimError{Time: t, Step: i, Message: "integration diverged"}),
			}
		}

		x = newX
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++
	}

	if sync != nil {
		sync.Sync(x, t)
	}
	return s.finish(result, x, t), nil
}

func (s *Simulator) dispatch(result *Result, step int, t float64) (bool, error) {
	for _, h := range s.handlers {
		handled, err := h.Handle(t)
		if handled {
			result.Handled[h.Name()]++
		}
		if err == nil {
			continue
		}
		if errors.Is(err, ErrHalt) {
			return true, nil
		}
		return false, &SimulationError{Step: step, Time: t, Handler: h.Name(), Wrapped: err}
	}
	return false, nil
}

func (s *Simulator) finish(result *Result, x State, t float64) *Result {
	result.FinalState = x.Clone()
	result.FinalTime = t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
