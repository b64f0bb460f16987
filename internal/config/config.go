package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.001
	DefaultDuration   = 1.0
	DefaultInterval   = 0.01
	DefaultShoulder   = 0.5
	DefaultElbow      = 1.2
	DefaultFrameWidth = 18
	DefaultIntegrator = "rk4"
	DefaultBody       = "arm"
	DefaultMuscleSys  = "arm_muscles"
)

const (
	ReadModeBlocking = "blocking"
	ReadModeLatest   = "latest"
)

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Arm        ArmConfig        `yaml:"arm"`
	// PntDir is prepended to relative .pnt output names.
	PntDir string `yaml:"pnt_dir"`

	// A nil handler block disables that handler.
	ExcitationSetter *ExcitationSetterConfig `yaml:"excitation_setter"`
	CoordinateOutput *CoordinateOutputConfig `yaml:"coordinate_output"`
	MuscleStatus     *MuscleStatusConfig     `yaml:"muscle_status"`
}

type SimulationConfig struct {
	Integrator    string          `yaml:"integrator"`
	Dt            float64         `yaml:"dt"`
	Duration      float64         `yaml:"duration"`
	ValidateState bool            `yaml:"validate_state"`
	InitState     InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	Shoulder float64 `yaml:"shoulder"`
	Elbow    float64 `yaml:"elbow"`
}

type ArmConfig struct {
	Body              string             `yaml:"body"`
	ForceSubsystem    string             `yaml:"force_subsystem"`
	MaxIsometricForce map[string]float64 `yaml:"max_isometric_force"`
}

type ExcitationSetterConfig struct {
	Interval       float64   `yaml:"interval"`
	ForceSubsystem string    `yaml:"force_subsystem"`
	Muscles        Selection `yaml:"muscles"`
	ReadMode       string    `yaml:"read_mode"`
}

type CoordinateOutputConfig struct {
	Interval    float64   `yaml:"interval"`
	Body        string    `yaml:"body"`
	Coordinates Selection `yaml:"coordinates"`
	PntOutput   string    `yaml:"pnt_output"`
	DisablePnt  bool      `yaml:"disable_pnt"`
}

type MuscleStatusConfig struct {
	Interval       float64   `yaml:"interval"`
	ForceSubsystem string    `yaml:"force_subsystem"`
	Muscles        Selection `yaml:"muscles"`
	Variables      Selection `yaml:"variables"`
	PntOutput      string    `yaml:"pnt_output"`
	DisablePnt     bool      `yaml:"disable_pnt"`
	FrameWidth     int       `yaml:"frame_width"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Integrator:    DefaultIntegrator,
			Dt:            DefaultDt,
			Duration:      DefaultDuration,
			ValidateState: true,
			InitState: InitStateConfig{
				Shoulder: DefaultShoulder,
				Elbow:    DefaultElbow,
			},
		},
		Arm: ArmConfig{
			Body:           DefaultBody,
			ForceSubsystem: DefaultMuscleSys,
		},
		ExcitationSetter: &ExcitationSetterConfig{
			Interval:       DefaultInterval,
			ForceSubsystem: DefaultMuscleSys,
			Muscles:        Selection{All: true},
			ReadMode:       ReadModeBlocking,
		},
		CoordinateOutput: &CoordinateOutputConfig{
			Interval:    DefaultInterval,
			Body:        DefaultBody,
			Coordinates: Selection{All: true},
		},
		MuscleStatus: &MuscleStatusConfig{
			Interval:       DefaultInterval,
			ForceSubsystem: DefaultMuscleSys,
			Muscles:        Selection{All: true},
			Variables:      Selection{All: true},
			FrameWidth:     DefaultFrameWidth,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Simulation.Dt <= 0 {
		return fmt.Errorf("%w: simulation.dt must be positive, got %v", ErrInvalid, c.Simulation.Dt)
	}
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("%w: simulation.duration must be positive, got %v", ErrInvalid, c.Simulation.Duration)
	}
	if c.Simulation.Integrator == "" {
		return fmt.Errorf("%w: simulation.integrator is required", ErrInvalid)
	}
	if c.Arm.Body == "" || c.Arm.ForceSubsystem == "" {
		return fmt.Errorf("%w: arm.body and arm.force_subsystem are required", ErrInvalid)
	}

	if es := c.ExcitationSetter; es != nil {
		if es.Interval < 0 {
			return fmt.Errorf("%w: excitation_setter.interval must not be negative", ErrInvalid)
		}
		if es.ForceSubsystem == "" {
			return fmt.Errorf("%w: excitation_setter.force_subsystem is required", ErrInvalid)
		}
		switch es.ReadMode {
		case "", ReadModeBlocking, ReadModeLatest:
		default:
			return fmt.Errorf("%w: excitation_setter.read_mode %q (want %s or %s)", ErrInvalid, es.ReadMode, ReadModeBlocking, ReadModeLatest)
		}
	}

	if co := c.CoordinateOutput; co != nil {
		if co.Interval < 0 {
			return fmt.Errorf("%w: coordinate_output.interval must not be negative", ErrInvalid)
		}
		if co.Body == "" {
			return fmt.Errorf("%w: coordinate_output.body is required", ErrInvalid)
		}
	}

	if ms := c.MuscleStatus; ms != nil {
		if ms.Interval < 0 {
			return fmt.Errorf("%w: muscle_status.interval must not be negative", ErrInvalid)
		}
		if ms.ForceSubsystem == "" {
			return fmt.Errorf("%w: muscle_status.force_subsystem is required", ErrInvalid)
		}
		if ms.FrameWidth < 0 {
			return fmt.Errorf("%w: muscle_status.frame_width must not be negative", ErrInvalid)
		}
	}
	return nil
}

// Handlers lists the enabled handler blocks in execution order.
func (c *Config) Handlers() []string {
	names := make([]string, 0, 3)
	if c.ExcitationSetter != nil {
		names = append(names, "excitation_setter")
	}
	if c.CoordinateOutput != nil {
		names = append(names, "coordinate_output")
	}
	if c.MuscleStatus != nil {
		names = append(names, "muscle_status")
	}
	return names
}
