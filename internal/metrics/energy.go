package metrics

import (
	"math"

	"github.com/san-kum/armbridge/internal/dynamo"
)

// Energy is the mean energy reported by a Hamiltonian system.
type Energy struct {
	name        string
	dyn         dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(dyn dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		dyn:  dyn,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.totalEnergy += e.dyn.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// PeakEnergy is the largest energy observed.
type PeakEnergy struct {
	name string
	dyn  dynamo.Hamiltonian
	peak float64
}

func NewPeakEnergy(dyn dynamo.Hamiltonian) *PeakEnergy {
	return &PeakEnergy{
		name: "peak_energy",
		dyn:  dyn,
	}
}

func (e *PeakEnergy) Name() string { return e.name }

func (e *PeakEnergy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.peak = math.Max(e.peak, e.dyn.Energy(x))
}

func (e *PeakEnergy) Value() float64 { return e.peak }

func (e *PeakEnergy) Reset() { e.peak = 0 }
