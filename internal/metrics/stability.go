package metrics

import (
	"math"

	"github.com/san-kum/armbridge/internal/dynamo"
)

// Stability is the fraction of samples whose first dims state entries
// all stay within threshold. dims <= 0 checks the whole state.
type Stability struct {
	name       string
	threshold  float64
	dims       int
	violations int
	samples    int
}

func NewStability(threshold float64, dims int) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
		dims:      dims,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	n := len(x)
	if s.dims > 0 && s.dims < n {
		n = s.dims
	}
	for _, val := range x[:n] {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
