package metrics

import (
	"math"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

// Stability is the fraction of observed states whose displacement stays
// finite and within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
	peak       float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ int, x dynamo.State) {
	s.samples++
	for _, val := range x.U {
		a := math.Abs(val)
		if math.IsNaN(val) || a > s.threshold {
			s.violations++
			break
		}
		s.peak = math.Max(s.peak, a)
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Peak returns the largest in-bounds |u| seen so far.
func (s *Stability) Peak() float64 { return s.peak }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
	s.peak = 0
}
