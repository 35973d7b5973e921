package metrics

import (
	"math"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

// BoundaryDrift reports how far the end points moved from their first
// observed values. With frozen boundaries it stays exactly zero.
type BoundaryDrift struct {
	name     string
	initial  [4]float64
	maxDrift float64
	samples  int
}

func NewBoundaryDrift() *BoundaryDrift {
	return &BoundaryDrift{name: "boundary_drift"}
}

func (b *BoundaryDrift) Name() string { return b.name }

func (b *BoundaryDrift) Observe(_ int, x dynamo.State) {
	n := x.Len()
	if n == 0 {
		return
	}
	edges := [4]float64{x.U[0], x.V[0], x.U[n-1], x.V[n-1]}

	if b.samples == 0 {
		b.initial = edges
	}
	b.samples++

	for i := range edges {
		b.maxDrift = math.Max(b.maxDrift, math.Abs(edges[i]-b.initial[i]))
	}
}

func (b *BoundaryDrift) Value() float64 { return b.maxDrift }

func (b *BoundaryDrift) Reset() {
	b.initial = [4]float64{}
	b.maxDrift = 0
	b.samples = 0
}
