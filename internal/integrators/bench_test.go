package integrators

import (
	"testing"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/physics"
)

func benchmarkStep(b *testing.B, integ dynamo.Integrator, n int) {
	w, err := physics.NewWave(n)
	if err != nil {
		b.Fatal(err)
	}
	x := w.Initial(0)
	dt := 0.25 * w.Dx()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(w, x, dt)
	}
}

func BenchmarkMidpoint_Wave11(b *testing.B)   { benchmarkStep(b, NewMidpoint(), 11) }
func BenchmarkMidpoint_Wave1001(b *testing.B) { benchmarkStep(b, NewMidpoint(), 1001) }
func BenchmarkEuler_Wave11(b *testing.B)      { benchmarkStep(b, NewEuler(), 11) }
func BenchmarkEuler_Wave1001(b *testing.B)    { benchmarkStep(b, NewEuler(), 1001) }
func BenchmarkLeapfrog_Wave11(b *testing.B)   { benchmarkStep(b, NewLeapfrog(), 11) }
func BenchmarkLeapfrog_Wave1001(b *testing.B) { benchmarkStep(b, NewLeapfrog(), 1001) }
func BenchmarkRK4_Wave11(b *testing.B)        { benchmarkStep(b, NewRK4(), 11) }
func BenchmarkRK4_Wave1001(b *testing.B)      { benchmarkStep(b, NewRK4(), 1001) }
