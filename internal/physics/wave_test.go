package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/physics"
)

var _ = Describe("Wave", func() {
	Context("when constructed", func() {
		It("should reject grids with fewer than two points", func() {
			for _, n := range []int{-1, 0, 1} {
				_, err := physics.NewWave(n)
				Expect(err).To(MatchError(dynamo.ErrGridTooSmall))
			}
		})

		It("should derive the grid spacing from the point count", func() {
			w, err := physics.NewWave(11)
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Points()).To(Equal(11))
			Expect(w.Dx()).To(BeNumerically("~", 0.1, 1e-15))

			x := w.Grid()
			Expect(x).To(HaveLen(11))
			Expect(x[0]).To(Equal(0.0))
			Expect(x[10]).To(Equal(1.0))
		})
	})

	Context("when deriving", func() {
		var wave *physics.Wave

		BeforeEach(func() {
			var err error
			wave, err = physics.NewWave(7)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should zero both boundary points", func() {
			s := dynamo.State{
				U: []float64{3, 1, 4, 1, 5, 9, 2},
				V: []float64{6, 5, 3, 5, 8, 9, 7},
			}

			r := wave.Derive(s)

			Expect(r.U).To(HaveLen(7))
			Expect(r.V).To(HaveLen(7))
			Expect(r.U[0]).To(Equal(0.0))
			Expect(r.V[0]).To(Equal(0.0))
			Expect(r.U[6]).To(Equal(0.0))
			Expect(r.V[6]).To(Equal(0.0))
		})

		It("should copy velocity into the displacement rate", func() {
			s := dynamo.State{
				U: make([]float64, 7),
				V: []float64{6, 5, 3, 5, 8, 9, 7},
			}

			r := wave.Derive(s)

			Expect(r.U[1:6]).To(Equal([]float64{5, 3, 5, 8, 9}))
		})

		It("should apply the second difference stencil in the interior", func() {
			s := dynamo.State{
				U: []float64{0, 1, 4, 9, 16, 25, 36},
				V: make([]float64, 7),
			}
			dx2 := wave.Dx() * wave.Dx()

			r := wave.Derive(s)

			for i := 1; i < 6; i++ {
				Expect(r.V[i]).To(BeNumerically("~", 2/dx2, 1e-9))
			}
		})

		It("should not modify its input", func() {
			s := wave.Initial(0)
			c := s.Clone()

			wave.Derive(s)

			Expect(s).To(Equal(c))
		})

		It("should panic on mismatched fields", func() {
			s := dynamo.State{U: make([]float64, 7), V: make([]float64, 6)}
			Expect(func() { wave.Derive(s) }).To(Panic())
		})

		It("should panic on a state from another grid", func() {
			s := dynamo.NewState(0, 5)
			Expect(func() { wave.Derive(s) }).To(Panic())
		})
	})

	Context("with three points", func() {
		It("should use dx = 0.5 for the single interior point", func() {
			s := dynamo.State{U: []float64{1, 3, 2}, V: []float64{7, 8, 9}}

			r := physics.Derivative(s)

			Expect(r.V[1]).To(BeNumerically("~", (2-2*3+1)/0.25, 1e-12))
			Expect(r.U[1]).To(Equal(8.0))
			Expect(r.U[0]).To(Equal(0.0))
			Expect(r.V[2]).To(Equal(0.0))
		})
	})

	Context("with two points", func() {
		It("should degenerate to a zero rate", func() {
			s := dynamo.State{U: []float64{1, 2}, V: []float64{3, 4}}

			r := physics.Derivative(s)

			Expect(r.U).To(Equal([]float64{0, 0}))
			Expect(r.V).To(Equal([]float64{0, 0}))
		})
	})

	Context("when initializing", func() {
		It("should sample the sine profile", func() {
			s, err := physics.Initialize(0, 11)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.Time).To(Equal(0.0))
			Expect(s.U).To(HaveLen(11))
			Expect(s.V).To(HaveLen(11))
			Expect(s.U[0]).To(Equal(0.0))
			Expect(s.U[10]).To(BeNumerically("~", 0, 1e-12))
			Expect(s.U[5]).To(BeNumerically("~", 0, 1e-12))
			Expect(s.V[5]).To(BeNumerically("~", -2*math.Pi, 1e-12))
			Expect(s.V[0]).To(BeNumerically("~", 2*math.Pi, 1e-12))
			Expect(s.U[2]).To(BeNumerically("~", math.Sin(0.4*math.Pi), 1e-12))
		})

		It("should carry the start time", func() {
			s, err := physics.Initialize(2.5, 4)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Time).To(Equal(2.5))
		})

		It("should reject n < 2", func() {
			_, err := physics.Initialize(0, 1)
			Expect(err).To(MatchError(dynamo.ErrGridTooSmall))
		})

		It("should build a plucked string at rest", func() {
			w, err := physics.NewWave(5)
			Expect(err).ToNot(HaveOccurred())

			s := physics.Pluck.State(w, 0)

			Expect(s.U).To(Equal([]float64{0, 0.25, 0.5, 0.25, 0}))
			Expect(s.V).To(Equal([]float64{0, 0, 0, 0, 0}))
		})
	})

	Context("when parsing profiles", func() {
		It("should accept known names", func() {
			p, err := physics.ParseProfile("pluck")
			Expect(err).ToNot(HaveOccurred())
			Expect(p).To(Equal(physics.Pluck))
		})

		It("should reject unknown names", func() {
			_, err := physics.ParseProfile("gaussian")
			Expect(err).To(HaveOccurred())
		})

		It("should refuse to sample an unknown profile", func() {
			w, err := physics.NewWave(5)
			Expect(err).ToNot(HaveOccurred())
			Expect(func() { physics.Profile("gaussian").State(w, 0) }).To(PanicWith(MatchError(dynamo.ErrInvalidConfig)))
		})
	})

	Context("when computing energy", func() {
		It("should be zero for a string at rest", func() {
			w, err := physics.NewWave(5)
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Energy(dynamo.NewState(0, 5))).To(Equal(0.0))
		})

		It("should approximate the continuum energy of the sine profile", func() {
			w, err := physics.NewWave(201)
			Expect(err).ToNot(HaveOccurred())

			// integral of (v^2 + u_x^2)/2 over [0,1] is 2π^2
			Expect(w.Energy(w.Initial(0))).To(BeNumerically("~", 2*math.Pi*math.Pi, 0.25))
		})
	})
})
