package sim_test

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/constants"
	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/world"
)

func TestConservation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Conservation Suite")
}

var _ = Describe("conservation laws", func() {
	var (
		w      *world.World
		period float64
	)

	newBoundPair := func() (*world.World, float64) {
		const (
			central = 1e15
			r       = 1e6
		)
		mu := constants.G * central
		p := 2 * math.Pi * math.Sqrt(r*r*r/mu)

		ww := world.New()
		ww.AddBody(world.Vec3{}, world.Vec3{}, central)
		ww.AddBody(world.Vec3{X: r}, world.Vec3{Y: math.Sqrt(mu / r)}, 1.0)
		return ww, p
	}

	BeforeEach(func() {
		w, period = newBoundPair()
	})

	Describe("total energy", func() {
		It("decomposes exactly into kinetic plus potential", func() {
			Expect(diag.TotalEnergy(w)).To(Equal(diag.KineticEnergy(w) + diag.PotentialEnergy(w)))
		})

		It("is negative for a bound system", func() {
			Expect(diag.TotalEnergy(w)).To(BeNumerically("<", 0))
		})

		It("is preserved through a fixed-step run", func() {
			cfg := sim.DefaultConfig()
			cfg.Dt = period / 1000
			cfg.Duration = period

			result, err := sim.New(w, integrators.NewRK4()).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-6))
		})

		It("is preserved through an adaptive run", func() {
			cfg := sim.DefaultConfig()
			cfg.Dt = period / 100
			cfg.Duration = period
			cfg.Adaptive = true
			cfg.Tolerance = 1e-9

			result, err := sim.New(w, integrators.NewDopri54()).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("angular momentum", func() {
		It("keeps its vector through a run", func() {
			l0 := diag.AngularMomentum(w)

			cfg := sim.DefaultConfig()
			cfg.Dt = period / 1000
			cfg.Duration = 3 * period

			_, err := sim.New(w, integrators.NewRK4()).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			l := diag.AngularMomentum(w)
			Expect(l.Sub(l0).Magnitude()).To(BeNumerically("<", 1e-6*l0.Magnitude()))
		})
	})

	Describe("symplectic integration", func() {
		It("keeps the leapfrog energy error bounded over many orbits", func() {
			cfg := sim.DefaultConfig()
			cfg.Dt = period / 200
			cfg.Duration = 20 * period

			result, err := sim.New(w, integrators.NewLeapfrog()).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			worst := 0.0
			for _, e := range result.Energies {
				drift := math.Abs(e-result.Energies[0]) / math.Abs(result.Energies[0])
				worst = math.Max(worst, drift)
			}
			Expect(worst).To(BeNumerically("<", 0.01))
		})
	})
})
