package source_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/phys"
	"github.com/san-kum/protorad/internal/source"
	"github.com/san-kum/protorad/internal/units"
)

var _ = Describe("Ensemble", func() {
	var los *geometry.LineOfSight

	BeforeEach(func() {
		var err error
		los, err = geometry.New(
			phys.Vec3{Z: -0.01},
			phys.Vec3{Z: 0.1},
		)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects non-positive particle counts", func() {
		_, err := source.New(los, source.Config{
			N: 0, Energy: units.MeV(3), MaxTheta: units.Degrees(10), Species: phys.Proton,
		})
		Expect(err).To(MatchError(ContainSubstring("particle count")))
	})

	It("rejects non-positive energies", func() {
		_, err := source.New(los, source.Config{
			N: 10, Energy: units.MeV(-1), MaxTheta: units.Degrees(10), Species: phys.Proton,
		})
		Expect(err).To(MatchError(ContainSubstring("energy")))
	})

	It("rejects degenerate cone angles", func() {
		_, err := source.New(los, source.Config{
			N: 10, Energy: units.MeV(3), MaxTheta: 0, Species: phys.Proton,
		})
		Expect(err).To(HaveOccurred())
	})

	It("places every particle at the source point", func() {
		ens, err := source.New(los, source.Config{
			N: 200, Energy: units.MeV(3), MaxTheta: units.Degrees(12), Species: phys.Proton, Seed: 1,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ens.Particles).To(HaveLen(200))
		for _, p := range ens.Particles {
			Expect(p.Pos).To(Equal(phys.Vec3{Z: -0.01}))
			Expect(p.Status).To(Equal(source.Flying))
		}
	})

	It("gives all particles the relativistic speed for their energy", func() {
		ens, err := source.New(los, source.Config{
			N: 100, Energy: units.MeV(3), MaxTheta: units.Degrees(12), Species: phys.Proton, Seed: 2,
		})
		Expect(err).NotTo(HaveOccurred())

		want := phys.Proton.SpeedFromKinetic(units.MeV(3).Joules())
		for _, p := range ens.Particles {
			Expect(p.Vel.Norm()).To(BeNumerically("~", want, want*1e-12))
		}
		Expect(want).To(BeNumerically("<", phys.SpeedOfLight))
	})

	It("keeps every direction within the cone half-angle", func() {
		maxTheta := math.Pi / 15
		ens, err := source.New(los, source.Config{
			N: 5000, Energy: units.MeV(3), MaxTheta: units.Radians(maxTheta), Species: phys.Proton, Seed: 3,
		})
		Expect(err).NotTo(HaveOccurred())

		axis := los.Axis()
		for _, p := range ens.Particles {
			cosT := p.Vel.Unit().Dot(axis)
			Expect(math.Acos(cosT)).To(BeNumerically("<=", maxTheta+1e-9))
		}
	})

	It("fills the cone rather than hugging the axis", func() {
		maxTheta := math.Pi / 15
		ens, err := source.New(los, source.Config{
			N: 5000, Energy: units.MeV(3), MaxTheta: units.Radians(maxTheta), Species: phys.Proton, Seed: 4,
		})
		Expect(err).NotTo(HaveOccurred())

		// for a uniform cap, P(theta > maxTheta/2) is about 3/4
		axis := los.Axis()
		outer := 0
		for _, p := range ens.Particles {
			if math.Acos(p.Vel.Unit().Dot(axis)) > maxTheta/2 {
				outer++
			}
		}
		frac := float64(outer) / float64(len(ens.Particles))
		Expect(frac).To(BeNumerically("~", 0.75, 0.05))
	})

	It("is reproducible for a fixed seed", func() {
		cfg := source.Config{
			N: 50, Energy: units.MeV(3), MaxTheta: units.Degrees(12), Species: phys.Proton, Seed: 7,
		}
		a, err := source.New(los, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := source.New(los, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Particles).To(Equal(b.Particles))
	})
})
