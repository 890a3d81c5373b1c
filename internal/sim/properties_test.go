package sim_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

func mustController(opts sim.Options) *sim.Controller {
	c, err := sim.NewController(opts)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func expectContained(c *sim.Controller) {
	arena := c.Arena()
	for _, b := range c.Bodies() {
		reach := b.Pos.Sub(arena.Center).Len() + b.Radius
		ExpectWithOffset(1, reach).To(BeNumerically("<=", arena.Radius*(1+sim.ContainmentTolerance)),
			"body %d escaped the arena", b.ID)
	}
}

var _ = Describe("Controller", func() {
	var c *sim.Controller

	BeforeEach(func() {
		c = mustController(sim.DefaultOptions())
	})

	Describe("containment", func() {
		It("keeps the canonical system inside the arena on every tick", func() {
			for i := 0; i < 3000; i++ {
				c.Tick()
				expectContained(c)
			}
		})

		It("keeps randomized systems inside the arena on every tick", func() {
			for round := 0; round < 10; round++ {
				Expect(c.Randomize(200)).To(Succeed())
				for i := 0; i < 500; i++ {
					c.Tick()
					expectContained(c)
				}
			}
		})

		It("never produces non-finite state", func() {
			Expect(c.Randomize(120)).To(Succeed())
			for i := 0; i < 2000; i++ {
				c.Tick()
				for _, b := range c.Bodies() {
					Expect(b.IsValid()).To(BeTrue(), "step %d: %v", i, b)
				}
			}
		})
	})

	Describe("pause", func() {
		It("leaves all body state bit-for-bit unchanged", func() {
			for i := 0; i < 25; i++ {
				c.Tick()
			}
			c.SetPaused(true)
			before := c.Bodies()
			for i := 0; i < 100; i++ {
				Expect(c.Tick()).To(BeEmpty())
			}
			Expect(c.Bodies()).To(Equal(before))
			Expect(c.Params().Paused).To(BeTrue())
		})
	})

	Describe("determinism", func() {
		It("produces identical state for identical inputs", func() {
			opts := sim.DefaultOptions()
			opts.Seed = 99
			a := mustController(opts)
			b := mustController(opts)
			Expect(a.Randomize(300)).To(Succeed())
			Expect(b.Randomize(300)).To(Succeed())

			for i := 0; i < 1000; i++ {
				Expect(a.Tick()).To(Equal(b.Tick()))
			}
			Expect(a.Bodies()).To(Equal(b.Bodies()))
		})
	})

	Describe("randomize", func() {
		It("stays within the configured ranges and keeps ids", func() {
			opts := c.Options()
			ids := []physics.ID{}
			for _, b := range c.Bodies() {
				ids = append(ids, b.ID)
			}

			for round := 0; round < 200; round++ {
				Expect(c.Randomize(250)).To(Succeed())
				bodies := c.Bodies()
				Expect(bodies).To(HaveLen(len(ids)))
				for i, b := range bodies {
					Expect(b.ID).To(Equal(ids[i]))
					Expect(b.Pos.Len()).To(BeNumerically("<=", 0.8*250))
					Expect(b.Mass).To(BeNumerically(">=", opts.Random.MassMin))
					Expect(b.Mass).To(BeNumerically("<=", opts.Random.MassMax))
					Expect(b.Radius).To(BeNumerically(">=", opts.Random.RadiusMin))
					Expect(b.Radius).To(BeNumerically("<=", opts.Random.RadiusMax))
					Expect(math.Abs(b.Vel.X())).To(BeNumerically("<=", opts.Random.VelRange))
					Expect(math.Abs(b.Vel.Y())).To(BeNumerically("<=", opts.Random.VelRange))
				}
			}
		})

		It("rejects an arena too small for the radius range", func() {
			Expect(c.Randomize(15)).To(MatchError(sim.ErrParameterBounds))
		})
	})

	Describe("two-body scenario", func() {
		It("changes each velocity by 0.00625 toward the other body", func() {
			opts := sim.DefaultOptions()
			opts.Bodies = 2
			two := mustController(opts)

			before := two.Bodies()
			Expect(before[1].Pos.Sub(before[0].Pos).Len()).To(BeNumerically("~", 240, 1e-12))

			two.Tick()
			after := two.Bodies()

			Expect(after[0].Vel.X() - before[0].Vel.X()).To(BeNumerically("~", 0.00625, 1e-12))
			Expect(after[1].Vel.X() - before[1].Vel.X()).To(BeNumerically("~", -0.00625, 1e-12))
		})
	})

	Describe("boundary bounce", func() {
		It("reverses a purely radial velocity and scales it by 0.95", func() {
			arena := physics.Arena{Radius: 200}
			b := physics.Body{ID: 1, Pos: mgl64.Vec2{0, 185}, Vel: mgl64.Vec2{0, 4}, Mass: 100, Radius: 16}

			speed := b.Speed()
			_, hit := arena.Resolve(&b)

			Expect(hit).To(BeTrue())
			Expect(b.Vel.Y()).To(BeNumerically("~", -0.95*4, 1e-12))
			Expect(b.Vel.X()).To(BeZero())
			Expect(b.Speed()).To(BeNumerically("<", speed))
		})
	})

	DescribeTable("parameter setters",
		func(set func(*sim.Controller) error, ok bool) {
			err := set(c)
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(sim.ErrParameterBounds))
			}
		},
		Entry("positive G", func(c *sim.Controller) error { return c.SetG(75) }, true),
		Entry("zero G", func(c *sim.Controller) error { return c.SetG(0) }, false),
		Entry("positive dt", func(c *sim.Controller) error { return c.SetTimeStep(0.01) }, true),
		Entry("negative dt", func(c *sim.Controller) error { return c.SetTimeStep(-1) }, false),
		Entry("larger arena", func(c *sim.Controller) error { return c.SetBoundaryRadius(500) }, true),
		Entry("non-positive arena", func(c *sim.Controller) error { return c.SetBoundaryRadius(0) }, false),
	)
})
