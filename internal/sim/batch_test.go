package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/muonsim/internal/physics"
	"github.com/san-kum/muonsim/internal/sim"
)

var _ = Describe("Aggregator", func() {
	var agg *sim.Aggregator

	BeforeEach(func() {
		agg = sim.NewAggregator(coarse(10))
	})

	It("keeps adjusted below unadjusted", func() {
		for _, deg := range []float64{0, 10, 30, 50} {
			b, err := agg.Batch(context.Background(), 2000, physics.DegToRad(deg))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Points).To(BeNumerically(">", 0))
			Expect(b.Adjusted).To(BeNumerically(">=", 0))
			Expect(b.Adjusted).To(BeNumerically("<=", b.Unadjusted), "zenith %v deg", deg)
		}
	})

	It("integrates every vertical point of an energetic muon", func() {
		b, err := agg.Batch(context.Background(), 20000, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Depleted).To(BeZero())
		Expect(b.Steps).To(BeNumerically(">", 0))
		Expect(b.Adjusted).To(BeNumerically(">", 0))
	})

	It("drops depleted paths from adjusted only", func() {
		b, err := agg.Batch(context.Background(), 500, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Depleted).To(Equal(b.Points))
		Expect(b.Adjusted).To(BeZero())
		Expect(b.Unadjusted).To(BeNumerically(">", 0))
	})

	It("lets NaN energy flow into the unadjusted sum", func() {
		b, err := agg.Batch(context.Background(), math.NaN(), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(b.Unadjusted)).To(BeTrue())
	})

	It("is deterministic", func() {
		b1, _ := agg.Batch(context.Background(), 3000, physics.DegToRad(20))
		b2, _ := agg.Batch(context.Background(), 3000, physics.DegToRad(20))
		Expect(b1).To(Equal(b2))
	})

	It("stops on a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := agg.Batch(ctx, 2000, 0)
		Expect(err).To(MatchError(context.Canceled))
	})
})
