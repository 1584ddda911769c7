package sim_test

import (
	"bytes"
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
)

type countingMetric struct {
	rows  int
	reset int
}

func (m *countingMetric) Name() string      { return "rows" }
func (m *countingMetric) Observe(r sim.Row) { m.rows++ }
func (m *countingMetric) Value() float64    { return float64(m.rows) }

func (m *countingMetric) Reset() {
	m.rows = 0
	m.reset++
}

var _ = Describe("Simulator", func() {
	Describe("a 2 GeV sweep", Ordered, func() {
		var result *sim.Result

		BeforeAll(func() {
			var err error
			result, err = sim.New(coarse(25)).Run(context.Background(), 2000)
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits one row per step", func() {
			Expect(result.Rows).To(HaveLen(25))
			for i, r := range result.Rows {
				Expect(r.Index).To(Equal(i))
			}
		})

		It("sweeps the angle upward from zero", func() {
			Expect(result.Rows[0].Angle).To(BeZero())
			for i := 1; i < len(result.Rows); i++ {
				Expect(result.Rows[i].Angle).To(BeNumerically(">", result.Rows[i-1].Angle))
			}
			Expect(result.Rows[24].Angle).To(BeNumerically("<", 90-9.7))
		})

		It("never lets survival exceed the no-loss baseline", func() {
			for _, r := range result.Rows {
				Expect(r.Adjusted).To(BeNumerically(">=", 0))
				Expect(r.Adjusted).To(BeNumerically("<=", r.Unadjusted), "row %d", r.Index)
			}
		})

		It("loses survival at large zenith angles", func() {
			first := result.Rows[0].Adjusted
			Expect(first).To(BeNumerically(">", 0))
			Expect(result.Rows[24].Adjusted).To(BeNumerically("<", first/2))
		})

		It("scales the reference column from row 0", func() {
			Expect(result.Factor).To(Equal(result.Rows[0].Adjusted))
			for _, r := range result.Rows {
				cos := math.Cos(r.Zenith)
				Expect(r.Reference).To(BeNumerically("~", result.Factor*cos*cos, 1e-12))
			}
			Expect(result.Rows[0].Reference).To(Equal(result.Rows[0].Adjusted))
		})

		It("adds up batch statistics", func() {
			Expect(result.Points).To(BeNumerically(">", 0))
			Expect(result.Depleted).To(BeNumerically("<=", result.Points))
			Expect(result.Steps).To(BeNumerically(">", result.Points))
		})
	})

	It("produces byte-identical reports on repeated runs", func() {
		render := func() []byte {
			res, err := sim.New(coarse(8)).Run(context.Background(), 2500)
			Expect(err).NotTo(HaveOccurred())
			var buf bytes.Buffer
			Expect(report.Write(&buf, res.Rows)).To(Succeed())
			return buf.Bytes()
		}
		Expect(render()).To(Equal(render()))
	})

	It("gives the same rows with parallel workers", func() {
		seq, err := sim.New(coarse(8)).Run(context.Background(), 3000)
		Expect(err).NotTo(HaveOccurred())

		cfg := coarse(8)
		cfg.Workers = 3
		var order []int
		s := sim.New(cfg)
		s.AddObserver(sim.ObserverFunc(func(r sim.Row, _ sim.BatchResult) {
			order = append(order, r.Index)
		}))
		par, err := s.Run(context.Background(), 3000)
		Expect(err).NotTo(HaveOccurred())

		Expect(par.Rows).To(Equal(seq.Rows))
		Expect(par.Factor).To(Equal(seq.Factor))
		Expect(order).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7}))
	})

	It("feeds metrics and records their values", func() {
		m := &countingMetric{rows: 99}
		s := sim.New(coarse(4))
		s.AddMetric(m)

		res, err := s.Run(context.Background(), 2000)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.reset).To(Equal(1))
		Expect(res.Metrics).To(HaveKeyWithValue("rows", 4.0))
	})

	It("steps a sweep by hand", func() {
		s := sim.New(coarse(3))
		sw, err := s.Start(context.Background(), 2000)
		Expect(err).NotTo(HaveOccurred())

		var rows []sim.Row
		for !sw.Done() {
			r, err := sw.Next(context.Background())
			Expect(err).NotTo(HaveOccurred())
			rows = append(rows, r)
		}
		_, err = sw.Next(context.Background())
		Expect(err).To(MatchError(sim.ErrNoRows))

		res := sw.Finish(context.Background())
		Expect(res.Rows).To(Equal(rows))
	})

	It("rejects an invalid config", func() {
		cfg := coarse(0)
		_, err := sim.New(cfg).Run(context.Background(), 2000)
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
	})

	It("returns the context error when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.New(coarse(5)).Run(ctx, 2000)
		Expect(err).To(MatchError(context.Canceled))
	})
})
