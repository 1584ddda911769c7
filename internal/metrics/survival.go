package metrics

import "github.com/san-kum/muonsim/internal/sim"

// SurvivalRatio is the mean adjusted/unadjusted ratio over rows with a
// positive unadjusted probability.
type SurvivalRatio struct {
	name    string
	sum     float64
	samples int
}

func NewSurvivalRatio() *SurvivalRatio {
	return &SurvivalRatio{
		name: "survival_ratio",
	}
}

func (s *SurvivalRatio) Name() string {
	return s.name
}

func (s *SurvivalRatio) Observe(r sim.Row) {
	if !(r.Unadjusted > 0) {
		return
	}
	s.sum += r.Adjusted / r.Unadjusted
	s.samples++
}

func (s *SurvivalRatio) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *SurvivalRatio) Reset() {
	s.sum = 0
	s.samples = 0
}
