package metrics

import (
	"math"

	"github.com/san-kum/muonsim/internal/sim"
)

// ReferenceRMS is the RMS distance between the adjusted column and the
// cos^2 reference curve.
type ReferenceRMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewReferenceRMS() *ReferenceRMS {
	return &ReferenceRMS{
		name: "reference_rms",
	}
}

func (m *ReferenceRMS) Name() string {
	return m.name
}

func (m *ReferenceRMS) Observe(r sim.Row) {
	d := r.Adjusted - r.Reference
	m.sumSq += d * d
	m.samples++
}

func (m *ReferenceRMS) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *ReferenceRMS) Reset() {
	m.sumSq = 0
	m.samples = 0
}
