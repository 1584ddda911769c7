package metrics

import "github.com/san-kum/muonsim/internal/sim"

// Attenuation is the adjusted probability of the last row relative to the
// first.
type Attenuation struct {
	name        string
	first, last float64
	samples     int
}

func NewAttenuation() *Attenuation {
	return &Attenuation{
		name: "attenuation",
	}
}

func (a *Attenuation) Name() string { return a.name }

func (a *Attenuation) Observe(r sim.Row) {
	if a.samples == 0 {
		a.first = r.Adjusted
	}
	a.last = r.Adjusted
	a.samples++
}

func (a *Attenuation) Value() float64 {
	if a.samples == 0 || a.first == 0 {
		return 0
	}
	return a.last / a.first
}

func (a *Attenuation) Reset() {
	a.first = 0
	a.last = 0
	a.samples = 0
}

// CutoffAngle is the first zenith angle in degrees at which no muon path
// survives, or -1 while every row still has survivors.
type CutoffAngle struct {
	name  string
	angle float64
}

func NewCutoffAngle() *CutoffAngle {
	return &CutoffAngle{name: "cutoff_angle_deg", angle: -1}
}

func (c *CutoffAngle) Name() string { return c.name }

func (c *CutoffAngle) Observe(r sim.Row) {
	if c.angle < 0 && r.Adjusted == 0 {
		c.angle = r.Angle
	}
}

func (c *CutoffAngle) Value() float64 { return c.angle }

func (c *CutoffAngle) Reset() { c.angle = -1 }
