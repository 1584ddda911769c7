package physics

import (
	"math"
	"testing"
)

func TestAirDensity(t *testing.T) {
	if got := AirDensity(0); math.Abs(got-SeaLevelDensity) > 1e-15 {
		t.Errorf("AirDensity(0) = %v, want %v", got, SeaLevelDensity)
	}

	prev := AirDensity(0)
	for h := 500.0; h <= 10000; h += 500 {
		rho := AirDensity(h)
		if rho >= prev {
			t.Errorf("density not decreasing at %.0f m: %v >= %v", h, rho, prev)
		}
		prev = rho
	}

	// roughly a third of sea level at 10 km
	if r := AirDensity(10000) / SeaLevelDensity; r < 0.3 || r > 0.4 {
		t.Errorf("density ratio at 10 km = %v", r)
	}
}

func TestAirDensity_OutOfRange(t *testing.T) {
	if got := AirDensity(50000); !math.IsNaN(got) {
		t.Errorf("expected NaN above the model ceiling, got %v", got)
	}
}
