// Package optim scans the muon energy at a fixed zenith angle.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/muonsim/internal/sim"
)

var ErrNoThreshold = errors.New("optim: no penetration threshold in range")

// Point is one energy of a scan.
type Point struct {
	Energy float64 // MeV
	Batch  sim.BatchResult
}

// Linspace returns n energies evenly spaced from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Scan evaluates one batch per energy at the given zenith angle. Results are
// in the order of energies whatever the worker count.
func Scan(ctx context.Context, agg *sim.Aggregator, zenith float64, energies []float64, workers int) ([]Point, error) {
	points := make([]Point, len(energies))
	errs := make([]error, len(energies))

	sim.ParallelFor(len(energies), workers, func(start, end int) {
		for i := start; i < end; i++ {
			b, err := agg.Batch(ctx, energies[i], zenith)
			points[i], errs[i] = Point{Energy: energies[i], Batch: b}, err
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Best returns the point with the lowest score. NaN scores never win.
func Best(points []Point, score func(Point) float64) (Point, bool) {
	var (
		best      float64
		bestPoint Point
		found     bool
	)
	for _, p := range points {
		v := score(p)
		if math.IsNaN(v) {
			continue
		}
		if !found || v < best {
			best, bestPoint, found = v, p, true
		}
	}
	return bestPoint, found
}

// Penetrates reports whether every grid point of b reached the detector.
func Penetrates(b sim.BatchResult) bool {
	return b.Points > 0 && b.Depleted == 0
}

// Threshold bisects [lo, hi] for the lowest energy (MeV) at which every path
// at zenith reaches the detector, to within tol. lo must fail and hi must
// penetrate.
func Threshold(ctx context.Context, agg *sim.Aggregator, zenith, lo, hi, tol float64) (float64, error) {
	if !(tol > 0) || !(lo < hi) {
		return 0, fmt.Errorf("threshold: invalid range [%g, %g] tol %g", lo, hi, tol)
	}

	check := func(e float64) (bool, error) {
		b, err := agg.Batch(ctx, e, zenith)
		if err != nil {
			return false, err
		}
		return Penetrates(b), nil
	}

	ok, err := check(lo)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, fmt.Errorf("%w: %g MeV already penetrates", ErrNoThreshold, lo)
	}
	if ok, err = check(hi); err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %g MeV does not penetrate", ErrNoThreshold, hi)
	}

	for hi-lo > tol {
		mid := lo + (hi-lo)/2
		ok, err := check(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
