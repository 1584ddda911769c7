package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/muonsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coarseAggregator() *sim.Aggregator {
	cfg := sim.DefaultConfig()
	cfg.Spacing = 1e5
	cfg.Dt = 1e-7
	return sim.NewAggregator(cfg)
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(1, 2, 0))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Equal(t, []float64{1000, 1500, 2000}, Linspace(1000, 2000, 3))

	got := Linspace(0.1, 0.7, 7)
	assert.Len(t, got, 7)
	assert.Equal(t, 0.7, got[6])
}

func TestScan(t *testing.T) {
	agg := coarseAggregator()
	energies := []float64{1000, 2000, 4000}

	seq, err := Scan(context.Background(), agg, 0, energies, 1)
	require.NoError(t, err)
	par, err := Scan(context.Background(), agg, 0, energies, 3)
	require.NoError(t, err)
	assert.Equal(t, seq, par)

	require.Len(t, seq, 3)
	for i := 1; i < len(seq); i++ {
		assert.Equal(t, energies[i], seq[i].Energy)
		assert.Greater(t, seq[i].Batch.Unadjusted, seq[i-1].Batch.Unadjusted,
			"ideal survival grows with energy")
	}
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, coarseAggregator(), 0, []float64{2000}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBest(t *testing.T) {
	points := []Point{
		{Energy: 1, Batch: sim.BatchResult{Adjusted: 0.3}},
		{Energy: 2, Batch: sim.BatchResult{Adjusted: math.NaN()}},
		{Energy: 3, Batch: sim.BatchResult{Adjusted: 0.1}},
	}

	best, ok := Best(points, func(p Point) float64 { return p.Batch.Adjusted })
	require.True(t, ok)
	assert.Equal(t, 3.0, best.Energy)

	_, ok = Best(points[1:2], func(p Point) float64 { return p.Batch.Adjusted })
	assert.False(t, ok)
}

func TestThreshold(t *testing.T) {
	agg := coarseAggregator()
	ctx := context.Background()

	e, err := Threshold(ctx, agg, 0, 200, 6000, 10)
	require.NoError(t, err)
	assert.Greater(t, e, 500.0)
	assert.Less(t, e, 3000.0)

	b, err := agg.Batch(ctx, e, 0)
	require.NoError(t, err)
	assert.True(t, Penetrates(b))
}

func TestThreshold_Errors(t *testing.T) {
	agg := coarseAggregator()
	ctx := context.Background()

	_, err := Threshold(ctx, agg, 0, 2000, 1000, 1)
	assert.Error(t, err)

	_, err = Threshold(ctx, agg, 0, 4000, 6000, 1)
	assert.ErrorIs(t, err, ErrNoThreshold)

	_, err = Threshold(ctx, agg, 0, 100, 200, 1)
	assert.ErrorIs(t, err, ErrNoThreshold)
}
