package trails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignalStats(t *testing.T) {
	sig := NewSignal(4, 1)
	sig.Set(0, 0, 0)
	sig.Set(1, 0, 10)
	sig.Set(2, 0, 20)
	sig.Set(3, 0, 50)

	stats := ComputeSignalStats(sig, 15.0)
	assert.InDelta(t, 20.0, stats.Mean, eps)
	// Sample standard deviation of {0, 10, 20, 50}
	assert.InDelta(t, 21.60247, stats.StdDev, 0.0001)
	assert.InDelta(t, 50.0, stats.Max, eps)
	assert.Equal(t, 2, stats.ActiveLocations)
	assert.InDelta(t, 0.5, stats.Coverage, eps)
}

func TestComputeSignalStatsQuiet(t *testing.T) {
	stats := ComputeSignalStats(NewSignal(8, 8), 40.0)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.StdDev)
	assert.Zero(t, stats.Max)
	assert.Zero(t, stats.ActiveLocations)
	assert.Zero(t, stats.Coverage)
}

func TestComputeSignalStatsEmpty(t *testing.T) {
	assert.Zero(t, ComputeSignalStats(nil, 40.0))
}
