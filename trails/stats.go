package trails

import (
	"log"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SignalStats summarizes one difference signal.
type SignalStats struct {
	// Mean of all signal values
	Mean float64
	// StdDev is the sample standard deviation of all signal values
	StdDev float64
	// Max signal value
	Max float64
	// ActiveLocations is the number of locations above the motion threshold
	ActiveLocations int
	// Coverage is the active fraction of the signal, in [0, 1]
	Coverage float64
}

// ComputeSignalStats evaluates the given signal against a motion threshold.
func ComputeSignalStats(sig *Signal, threshold float64) SignalStats {
	stats := SignalStats{}
	if sig == nil || len(sig.Values) == 0 {
		return stats
	}
	stats.Mean = stat.Mean(sig.Values, nil)
	if len(sig.Values) > 1 {
		stats.StdDev = stat.StdDev(sig.Values, nil)
	}
	stats.Max = floats.Max(sig.Values)
	for _, v := range sig.Values {
		if v > threshold {
			stats.ActiveLocations++
		}
	}
	stats.Coverage = float64(stats.ActiveLocations) / float64(len(sig.Values))
	return stats
}

// PipelineStats carries processing counters since the pipeline was created.
type PipelineStats struct {
	// StartedAt is the pipeline creation time
	StartedAt time.Time
	// TicksProcessed counts ticks that ran the full detect-and-track pass
	TicksProcessed uint64
	// TicksSkipped counts ticks with no source frame or no previous frame
	TicksSkipped uint64
	// BlobsTotal counts every blob reported over all processed ticks
	BlobsTotal uint64
	// TrailsCreated counts trails opened since start
	TrailsCreated uint64
	// TrailsEvicted counts trails aged out since start
	TrailsEvicted uint64
	// LastBlobCount is the blob count of the most recent processed tick
	LastBlobCount int
	// LastTrailCount is the trail count after the most recent processed tick
	LastTrailCount int
}

// LogStats writes a one-line counters summary to the standard logger.
func (stats PipelineStats) LogStats() {
	log.Printf("trails: ticks=%d skipped=%d blobs=%d trails=%d created=%d evicted=%d uptime=%s",
		stats.TicksProcessed, stats.TicksSkipped, stats.BlobsTotal, stats.LastTrailCount,
		stats.TrailsCreated, stats.TrailsEvicted, time.Since(stats.StartedAt).Round(time.Millisecond))
}
