package trails

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Pipeline wires a frame source through differencing, blob detection and
// trail tracking. It is single-threaded: the owner calls Tick in a loop and
// reads results between calls.
type Pipeline struct {
	src       Source
	frames    FrameBuffer
	engine    *DifferenceEngine
	detector  *BlobDetector
	tracker   *TrailTracker
	threshold float64

	lastSignal *Signal
	blobs      []Blob
	stats      PipelineStats
}

// NewPipeline prepares a pipeline around the given source. The configuration
// is validated up front; nothing is clamped later.
func NewPipeline(src Source, cfg Config) (*Pipeline, error) {
	return NewPipelineWithIDs(src, cfg, &RandomIDSource{})
}

// NewPipelineWithIDs is NewPipeline with a custom trail id source.
func NewPipelineWithIDs(src Source, cfg Config, ids IDSource) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't create pipeline")
	}
	pipeline := Pipeline{
		src:       src,
		engine:    NewDifferenceEngine(cfg.DiffMode),
		detector:  NewBlobDetector(cfg),
		tracker:   NewTrailTrackerWithIDs(cfg, ids),
		threshold: cfg.MotionThreshold,
		stats:     PipelineStats{StartedAt: time.Now()},
	}
	return &pipeline, nil
}

// Tick advances the pipeline by one frame. It reports false without error
// when the source had no frame ready or only one frame has been seen so far.
func (pipeline *Pipeline) Tick() (bool, error) {
	if !pipeline.src.Ready() {
		pipeline.stats.TicksSkipped++
		return false, nil
	}
	frame := pipeline.src.Grab()
	if frame == nil {
		// The source went dry between Ready and Grab
		pipeline.stats.TicksSkipped++
		return false, nil
	}
	pipeline.frames.Push(frame)
	if !pipeline.frames.Ready() {
		pipeline.stats.TicksSkipped++
		return false, nil
	}

	sig := pipeline.engine.Diff(pipeline.frames.Previous(), pipeline.frames.Current())
	pipeline.blobs = pipeline.detector.Detect(sig)
	if err := pipeline.tracker.MatchBlobs(pipeline.blobs); err != nil {
		return false, errors.Wrap(err, "Can't process tick")
	}

	pipeline.lastSignal = sig
	pipeline.stats.TicksProcessed++
	pipeline.stats.BlobsTotal += uint64(len(pipeline.blobs))
	pipeline.stats.LastBlobCount = len(pipeline.blobs)
	pipeline.stats.LastTrailCount = len(pipeline.tracker.Trails)
	return true, nil
}

// GetTrails returns every live trail in creation order.
func (pipeline *Pipeline) GetTrails() []*Trail {
	return pipeline.tracker.GetTrails()
}

// GetActiveTrails returns the trails matched on the latest processed tick.
func (pipeline *Pipeline) GetActiveTrails() []*Trail {
	return pipeline.tracker.GetActiveTrails()
}

// GetTrail looks a trail up by id.
func (pipeline *Pipeline) GetTrail(id uuid.UUID) (*Trail, bool) {
	trail, ok := pipeline.tracker.Trails[id]
	return trail, ok
}

// GetBlobs returns the blobs of the latest processed tick.
// Be careful: this is not a copy, but a reference to the live slice.
func (pipeline *Pipeline) GetBlobs() []Blob {
	return pipeline.blobs
}

// GetTracker exposes the underlying tracker.
func (pipeline *Pipeline) GetTracker() *TrailTracker {
	return pipeline.tracker
}

// GetStats returns a snapshot of the processing counters.
func (pipeline *Pipeline) GetStats() PipelineStats {
	stats := pipeline.stats
	stats.TrailsCreated = pipeline.tracker.GetCreatedTotal()
	stats.TrailsEvicted = pipeline.tracker.GetEvictedTotal()
	return stats
}

// GetSignalStats summarizes the difference signal of the latest processed
// tick against the configured motion threshold.
func (pipeline *Pipeline) GetSignalStats() SignalStats {
	return ComputeSignalStats(pipeline.lastSignal, pipeline.threshold)
}
