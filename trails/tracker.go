package trails

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// maxPointAge is the age assigned to a freshly recorded trail point. On every
// tick a trail goes unmatched, all of its points lose TrailDecay of it.
const maxPointAge = 255.0

// IDSource hands out trail identifiers. Injecting it keeps id assignment
// deterministic under test.
type IDSource interface {
	NextID() uuid.UUID
}

// RandomIDSource generates random UUIDs. This is the production default.
type RandomIDSource struct{}

// NextID returns a fresh random UUID
func (RandomIDSource) NextID() uuid.UUID {
	return uuid.New()
}

// SequentialIDSource derives UUIDs from a counter, so ids arrive in a
// reproducible order.
type SequentialIDSource struct {
	counter uint64
}

// NextID returns the next counter-derived UUID
func (s *SequentialIDSource) NextID() uuid.UUID {
	s.counter++
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], s.counter)
	return id
}

// TrailPoint is one recorded position of a trail.
type TrailPoint struct {
	X         float64
	Y         float64
	Speed     float64
	Intensity float64
	// Age starts at 255 and is decremented by the configured decay on every
	// unmatched tick; a point at age <= 0 is dropped
	Age float64
}

// Trail is one persistent tracked motion region: a bounded FIFO of recorded
// positions plus EMA-smoothed kinematics. Trails are created by the tracker
// when a blob matches nothing, and destroyed once their last point ages out.
// A destroyed trail never comes back; a later blob at the same screen
// location gets a brand-new id.
type Trail struct {
	id       uuid.UUID
	points   []TrailPoint
	position Point
	velocity Point
	speed    float64
	active   bool
	forecast *forecaster
}

// GetID returns trail's identifier
func (trail *Trail) GetID() uuid.UUID {
	return trail.id
}

// GetPoints returns trail's recorded positions, oldest first. Be careful:
// this is not a copy, but a reference to the live slice
func (trail *Trail) GetPoints() []TrailPoint {
	return trail.points
}

// GetPosition returns trail's smoothed position
func (trail *Trail) GetPosition() Point {
	return trail.position
}

// GetVelocity returns trail's smoothed velocity vector
func (trail *Trail) GetVelocity() Point {
	return trail.velocity
}

// GetSpeed returns trail's current scalar speed
func (trail *Trail) GetSpeed() float64 {
	return trail.speed
}

// IsActive reports whether the trail was matched on the current tick
func (trail *Trail) IsActive() bool {
	return trail.active
}

// GetPredictedPosition returns the Kalman forecast of where the trail's blob
// should appear next tick. Advisory only, see forecaster.
func (trail *Trail) GetPredictedPosition() Point {
	return trail.forecast.predicted
}

func (trail *Trail) lastRecorded() Point {
	last := trail.points[len(trail.points)-1]
	return Point{X: last.X, Y: last.Y}
}

// update applies the per-tick kinematics for a matched (or brand-new) blob:
// EMA velocity from the raw displacement, scalar speed, EMA position, then a
// new point record at full age. Displacement is zero for a trail's first
// point, so new trails start at the blob centroid with zero speed.
func (trail *Trail) update(blob Blob, positionFactor, velocityFactor float64, maxLen int) error {
	displacement := Point{}
	if len(trail.points) > 0 {
		last := trail.lastRecorded()
		displacement = Point{X: blob.Centroid.X - last.X, Y: blob.Centroid.Y - last.Y}
	}
	trail.velocity = ema(trail.velocity, displacement, velocityFactor)
	trail.speed = math.Hypot(trail.velocity.X, trail.velocity.Y)
	trail.position = ema(trail.position, blob.Centroid, positionFactor)
	trail.active = true

	trail.points = append(trail.points, TrailPoint{
		X:         trail.position.X,
		Y:         trail.position.Y,
		Speed:     trail.speed,
		Intensity: blob.Intensity,
		Age:       maxPointAge,
	})
	if len(trail.points) > maxLen {
		trail.points = trail.points[1:]
	}
	return trail.forecast.correct(blob.Centroid)
}

// decay ages every recorded point and drops the ones that ran out.
func (trail *Trail) decay(amount float64) {
	kept := trail.points[:0]
	for _, pt := range trail.points {
		pt.Age -= amount
		if pt.Age > 0 {
			kept = append(kept, pt)
		}
	}
	trail.points = kept
}

// TrailTracker owns the live trail set and matches each tick's blobs onto it.
// It is plain single-threaded state: instantiate one per pipeline and never
// share it across goroutines.
type TrailTracker struct {
	// Trails is the main storage, keyed by trail id
	Trails map[uuid.UUID]*Trail
	// order holds trail ids oldest-first, so matching scans and exported
	// listings are reproducible instead of following map iteration order
	order []uuid.UUID

	ids     IDSource
	matcher MatchingAlgorithm

	positionFactor   float64
	velocityFactor   float64
	maxTrailLength   int
	trailDecay       float64
	maxMatchDistance float64

	createdTotal uint64
	evictedTotal uint64
}

// NewTrailTracker creates a tracker with random trail ids. The configuration
// is expected to be validated already.
func NewTrailTracker(cfg Config) *TrailTracker {
	return NewTrailTrackerWithIDs(cfg, RandomIDSource{})
}

// NewTrailTrackerWithIDs creates a tracker drawing trail ids from the given
// source.
func NewTrailTrackerWithIDs(cfg Config, ids IDSource) *TrailTracker {
	return &TrailTracker{
		Trails:           make(map[uuid.UUID]*Trail),
		ids:              ids,
		matcher:          cfg.Matcher,
		positionFactor:   cfg.PositionSmoothFactor,
		velocityFactor:   cfg.VelocitySmoothFactor,
		maxTrailLength:   cfg.MaxTrailLength,
		trailDecay:       cfg.TrailDecay,
		maxMatchDistance: cfg.MaxMatchDistance,
	}
}

// NewTrailTrackerDefault creates a tracker with default options.
func NewTrailTrackerDefault() *TrailTracker {
	return NewTrailTracker(DefaultConfig())
}

// MatchBlobs runs one tracking tick over the detector's blobs, in their
// detector output order.
func (tracker *TrailTracker) MatchBlobs(blobs []Blob) error {
	// 1. Deactivate every trail and advance its forecast one tick
	for _, id := range tracker.order {
		trail := tracker.Trails[id]
		trail.active = false
		trail.forecast.predictNext()
	}

	// 2. Associate blobs with unmatched trails
	assignment := tracker.assign(blobs)

	// 3. Update matched trails; open a new trail per unmatched blob
	matched := make(map[uuid.UUID]struct{}, len(blobs))
	for i := range blobs {
		id := assignment[i]
		if id == uuid.Nil {
			id = tracker.ids.NextID()
			tracker.register(id, blobs[i].Centroid)
		}
		matched[id] = struct{}{}
		err := tracker.Trails[id].update(blobs[i], tracker.positionFactor, tracker.velocityFactor, tracker.maxTrailLength)
		if err != nil {
			return errors.Wrapf(err, "Can't update trail with id %s", id.String())
		}
	}

	// 4. Age every trail that went unmatched; evict the ones that emptied
	kept := tracker.order[:0]
	for _, id := range tracker.order {
		if _, ok := matched[id]; ok {
			kept = append(kept, id)
			continue
		}
		trail := tracker.Trails[id]
		trail.decay(tracker.trailDecay)
		if len(trail.points) == 0 {
			delete(tracker.Trails, id)
			tracker.evictedTotal++
			continue
		}
		kept = append(kept, id)
	}
	tracker.order = kept
	return nil
}

func (tracker *TrailTracker) register(id uuid.UUID, centroid Point) {
	tracker.Trails[id] = &Trail{
		id:       id,
		points:   make([]TrailPoint, 0, tracker.maxTrailLength),
		position: centroid,
		forecast: newForecaster(centroid),
	}
	tracker.order = append(tracker.order, id)
	tracker.createdTotal++
}

// GetTrails returns every live trail, oldest first.
func (tracker *TrailTracker) GetTrails() []*Trail {
	trails := make([]*Trail, 0, len(tracker.order))
	for _, id := range tracker.order {
		trails = append(trails, tracker.Trails[id])
	}
	return trails
}

// GetActiveTrails returns the trails matched on the current tick, oldest
// first.
func (tracker *TrailTracker) GetActiveTrails() []*Trail {
	trails := make([]*Trail, 0, len(tracker.order))
	for _, id := range tracker.order {
		if trail := tracker.Trails[id]; trail.active {
			trails = append(trails, trail)
		}
	}
	return trails
}

// GetCreatedTotal returns how many trails have been opened over the tracker's
// lifetime
func (tracker *TrailTracker) GetCreatedTotal() uint64 {
	return tracker.createdTotal
}

// GetEvictedTotal returns how many trails have aged out over the tracker's
// lifetime
func (tracker *TrailTracker) GetEvictedTotal() uint64 {
	return tracker.evictedTotal
}
