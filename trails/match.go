package trails

import (
	"math"

	"github.com/arthurkushman/go-hungarian"
	"github.com/google/uuid"
)

// MatchingAlgorithm is the algorithm type for associating blobs to trails
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy scans trails oldest-first per blob and takes
	// the nearest unmatched one within the gate. First blob in detector
	// order has first choice; no global optimum. This is the default.
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian solves the assignment globally
	// (Kuhn-Munkres) over a distance-derived score matrix
	MatchingAlgorithmHungarian
	// MatchingAlgorithmPredictive is the greedy scan, but distances are
	// measured against each trail's Kalman-predicted next position instead
	// of its last recorded one
	MatchingAlgorithmPredictive
)

// assign returns, per blob, the id of the matched trail or uuid.Nil. Every
// returned id is distinct: a trail is bound to at most one blob per tick.
func (tracker *TrailTracker) assign(blobs []Blob) []uuid.UUID {
	switch tracker.matcher {
	case MatchingAlgorithmHungarian:
		return tracker.assignHungarian(blobs)
	case MatchingAlgorithmPredictive:
		return tracker.assignGreedy(blobs, true)
	default:
		return tracker.assignGreedy(blobs, false)
	}
}

func (tracker *TrailTracker) assignGreedy(blobs []Blob, predicted bool) []uuid.UUID {
	assignment := make([]uuid.UUID, len(blobs))
	used := make(map[uuid.UUID]struct{}, len(tracker.order))
	for i := range blobs {
		minID := uuid.Nil
		minDistance := math.MaxFloat64
		for _, id := range tracker.order {
			if _, ok := used[id]; ok {
				continue
			}
			ref := tracker.Trails[id].lastRecorded()
			if predicted {
				ref = tracker.Trails[id].forecast.predicted
			}
			dist := euclideanDistance(blobs[i].Centroid, ref)
			if dist < minDistance {
				minDistance = dist
				minID = id
			}
		}
		if minID != uuid.Nil && minDistance <= tracker.maxMatchDistance {
			assignment[i] = minID
			used[minID] = struct{}{}
		}
	}
	return assignment
}

func (tracker *TrailTracker) assignHungarian(blobs []Blob) []uuid.UUID {
	assignment := make([]uuid.UUID, len(blobs))
	numBlobs := len(blobs)
	numTrails := len(tracker.order)
	if numBlobs == 0 || numTrails == 0 {
		return assignment
	}

	// SolveMax wants a square profit matrix. Score by inverted distance so
	// nearer pairs win; pairs beyond the gate keep score zero, exactly like
	// the padding rows/columns, and are filtered out after solving.
	size := max(numBlobs, numTrails)
	scores := make([][]float64, size)
	for i := range scores {
		scores[i] = make([]float64, size)
	}
	for i := 0; i < numBlobs; i++ {
		for j, id := range tracker.order {
			dist := euclideanDistance(blobs[i].Centroid, tracker.Trails[id].lastRecorded())
			if dist <= tracker.maxMatchDistance {
				scores[i][j] = 1.0 / (1.0 + dist)
			}
		}
	}

	assignmentsMap := hungarian.SolveMax(scores)
	for blobIdx, rowMap := range assignmentsMap {
		if blobIdx >= numBlobs {
			continue
		}
		// The inner map holds a single entry keyed by the assigned column.
		// Only the key is meaningful: the cell value the solver reports is
		// not stable, so the gate re-reads the score matrix built above.
		for trailIdx := range rowMap {
			if trailIdx < numTrails && scores[blobIdx][trailIdx] > 0.0 {
				assignment[blobIdx] = tracker.order[trailIdx]
			}
			break
		}
	}
	return assignment
}
