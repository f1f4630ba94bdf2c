package trails

import (
	"github.com/pkg/errors"
)

// Config carries every recognized option of the pipeline. The zero value is
// not usable; start from DefaultConfig and override fields.
type Config struct {
	// DiffMode selects the frame differencing mode
	DiffMode DiffMode
	// MotionThreshold is the intensity cutoff above which a location counts
	// as motion, in [0, 255]
	MotionThreshold float64
	// GridSize is the cell edge length in pixels. 1 means pixel-grid
	// connectivity; larger values enable the coarser, faster cell grid
	GridSize int
	// MinBlobSize is the minimum component size in pixels (pixel mode)
	MinBlobSize int
	// MinGridsForBlob is the minimum component size in cells (cell mode)
	MinGridsForBlob int
	// MaxBlobs caps how many blobs are considered per tick
	MaxBlobs int
	// PositionSmoothFactor is the EMA factor for trail positions, in [0, 1].
	// Larger is steadier, smaller is more responsive.
	PositionSmoothFactor float64
	// VelocitySmoothFactor is the EMA factor for trail velocities, in [0, 1]
	VelocitySmoothFactor float64
	// MaxTrailLength caps recorded positions per trail; the oldest position
	// is dropped first
	MaxTrailLength int
	// TrailDecay is subtracted from every recorded position's age on each
	// tick a trail goes unmatched; positions at age <= 0 are dropped
	TrailDecay float64
	// MaxMatchDistance gates blob-to-trail association, in pixels
	MaxMatchDistance float64
	// Matcher selects the association algorithm
	Matcher MatchingAlgorithm
}

// DefaultConfig returns options tuned for a desk-scale 640x480 stream.
func DefaultConfig() Config {
	return Config{
		DiffMode:             DiffModeRGB,
		MotionThreshold:      40.0,
		GridSize:             8,
		MinBlobSize:          24,
		MinGridsForBlob:      2,
		MaxBlobs:             12,
		PositionSmoothFactor: 0.65,
		VelocitySmoothFactor: 0.8,
		MaxTrailLength:       48,
		TrailDecay:           15.0,
		MaxMatchDistance:     60.0,
		Matcher:              MatchingAlgorithmGreedy,
	}
}

// Validate rejects unusable option values with a descriptive error. Nothing
// is ever clamped silently.
func (cfg Config) Validate() error {
	if cfg.DiffMode != DiffModeRGB && cfg.DiffMode != DiffModeLuminance {
		return errors.Errorf("Unknown diff mode: %d", cfg.DiffMode)
	}
	if cfg.MotionThreshold < 0 || cfg.MotionThreshold > 255 {
		return errors.Errorf("Motion threshold must be in [0, 255], got %v", cfg.MotionThreshold)
	}
	if cfg.GridSize < 1 {
		return errors.Errorf("Grid size must be positive, got %d", cfg.GridSize)
	}
	if cfg.MinBlobSize < 1 {
		return errors.Errorf("Minimum blob size must be positive, got %d", cfg.MinBlobSize)
	}
	if cfg.MinGridsForBlob < 1 {
		return errors.Errorf("Minimum grids for blob must be positive, got %d", cfg.MinGridsForBlob)
	}
	if cfg.MaxBlobs < 1 {
		return errors.Errorf("Maximum blob count must be positive, got %d", cfg.MaxBlobs)
	}
	if cfg.PositionSmoothFactor < 0 || cfg.PositionSmoothFactor > 1 {
		return errors.Errorf("Position smooth factor must be in [0, 1], got %v", cfg.PositionSmoothFactor)
	}
	if cfg.VelocitySmoothFactor < 0 || cfg.VelocitySmoothFactor > 1 {
		return errors.Errorf("Velocity smooth factor must be in [0, 1], got %v", cfg.VelocitySmoothFactor)
	}
	if cfg.MaxTrailLength < 1 {
		return errors.Errorf("Maximum trail length must be positive, got %d", cfg.MaxTrailLength)
	}
	if cfg.TrailDecay <= 0 {
		return errors.Errorf("Trail decay must be positive, got %v", cfg.TrailDecay)
	}
	if cfg.MaxMatchDistance <= 0 {
		return errors.Errorf("Maximum match distance must be positive, got %v", cfg.MaxMatchDistance)
	}
	switch cfg.Matcher {
	case MatchingAlgorithmGreedy, MatchingAlgorithmHungarian, MatchingAlgorithmPredictive:
	default:
		return errors.Errorf("Unknown matching algorithm: %d", cfg.Matcher)
	}
	return nil
}
