package trails

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	frames []*Frame
	next   int
}

func (src *scriptedSource) Ready() bool {
	return src.next < len(src.frames)
}

func (src *scriptedSource) Grab() *Frame {
	frame := src.frames[src.next]
	src.next++
	return frame
}

func paintSquare(f *Frame, x0, y0, size int, r, g, b uint8) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			f.SetRGB(x, y, r, g, b)
		}
	}
}

// blinkScript alternates a black frame with a frame carrying a white square,
// so every processed tick sees the same difference region.
func blinkScript(count, x0, y0, size int) []*Frame {
	frames := make([]*Frame, 0, count)
	for i := 0; i < count; i++ {
		f := NewFrame(64, 64)
		fillFrame(f, 0, 0, 0)
		if i%2 == 1 {
			paintSquare(f, x0, y0, size, 255, 255, 255)
		}
		f.Seq = uint64(i)
		frames = append(frames, f)
	}
	return frames
}

func TestPipelineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 0
	_, err := NewPipeline(&scriptedSource{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't create pipeline")
}

func TestPipelineSkipsWhenSourceDry(t *testing.T) {
	pipeline, err := NewPipeline(&scriptedSource{}, DefaultConfig())
	require.NoError(t, err)

	processed, err := pipeline.Tick()
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Equal(t, uint64(1), pipeline.GetStats().TicksSkipped)
	assert.Zero(t, pipeline.GetStats().TicksProcessed)
}

func TestPipelineSkipsFirstFrame(t *testing.T) {
	src := &scriptedSource{frames: blinkScript(1, 20, 20, 8)}
	pipeline, err := NewPipeline(src, DefaultConfig())
	require.NoError(t, err)

	processed, err := pipeline.Tick()
	require.NoError(t, err)
	assert.False(t, processed)

	// Source is dry now, still a skip
	processed, err = pipeline.Tick()
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Equal(t, uint64(2), pipeline.GetStats().TicksSkipped)
}

func TestPipelineEndToEndPixelGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 1
	cfg.MinBlobSize = 16
	src := &scriptedSource{frames: blinkScript(5, 20, 20, 8)}
	pipeline, err := NewPipelineWithIDs(src, cfg, &SequentialIDSource{})
	require.NoError(t, err)

	processed, err := pipeline.Tick()
	require.NoError(t, err)
	require.False(t, processed)

	for tick := 0; tick < 4; tick++ {
		processed, err = pipeline.Tick()
		require.NoError(t, err)
		require.True(t, processed)

		blobs := pipeline.GetBlobs()
		require.Len(t, blobs, 1)
		// The blur spreads the square symmetrically, so the centroid stays
		// on the square center
		assert.InDelta(t, 23.5, blobs[0].Centroid.X, 1.0)
		assert.InDelta(t, 23.5, blobs[0].Centroid.Y, 1.0)
		assert.GreaterOrEqual(t, blobs[0].Size, 64)
	}

	trails := pipeline.GetTrails()
	require.Len(t, trails, 1)
	assert.True(t, trails[0].IsActive())
	assert.Len(t, trails[0].GetPoints(), 4)
	assert.InDelta(t, 23.5, trails[0].GetPosition().X, 1.0)
	assert.InDelta(t, 23.5, trails[0].GetPosition().Y, 1.0)
	assert.Len(t, pipeline.GetActiveTrails(), 1)

	got, ok := pipeline.GetTrail(trails[0].GetID())
	require.True(t, ok)
	assert.Same(t, trails[0], got)

	stats := pipeline.GetStats()
	assert.Equal(t, uint64(4), stats.TicksProcessed)
	assert.Equal(t, uint64(1), stats.TicksSkipped)
	assert.Equal(t, uint64(4), stats.BlobsTotal)
	assert.Equal(t, uint64(1), stats.TrailsCreated)
	assert.Zero(t, stats.TrailsEvicted)
	assert.Equal(t, 1, stats.LastBlobCount)
	assert.Equal(t, 1, stats.LastTrailCount)

	sigStats := pipeline.GetSignalStats()
	assert.Greater(t, sigStats.Max, 200.0)
	assert.GreaterOrEqual(t, sigStats.ActiveLocations, 64)
	assert.InDelta(t, float64(sigStats.ActiveLocations)/4096.0, sigStats.Coverage, eps)
}

func TestPipelineEndToEndCellGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 8
	cfg.MinGridsForBlob = 2
	src := &scriptedSource{frames: blinkScript(5, 16, 16, 16)}
	pipeline, err := NewPipelineWithIDs(src, cfg, &SequentialIDSource{})
	require.NoError(t, err)

	processed, err := pipeline.Tick()
	require.NoError(t, err)
	require.False(t, processed)

	for tick := 0; tick < 4; tick++ {
		processed, err = pipeline.Tick()
		require.NoError(t, err)
		require.True(t, processed)

		blobs := pipeline.GetBlobs()
		require.Len(t, blobs, 1)
		assert.InDelta(t, 23.5, blobs[0].Centroid.X, 4.5)
		assert.InDelta(t, 23.5, blobs[0].Centroid.Y, 4.5)
		assert.GreaterOrEqual(t, blobs[0].Size, 4)
	}

	trails := pipeline.GetTrails()
	require.Len(t, trails, 1)
	assert.Len(t, trails[0].GetPoints(), 4)
	assert.Equal(t, uint64(1), pipeline.GetStats().TrailsCreated)
}
