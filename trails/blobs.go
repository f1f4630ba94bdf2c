package trails

import (
	"sort"
)

// Blob is one connected region of above-threshold motion, reduced to a
// summary. Blobs are transient: a fresh set is produced every tick and none
// of it is retained by the detector.
type Blob struct {
	// Centroid is the arithmetic mean of member coordinates in frame space.
	// In cell mode member cell indices are mapped back through the grid size
	// to the center of each cell.
	Centroid Point
	// Intensity is the mean intensity of the members
	Intensity float64
	// Size is the member count: pixels in pixel mode, cells in cell mode
	Size int
	// Bounds is the axis-aligned extent of the component in frame coordinates
	Bounds Rectangle
}

// BlobDetector finds 4-connected components of above-threshold motion in a
// signal and returns them largest first, ties in discovery order, truncated
// to the configured maximum. GridSize 1 works directly on the pixel grid;
// larger values aggregate the signal into square cells first. The detector
// reuses its visited grid, cell accumulators and flood-fill queue between
// ticks, so a single instance must not be shared across pipelines.
type BlobDetector struct {
	threshold float64
	minSize   int
	minCells  int
	maxBlobs  int
	gridSize  int

	visited []bool
	queue   *gridQueue
	members []int

	cellSig   *Signal
	cellSum   []float64
	cellCount []int
}

// NewBlobDetector creates a detector for the given configuration. The
// configuration is expected to be validated already.
func NewBlobDetector(cfg Config) *BlobDetector {
	return &BlobDetector{
		threshold: cfg.MotionThreshold,
		minSize:   cfg.MinBlobSize,
		minCells:  cfg.MinGridsForBlob,
		maxBlobs:  cfg.MaxBlobs,
		gridSize:  cfg.GridSize,
		queue:     newGridQueue(256),
	}
}

// Detect returns the blobs of the given signal, largest first.
func (d *BlobDetector) Detect(sig *Signal) []Blob {
	grid := sig
	cellSize := 1
	minSize := d.minSize
	if d.gridSize > 1 {
		grid = d.aggregate(sig)
		cellSize = d.gridSize
		minSize = d.minCells
	}
	blobs := d.findComponents(grid, cellSize, minSize)
	sort.SliceStable(blobs, func(i, j int) bool {
		return blobs[i].Size > blobs[j].Size
	})
	if len(blobs) > d.maxBlobs {
		blobs = blobs[:d.maxBlobs]
	}
	return blobs
}

// aggregate folds the full-resolution signal into the cell grid. A cell is
// motion if any pixel inside it exceeds the per-pixel threshold; its value is
// the mean of those contributing pixels. Since every contributing pixel
// exceeds the threshold, so does the mean, and the cell grid can be flooded
// with the same threshold as the pixel grid.
func (d *BlobDetector) aggregate(sig *Signal) *Signal {
	cw := (sig.Width + d.gridSize - 1) / d.gridSize
	ch := (sig.Height + d.gridSize - 1) / d.gridSize
	if d.cellSig == nil || d.cellSig.Width != cw || d.cellSig.Height != ch {
		d.cellSig = NewSignal(cw, ch)
		d.cellSum = make([]float64, cw*ch)
		d.cellCount = make([]int, cw*ch)
	}
	clear(d.cellSum)
	clear(d.cellCount)

	for y := 0; y < sig.Height; y++ {
		row := y * sig.Width
		cellRow := (y / d.gridSize) * cw
		for x := 0; x < sig.Width; x++ {
			v := sig.Values[row+x]
			if v > d.threshold {
				ci := cellRow + x/d.gridSize
				d.cellSum[ci] += v
				d.cellCount[ci]++
			}
		}
	}
	for i := range d.cellSig.Values {
		if d.cellCount[i] > 0 {
			d.cellSig.Values[i] = d.cellSum[i] / float64(d.cellCount[i])
		} else {
			d.cellSig.Values[i] = 0.0
		}
	}
	return d.cellSig
}

// findComponents performs one full row-major pass over the grid. Locations
// are marked visited when enqueued, never re-enqueued, which bounds the work
// and guarantees termination.
func (d *BlobDetector) findComponents(grid *Signal, cellSize, minSize int) []Blob {
	w, h := grid.Width, grid.Height
	if len(d.visited) != w*h {
		d.visited = make([]bool, w*h)
	}
	clear(d.visited)
	d.queue.reset()

	blobs := make([]Blob, 0, d.maxBlobs)
	for start := range grid.Values {
		if d.visited[start] || grid.Values[start] <= d.threshold {
			continue
		}
		d.members = d.members[:0]
		d.visited[start] = true
		d.queue.push(start)
		for !d.queue.empty() {
			idx := d.queue.pop()
			d.members = append(d.members, idx)
			x := idx % w
			y := idx / w
			if x > 0 {
				d.tryVisit(grid, idx-1)
			}
			if x < w-1 {
				d.tryVisit(grid, idx+1)
			}
			if y > 0 {
				d.tryVisit(grid, idx-w)
			}
			if y < h-1 {
				d.tryVisit(grid, idx+w)
			}
		}
		if len(d.members) < minSize {
			continue
		}
		blobs = append(blobs, d.buildBlob(grid, cellSize))
	}
	return blobs
}

func (d *BlobDetector) tryVisit(grid *Signal, idx int) {
	if d.visited[idx] || grid.Values[idx] <= d.threshold {
		return
	}
	d.visited[idx] = true
	d.queue.push(idx)
}

func (d *BlobDetector) buildBlob(grid *Signal, cellSize int) Blob {
	var sumX, sumY, sumV float64
	minX, minY := grid.Width, grid.Height
	maxX, maxY := 0, 0
	for _, idx := range d.members {
		x := idx % grid.Width
		y := idx / grid.Width
		sumX += float64(x)
		sumY += float64(y)
		sumV += grid.Values[idx]
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	n := float64(len(d.members))
	cx := sumX / n
	cy := sumY / n

	cs := float64(cellSize)
	var centroid Point
	var bounds Rectangle
	if cellSize > 1 {
		centroid = Point{X: cx*cs + cs/2.0, Y: cy*cs + cs/2.0}
		bounds = NewRect(float64(minX)*cs, float64(minY)*cs, float64(maxX-minX+1)*cs, float64(maxY-minY+1)*cs)
	} else {
		centroid = Point{X: cx, Y: cy}
		bounds = NewRect(float64(minX), float64(minY), float64(maxX-minX+1), float64(maxY-minY+1))
	}
	return Blob{
		Centroid:  centroid,
		Intensity: sumV / n,
		Size:      len(d.members),
		Bounds:    bounds,
	}
}
