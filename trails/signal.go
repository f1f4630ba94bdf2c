package trails

// Signal is the per-tick motion intensity grid at full frame resolution.
// Values is row-major, length Width*Height, each value in [0, 255]. The grid
// is fully recomputed every tick; it carries no history.
type Signal struct {
	Width  int
	Height int
	Values []float64
}

// NewSignal allocates a zeroed signal of the given dimensions.
func NewSignal(width, height int) *Signal {
	return &Signal{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the intensity at (x, y).
func (s *Signal) At(x, y int) float64 {
	return s.Values[y*s.Width+x]
}

// Set stores the intensity at (x, y).
func (s *Signal) Set(x, y int, v float64) {
	s.Values[y*s.Width+x] = v
}
