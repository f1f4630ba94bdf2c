package trails

import (
	"image"
	"image/draw"
	"time"
)

// Frame is one captured RGBA frame. Pix holds 4 bytes per pixel in R, G, B, A
// order, row by row; Stride is the byte offset between vertically adjacent
// pixels. A frame handed to the pipeline belongs to the pipeline: the capture
// side must not mutate it afterwards.
type Frame struct {
	Pix       []uint8
	Width     int
	Height    int
	Stride    int
	Seq       uint64
	Timestamp time.Time
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Pix:    make([]uint8, 4*width*height),
		Width:  width,
		Height: height,
		Stride: 4 * width,
	}
}

// NewFrameFrom copies an arbitrary capture image into a new frame.
func NewFrameFrom(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewFrame(bounds.Dx(), bounds.Dy())
	view := f.RGBA()
	draw.Draw(view, view.Bounds(), img, bounds.Min, draw.Src)
	return f
}

// RGBA returns a stdlib view over the frame's pixel storage. No copy is made:
// drawing into the view mutates the frame.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// At returns the red, green and blue components of the pixel at (x, y).
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := y*f.Stride + x*4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetRGB sets the pixel at (x, y) to an opaque color.
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	i := y*f.Stride + x*4
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
	f.Pix[i+3] = 0xff
}

// Source supplies frames to the pipeline.
type Source interface {
	// Ready reports whether the source has produced at least one valid frame.
	// The pipeline checks this every tick and skips processing while false.
	Ready() bool
	// Grab returns the most recent frame. It is called at most once per tick
	// and only after Ready reported true. The returned frame belongs to the
	// pipeline from then on.
	Grab() *Frame
}

// FrameBuffer retains the previous and current frames between ticks. It is the
// only piece of pipeline state besides the trail registry that survives a tick.
type FrameBuffer struct {
	prev *Frame
	cur  *Frame
}

// Push makes f the current frame; the old current becomes the previous one.
func (b *FrameBuffer) Push(f *Frame) {
	b.prev = b.cur
	b.cur = f
}

// Ready reports whether two frames have been seen, the minimum for a diff.
func (b *FrameBuffer) Ready() bool {
	return b.prev != nil && b.cur != nil
}

func (b *FrameBuffer) Previous() *Frame {
	return b.prev
}

func (b *FrameBuffer) Current() *Frame {
	return b.cur
}
