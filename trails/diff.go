package trails

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
)

// DiffMode selects how two frames are reduced to a motion signal.
type DiffMode uint16

const (
	// DiffModeRGB averages the absolute per-channel differences of each pixel.
	// No brightness conversion: raw channel deltas are compared against the
	// motion threshold downstream.
	DiffModeRGB DiffMode = iota
	// DiffModeLuminance converts both frames to perceptual brightness first
	// and takes the absolute brightness difference per pixel.
	DiffModeLuminance
)

// Rec. 709 luma weights
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// blurSigma is the fixed Gaussian sigma applied to both frames before
// differencing. The mild blur keeps single-pixel sensor noise from reading as
// motion; it is a required pass, not a tunable.
const blurSigma = 1.4

// DifferenceEngine computes the motion signal between consecutive frames. It
// owns its output buffer and blur scratch images, so the signal returned by
// Diff stays valid only until the next Diff call.
type DifferenceEngine struct {
	mode     DiffMode
	blur     *gift.GIFT
	prevBlur *image.RGBA
	curBlur  *image.RGBA
	sig      *Signal
}

// NewDifferenceEngine creates an engine producing signals in the given mode.
// An unrecognized mode differences like DiffModeRGB; Config.Validate rejects
// such modes before they reach a pipeline, so the fallback only concerns
// engines constructed directly.
func NewDifferenceEngine(mode DiffMode) *DifferenceEngine {
	return &DifferenceEngine{
		mode: mode,
		blur: gift.New(gift.GaussianBlur(blurSigma)),
	}
}

// Diff produces the motion signal between the previous and current frames.
// Both frames are blurred into engine-owned scratch images first. Mismatched
// frame dimensions are a programming invariant violation and panic: the
// pipeline cannot reconcile differently-sized frames.
func (engine *DifferenceEngine) Diff(prev, cur *Frame) *Signal {
	if prev.Width != cur.Width || prev.Height != cur.Height {
		panic(fmt.Sprintf("trails: frame dimensions mismatch: %dx%d vs %dx%d",
			prev.Width, prev.Height, cur.Width, cur.Height))
	}
	engine.ensureBuffers(cur.Width, cur.Height)

	engine.blur.Draw(engine.prevBlur, prev.RGBA())
	engine.blur.Draw(engine.curBlur, cur.RGBA())

	// Scratch images are freshly allocated by ensureBuffers with a tight
	// stride, so pixel i lives at byte offset i*4.
	pPix := engine.prevBlur.Pix
	cPix := engine.curBlur.Pix
	values := engine.sig.Values
	switch engine.mode {
	case DiffModeLuminance:
		for i, j := 0, 0; i < len(values); i, j = i+1, j+4 {
			pLuma := lumaR*float64(pPix[j]) + lumaG*float64(pPix[j+1]) + lumaB*float64(pPix[j+2])
			cLuma := lumaR*float64(cPix[j]) + lumaG*float64(cPix[j+1]) + lumaB*float64(cPix[j+2])
			values[i] = math.Abs(cLuma - pLuma)
		}
	default:
		for i, j := 0, 0; i < len(values); i, j = i+1, j+4 {
			dr := absDelta(pPix[j], cPix[j])
			dg := absDelta(pPix[j+1], cPix[j+1])
			db := absDelta(pPix[j+2], cPix[j+2])
			values[i] = float64(dr+dg+db) / 3.0
		}
	}
	return engine.sig
}

func (engine *DifferenceEngine) ensureBuffers(width, height int) {
	if engine.sig != nil && engine.sig.Width == width && engine.sig.Height == height {
		return
	}
	rect := image.Rect(0, 0, width, height)
	engine.prevBlur = image.NewRGBA(rect)
	engine.curBlur = image.NewRGBA(rect)
	engine.sig = NewSignal(width, height)
}

func absDelta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
