package trails

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
}

func TestEMA(t *testing.T) {
	old := Point{X: 10, Y: 20}
	sample := Point{X: 20, Y: 0}

	keep := ema(old, sample, 1.0)
	if keep != old {
		t.Errorf("Factor 1.0 must keep old value, got: %v", keep)
	}

	jump := ema(old, sample, 0.0)
	if jump != sample {
		t.Errorf("Factor 0.0 must jump to sample, got: %v", jump)
	}

	half := ema(old, sample, 0.5)
	if math.Abs(half.X-15.0) > eps || math.Abs(half.Y-10.0) > eps {
		t.Errorf("Wrong answer: %v, correct answer: {15 10}", half)
	}
}

func TestRectFrom(t *testing.T) {
	rect := NewRectFrom(image.Rect(10, 20, 110, 70))
	if rect.X != 10.0 || rect.Y != 20.0 || rect.Width != 100.0 || rect.Height != 50.0 {
		t.Errorf("Wrong rectangle: %v, correct: {10 20 100 50}", rect)
	}
	pt := NewPointFrom(image.Pt(3, 4))
	if pt.X != 3.0 || pt.Y != 4.0 {
		t.Errorf("Wrong point: %v, correct: {3 4}", pt)
	}
}
