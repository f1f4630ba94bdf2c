package trails

import (
	"testing"
)

func TestGridQueueFIFO(t *testing.T) {
	q := newGridQueue(4)
	for i := 0; i < 4; i++ {
		q.push(i)
	}
	for i := 0; i < 4; i++ {
		got := q.pop()
		if got != i {
			t.Errorf("Wrong pop order: %d, correct: %d", got, i)
			return
		}
	}
	if !q.empty() {
		t.Error("Queue must be empty after popping everything")
	}
}

func TestGridQueueGrowWrapped(t *testing.T) {
	q := newGridQueue(4)
	// Advance head so the live region wraps around the ring before growing
	for i := 0; i < 3; i++ {
		q.push(i)
	}
	q.pop()
	q.pop()
	for i := 3; i < 9; i++ {
		q.push(i)
	}
	expected := []int{2, 3, 4, 5, 6, 7, 8}
	for _, want := range expected {
		got := q.pop()
		if got != want {
			t.Errorf("Wrong pop order after grow: %d, correct: %d", got, want)
			return
		}
	}
	if !q.empty() {
		t.Error("Queue must be empty after draining")
	}
}

func TestGridQueueReset(t *testing.T) {
	q := newGridQueue(2)
	q.push(10)
	q.push(11)
	q.reset()
	if !q.empty() {
		t.Error("Queue must be empty after reset")
	}
	q.push(42)
	if got := q.pop(); got != 42 {
		t.Errorf("Wrong value after reset: %d, correct: 42", got)
	}
}
