package trails

// gridQueue is a FIFO of grid indices for the breadth-first flood fill.
// Why not a plain slice with append/shift? Re-slicing on every shift keeps the
// dead prefix alive and grows the backing array without bound during a long
// sweep. The ring reuses one buffer and stays typed, no container/list boxing.
type gridQueue struct {
	buf  []int
	head int
	tail int
	size int
}

func newGridQueue(capacity int) *gridQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &gridQueue{buf: make([]int, capacity)}
}

// push adds an index at the tail.
// The complexity is O(1) amortized (the ring doubles when full).
func (q *gridQueue) push(v int) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = v
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
}

// pop removes and returns the index at the head, preserving FIFO order.
// The complexity is O(1). The queue must not be empty.
func (q *gridQueue) pop() int {
	v := q.buf[q.head]
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return v
}

func (q *gridQueue) empty() bool {
	return q.size == 0
}

// reset drops queued indices but keeps the backing array for the next sweep.
func (q *gridQueue) reset() {
	q.head = 0
	q.tail = 0
	q.size = 0
}

func (q *gridQueue) grow() {
	grown := make([]int, 2*len(q.buf))
	n := copy(grown, q.buf[q.head:])
	copy(grown[n:], q.buf[:q.head])
	q.buf = grown
	q.head = 0
	q.tail = q.size
}
