package stream

// ring is a fixed-capacity FIFO of log entries with O(1) eviction.
// Not safe for concurrent use; the engine serializes access under its mutex.
type ring struct {
	buf  []LogEntry
	head int // index of the oldest entry
	n    int
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &ring{buf: make([]LogEntry, capacity)}
}

func (r *ring) append(e LogEntry) {
	if r.n < len(r.buf) {
		r.buf[(r.head+r.n)%len(r.buf)] = e
		r.n++
		return
	}
	// Full: overwrite the oldest slot and advance.
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

// snapshot returns the entries oldest-first.
func (r *ring) snapshot() []LogEntry {
	out := make([]LogEntry, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

func (r *ring) reset() {
	r.head = 0
	r.n = 0
}

func (r *ring) len() int { return r.n }
