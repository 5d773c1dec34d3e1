package audio

import "sync"

// RingBuffer is a fixed-capacity circular buffer for float32 PCM samples.
// Write never blocks: when the buffer is full, excess samples are dropped
// and Write reports how many were actually stored. Safe for one writer
// goroutine and one reader goroutine operating concurrently.
type RingBuffer struct {
	mu        sync.Mutex
	buf       []float32
	capacity  int
	writeIdx  int
	readIdx   int
	available int
}

// NewRingBuffer creates a ring buffer holding up to capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		buf:      make([]float32, capacity),
		capacity: capacity,
	}
}

// Write stores as many of the given samples as fit and returns the count.
// A full buffer drops the excess rather than blocking the caller.
func (rb *RingBuffer) Write(samples []float32) int {
	if len(samples) == 0 {
		return 0
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := rb.capacity - rb.available
	if n > len(samples) {
		n = len(samples)
	}
	for i := 0; i < n; i++ {
		rb.buf[rb.writeIdx] = samples[i]
		rb.writeIdx = (rb.writeIdx + 1) % rb.capacity
	}
	rb.available += n
	return n
}

// Read removes and returns up to max samples in write order.
// Returns nil when the buffer is empty or max is zero.
func (rb *RingBuffer) Read(max int) []float32 {
	if max <= 0 {
		return nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := rb.available
	if n > max {
		n = max
	}
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = rb.buf[rb.readIdx]
		rb.readIdx = (rb.readIdx + 1) % rb.capacity
	}
	rb.available -= n
	return out
}

// Available returns the number of samples ready to read.
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.available
}

// Free returns the number of samples that can be written without loss.
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.capacity - rb.available
}

// Clear discards all buffered samples.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.writeIdx = 0
	rb.readIdx = 0
	rb.available = 0
}

// Capacity returns the fixed buffer capacity in samples.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}
