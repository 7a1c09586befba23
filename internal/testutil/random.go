package testutil

import "sync"

// FixedRandom is an io.Reader that yields a repeating byte pattern.
//
// Token secrets read from it are predictable, which lets tests assert on
// exact token strings. Never use it outside tests.
//
// Thread-safety: Read is safe for concurrent use.
type FixedRandom struct {
	mu      sync.Mutex
	pattern []byte
	pos     int
}

// NewFixedRandom creates a reader cycling through pattern.
// If pattern is empty, the reader yields 0xAB forever.
func NewFixedRandom(pattern ...byte) *FixedRandom {
	if len(pattern) == 0 {
		pattern = []byte{0xab}
	}
	return &FixedRandom{pattern: pattern}
}

// Read fills p from the pattern. It never fails.
func (r *FixedRandom) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p {
		p[i] = r.pattern[r.pos%len(r.pattern)]
		r.pos++
	}
	return len(p), nil
}
