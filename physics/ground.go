package physics

// GroundHistory is a fixed-size ring of per-move ground contacts. The body counts as
// grounded while more than half of the ring saw ground, which debounces single missed or
// spurious probes.
type GroundHistory struct {
	samples []bool
	next    int
	filled  int
	count   int
}

// NewGroundHistory returns an empty history holding size samples. size below 1 is treated
// as 1.
func NewGroundHistory(size int) *GroundHistory {
	if size < 1 {
		size = 1
	}
	return &GroundHistory{samples: make([]bool, size)}
}

// Push records one probe, evicting the oldest once full.
func (h *GroundHistory) Push(contact bool) {
	if h.filled == len(h.samples) {
		if h.samples[h.next] {
			h.count--
		}
	} else {
		h.filled++
	}
	h.samples[h.next] = contact
	if contact {
		h.count++
	}
	h.next = (h.next + 1) % len(h.samples)
}

// Grounded reports whether contacts fill more than half of the ring. Slots not yet written
// count as no contact.
func (h *GroundHistory) Grounded() bool {
	return h.count*2 > len(h.samples)
}

// Count returns the number of contacts in the ring.
func (h *GroundHistory) Count() int { return h.count }

// Size returns the ring capacity.
func (h *GroundHistory) Size() int { return len(h.samples) }

// Reset forgets every sample.
func (h *GroundHistory) Reset() {
	for i := range h.samples {
		h.samples[i] = false
	}
	h.next, h.filled, h.count = 0, 0, 0
}

// Fill overwrites the whole ring with contact.
func (h *GroundHistory) Fill(contact bool) {
	h.Reset()
	for range h.samples {
		h.Push(contact)
	}
}
