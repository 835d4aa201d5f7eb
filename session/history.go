package session

// History is a bounded, insertion-ordered list of submitted commands
// Not synchronized; Session guards it with its own mutex
type History struct {
	entries []string
	limit   int
}

// NewHistory creates a history holding at most limit entries (minimum 1)
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
	}
}

// Push appends an entry, evicting the oldest when the limit is exceeded
func (h *History) Push(entry string) {
	if len(h.entries) == h.limit {
		// Shift in place, capacity stays at limit
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = entry
		return
	}
	h.entries = append(h.entries, entry)
}

// Clear removes all entries
func (h *History) Clear() {
	clear(h.entries)
	h.entries = h.entries[:0]
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Limit() int {
	return h.limit
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// each visits entries oldest first without copying
func (h *History) each(fn func(i int, entry string)) {
	for i, e := range h.entries {
		fn(i, e)
	}
}
