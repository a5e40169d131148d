package suggest

import "strings"

// RecencyList keeps the most recently accepted queries, newest first. It
// lives only for the session and is never persisted. Not safe for concurrent
// use; the aggregator serializes access.
type RecencyList struct {
	capacity int
	entries  []string
}

func NewRecencyList(capacity int) *RecencyList {
	if capacity <= 0 {
		capacity = maxRecent
	}
	return &RecencyList{capacity: capacity}
}

// Push inserts text at the front. An existing entry with the exact same
// text (case-sensitive) moves to the front instead of duplicating; inserting
// beyond capacity evicts the oldest entry. Empty text is ignored.
func (r *RecencyList) Push(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	for i, e := range r.entries {
		if e == text {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}

	r.entries = append([]string{text}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
}

// Entries returns a copy of all entries, newest first.
func (r *RecencyList) Entries() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Head returns up to n of the newest entries.
func (r *RecencyList) Head(n int) []string {
	if n > len(r.entries) {
		n = len(r.entries)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	copy(out, r.entries[:n])
	return out
}

// Matches returns entries that contain query case-insensitively, excluding
// an exact (case-sensitive) match of the query itself, newest first, up to
// limit entries.
func (r *RecencyList) Matches(query string, limit int) []string {
	trimmed := strings.TrimSpace(query)
	lowered := strings.ToLower(trimmed)
	if lowered == "" || limit <= 0 {
		return nil
	}

	var out []string
	for _, e := range r.entries {
		if e == trimmed {
			continue
		}
		if strings.Contains(strings.ToLower(e), lowered) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (r *RecencyList) Len() int {
	return len(r.entries)
}
