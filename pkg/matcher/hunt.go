package matcher

// Run is a contiguous sequence of literal bytes matched as one unit.
// Positions with Any[i] set match every byte value.
type Run struct {
	Bytes []byte
	Any   []bool
}

// Len returns the number of bytes the run consumes.
func (r Run) Len() int {
	return len(r.Bytes)
}

// Hunt returns the lowest offset >= from at which run occurs in haystack,
// or -1. The scan is a plain sliding comparison with no preprocessing of
// the haystack.
func Hunt(haystack []byte, from int, run Run) int {
	n := run.Len()
	if n == 0 || from < 0 || from > len(haystack) {
		return -1
	}

	last := len(haystack) - n
	for pos := from; pos <= last; pos++ {
		if run.equalAt(haystack, pos) {
			return pos
		}
	}
	return -1
}

// equalAt compares the run against haystack[pos:pos+len].
// The caller guarantees the window is in bounds.
func (r Run) equalAt(haystack []byte, pos int) bool {
	for i, b := range r.Bytes {
		if r.Any[i] {
			continue
		}
		if haystack[pos+i] != b {
			return false
		}
	}
	return true
}
