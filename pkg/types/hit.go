package types

// Hit records that a driver matched a scan target.
type Hit struct {
	Driver      string  `json:"driver"`
	DriverIndex int     `json:"driver_index"` // position in the configuration
	Signature   int     `json:"signature"`    // 0-based alternative that matched
	Offset      int64   `json:"offset"`       // offset of the first run's match
	Snippet     Snippet `json:"snippet"`
}

// Result is the outcome of matching one scan target against every
// evaluated driver. Hits are in driver declaration order.
type Result struct {
	Name       string     `json:"name"`
	BlobID     BlobID     `json:"blob_id"`
	Size       int64      `json:"size"`
	Provenance Provenance `json:"-"`
	Hits       []*Hit     `json:"hits"`
	Identified bool       `json:"identified"`
}

// HasDriver reports whether the named driver (case-insensitive) is among the hits.
func (r *Result) HasDriver(name string) bool {
	key := NameKey(name)
	for _, h := range r.Hits {
		if NameKey(h.Driver) == key {
			return true
		}
	}
	return false
}
