package types

// Snippet contains the bytes around a hit.
type Snippet struct {
	Before   []byte `json:"before,omitempty"`   // bytes before the first run
	Matching []byte `json:"matching,omitempty"` // bytes starting at the hit offset
	After    []byte `json:"after,omitempty"`    // bytes following Matching
}
