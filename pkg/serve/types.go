package serve

import (
	"encoding/json"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "identify" | "identify_batch" | "summary" | "close"
	Payload json.RawMessage `json:"payload"`
}

// IdentifyPayload is the payload for "identify" requests. Content is
// base64 encoded on the wire.
type IdentifyPayload struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// IdentifyBatchPayload is the payload for "identify_batch" requests
type IdentifyBatchPayload struct {
	Items []IdentifyPayload `json:"items"`
}

// BatchResult is the data of an "identify_batch" response.
type BatchResult struct {
	Results []*types.Result `json:"results"`
}

// SummaryData is the data of a "summary" response: the driver table and
// tallies of everything identified since the server started.
type SummaryData struct {
	Drivers []registry.DriverCount `json:"drivers"`
	Totals  registry.Totals        `json:"totals"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "identify" | "identify_batch" | "summary" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Drivers int    `json:"drivers"`
}
