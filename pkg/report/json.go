package report

import (
	"encoding/json"
	"io"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/types"
)

// FileEntry is one scanned file in JSON output.
type FileEntry struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	BlobID     types.BlobID `json:"blob_id"`
	Size       int64        `json:"size"`
	Identified bool         `json:"identified"`
	Hits       []*types.Hit `json:"hits,omitempty"`
}

// Summary holds the driver table and tallies.
type Summary struct {
	Drivers []registry.DriverCount `json:"drivers"`
	Totals  registry.Totals        `json:"totals"`
}

// Document is the complete JSON report.
type Document struct {
	Config  string      `json:"config,omitempty"`
	Files   []FileEntry `json:"files"`
	Summary Summary     `json:"summary"`
}

// JSON buffers file entries and writes a single document on Finish.
type JSON struct {
	w   io.Writer
	doc Document
}

// NewJSON creates a JSON report writer.
func NewJSON(w io.Writer, configPath string) *JSON {
	return &JSON{w: w, doc: Document{Config: configPath, Files: []FileEntry{}}}
}

// File adds a scanned file with its reportable hits.
func (j *JSON) File(result *types.Result, view View) {
	kind := "file"
	if result.Provenance != nil {
		kind = result.Provenance.Kind()
	}
	j.doc.Files = append(j.doc.Files, FileEntry{
		Name:       result.Name,
		Kind:       kind,
		BlobID:     result.BlobID,
		Size:       result.Size,
		Identified: result.Identified,
		Hits:       view.ReportableHits(result),
	})
}

// Finish writes the document with the given summary.
func (j *JSON) Finish(found []registry.DriverCount, totals registry.Totals) error {
	if found == nil {
		found = []registry.DriverCount{}
	}
	j.doc.Summary = Summary{Drivers: found, Totals: totals}

	encoder := json.NewEncoder(j.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(j.doc)
}
