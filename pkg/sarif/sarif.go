// Package sarif renders driver identifications as a SARIF 2.1.0 log.
// Each driver is a rule and each hit a result located by byte offset.
package sarif

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nsfid/nsfid/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "nsfid"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata. SARIF calls the tool component a
// driver; it is unrelated to playback drivers, which appear as rules.
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules"`
}

// Rule is one playback driver.
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result is one identification.
type Result struct {
	RuleID    string     `json:"ruleId"`
	RuleIndex int        `json:"ruleIndex"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region is a byte range of a binary artifact.
type Region struct {
	ByteOffset int64          `json:"byteOffset"`
	ByteLength int            `json:"byteLength,omitempty"`
	Snippet    *BinarySnippet `json:"snippet,omitempty"`
}

// BinarySnippet holds the matched bytes in hex.
type BinarySnippet struct {
	Binary string `json:"binary"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: toolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddRule adds a playback driver as a rule and returns its index. A
// driver already present keeps its index.
func (r *Report) AddRule(name string, signatures int) int {
	rules := r.Runs[0].Tool.Driver.Rules
	for i, rule := range rules {
		if rule.ID == name {
			return i
		}
	}

	text := "Playback driver " + name
	switch {
	case signatures == 1:
		text += " (1 signature)"
	case signatures > 1:
		text += fmt.Sprintf(" (%d signatures)", signatures)
	}
	r.Runs[0].Tool.Driver.Rules = append(rules, Rule{
		ID:               name,
		Name:             name,
		ShortDescription: ShortDescription{Text: text},
	})
	return len(rules)
}

// AddResult adds an identification of hit in the file at filePath. The
// driver's rule is added when missing.
func (r *Report) AddResult(hit *types.Hit, filePath string) {
	idx := r.AddRule(hit.Driver, 0)

	region := Region{ByteOffset: hit.Offset}
	if len(hit.Snippet.Matching) > 0 {
		region.ByteLength = len(hit.Snippet.Matching)
		region.Snippet = &BinarySnippet{Binary: hex.EncodeToString(hit.Snippet.Matching)}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, Result{
		RuleID:    hit.Driver,
		RuleIndex: idx,
		Level:     "note",
		Message: Message{
			Text: fmt.Sprintf("Identified driver %s (signature %d)", hit.Driver, hit.Signature),
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{URI: formatFileURI(filePath)},
					Region:           region,
				},
			},
		},
	})
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
