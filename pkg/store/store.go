// Package store persists identification results so that reports can be
// regenerated and unchanged files skipped on later runs.
package store

import (
	"fmt"

	"github.com/nsfid/nsfid/pkg/types"
)

// MemoryPath selects the in-memory backend.
const MemoryPath = ":memory:"

// Store provides persistence for scan results.
// Results are keyed by content (BlobID) and the digest of the driver set
// they were produced with, so a changed config never reuses stale hits.
type Store interface {
	// AddScan stores a file result and its hits.
	AddScan(result *types.Result, digest string) error

	// GetScan returns the hits recorded for content under digest.
	// Name and Provenance of the returned result are empty.
	GetScan(id types.BlobID, digest string) (*types.Result, bool, error)

	// GetAllResults retrieves every stored file result in insertion order.
	GetAllResults() ([]*types.Result, error)

	// DriverCounts returns the number of stored files each driver matched,
	// ordered by driver declaration.
	DriverCounts() ([]DriverCount, error)

	// Close closes the underlying storage.
	Close() error
}

// DriverCount is a driver name with its number of identified files.
type DriverCount struct {
	Driver string `json:"driver"`
	Files  int    `json:"files"`
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a non-persistent store.
	Path string
}

// New creates a store. ":memory:" returns a MemoryStore, anything else
// a SQLite database at that path.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}

// provenanceFor rebuilds a provenance from its stored columns.
func provenanceFor(kind, path, member string) types.Provenance {
	if kind == "archive" {
		return types.ArchiveProvenance{ArchivePath: path, MemberPath: member}
	}
	return types.FileProvenance{FilePath: path}
}

// provenanceColumns splits a provenance into stored columns.
func provenanceColumns(prov types.Provenance, name string) (kind, path, member string) {
	switch p := prov.(type) {
	case types.ArchiveProvenance:
		return p.Kind(), p.ArchivePath, p.MemberPath
	case types.FileProvenance:
		return p.Kind(), p.FilePath, ""
	default:
		return "file", name, ""
	}
}
