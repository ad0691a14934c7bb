package explore

import (
	"fmt"
	"os"

	"github.com/nsfid/nsfid/pkg/datastore"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/nsfid/nsfid/pkg/types"
)

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store store.Store
	files []*fileRow
}

// fileRow is the view model for one stored file result.
type fileRow struct {
	Name       string
	Source     string // provenance kind: "file" or "archive"
	BlobID     types.BlobID
	Size       int64
	Identified bool
	Drivers    []string // matched drivers, declaration order
	Hits       []*hitRow
}

// hitRow is the view model for a single driver hit.
type hitRow struct {
	Driver    string
	Signature int
	Offset    int64
	Snippet   types.Snippet
}

// loadData opens a scan database and loads every stored file result.
// storePath may be a datastore directory or the database file itself.
func loadData(storePath string) (*exploreData, error) {
	if storePath == store.MemoryPath {
		return nil, fmt.Errorf("cannot explore an in-memory store")
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("datastore not found: %s", storePath)
	}

	s, err := store.New(store.Config{Path: datastore.DatabasePath(storePath)})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	results, err := s.GetAllResults()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving results: %w", err)
	}

	rows := make([]*fileRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, buildFileRow(r))
	}

	return &exploreData{store: s, files: rows}, nil
}

func buildFileRow(r *types.Result) *fileRow {
	row := &fileRow{
		Name:       r.Name,
		Source:     "file",
		BlobID:     r.BlobID,
		Size:       r.Size,
		Identified: r.Identified,
	}
	if r.Provenance != nil {
		row.Source = r.Provenance.Kind()
	}
	for _, h := range r.Hits {
		row.Drivers = append(row.Drivers, h.Driver)
		row.Hits = append(row.Hits, &hitRow{
			Driver:    h.Driver,
			Signature: h.Signature,
			Offset:    h.Offset,
			Snippet:   h.Snippet,
		})
	}
	return row
}

// statusLabel is the value shown in the status facet and column.
func (f *fileRow) statusLabel() string {
	if f.Identified {
		return "identified"
	}
	return "unidentified"
}

func (d *exploreData) close() error {
	if d == nil || d.store == nil {
		return nil
	}
	return d.store.Close()
}
