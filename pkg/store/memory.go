package store

import (
	"sort"
	"sync"

	"github.com/nsfid/nsfid/pkg/types"
)

// scanKey identifies content scanned with a given driver set.
type scanKey struct {
	id     types.BlobID
	digest string
}

// fileKey identifies one stored file row.
type fileKey struct {
	scanKey
	kind, path, member string
}

// fileRecord is a stored file without hits.
type fileRecord struct {
	key        fileKey
	size       int64
	identified bool
}

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu    sync.RWMutex
	files []fileRecord
	seen  map[fileKey]bool
	hits  map[scanKey][]*types.Hit
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		seen: make(map[fileKey]bool),
		hits: make(map[scanKey][]*types.Hit),
	}
}

// AddScan stores a file result and its hits.
func (m *MemoryStore) AddScan(result *types.Result, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sk := scanKey{id: result.BlobID, digest: digest}
	kind, path, member := provenanceColumns(result.Provenance, result.Name)
	fk := fileKey{scanKey: sk, kind: kind, path: path, member: member}
	if !m.seen[fk] {
		m.seen[fk] = true
		m.files = append(m.files, fileRecord{key: fk, size: result.Size, identified: result.Identified})
	}

	if _, exists := m.hits[sk]; !exists {
		hits := make([]*types.Hit, len(result.Hits))
		for i, h := range result.Hits {
			c := *h
			hits[i] = &c
		}
		m.hits[sk] = hits
	}
	return nil
}

// GetScan returns the hits recorded for content under digest.
func (m *MemoryStore) GetScan(id types.BlobID, digest string) (*types.Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sk := scanKey{id: id, digest: digest}
	for _, f := range m.files {
		if f.key.scanKey != sk {
			continue
		}
		return &types.Result{
			BlobID:     id,
			Size:       f.size,
			Hits:       m.copyHits(sk),
			Identified: f.identified,
		}, true, nil
	}
	return nil, false, nil
}

// GetAllResults retrieves every stored file result in insertion order.
func (m *MemoryStore) GetAllResults() ([]*types.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*types.Result, 0, len(m.files))
	for _, f := range m.files {
		prov := provenanceFor(f.key.kind, f.key.path, f.key.member)
		results = append(results, &types.Result{
			Name:       prov.Path(),
			BlobID:     f.key.id,
			Size:       f.size,
			Provenance: prov,
			Hits:       m.copyHits(f.key.scanKey),
			Identified: f.identified,
		})
	}
	return results, nil
}

// DriverCounts returns the number of stored files each driver matched.
func (m *MemoryStore) DriverCounts() ([]DriverCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	order := make(map[string]int)
	for _, f := range m.files {
		for _, h := range m.hits[f.key.scanKey] {
			if _, ok := order[h.Driver]; !ok || h.DriverIndex < order[h.Driver] {
				order[h.Driver] = h.DriverIndex
			}
			counts[h.Driver]++
		}
	}

	result := make([]DriverCount, 0, len(counts))
	for driver, n := range counts {
		result = append(result, DriverCount{Driver: driver, Files: n})
	}
	sort.Slice(result, func(i, j int) bool {
		oi, oj := order[result[i].Driver], order[result[j].Driver]
		if oi != oj {
			return oi < oj
		}
		return result[i].Driver < result[j].Driver
	})
	return result, nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) copyHits(sk scanKey) []*types.Hit {
	src := m.hits[sk]
	if len(src) == 0 {
		return nil
	}
	hits := make([]*types.Hit, len(src))
	for i, h := range src {
		c := *h
		hits[i] = &c
	}
	return hits
}
