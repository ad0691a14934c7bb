package store

import (
	"database/sql"
	"fmt"

	"github.com/nsfid/nsfid/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddScan stores a file result and its hits.
func (s *SQLiteStore) AddScan(result *types.Result, digest string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kind, path, member := provenanceColumns(result.Provenance, result.Name)
	_, err = tx.Exec(`
		INSERT OR IGNORE INTO files (blob_id, digest, kind, path, member, size, identified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		result.BlobID.Hex(),
		digest,
		kind,
		path,
		member,
		result.Size,
		result.Identified,
	)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}

	for _, h := range result.Hits {
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO hits (blob_id, digest, driver, driver_index, signature, hit_offset, snippet_before, snippet_matching, snippet_after)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			result.BlobID.Hex(),
			digest,
			h.Driver,
			h.DriverIndex,
			h.Signature,
			h.Offset,
			h.Snippet.Before,
			h.Snippet.Matching,
			h.Snippet.After,
		)
		if err != nil {
			return fmt.Errorf("inserting hit: %w", err)
		}
	}

	return tx.Commit()
}

// GetScan returns the hits recorded for content under digest.
func (s *SQLiteStore) GetScan(id types.BlobID, digest string) (*types.Result, bool, error) {
	result := &types.Result{BlobID: id}
	err := s.db.QueryRow(`
		SELECT size, identified FROM files
		WHERE blob_id = ? AND digest = ?
		LIMIT 1
	`, id.Hex(), digest).Scan(&result.Size, &result.Identified)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying file: %w", err)
	}

	hits, err := s.getHits(id, digest)
	if err != nil {
		return nil, false, err
	}
	result.Hits = hits
	return result, true, nil
}

func (s *SQLiteStore) getHits(id types.BlobID, digest string) ([]*types.Hit, error) {
	rows, err := s.db.Query(`
		SELECT driver, driver_index, signature, hit_offset, snippet_before, snippet_matching, snippet_after
		FROM hits
		WHERE blob_id = ? AND digest = ?
		ORDER BY driver_index
	`, id.Hex(), digest)
	if err != nil {
		return nil, fmt.Errorf("querying hits: %w", err)
	}
	defer rows.Close()

	var hits []*types.Hit
	for rows.Next() {
		var h types.Hit
		err := rows.Scan(
			&h.Driver,
			&h.DriverIndex,
			&h.Signature,
			&h.Offset,
			&h.Snippet.Before,
			&h.Snippet.Matching,
			&h.Snippet.After,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

// GetAllResults retrieves every stored file result in insertion order.
func (s *SQLiteStore) GetAllResults() ([]*types.Result, error) {
	rows, err := s.db.Query(`
		SELECT blob_id, digest, kind, path, member, size, identified
		FROM files
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}

	type fileRow struct {
		result *types.Result
		digest string
	}
	var files []fileRow
	for rows.Next() {
		var r types.Result
		var digest, kind, path, member string
		err := rows.Scan(&r.BlobID, &digest, &kind, &path, &member, &r.Size, &r.Identified)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		r.Provenance = provenanceFor(kind, path, member)
		r.Name = r.Provenance.Path()
		files = append(files, fileRow{result: &r, digest: digest})
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}

	results := make([]*types.Result, 0, len(files))
	for _, f := range files {
		hits, err := s.getHits(f.result.BlobID, f.digest)
		if err != nil {
			return nil, err
		}
		f.result.Hits = hits
		results = append(results, f.result)
	}
	return results, nil
}

// DriverCounts returns the number of stored files each driver matched.
func (s *SQLiteStore) DriverCounts() ([]DriverCount, error) {
	rows, err := s.db.Query(`
		SELECT h.driver, COUNT(*)
		FROM files f
		JOIN hits h ON h.blob_id = f.blob_id AND h.digest = f.digest
		GROUP BY h.driver
		ORDER BY MIN(h.driver_index), h.driver
	`)
	if err != nil {
		return nil, fmt.Errorf("querying driver counts: %w", err)
	}
	defer rows.Close()

	var counts []DriverCount
	for rows.Next() {
		var c DriverCount
		if err := rows.Scan(&c.Driver, &c.Files); err != nil {
			return nil, fmt.Errorf("scanning driver count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating driver counts: %w", err)
	}
	return counts, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
