// Package datastore manages a scan directory: the result database plus an
// optional content-addressed copy of every scanned buffer, so a later run
// can re-identify rips after the driver config changes.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nsfid/nsfid/pkg/store"
)

const (
	// DatabaseFile is the result database inside a datastore directory.
	DatabaseFile = "datastore.db"

	blobsDir = "blobs"
)

// Datastore is an open datastore directory.
type Datastore struct {
	Path  string
	Store store.Store
	Blobs *BlobStore // nil unless blobs are stored
}

// Options configures datastore behavior.
type Options struct {
	StoreBlobs bool // create blob storage (--store-blobs)
}

// BlobStore manages content-addressable blob storage.
type BlobStore struct {
	Root string
}

// Open opens or creates a datastore directory. Blob storage is attached
// when requested or when the directory already has it.
func Open(path string, opts Options) (*Datastore, error) {
	if path == "" {
		return nil, fmt.Errorf("datastore path is required")
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating datastore directory: %w", err)
	}

	blobRoot := filepath.Join(path, blobsDir)
	if opts.StoreBlobs {
		if err := os.MkdirAll(blobRoot, 0755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", blobsDir, err)
		}
	}

	gitignorePath := filepath.Join(path, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("*\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}

	s, err := store.New(store.Config{Path: filepath.Join(path, DatabaseFile)})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	ds := &Datastore{Path: path, Store: s}
	if info, err := os.Stat(blobRoot); err == nil && info.IsDir() {
		ds.Blobs = &BlobStore{Root: blobRoot}
	}
	return ds, nil
}

// DatabasePath resolves path to a result database: a datastore directory
// yields the database inside it, anything else is returned unchanged.
func DatabasePath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DatabaseFile)
	}
	return path
}

// Close closes the datastore and releases resources.
func (d *Datastore) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}
