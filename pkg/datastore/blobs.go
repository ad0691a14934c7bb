package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nsfid/nsfid/pkg/types"
)

// Store writes content to blob storage and returns the blob ID.
// Writing content that is already present is a no-op.
func (b *BlobStore) Store(content []byte) (types.BlobID, error) {
	id := types.ComputeBlobID(content)

	path := b.blobPath(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.BlobID{}, fmt.Errorf("creating blob directory: %w", err)
	}

	// temp file + rename keeps readers from seeing partial blobs
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return types.BlobID{}, fmt.Errorf("writing blob: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return types.BlobID{}, fmt.Errorf("renaming blob: %w", err)
	}

	return id, nil
}

// Get retrieves content by blob ID.
func (b *BlobStore) Get(id types.BlobID) ([]byte, error) {
	content, err := os.ReadFile(b.blobPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s", id.Hex())
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return content, nil
}

// Exists checks if a blob exists in storage.
func (b *BlobStore) Exists(id types.BlobID) bool {
	_, err := os.Stat(b.blobPath(id))
	return err == nil
}

// blobPath shards blobs by the first two hex digits: blobs/ab/cdef...
func (b *BlobStore) blobPath(id types.BlobID) string {
	hexID := id.Hex()
	return filepath.Join(b.Root, hexID[:2], hexID[2:])
}
