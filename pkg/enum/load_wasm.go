//go:build wasm

package enum

import "os"

// loadFile reads path into memory; js/wasm has no mmap.
func loadFile(path string, size int64) ([]byte, func() error, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return content, func() error { return nil }, nil
}
