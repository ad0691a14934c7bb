//go:build !wasm

package enum

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// loadFile maps path read-only. The returned release func unmaps it.
// Empty files cannot be mapped and yield an empty buffer.
func loadFile(path string, size int64) ([]byte, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("error memory mapping file: %w", err)
	}
	return mapped, mapped.Unmap, nil
}
