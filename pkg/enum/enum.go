package enum

import (
	"context"

	"github.com/nsfid/nsfid/pkg/types"
)

// Enumerator discovers content to identify.
type Enumerator interface {
	// Enumerate yields targets one at a time. fn errors abort the walk;
	// per-path read failures go to onError and the walk continues.
	Enumerate(ctx context.Context, fn func(Target) error, onError func(path string, err error)) error
}

// Config for enumeration.
type Config struct {
	// Roots are the files and directories to examine.
	Roots []string

	// Recurse descends into subdirectories.
	Recurse bool

	// FileTypes restricts files to these extensions (case-insensitive).
	// Empty means every file.
	FileTypes []string

	// AllFiles disables the FileTypes filter.
	AllFiles bool

	// SkipHidden skips files and directories starting with '.'.
	SkipHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// ExtractArchives yields .zip and .7z members as separate targets.
	ExtractArchives bool

	// RespectGitignore honors a .gitignore at the top of each root directory.
	RespectGitignore bool
}

// Target is one buffer to identify.
type Target struct {
	Name       string
	Content    []byte
	BlobID     types.BlobID
	Provenance types.Provenance

	release func() error
}

// Release frees the buffer. Content must not be used afterwards.
func (t Target) Release() error {
	if t.release == nil {
		return nil
	}
	return t.release()
}

func newTarget(name string, content []byte, prov types.Provenance, release func() error) Target {
	return Target{
		Name:       name,
		Content:    content,
		BlobID:     types.ComputeBlobID(content),
		Provenance: prov,
		release:    release,
	}
}
