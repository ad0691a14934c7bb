package types

import "fmt"

// Provenance tracks where a scan target was found.
type Provenance interface {
	Kind() string
	// Path returns displayable path
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// ArchiveProvenance tracks a member extracted from a zip or 7z archive.
type ArchiveProvenance struct {
	ArchivePath string // path to the archive file
	MemberPath  string // path within the archive
}

// Kind returns "archive".
func (a ArchiveProvenance) Kind() string {
	return "archive"
}

// Path returns the archive path with member path.
func (a ArchiveProvenance) Path() string {
	return fmt.Sprintf("%s:%s", a.ArchivePath, a.MemberPath)
}
