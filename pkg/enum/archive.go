package enum

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/nsfid/nsfid/pkg/types"
)

// archiveMember is one regular file inside an archive.
type archiveMember struct {
	name string
	size int64
	open func() (io.ReadCloser, error)
}

// isArchive reports whether path names a supported archive.
func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".7z":
		return true
	}
	return false
}

// listMembers opens an in-memory archive and lists its regular files.
func listMembers(path string, content []byte) ([]archiveMember, error) {
	reader := bytes.NewReader(content)

	var members []archiveMember
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		zipReader, err := zip.NewReader(reader, int64(len(content)))
		if err != nil {
			return nil, fmt.Errorf("failed to open zip: %w", err)
		}
		for _, file := range zipReader.File {
			members = appendMember(members, file.Name, file.FileInfo(), file.Open)
		}
	case ".7z":
		szReader, err := sevenzip.NewReader(reader, int64(len(content)))
		if err != nil {
			return nil, fmt.Errorf("failed to open 7z: %w", err)
		}
		for _, file := range szReader.File {
			members = appendMember(members, file.Name, file.FileInfo(), file.Open)
		}
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", filepath.Ext(path))
	}
	return members, nil
}

func appendMember(members []archiveMember, name string, info fs.FileInfo, open func() (io.ReadCloser, error)) []archiveMember {
	if !info.Mode().IsRegular() {
		return members
	}
	return append(members, archiveMember{name: name, size: info.Size(), open: open})
}

// processArchive yields every member passing the extension filter as its
// own target. Unreadable members are reported and skipped.
func (e *FilesystemEnumerator) processArchive(archivePath string, content []byte, fn func(Target) error, onError func(string, error)) error {
	members, err := listMembers(archivePath, content)
	if err != nil {
		onError(archivePath, err)
		return nil
	}

	for _, m := range members {
		if !e.matchesType(m.name) || (e.config.SkipHidden && isHidden(filepath.Base(m.name))) {
			continue
		}

		prov := types.ArchiveProvenance{ArchivePath: archivePath, MemberPath: m.name}
		name := prov.Path()
		if e.config.MaxFileSize > 0 && m.size > e.config.MaxFileSize {
			onError(name, errTooLarge)
			continue
		}

		data, err := readMember(m)
		if err != nil {
			onError(name, err)
			continue
		}

		if err := fn(newTarget(name, data, prov, nil)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func readMember(m archiveMember) ([]byte, error) {
	rc, err := m.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
