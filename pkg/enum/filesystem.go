package enum

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/nsfid/nsfid/pkg/types"
)

// errTooLarge is reported for files above Config.MaxFileSize.
var errTooLarge = errors.New("file exceeds maximum size")

// FilesystemEnumerator enumerates files from local paths, in order.
type FilesystemEnumerator struct {
	config Config
	exts   map[string]bool
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	e := &FilesystemEnumerator{config: config}
	if !config.AllFiles && len(config.FileTypes) > 0 {
		e.exts = make(map[string]bool, len(config.FileTypes))
		for _, t := range config.FileTypes {
			e.exts[strings.ToLower(strings.TrimPrefix(t, "."))] = true
		}
	}
	return e
}

// NormalizeRoot converts backslashes to slashes and trims trailing
// separators. A bare "/" is kept.
func NormalizeRoot(root string) string {
	root = strings.ReplaceAll(root, `\`, "/")
	trimmed := strings.TrimRight(root, "/")
	if trimmed == "" && root != "" {
		return "/"
	}
	return trimmed
}

// Enumerate visits every root in turn. Directories are walked in lexical
// order and each file is loaded, passed to fn and released before the next
// one is read.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, fn func(Target) error, onError func(path string, err error)) error {
	if onError == nil {
		onError = func(string, error) {}
	}

	for _, root := range e.config.Roots {
		root = NormalizeRoot(root)
		info, err := os.Stat(root)
		if err != nil {
			onError(root, err)
			continue
		}

		if !info.IsDir() {
			if !e.wanted(root) {
				continue
			}
			if err := e.processFile(ctx, root, info, fn, onError); err != nil {
				return err
			}
			continue
		}

		if err := e.walk(ctx, root, fn, onError); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (e *FilesystemEnumerator) walk(ctx context.Context, root string, fn func(Target) error, onError func(string, error)) error {
	var ignore *gitignore.GitIgnore
	if e.config.RespectGitignore {
		gitignorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			ignore, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				onError(gitignorePath, err)
			}
		}
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable directory or entry; keep going
			onError(filepath.ToSlash(path), err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !e.config.Recurse || (e.config.SkipHidden && isHidden(d.Name())) || e.ignored(ignore, root, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if e.config.SkipHidden && isHidden(d.Name()) {
			return nil
		}
		if e.ignored(ignore, root, path) || !e.wanted(path) {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			onError(filepath.ToSlash(path), err)
			return nil
		}
		if info.IsDir() {
			// symlinked directories are not followed
			return nil
		}
		return e.processFile(ctx, path, info, fn, onError)
	})
}

func (e *FilesystemEnumerator) ignored(ignore *gitignore.GitIgnore, root, path string) bool {
	if ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return ignore.MatchesPath(rel)
}

// wanted applies the extension filter. Archives always pass when
// extraction is enabled; their members are filtered instead.
func (e *FilesystemEnumerator) wanted(path string) bool {
	if e.config.ExtractArchives && isArchive(path) {
		return true
	}
	return e.matchesType(path)
}

func (e *FilesystemEnumerator) matchesType(name string) bool {
	if e.exts == nil {
		return true
	}
	return e.exts[getExtension(name)]
}

// processFile loads a single file and invokes the callback.
func (e *FilesystemEnumerator) processFile(ctx context.Context, path string, info fs.FileInfo, fn func(Target) error, onError func(string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.ToSlash(path)
	if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
		onError(name, errTooLarge)
		return nil
	}

	content, release, err := loadFile(path, info.Size())
	if err != nil {
		onError(name, err)
		return nil
	}

	if e.config.ExtractArchives && isArchive(path) {
		err := e.processArchive(name, content, fn, onError)
		if rerr := release(); rerr != nil {
			onError(name, rerr)
		}
		return err
	}

	t := newTarget(name, content, types.FileProvenance{FilePath: name}, release)
	err = fn(t)
	if rerr := t.Release(); rerr != nil {
		onError(name, rerr)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// getExtension returns the lowercased extension without the dot.
func getExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
