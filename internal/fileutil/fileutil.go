// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// Permission bits used for generated output.
const (
	DirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "folio-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "default" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "my-theme" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ErrCopyOntoSource indicates a copy whose destination is its source.
var ErrCopyOntoSource = errors.New("destination is the source directory")

// CopyDir copies the regular files of src into dst, recreating the tree.
// Existing files in dst are overwritten. Symlinks are skipped. When dst
// lies inside src it is left out of the copy.
func CopyDir(src, dst string) error {
	if !DirExists(src) {
		return fmt.Errorf("copying %s: %w", src, fs.ErrNotExist)
	}
	skip, nested, err := nestedPath(src, dst)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if nested && skip == "." {
		return fmt.Errorf("copying %s: %w", src, ErrCopyOntoSource)
	}
	if !nested {
		skip = ""
	}
	return copyFS(os.DirFS(src), dst, skip)
}

// CopyFS copies the regular files of fsys into dst, recreating the tree.
// Existing files in dst are overwritten.
func CopyFS(fsys fs.FS, dst string) error {
	return copyFS(fsys, dst, "")
}

// copyFS walks fsys into dst. skip, a slash-separated directory of fsys,
// is not descended into.
func copyFS(fsys fs.FS, dst, skip string) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if skip != "" && d.IsDir() && path == skip {
			return fs.SkipDir
		}
		target := filepath.Join(dst, filepath.FromSlash(path))

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, DirPermissions); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case d.Type().IsRegular():
			in, err := fsys.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer in.Close()
			if err := writeFrom(in, target); err != nil {
				return fmt.Errorf("copying %s: %w", path, err)
			}
		}
		return nil
	})
}

// nestedPath reports whether child is parent or lies below it, and if so
// returns child relative to parent in slash form ("." when equal).
func nestedPath(parent, child string) (string, bool, error) {
	absParent, err := filepath.Abs(parent)
	if err != nil {
		return "", false, err
	}
	absChild, err := filepath.Abs(child)
	if err != nil {
		return "", false, err
	}
	rel, err := filepath.Rel(absParent, absChild)
	if err != nil {
		return "", false, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, nil
	}
	return filepath.ToSlash(rel), true, nil
}

// writeFrom writes r to a new or truncated file at dst.
func writeFrom(r io.Reader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), DirPermissions); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FilePermissions) // #nosec G304 -- output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
