// Package fileio is the file read/write capability used by the pipelines.
// It sits on an afero filesystem so tests can run against memory, and
// writes atomically when backed by the real OS filesystem.
package fileio

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/afero"

	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/util"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// FS reads and writes whole text files.
type FS struct {
	fs     afero.Fs
	atomic bool
}

// NewOS returns an FS on the operating system filesystem.
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// New wraps an afero filesystem.
func New(fsys afero.Fs) *FS {
	_, isOS := fsys.(*afero.OsFs)
	return &FS{fs: fsys, atomic: isOS}
}

// Read returns the contents of path. Missing or unreadable files are a
// ReadError; an empty file is returned as "".
func (f *FS) Read(path string) (string, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", ssgerr.ReadError(path, err)
	}
	return string(data), nil
}

// ReadNonEmpty is Read with an EmptyFileError for zero-length files.
func (f *FS) ReadNonEmpty(path string) (string, error) {
	text, err := f.Read(path)
	if err != nil {
		return "", err
	}
	if len(text) == 0 {
		return "", ssgerr.EmptyFileError(path)
	}
	return text, nil
}

// Write creates or truncates path with text.
func (f *FS) Write(path, text string) error {
	if f.atomic {
		if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
			return ssgerr.WriteError(path, err)
		}
		// atomic creates its temp file 0600; published pages must be readable.
		if err := os.Chmod(path, filePerm); err != nil {
			return ssgerr.WriteError(path, err)
		}
		return nil
	}
	if err := afero.WriteFile(f.fs, path, []byte(text), filePerm); err != nil {
		return ssgerr.WriteError(path, err)
	}
	return nil
}

// List returns the regular files directly inside dir whose extension is
// ext, sorted lexicographically by name.
func (f *FS) List(dir, ext string) ([]string, error) {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, ssgerr.ReadError(dir, err)
	}
	want := "." + util.NormalizeExt(ext)
	var files []string
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || filepath.Ext(entry.Name()) != want {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Recreate removes dir if it exists and creates it empty.
func (f *FS) Recreate(dir string) error {
	if err := f.fs.RemoveAll(dir); err != nil {
		return ssgerr.WriteError(dir, err)
	}
	if err := f.fs.MkdirAll(dir, dirPerm); err != nil {
		return ssgerr.WriteError(dir, err)
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func (f *FS) EnsureDir(dir string) error {
	if err := f.fs.MkdirAll(dir, dirPerm); err != nil {
		return ssgerr.WriteError(dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func (f *FS) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

// IsDir reports whether path is an existing directory.
func (f *FS) IsDir(path string) bool {
	ok, err := afero.IsDir(f.fs, path)
	return err == nil && ok
}

// CopyTree copies every file under src whose extension is in allowed into
// the same relative location under dst and returns the number copied.
func (f *FS) CopyTree(src, dst string, allowed map[string]bool) (int, error) {
	copied := 0
	err := afero.Walk(f.fs, src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return ssgerr.ReadError(path, err)
		}
		if info.IsDir() || !allowed[filepath.Ext(info.Name())] {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return ssgerr.ReadError(path, err)
		}
		dest := filepath.Join(dst, rel)
		if err := f.fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
			return ssgerr.WriteError(dest, err)
		}
		data, err := afero.ReadFile(f.fs, path)
		if err != nil {
			return ssgerr.ReadError(path, err)
		}
		if err := afero.WriteFile(f.fs, dest, data, filePerm); err != nil {
			return ssgerr.WriteError(dest, err)
		}
		copied++
		return nil
	})
	return copied, err
}
