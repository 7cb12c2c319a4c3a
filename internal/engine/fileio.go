package engine

import (
	"io"
	"os"
	"path/filepath"

	"github.com/petrijr/miniapp/pkg/api"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// readFrom opens path and hands the open file to fn. The file is closed on
// every return path.
func readFrom(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &api.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return fn(f)
}

// writeTo creates missing parent directories, lets fn write into a temp
// file next to path and then atomically replaces path with it. If fn or any
// file operation fails, path is left as it was.
func writeTo(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return &api.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &api.IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(fileMode); err != nil {
		_ = f.Close()
		return &api.IOError{Op: "chmod", Path: tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		return &api.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &api.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
