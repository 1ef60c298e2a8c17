package loaderplugin

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// FS is the filesystem surface the base handler writes artifacts through.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	// MkdirAll must succeed when the directory already exists.
	MkdirAll(path string, perm fs.FileMode) error
	// Copy copies the contents of src to dst, replacing dst.
	Copy(src, dst string) error
}

// OSFS is the operating system filesystem.
type OSFS struct{}

// Stat implements FS.
func (OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll implements FS.
func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Copy implements FS. The destination keeps the source file mode.
func (OSFS) Copy(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // G304: source paths come from the build configuration
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // G304: destination is under the build directory
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
