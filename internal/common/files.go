package common

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

const (
	PrivateFileMode os.FileMode = 0o600
	PrivateDirMode  os.FileMode = 0o700
)

// ErrInsecurePermissions is returned when a file ends up readable by anyone but its owner
var ErrInsecurePermissions = errors.New("file permissions are not owner-only")

// EnsurePrivateDir creates dir (and parents) with owner-only permissions
func EnsurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, PrivateDirMode); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file in the target directory, syncs it and
// renames it over path, so readers see either the old file or the complete new one.
// The file is created with perm and the mode is verified before the rename.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// Removes the temp file on any failure below; after a successful rename it is a no-op.
	defer os.Remove(tmpName)

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to sync temp file: %w", err)
	}

	// Close before rename, some OSes don't support renaming an open file (Windows).
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temp file: %w", err)
	}
	if err := CheckPrivate(tmpName); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("unable to rename temp file: %w", err)
	}
	syncDir(dir)
	return nil
}

// CheckPrivate verifies that group and other have no access to path.
// Windows has no POSIX mode bits, there the check always passes.
func CheckPrivate(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("%w: %s has mode %#o", ErrInsecurePermissions, filepath.Base(path), info.Mode().Perm())
	}
	return nil
}

// SecureRemove overwrites the file with random bytes, syncs and unlinks it.
// Best-effort only: journaling, copy-on-write filesystems and SSD wear levelling may keep
// older copies of the blocks.
func SecureRemove(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	if _, err := io.CopyN(f, rand.Reader, info.Size()); err != nil {
		f.Close()
		return fmt.Errorf("unable to overwrite file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("unable to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// syncDir flushes a directory entry change to disk. Not supported everywhere, errors ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
