package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jt-go/internal/jt"
)

// FileSystemVault stores snapshots in a directory tree, typically a mounted
// network share or a synced folder:
//
//	<root>/
//	  snapshots/
//	    <hostID>/
//	      <name>          (encrypted snapshot)
//	      <name>.version  (decimal version)
type FileSystemVault struct {
	name string
	root string
	dir  string
}

var _ jt.Vault = (*FileSystemVault)(nil)

// NewFileSystemVault creates a filesystem vault rooted at root, creating the
// directory structure if needed.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	dir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSystemVault{name: name, root: root, dir: dir}, nil
}

func (v *FileSystemVault) paths(hostID, name string) (string, string) {
	p := filepath.Join(v.dir, hostID, name)
	return p, p + ".version"
}

// PutSnapshot stores a snapshot. The data is written first and the version
// last, so a reader never sees a version for data that is not in place.
func (v *FileSystemVault) PutSnapshot(hostID, name string, r io.Reader, size int64, version int64) error {
	dataPath, versionPath := v.paths(hostID, name)
	if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
		return fmt.Errorf("failed to create host directory: %w", err)
	}
	if err := writeAtomic(dataPath, r, size); err != nil {
		return err
	}
	versionData := strconv.FormatInt(version, 10)
	return writeAtomic(versionPath, strings.NewReader(versionData), int64(len(versionData)))
}

// GetSnapshot writes the stored snapshot to w.
func (v *FileSystemVault) GetSnapshot(hostID, name string, w io.Writer) error {
	dataPath, _ := v.paths(hostID, name)
	f, err := os.Open(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", jt.ErrSnapshotNotFound, hostID, name)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns the stored version, or 0 if no version file exists.
func (v *FileSystemVault) GetSnapshotVersion(hostID, name string) (int64, error) {
	_, versionPath := v.paths(hostID, name)
	data, err := os.ReadFile(versionPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}
	return parseVersion(data)
}

// ValidateSetup verifies that the snapshot directory exists and is writable.
func (v *FileSystemVault) ValidateSetup() error {
	info, err := os.Stat(v.dir)
	if err != nil {
		return fmt.Errorf("vault directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path is not a directory: %s", v.dir)
	}
	tmp, err := os.CreateTemp(v.dir, ".writable-*")
	if err != nil {
		return fmt.Errorf("vault directory not writable: %w", err)
	}
	tmp.Close()
	return os.Remove(tmp.Name())
}

// writeAtomic writes r to destPath via a temp file and rename.
func writeAtomic(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
