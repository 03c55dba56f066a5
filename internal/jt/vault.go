package jt

import (
	"errors"
	"io"
)

// Vault stores encrypted database snapshots off the local machine.
// Snapshots are keyed by host and name and carry a version so a stale local
// database can be detected before it overwrites newer remote state.
type Vault interface {
	// PutSnapshot stores a named snapshot for a host, replacing any previous one.
	// size is the number of bytes that will be read from r.
	PutSnapshot(hostID string, name string, r io.Reader, size int64, version int64) error

	// GetSnapshot writes the named snapshot for a host to w.
	GetSnapshot(hostID string, name string, w io.Writer) error

	// GetSnapshotVersion returns the stored version, or 0 if nothing has been stored.
	GetSnapshotVersion(hostID string, name string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}

// ErrSnapshotNotFound is returned by GetSnapshot when nothing is stored under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")
