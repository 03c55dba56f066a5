package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"jt-go/internal/jt"
)

// MemoryVault keeps snapshots in memory. It is used by tests and by the
// "memory" vault type. Safe for concurrent use.
type MemoryVault struct {
	name      string
	snapshots map[string][]byte // "hostID/name" -> snapshot
	versions  map[string]int64  // "hostID/name" -> version
	mu        sync.RWMutex
}

var _ jt.Vault = (*MemoryVault)(nil)

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		snapshots: make(map[string][]byte),
		versions:  make(map[string]int64),
	}
}

func snapshotKey(hostID, name string) string {
	return hostID + "/" + name
}

// PutSnapshot stores a snapshot, replacing any previous one.
func (m *MemoryVault) PutSnapshot(hostID, name string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := snapshotKey(hostID, name)
	m.snapshots[key] = data
	m.versions[key] = version
	return nil
}

// GetSnapshot writes the stored snapshot to w.
func (m *MemoryVault) GetSnapshot(hostID, name string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.snapshots[snapshotKey(hostID, name)]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s/%s", jt.ErrSnapshotNotFound, hostID, name)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns the stored version, or 0.
func (m *MemoryVault) GetSnapshotVersion(hostID, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[snapshotKey(hostID, name)], nil
}

// ValidateSetup always succeeds for the memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}
