package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"jt-go/internal/jt"
)

// runVaultContract exercises the behavior every vault backend shares.
func runVaultContract(t *testing.T, newVault func(t *testing.T) jt.Vault) {
	t.Helper()

	t.Run("missing snapshot", func(t *testing.T) {
		v := newVault(t)
		var buf bytes.Buffer
		err := v.GetSnapshot("host-a", "db", &buf)
		if !errors.Is(err, jt.ErrSnapshotNotFound) {
			t.Errorf("GetSnapshot() error = %v, want ErrSnapshotNotFound", err)
		}
		version, err := v.GetSnapshotVersion("host-a", "db")
		if err != nil || version != 0 {
			t.Errorf("GetSnapshotVersion() = %d, %v, want 0, nil", version, err)
		}
	})

	t.Run("put and get", func(t *testing.T) {
		v := newVault(t)
		tests := []struct {
			name    string
			data    string
			version int64
		}{
			{name: "first", data: "snapshot one", version: 3},
			{name: "replaced", data: "snapshot two, longer", version: 7},
			{name: "empty", data: "", version: 8},
		}
		for _, tt := range tests {
			if err := v.PutSnapshot("host-a", "db", strings.NewReader(tt.data), int64(len(tt.data)), tt.version); err != nil {
				t.Fatalf("%s: PutSnapshot() error = %v", tt.name, err)
			}
			var buf bytes.Buffer
			if err := v.GetSnapshot("host-a", "db", &buf); err != nil {
				t.Fatalf("%s: GetSnapshot() error = %v", tt.name, err)
			}
			if buf.String() != tt.data {
				t.Errorf("%s: GetSnapshot() = %q, want %q", tt.name, buf.String(), tt.data)
			}
			version, err := v.GetSnapshotVersion("host-a", "db")
			if err != nil || version != tt.version {
				t.Errorf("%s: GetSnapshotVersion() = %d, %v, want %d", tt.name, version, err, tt.version)
			}
		}
	})

	t.Run("hosts are isolated", func(t *testing.T) {
		v := newVault(t)
		if err := v.PutSnapshot("host-a", "db", strings.NewReader("a"), 1, 1); err != nil {
			t.Fatalf("PutSnapshot() error = %v", err)
		}
		var buf bytes.Buffer
		if err := v.GetSnapshot("host-b", "db", &buf); !errors.Is(err, jt.ErrSnapshotNotFound) {
			t.Errorf("GetSnapshot(host-b) error = %v, want ErrSnapshotNotFound", err)
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		v := newVault(t)
		if err := v.PutSnapshot("host-a", "db", strings.NewReader("hello"), 100, 1); err == nil {
			t.Error("PutSnapshot() with wrong size should fail")
		}
	})

	t.Run("validate", func(t *testing.T) {
		if err := newVault(t).ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}
