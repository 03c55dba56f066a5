package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jt-go/internal/jt"
)

func TestFileSystemVault(t *testing.T) {
	runVaultContract(t, func(t *testing.T) jt.Vault {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		return v
	})
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutSnapshot("host-a", "db", strings.NewReader("data"), 4, 12); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "snapshots", "host-a", "db"))
	if err != nil || string(data) != "data" {
		t.Errorf("snapshot file = %q, %v", data, err)
	}
	version, err := os.ReadFile(filepath.Join(root, "snapshots", "host-a", "db.version"))
	if err != nil || string(version) != "12" {
		t.Errorf("version file = %q, %v", version, err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "snapshots", "host-a"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileSystemVault_SizeMismatchKeepsPrevious(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := v.PutSnapshot("h", "db", strings.NewReader("v1"), 2, 1); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
	if err := v.PutSnapshot("h", "db", strings.NewReader("v2-long"), 2, 2); err == nil {
		t.Fatal("PutSnapshot() with wrong size should fail")
	}

	var sb strings.Builder
	if err := v.GetSnapshot("h", "db", &sb); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if sb.String() != "v1" {
		t.Errorf("snapshot = %q, want previous %q", sb.String(), "v1")
	}
	if got, _ := v.GetSnapshotVersion("h", "db"); got != 1 {
		t.Errorf("version = %d, want 1", got)
	}
}
