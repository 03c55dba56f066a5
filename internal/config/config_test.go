package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		HostID:  "test-host-abc",
		BaseDir: "/home/user/.local/share/jt",
		LogDir:  "/home/user/.local/share/jt/log",
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/home/user/.local/share/jt/keys/jt.pub",
			PrivateKeyPath: "/home/user/.local/share/jt/keys/jt.key",
		},
		Database:  DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/jt/db"},
		Extractor: ExtractorConfig{Type: "genai", Model: "gemini-2.5-flash", APIKeyEnv: "GEMINI_API_KEY", Timeout: "20s"},
		Profile: ProfileConfig{
			Name:            "Sam",
			Timezone:        "America/Los_Angeles",
			DefaultLocation: "Remote",
			CompanyAliases:  map[string]string{"alphabet": "Google"},
		},
		Server: ServerConfig{Addr: "127.0.0.1:9000", AllowedOrigins: []string{"http://localhost:3000"}},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != original.HostID {
		t.Errorf("HostID = %q, want %q", got.HostID, original.HostID)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if len(got.Vaults) != 1 {
		t.Fatalf("len(Vaults) = %d, want 1", len(got.Vaults))
	}
	if got.Vaults[0].FSVaultRoot != "/backup/vault" {
		t.Errorf("Vault.FSVaultRoot = %q, want %q", got.Vaults[0].FSVaultRoot, "/backup/vault")
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if got.Extractor.Model != "gemini-2.5-flash" {
		t.Errorf("Extractor.Model = %q, want %q", got.Extractor.Model, "gemini-2.5-flash")
	}
	if got.Profile.CompanyAliases["alphabet"] != "Google" {
		t.Errorf("Profile.CompanyAliases[alphabet] = %q, want %q", got.Profile.CompanyAliases["alphabet"], "Google")
	}
	if len(got.Server.AllowedOrigins) != 1 {
		t.Fatalf("len(Server.AllowedOrigins) = %d, want 1", len(got.Server.AllowedOrigins))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/jt")

	if cfg.HostID != "host-1" {
		t.Errorf("HostID = %q, want %q", cfg.HostID, "host-1")
	}
	if cfg.LogDir != "/data/jt/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/jt/log")
	}
	if cfg.Encryption.PublicKeyPath != "/data/jt/keys/jt.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/jt/keys/jt.pub")
	}
	if cfg.Database.DataDir != "/data/jt/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/jt/db")
	}
	if cfg.Extractor.Type != "heuristic" {
		t.Errorf("Extractor.Type = %q, want %q", cfg.Extractor.Type, "heuristic")
	}
}

func TestExtractorConfig_TimeoutDuration(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{name: "default when empty", timeout: "", want: DefaultExtractorTimeout},
		{name: "explicit", timeout: "3s", want: 3 * time.Second},
		{name: "invalid", timeout: "soon", wantErr: true},
		{name: "non-positive", timeout: "0s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractorConfig{Timeout: tt.timeout}.TimeoutDuration()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TimeoutDuration() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("TimeoutDuration() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TimeoutDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileConfig_Location(t *testing.T) {
	t.Run("defaults to local", func(t *testing.T) {
		loc, err := ProfileConfig{}.Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}
		if loc != time.Local {
			t.Errorf("Location() = %v, want time.Local", loc)
		}
	})

	t.Run("loads named zone", func(t *testing.T) {
		loc, err := ProfileConfig{Timezone: "UTC"}.Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}
		if loc.String() != "UTC" {
			t.Errorf("Location() = %v, want UTC", loc)
		}
	})

	t.Run("rejects unknown zone", func(t *testing.T) {
		if _, err := (ProfileConfig{Timezone: "Mars/Olympus"}).Location(); err == nil {
			t.Fatal("Location() expected error for unknown zone")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HostID != "read-test" {
			t.Errorf("HostID = %q, want %q", got.HostID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/jt.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
