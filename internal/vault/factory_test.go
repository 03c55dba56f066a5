package vault

import (
	"context"
	"path/filepath"
	"testing"

	"jt-go/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.VaultConfig
		wantErr bool
	}{
		{
			name: "memory vault",
			cfg:  config.VaultConfig{Type: "memory", Name: "test-memory"},
		},
		{
			name: "filesystem vault",
			cfg: config.VaultConfig{
				Type:        "filesystem",
				Name:        "test-fs",
				FSVaultRoot: filepath.Join(t.TempDir(), "vault"),
			},
		},
		{
			name:    "filesystem vault without root",
			cfg:     config.VaultConfig{Type: "filesystem", Name: "test-fs"},
			wantErr: true,
		},
		{
			name:    "s3 vault without bucket",
			cfg:     config.VaultConfig{Type: "s3", Name: "test-s3"},
			wantErr: true,
		},
		{
			name:    "unknown vault type",
			cfg:     config.VaultConfig{Type: "unknown", Name: "test-unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewVaultFromConfig(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != nil {
					t.Errorf("NewVaultFromConfig() = %v, want nil on error", got)
				}
				return
			}
			if err := got.ValidateSetup(); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}

func TestS3Vault_Key(t *testing.T) {
	t.Setenv(envAccessKeyID, "test")
	t.Setenv(envSecretAccessKey, "test")

	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "host-a/db"},
		{prefix: "jt", want: "jt/host-a/db"},
		{prefix: "/backups/jt/", want: "backups/jt/host-a/db"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			v, err := NewS3Vault(context.Background(), config.VaultConfig{
				Type:       "s3",
				S3Bucket:   "bucket",
				S3Prefix:   tt.prefix,
				S3Region:   "us-east-1",
				S3Endpoint: "http://127.0.0.1:9000",
			})
			if err != nil {
				t.Fatalf("NewS3Vault() error = %v", err)
			}
			if got := v.key("host-a", "db"); got != tt.want {
				t.Errorf("key() = %q, want %q", got, tt.want)
			}
		})
	}
}
