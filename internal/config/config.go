package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultExtractorTimeout bounds a single extraction call when the config leaves it unset.
const DefaultExtractorTimeout = 15 * time.Second

// Config represents the main configuration for jt.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
	Database   DatabaseConfig   `toml:"database"`
	Extractor  ExtractorConfig  `toml:"extractor"`
	Profile    ProfileConfig    `toml:"profile"`
	Server     ServerConfig     `toml:"server"`
}

// EncryptionConfig holds paths to the age key pair used for snapshot encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "test" or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a snapshot vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible stores such as MinIO

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the record database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ExtractorConfig selects the backend that turns utterances into structured fields.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ExtractorConfig struct {
	Type      string `toml:"type"`                  // "genai", "langchain" or "heuristic"
	Model     string `toml:"model,omitempty"`       // genai and langchain only
	APIKeyEnv string `toml:"api_key_env,omitempty"` // environment variable holding the API key
	Timeout   string `toml:"timeout,omitempty"`     // Go duration, defaults to 15s
}

// TimeoutDuration parses Timeout, falling back to DefaultExtractorTimeout when unset.
func (c ExtractorConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultExtractorTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid extractor timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("extractor timeout must be positive, got %s", d)
	}
	return d, nil
}

// ProfileConfig describes the user the tracker works for. It is passed explicitly
// to extraction and resolution instead of being read from global state.
type ProfileConfig struct {
	Name            string            `toml:"name"`
	Timezone        string            `toml:"timezone"` // IANA name, defaults to the local zone
	DefaultLocation string            `toml:"default_location,omitempty"`
	CompanyAliases  map[string]string `toml:"company_aliases,omitempty"` // alias -> canonical company name
}

// ServerConfig holds settings for `jt serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "jt.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "jt.key"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Extractor: ExtractorConfig{
			Type:    "heuristic",
			Timeout: DefaultExtractorTimeout.String(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8765",
		},
	}
}

// Location returns the profile's time zone, or time.Local when none is set.
func (p ProfileConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
