// Package config handles persistent user configuration for pharmacert.
//
// Configuration is stored as JSON at ~/.config/pharmacert/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Unset fields fall
// back to the defaults below.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "pharmacert"
	fileName = "config.json"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Defaults applied when a field is unset.
const (
	DefaultStorageBackend = BackendSQLite
	DefaultRedisAddr      = "localhost:6379"
	DefaultNodeURL        = "https://fullnode.devnet.aptoslabs.com/v1"
	DefaultModuleAddress  = "0x6c940c3205cb7d3b40a2fbb4e550aabaf7a13bb3f92465ac2fe4b31bbd664e02"
	DefaultModuleName     = "registry"
	DefaultRetentionDays  = 90
	DefaultMaxRecords     = 1000
	DefaultListenAddr     = "127.0.0.1:8080"
)

// pathOverride, when non-empty, replaces the default config file path.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	Storage       string `json:"storage_backend,omitempty"`
	Redis         string `json:"redis_addr,omitempty"`
	Node          string `json:"node_url,omitempty"`
	ModuleAddr    string `json:"module_address,omitempty"`
	Module        string `json:"module_name,omitempty"`
	Resource      string `json:"resource_type,omitempty"`
	RetentionDays int    `json:"retention_days,omitempty"`
	MaxRecords    int    `json:"max_records,omitempty"`
	Listen        string `json:"listen_addr,omitempty"`
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// StorageBackend returns the configured backend name.
func (c *Config) StorageBackend() string { return or(c.Storage, DefaultStorageBackend) }

// RedisAddr returns the redis server address.
func (c *Config) RedisAddr() string { return or(c.Redis, DefaultRedisAddr) }

// NodeURL returns the fullnode REST endpoint.
func (c *Config) NodeURL() string { return or(c.Node, DefaultNodeURL) }

// ModuleAddress returns the address the registry module is published under.
func (c *Config) ModuleAddress() string { return or(c.ModuleAddr, DefaultModuleAddress) }

// ModuleName returns the registry module name.
func (c *Config) ModuleName() string { return or(c.Module, DefaultModuleName) }

// ResourceType returns the Move type of the registry resource. It defaults to
// <module-address>::<module-name>::Registry.
func (c *Config) ResourceType() string {
	if c.Resource != "" {
		return c.Resource
	}
	return c.ModuleAddress() + "::" + c.ModuleName() + "::Registry"
}

// Retention returns the purge window in days.
func (c *Config) Retention() int {
	if c.RetentionDays <= 0 {
		return DefaultRetentionDays
	}
	return c.RetentionDays
}

// RecordCap returns the audit log retention cap.
func (c *Config) RecordCap() int {
	if c.MaxRecords <= 0 {
		return DefaultMaxRecords
	}
	return c.MaxRecords
}

// ListenAddr returns the HTTP API listen address.
func (c *Config) ListenAddr() string { return or(c.Listen, DefaultListenAddr) }

// Path returns the absolute path to the config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
