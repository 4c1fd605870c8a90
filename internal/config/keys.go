package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"pharmacertlabs/pharmacert/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "storage-backend").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the effective value for this key, defaults included.
	Get func(cfg *Config) string

	// Set validates and applies a value in memory; the caller saves.
	// An empty value resets the key to its default.
	Set func(cfg *Config, value string) error
}

var backends = []string{BackendSQLite, BackendFile, BackendRedis, BackendMemory}

// Keys is the authoritative list of all supported configuration keys.
var Keys = []KeySpec{
	{
		Name:        "storage-backend",
		Description: "Where the audit log is kept: sqlite, file, redis, or memory",
		Get:         (*Config).StorageBackend,
		Set: func(cfg *Config, v string) error {
			v = keyName(v)
			if v != "" && !slices.Contains(backends, v) {
				return fmt.Errorf("unknown storage backend %q (valid: %s)", v, strings.Join(backends, ", "))
			}
			cfg.Storage = v
			return nil
		},
	},
	{
		Name:        "redis-addr",
		Description: "Redis server address used by the redis backend",
		Get:         (*Config).RedisAddr,
		Set:         func(cfg *Config, v string) error { cfg.Redis = strings.TrimSpace(v); return nil },
	},
	{
		Name:        "node-url",
		Description: "Aptos fullnode REST endpoint",
		Get:         (*Config).NodeURL,
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v != "" {
				u, err := url.Parse(v)
				if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
					return fmt.Errorf("node url %q must be an http(s) URL", v)
				}
			}
			cfg.Node = v
			return nil
		},
	},
	{
		Name:        "module-address",
		Description: "Account address the registry module is published under",
		Get:         (*Config).ModuleAddress,
		Set: func(cfg *Config, v string) error {
			if strings.TrimSpace(v) == "" {
				cfg.ModuleAddr = ""
				return nil
			}
			addr, err := util.NormalizeAddress(v)
			if err != nil {
				return err
			}
			cfg.ModuleAddr = addr
			return nil
		},
	},
	{
		Name:        "module-name",
		Description: "Name of the registry Move module",
		Get:         (*Config).ModuleName,
		Set:         func(cfg *Config, v string) error { cfg.Module = strings.TrimSpace(v); return nil },
	},
	{
		Name:        "resource-type",
		Description: "Move type of the registry resource read by product show",
		Get:         (*Config).ResourceType,
		Set:         func(cfg *Config, v string) error { cfg.Resource = strings.TrimSpace(v); return nil },
	},
	{
		Name:        "retention-days",
		Description: "Days of history kept by audit prune",
		Get:         func(cfg *Config) string { return strconv.Itoa(cfg.Retention()) },
		Set:         setPositiveInt(func(cfg *Config, n int) { cfg.RetentionDays = n }),
	},
	{
		Name:        "max-records",
		Description: "Maximum number of audit records retained",
		Get:         func(cfg *Config) string { return strconv.Itoa(cfg.RecordCap()) },
		Set:         setPositiveInt(func(cfg *Config, n int) { cfg.MaxRecords = n }),
	},
	{
		Name:        "listen-addr",
		Description: "Address the HTTP API listens on",
		Get:         (*Config).ListenAddr,
		Set:         func(cfg *Config, v string) error { cfg.Listen = strings.TrimSpace(v); return nil },
	},
}

func setPositiveInt(apply func(*Config, int)) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			apply(cfg, 0)
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("value %q must be a positive integer", v)
		}
		apply(cfg, n)
		return nil
	}
}

// keyName folds user input to the canonical lower-case form used for key
// names and enumerated values.
func keyName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := keyName(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
