package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("storage-backend")
	if spec == nil {
		t.Fatal("expected to find key 'storage-backend', got nil")
	}
	if spec.Name != "storage-backend" {
		t.Errorf("expected Name %q, got %q", "storage-backend", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup(" RETENTION-DAYS ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "retention-days" {
		t.Errorf("expected Name %q, got %q", "retention-days", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	if spec := Lookup("default-provider"); spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_SetThenGet(t *testing.T) {
	values := map[string]string{
		"storage-backend": "redis",
		"redis-addr":      "cache:6379",
		"node-url":        "https://fullnode.testnet.aptoslabs.com/v1",
		"module-address":  "0xabc",
		"module-name":     "catalog",
		"resource-type":   "0xabc::catalog::Registry",
		"retention-days":  "30",
		"max-records":     "250",
		"listen-addr":     ":9000",
	}
	if len(values) != len(Keys) {
		t.Fatalf("test covers %d keys, registry has %d", len(values), len(Keys))
	}
	for _, k := range Keys {
		cfg := &Config{}
		v := values[k.Name]
		if err := k.Set(cfg, v); err != nil {
			t.Errorf("key %q: Set(%q) failed: %v", k.Name, v, err)
			continue
		}
		if got := k.Get(cfg); got != v {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, v)
		}
	}
}

func TestKeys_SetEmptyRestoresDefault(t *testing.T) {
	cfg := &Config{Storage: BackendFile, RetentionDays: 7}
	Lookup("storage-backend").Set(cfg, "")
	Lookup("retention-days").Set(cfg, "")

	if cfg.StorageBackend() != DefaultStorageBackend {
		t.Errorf("StorageBackend = %q", cfg.StorageBackend())
	}
	if cfg.Retention() != DefaultRetentionDays {
		t.Errorf("Retention = %d", cfg.Retention())
	}
}

func TestKeys_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"storage-backend", "postgres"},
		{"node-url", "ftp://node"},
		{"node-url", "not a url"},
		{"module-address", "registry"},
		{"retention-days", "-3"},
		{"max-records", "lots"},
	}
	for _, tt := range tests {
		if err := Lookup(tt.key).Set(&Config{}, tt.value); err == nil {
			t.Errorf("Set(%s, %q) succeeded, want error", tt.key, tt.value)
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}
