package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.StorageBackend(); got != BackendSQLite {
		t.Errorf("StorageBackend = %q", got)
	}
	if got := cfg.Retention(); got != DefaultRetentionDays {
		t.Errorf("Retention = %d", got)
	}
	if got := cfg.RecordCap(); got != 1000 {
		t.Errorf("RecordCap = %d", got)
	}
	want := DefaultModuleAddress + "::registry::Registry"
	if got := cfg.ResourceType(); got != want {
		t.Errorf("ResourceType = %q, want %q", got, want)
	}
}

func TestResourceType_FollowsModule(t *testing.T) {
	cfg := &Config{ModuleAddr: "0x1", Module: "catalog"}
	if got := cfg.ResourceType(); got != "0x1::catalog::Registry" {
		t.Errorf("ResourceType = %q", got)
	}
	cfg.Resource = "0x1::catalog::Products"
	if got := cfg.ResourceType(); got != "0x1::catalog::Products" {
		t.Errorf("ResourceType = %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmacert", "config.json")

	want := &Config{Storage: BackendRedis, Redis: "cache:6379", RetentionDays: 30, MaxRecords: 500}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{Storage: BackendFile}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)
	defer ResetPath()

	cfg := &Config{Listen: ":9090"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ListenAddr() != ":9090" {
		t.Errorf("ListenAddr = %q", got.ListenAddr())
	}
}
