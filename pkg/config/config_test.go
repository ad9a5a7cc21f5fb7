package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "name: shelf\n")
	cfg := testConfig{Port: 8080}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "shelf" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("DOCSHELF_TEST_PORT", "9090")
	path := writeFile(t, "port: ${DOCSHELF_TEST_PORT}\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "port: [unclosed\n")
	cfg := testConfig{Port: 1}
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := testConfig{Port: 1}
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileValidatesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg := testConfig{Port: 8080}
	if err := LoadOptional(missing, &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}

	bad := testConfig{}
	if err := LoadOptional(missing, &bad); err == nil {
		t.Fatal("invalid defaults should fail validation")
	}
}

func TestLoadOptional_ReadsExistingFile(t *testing.T) {
	path := writeFile(t, "port: 7000\ndebug: true\n")
	cfg := testConfig{Port: 8080}
	if err := LoadOptional(path, &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.Port != 7000 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}
