package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// No config file: defaults apply
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	if cfg.Output.Dir != "build/apischema" {
		t.Errorf("expected default output dir 'build/apischema', got %s", cfg.Output.Dir)
	}

	if !cfg.Output.Pretty {
		t.Error("expected pretty output by default")
	}

	if cfg.Output.Compress {
		t.Error("expected uncompressed output by default")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Log.Level)
	}

	if len(cfg.Models) != 0 {
		t.Errorf("expected no models, got %v", cfg.Models)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
models:
  - model/core.yaml
  - model/sample.yaml
output:
  dir: dist/schema
  pretty: false
  compress: true
verify: true
log:
  level: debug
  development: true
`
	os.WriteFile("apischema.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if len(cfg.Models) != 2 || cfg.Models[1] != "model/sample.yaml" {
		t.Errorf("unexpected models %v", cfg.Models)
	}

	if cfg.Output.Dir != "dist/schema" {
		t.Errorf("expected output dir 'dist/schema', got %s", cfg.Output.Dir)
	}

	if cfg.Output.Pretty || !cfg.Output.Compress {
		t.Errorf("unexpected output flags %+v", cfg.Output)
	}

	if !cfg.Verify {
		t.Error("expected verify to be set")
	}

	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("output:\n  dir: out\n"), 0644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Output.Dir)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for an explicit missing config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APISCHEMA_OUTPUT_DIR", "env/out")
	t.Setenv("APISCHEMA_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Output.Dir != "env/out" {
		t.Errorf("expected env output dir, got %s", cfg.Output.Dir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected env log level, got %s", cfg.Log.Level)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Output: OutputConfig{Dir: "out"}, Log: LogConfig{Level: "info"}}, false},
		{"empty output dir", Config{Output: OutputConfig{Dir: "  "}, Log: LogConfig{Level: "info"}}, true},
		{"bad log level", Config{Output: OutputConfig{Dir: "out"}, Log: LogConfig{Level: "loud"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
