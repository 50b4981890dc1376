package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/molehole/internal/config"
	"github.com/muurk/molehole/internal/mapping"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configFile, mappingFile, logLevel = "", "", ""
		forceInit = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"detailed", "compact", "json"} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) error = %v", f, err)
		}
	}
	if err := validateFormat("yaml"); err == nil {
		t.Error("validateFormat(yaml) should fail")
	}
}

func TestConfigInit(t *testing.T) {
	for _, name := range []string{"mapping.yaml", "mapping.json"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := filepath.Join(dir, "config.yaml")
			tablePath := filepath.Join(dir, name)

			if _, err := execute(t, "", "--config", cfgPath, "--mapping", tablePath, "config", "init"); err != nil {
				t.Fatalf("config init error = %v", err)
			}

			cfg, err := config.LoadFrom(cfgPath)
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			if cfg.MappingFile != tablePath {
				t.Errorf("MappingFile = %q, want %q", cfg.MappingFile, tablePath)
			}

			mappings, err := mapping.ReadFile(tablePath)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(mappings) != len(mapping.Example()) {
				t.Errorf("example table has %d mappings, want %d", len(mappings), len(mapping.Example()))
			}
		})
	}
}

func TestConfigInit_DeclinedOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	original := []byte("version: 1\ndiscovery:\n  timeout_seconds: 3\n")
	if err := os.WriteFile(cfgPath, original, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "n\n", "--config", cfgPath, "--mapping", filepath.Join(dir, "m.yaml"), "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, original) {
		t.Error("declined overwrite should leave the config untouched")
	}
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	out, err := execute(t, "", "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}
}

func TestMappingCheck(t *testing.T) {
	dir := t.TempDir()

	clean := filepath.Join(dir, "clean.yaml")
	if err := mapping.WriteFile(clean, mapping.Example()); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "mapping", "check", clean); err != nil {
		t.Errorf("mapping check on a clean table error = %v", err)
	}

	lowercase := filepath.Join(dir, "lower.json")
	data := `[{"id":"cam","mac":[{"start":"aa:bb:cc:00:00:00","end":"aa:bb:cc:ff:ff:ff"}]}]`
	if err := os.WriteFile(lowercase, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "mapping", "check", lowercase)
	if err != nil {
		t.Errorf("warnings only should not fail, error = %v", err)
	}
	if !strings.Contains(out, "lowercase") {
		t.Errorf("output should report lowercase bounds:\n%s", out)
	}

	dashed := filepath.Join(dir, "dashed.json")
	data = `[{"id":"cam","mac":[{"start":"AA-BB-CC-00-00-00","end":"AA-BB-CC-FF-FF-FF"}]}]`
	if err := os.WriteFile(dashed, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "mapping", "check", dashed); err == nil {
		t.Error("'-' separated bounds should fail the check")
	}
}

func TestDiscovery_MissingMapping(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "", "--config", filepath.Join(dir, "none.yaml"),
		"--mapping", filepath.Join(dir, "missing.yaml"), "ap", "--format", "json")
	if err == nil || !strings.Contains(err.Error(), "config init") {
		t.Errorf("error = %v, want a hint to run config init", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "molehole ") {
		t.Errorf("version output = %q", out)
	}
}

func TestMappingCheck_LoadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"id": 1`), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "mapping", "check", path)
	if err == nil {
		t.Fatal("mapping check on invalid JSON should fail")
	}
	if !strings.Contains(out, "not valid YAML/JSON") {
		t.Errorf("output should carry parse troubleshooting:\n%s", out)
	}
}
