package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdirTemp runs the test from an empty directory so no deckdiff.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

// TestLoadDefaults tests the settings used without a config file
func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.File != "" {
		t.Errorf("Expected no config file, got %s", s.File)
	}
	if s.SuppressUnchanged || !s.ShowMovedPages {
		t.Errorf("Unexpected layout defaults %+v", s)
	}
	if s.DPI != 150 || s.Algorithm != "sha256" || s.Timeout != 60*time.Second {
		t.Errorf("Unexpected render defaults %+v", s)
	}
	if s.CacheEnabled {
		t.Error("Expected cache to be disabled by default")
	}
	if len(s.Soffice) != 2 || s.Pdftoppm != "pdftoppm" {
		t.Errorf("Unexpected binaries %v, %s", s.Soffice, s.Pdftoppm)
	}
	if len(s.Options()) == 0 {
		t.Error("Expected service options")
	}
}

// TestLoadFile tests reading a YAML file found in the working directory
func TestLoadFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `suppress_unchanged: true
show_moved_pages: false
dpi: 300
algorithm: blake3
cache_enabled: true
timeout: 2m
soffice:
  - /opt/libreoffice/program/soffice
`
	if err := os.WriteFile(filepath.Join(dir, "deckdiff.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if filepath.Base(s.File) != "deckdiff.yaml" {
		t.Errorf("Expected deckdiff.yaml to be used, got %q", s.File)
	}
	if !s.SuppressUnchanged || s.ShowMovedPages {
		t.Errorf("Unexpected layout settings %+v", s)
	}
	if s.DPI != 300 || s.Algorithm != "blake3" || !s.CacheEnabled || s.Timeout != 2*time.Minute {
		t.Errorf("Unexpected settings %+v", s)
	}
	if len(s.Soffice) != 1 || s.Soffice[0] != "/opt/libreoffice/program/soffice" {
		t.Errorf("Unexpected soffice %v", s.Soffice)
	}
}

// TestLoadEnvOverride tests that DECKDIFF_* variables win over the file
func TestLoadEnvOverride(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("dpi: 300\n"), 0o644)

	t.Setenv("DECKDIFF_DPI", "96")
	t.Setenv("DECKDIFF_SUPPRESS_UNCHANGED", "true")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.DPI != 96 {
		t.Errorf("Expected env DPI 96, got %d", s.DPI)
	}
	if !s.SuppressUnchanged {
		t.Error("Expected suppression from env")
	}
}

// TestLoadMissingExplicitFile tests that a named config file must exist
func TestLoadMissingExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

// TestValidate tests range checks
func TestValidate(t *testing.T) {
	valid := Settings{DPI: 150, Algorithm: "sha256", Timeout: time.Second, WorkDir: "/tmp/deckdiff"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid settings, got %v", err)
	}

	cases := map[string]func(*Settings){
		"dpi too low":  func(s *Settings) { s.DPI = 10 },
		"dpi too high": func(s *Settings) { s.DPI = 5000 },
		"algorithm":    func(s *Settings) { s.Algorithm = "md5" },
		"timeout":      func(s *Settings) { s.Timeout = 0 },
		"work dir":     func(s *Settings) { s.WorkDir = " " },
	}
	for name, mutate := range cases {
		s := valid
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// TestLoadEnvFile tests .env loading without overriding set variables
func TestLoadEnvFile(t *testing.T) {
	dir := chdirTemp(t)

	t.Setenv("DECKDIFF_ALGORITHM", "sha256")
	os.Unsetenv("DECKDIFF_TEST_ONLY")
	t.Cleanup(func() { os.Unsetenv("DECKDIFF_TEST_ONLY") })

	env := "DECKDIFF_TEST_ONLY=from-dotenv\nDECKDIFF_ALGORITHM=blake3\n"
	os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644)

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if got := GetEnv("DECKDIFF_TEST_ONLY", ""); got != "from-dotenv" {
		t.Errorf("Expected value from .env, got %q", got)
	}
	if got := GetEnv("DECKDIFF_ALGORITHM", ""); got != "sha256" {
		t.Errorf("Expected existing variable to win, got %q", got)
	}
	if got := GetEnv("DECKDIFF_UNSET_VARIABLE", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("Expected missing .env to be ignored, got %v", err)
	}
}
