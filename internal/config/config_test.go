package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reenc/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "reenc", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	wantLedger := filepath.Join(tempHome, ".local", "share", "reenc", "badencodings.db")
	if cfg.Paths.LedgerPath != wantLedger {
		t.Fatalf("unexpected ledger path: %q", cfg.Paths.LedgerPath)
	}
	if cfg.Encoder.CRF != 23 {
		t.Fatalf("unexpected default crf: %d", cfg.Encoder.CRF)
	}
	if cfg.Encoder.Preset != "fast" {
		t.Fatalf("unexpected default preset: %q", cfg.Encoder.Preset)
	}
	if cfg.Encoder.TargetVideoCodec != "hevc" || cfg.Encoder.TargetAudioCodec != "aac" {
		t.Fatalf("unexpected target codecs: %q/%q", cfg.Encoder.TargetVideoCodec, cfg.Encoder.TargetAudioCodec)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		"[paths]",
		`staging_dir = "` + filepath.Join(dir, "scratch") + `"`,
		"[encoder]",
		"crf = 25",
		`preset = " Medium "`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.StagingDir != filepath.Join(dir, "scratch") {
		t.Fatalf("unexpected staging dir: %q", cfg.Paths.StagingDir)
	}
	if cfg.Encoder.CRF != 25 {
		t.Fatalf("unexpected crf: %d", cfg.Encoder.CRF)
	}
	if cfg.Encoder.Preset != "medium" {
		t.Fatalf("preset not normalized: %q", cfg.Encoder.Preset)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"crf out of range", "[encoder]\ncrf = 60\n", "encoder.crf"},
		{"unknown preset", "[encoder]\npreset = \"warp9\"\n", "encoder.preset"},
		{"bad log format", "[logging]\nformat = \"yaml\"\n", "logging.format"},
		{"bad log level", "[logging]\nlevel = \"trace\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestIsPreset(t *testing.T) {
	for _, preset := range config.Presets {
		if !config.IsPreset(preset) {
			t.Fatalf("expected %q to be a valid preset", preset)
		}
	}
	if config.IsPreset("turbo") {
		t.Fatal("expected turbo to be rejected")
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Encoder.Preset != "fast" {
		t.Fatalf("sample should keep defaults, got preset %q", cfg.Encoder.Preset)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(dir, "staging")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.LedgerPath = filepath.Join(dir, "state", "badencodings.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, p := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir, filepath.Join(dir, "state")} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %q (err %v)", p, err)
		}
	}
}
