/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func useConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	useConfigFile(t, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Tools != Defaults().Tools || cfg.Logging.Level != "info" {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadMergesFile(t *testing.T) {
	useConfigFile(t, `
config_version: 1
general:
  theme: dark
history:
  max_snapshots: 50
tools:
  pencil:
    color: "#ff0000"
    width: 8
  text:
    font_size: 32
logging:
  level: DEBUG
`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.General.Theme != "dark" || cfg.History.MaxSnapshots != 50 || cfg.Logging.Level != "debug" {
		t.Fatalf("file values not merged: %#v", cfg)
	}
	o := cfg.ToolOptions()
	if o.Pencil.Color != "#ff0000" || o.Pencil.Width != 8 || o.Text.FontSize != 32 {
		t.Fatalf("tool values not merged: %#v", o)
	}
	if o.Pencil.Opacity != 1 || o.Shape.Stroke != Defaults().Tools.Shape.Stroke {
		t.Fatalf("unset tool values must keep defaults: %#v", o)
	}
}

func TestLoadMalformedFileReportsError(t *testing.T) {
	useConfigFile(t, "general: [unterminated")
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.General.Theme != "system" {
		t.Fatalf("defaults should still be returned")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := useConfigFile(t, "")
	cfg := Defaults()
	cfg.General.Theme = "light"
	cfg.Tools.Eraser.Width = 42
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.General.Theme != "light" || got.Tools.Eraser.Width != 42 {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/skb.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/skb.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	opts := dst.LogOptions()
	if opts.Level != "debug" || !opts.AddSource || opts.File != "C:/tmp/skb.log" {
		t.Fatalf("LogOptions mismatch: %#v", opts)
	}
}

func TestEnvOverrides(t *testing.T) {
	useConfigFile(t, "history:\n  max_snapshots: 10\n")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/skb.log")
	t.Setenv(EnvMaxSnapshots, "3")
	t.Setenv(EnvPencilColor, "#00ff00")
	t.Setenv(EnvFontSize, "40")
	t.Setenv(EnvCrashDir, "/tmp/crashes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/skb.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if cfg.History.MaxSnapshots != 3 || cfg.Tools.Pencil.Color != "#00ff00" || cfg.Tools.Text.FontSize != 40 || cfg.General.CrashDir != "/tmp/crashes" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if env, ok := EnvOverrideFor("history.max_snapshots"); !ok || env != EnvMaxSnapshots {
		t.Fatalf("EnvOverrideFor = %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("general.theme"); ok {
		t.Fatalf("theme is not overridden")
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unknown keys are never overridden")
	}
}

func TestFontLibraryFromConfig(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "mono.ttf")
	if err := os.WriteFile(fontPath, gomono.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	cfg := Defaults()
	cfg.Fonts = []FontFile{
		{Family: "Mono", Path: fontPath},
		{Family: "Broken", Path: filepath.Join(dir, "missing.ttf")},
		{Family: "", Path: fontPath},
	}
	lib, err := cfg.FontLibrary()
	if err == nil {
		t.Fatalf("expected errors for bad entries")
	}
	if lib.Len() != 1 {
		t.Fatalf("good font should still load, got %d", lib.Len())
	}
}

func TestLogRotationFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "logging:\n  file: skb.log\n  max_size_mb: 5\n  max_backups: 2\n  no_compress: true\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := cfg.LogOptions().Rotation
	if r.MaxSizeMB != 5 || r.MaxBackups != 2 || r.MaxAgeDays != 0 || !r.Plain {
		t.Fatalf("rotation not carried into log options: %+v", r)
	}
}

func TestLoadKeepsZeroOpacity(t *testing.T) {
	useConfigFile(t, "tools:\n  eraser:\n    opacity: 0\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	o := cfg.ToolOptions()
	if o.Eraser.Opacity != 0 {
		t.Fatalf("zero opacity from file dropped: %g", o.Eraser.Opacity)
	}
	if o.Pencil.Opacity != 1 {
		t.Fatalf("omitted opacity must keep default, got %g", o.Pencil.Opacity)
	}
}
