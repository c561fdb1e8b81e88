/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration of sketchboard from a YAML file
// in the user scope and applies environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "sketchboard/internal/log"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/tool"
)

// AppConfig is the user-editable configuration persisted to a YAML file.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Logging       LoggingConfig `yaml:"logging"`
	History       HistoryConfig `yaml:"history"`
	Tools         tool.Options  `yaml:"tools"`
	Fonts         []FontFile    `yaml:"fonts,omitempty"`
}

type GeneralConfig struct {
	Theme    string `yaml:"theme"` // "system" | "light" | "dark"
	CrashDir string `yaml:"crash_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
	// Rotation of File; zero values keep the logger defaults.
	MaxSizeMB  int  `yaml:"max_size_mb,omitempty"`
	MaxBackups int  `yaml:"max_backups,omitempty"`
	MaxAgeDays int  `yaml:"max_age_days,omitempty"`
	NoCompress bool `yaml:"no_compress,omitempty"`
}

type HistoryConfig struct {
	// MaxSnapshots caps the undo depth; 0 keeps everything.
	MaxSnapshots int `yaml:"max_snapshots"`
}

// FontFile registers a TTF/OTF file for text measurement and export.
type FontFile struct {
	Family string `yaml:"family"`
	Weight string `yaml:"weight"`
	Italic bool   `yaml:"italic"`
	Path   string `yaml:"path"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		History:       HistoryConfig{MaxSnapshots: 0},
		Tools:         tool.DefaultOptions(),
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "SKB_CONFIG"
	EnvTheme        = "SKB_THEME"
	EnvCrashDir     = "SKB_CRASH_DIR"
	EnvMaxSnapshots = "SKB_HISTORY_MAX"
	EnvPencilColor  = "SKB_PENCIL_COLOR"
	EnvFontSize     = "SKB_FONT_SIZE"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SKB_LOG_LEVEL"
	EnvLogFormat = "SKB_LOG_FORMAT"
	EnvLogSource = "SKB_LOG_SOURCE"
	EnvLogFile   = "SKB_LOG_FILE"
)

// ConfigPath returns the per-user config file path. SKB_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Sketchboard")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Sketchboard")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "sketchboard")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "sketchboard")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges
// environment overrides. A missing file is not an error; a malformed one is,
// in which case the defaults with overrides are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	var loadErr error
	if data, err := os.ReadFile(path); err == nil {
		fileCfg := AppConfig{Tools: tool.Unset()}
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse config %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		loadErr = fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if strings.TrimSpace(src.General.CrashDir) != "" {
		dst.General.CrashDir = strings.TrimSpace(src.General.CrashDir)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	if src.Logging.MaxSizeMB > 0 {
		dst.Logging.MaxSizeMB = src.Logging.MaxSizeMB
	}
	if src.Logging.MaxBackups > 0 {
		dst.Logging.MaxBackups = src.Logging.MaxBackups
	}
	if src.Logging.MaxAgeDays > 0 {
		dst.Logging.MaxAgeDays = src.Logging.MaxAgeDays
	}
	dst.Logging.NoCompress = src.Logging.NoCompress
	if src.History.MaxSnapshots > 0 {
		dst.History.MaxSnapshots = src.History.MaxSnapshots
	}
	dst.Tools = dst.Tools.Overlay(src.Tools)
	if len(src.Fonts) > 0 {
		dst.Fonts = append([]FontFile(nil), src.Fonts...)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashDir)); v != "" {
		cfg.General.CrashDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxSnapshots)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.History.MaxSnapshots = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPencilColor)); v != "" {
		cfg.Tools.Pencil.Color = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Tools.Text.FontSize = f
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var overrideKeys = map[string]string{
	"general.theme":         EnvTheme,
	"general.crash_dir":     EnvCrashDir,
	"history.max_snapshots": EnvMaxSnapshots,
	"tools.pencil.color":    EnvPencilColor,
	"tools.text.font_size":  EnvFontSize,
	"logging.level":         EnvLogLevel,
	"logging.format":        EnvLogFormat,
	"logging.source":        EnvLogSource,
	"logging.file":          EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := overrideKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	lc := c.Logging
	return applog.Options{
		Level:     lc.Level,
		Format:    lc.Format,
		AddSource: lc.Source,
		File:      lc.File,
		Rotation:  applog.Rotation{MaxSizeMB: lc.MaxSizeMB, MaxBackups: lc.MaxBackups, MaxAgeDays: lc.MaxAgeDays, Plain: lc.NoCompress},
	}
}

// ToolOptions returns the configured tool defaults.
func (c AppConfig) ToolOptions() tool.Options { return c.Tools }

// FontLibrary loads the configured font files. Files that fail to load are
// reported together; the fonts that loaded are still returned.
func (c AppConfig) FontLibrary() (*textlayout.FontLibrary, error) {
	lib := textlayout.NewFontLibrary()
	var errs []error
	for _, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			errs = append(errs, fmt.Errorf("font entry needs family and path: %+v", f))
			continue
		}
		if err := lib.LoadTTF(f.Family, textlayout.ParseWeight(f.Weight), f.Italic, f.Path); err != nil {
			errs = append(errs, err)
		}
	}
	return lib, errors.Join(errs...)
}
