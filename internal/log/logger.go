/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the process-wide slog logger for sketchboard: a console
// or JSON sink on stderr, an optional rotated JSON file, and context tagging
// so records emitted while replaying a gesture script name their source.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"sketchboard/internal/version"
)

// Options controls Init. FromEnv fills it from SKB_LOG_LEVEL, SKB_LOG_FORMAT,
// SKB_LOG_FILE and SKB_LOG_SOURCE.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // console or json
	AddSource bool
	// File enables a second JSON sink rotated by lumberjack.
	File     string
	Rotation Rotation
	// Output replaces stderr for the primary sink.
	Output io.Writer
}

// Rotation bounds the log file. Zero fields take the defaults
// (10 MB, 3 backups, 28 days, compressed).
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Plain      bool // keep rotated files uncompressed
}

func (r Rotation) writer(path string) *lj.Logger {
	w := &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: !r.Plain}
	if r.MaxSizeMB > 0 {
		w.MaxSize = r.MaxSizeMB
	}
	if r.MaxBackups > 0 {
		w.MaxBackups = r.MaxBackups
	}
	if r.MaxAgeDays > 0 {
		w.MaxAge = r.MaxAgeDays
	}
	return w
}

var (
	mu     sync.RWMutex
	root   *slog.Logger
	sink   *lj.Logger
	levels = new(slog.LevelVar)
)

// L returns the process logger, initialising it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	if l == nil {
		Init(FromEnv())
		mu.RLock()
		l = root
		mu.RUnlock()
	}
	return l
}

// Init replaces the process logger and slog.Default. A file sink opened by a
// previous Init is closed.
func Init(opts Options) {
	levels.Set(parseLevel(opts.Level))
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var primary slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		primary = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: levels, AddSource: opts.AddSource})
	} else {
		primary = newConsoleHandler(out, levels, opts.AddSource)
	}

	var file *lj.Logger
	h := primary
	if p := strings.TrimSpace(opts.File); p != "" {
		file = opts.Rotation.writer(p)
		h = fanout{primary, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: levels, AddSource: opts.AddSource})}
	}

	l := slog.New(contextHandler{next: h}).With(
		slog.String("app", "sketchboard"),
		slog.String("ver", version.Version),
	)

	mu.Lock()
	prev := sink
	root, sink = l, file
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(l)
}

// Close closes the rotated file sink, if any. Call it once at exit; a record
// logged afterwards reopens the file.
func Close() error {
	mu.Lock()
	f := sink
	sink = nil
	mu.Unlock()
	if f == nil {
		return nil
	}
	return f.Close()
}

// FromEnv reads Options from the SKB_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("SKB_LOG_LEVEL", "info"),
		Format:    getenv("SKB_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("SKB_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("SKB_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type sourceKey struct{}

// ContextWithSource tags ctx with the name of the input source (a gesture
// script path, "ui", ...). Records logged with that context carry it as "src_in".
func ContextWithSource(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, sourceKey{}, name)
}

// SourceFromContext returns the input source set by ContextWithSource.
func SourceFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(sourceKey{}).(string)
	return v, ok && v != ""
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
