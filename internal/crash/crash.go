/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a logged error, a report file and a
// non-zero exit.
package crash

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	applog "sketchboard/internal/log"
	"sketchboard/internal/version"
)

// exitFn lets tests observe the exit code without terminating.
var exitFn = os.Exit

// Options controls where reports go and what they contain.
type Options struct {
	// Dir receives crash-<stamp>-*.log; the temp dir when empty.
	Dir string
	// Describe adds a line about the application state (e.g. board stats).
	Describe func() string
	// Stderr receives the user-facing notice; os.Stderr when nil.
	Stderr io.Writer
}

// Report is the content of a crash file.
type Report struct {
	Time     time.Time
	Version  string
	Platform string
	State    string
	Panic    any
	Stack    []byte
}

// WriteTo renders r as plain text.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	fmt.Fprintf(cw, "Sketchboard Crash Report\n")
	fmt.Fprintf(cw, "Timestamp: %s\n", r.Time.Format(time.RFC3339))
	fmt.Fprintf(cw, "Version: %s\n", r.Version)
	fmt.Fprintf(cw, "OS/Arch: %s\n", r.Platform)
	if r.State != "" {
		fmt.Fprintf(cw, "State: %s\n", r.State)
	}
	fmt.Fprintf(cw, "\nPanic: %v\n\nStack:\n%s\n", r.Panic, r.Stack)
	return cw.n, cw.err
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// Recover captures a panic, logs it with its stack, writes a report file and
// exits with code 2.
//
// Usage: defer crash.Recover(opts)
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	rep := Report{
		Time:     time.Now(),
		Version:  version.String(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Panic:    r,
		Stack:    debug.Stack(),
	}
	if opts.Describe != nil {
		rep.State = safeDescribe(opts.Describe)
	}

	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", r), slog.String("state", rep.State), slog.String("stack", string(rep.Stack)))

	path, err := Save(opts.Dir, rep)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	if path != "" {
		fmt.Fprintf(out, "A fatal error occurred. A crash report was saved to: %s\n", path)
	} else {
		fmt.Fprintln(out, "A fatal error occurred. No crash report could be written.")
	}
	fmt.Fprintf(out, "Version: %s\nOS/Arch: %s\n", rep.Version, rep.Platform)
	exitFn(2)
}

// Save writes rep into dir (the temp dir when empty) and returns the path.
func Save(dir string, rep Report) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "crash-"+rep.Time.Format("20060102-150405")+"-*.log")
	if err != nil {
		return "", fmt.Errorf("create crash report: %w", err)
	}
	if _, err := rep.WriteTo(f); err != nil {
		_ = f.Close()
		return f.Name(), fmt.Errorf("write crash report: %w", err)
	}
	if err := f.Close(); err != nil {
		return f.Name(), fmt.Errorf("close crash report: %w", err)
	}
	return f.Name(), nil
}

// safeDescribe keeps a second panic inside Describe from losing the report.
func safeDescribe(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("unavailable (%v)", r)
		}
	}()
	return fn()
}
