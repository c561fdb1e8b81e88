/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = old })
	return &code
}

func TestRecoverWritesReportAndExits(t *testing.T) {
	code := stubExit(t)
	dir := t.TempDir()
	var notice bytes.Buffer

	func() {
		defer Recover(Options{Dir: dir, Stderr: &notice, Describe: func() string { return "objects=3" }})
		panic("boom")
	}()

	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "crash-*.log"))
	if len(files) != 1 {
		t.Fatalf("expected one crash report under %s, got %v", dir, files)
	}
	b, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"Panic: boom", "State: objects=3", "Stack:"} {
		if !bytes.Contains(b, []byte(want)) {
			t.Fatalf("report missing %q:\n%s", want, b)
		}
	}
	if !strings.Contains(notice.String(), files[0]) {
		t.Fatalf("notice should name the report: %q", notice.String())
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	code := stubExit(t)
	func() {
		defer Recover(Options{Dir: t.TempDir()})
	}()
	if *code != -1 {
		t.Fatalf("exit must not be called without a panic")
	}
}

func TestRecoverSurvivesUnwritableDir(t *testing.T) {
	code := stubExit(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var notice bytes.Buffer
	func() {
		defer Recover(Options{Dir: filepath.Join(blocker, "sub"), Stderr: &notice})
		panic("boom")
	}()
	if *code != 2 || !strings.Contains(notice.String(), "No crash report") {
		t.Fatalf("code %d notice %q", *code, notice.String())
	}
}
