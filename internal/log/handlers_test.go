/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := slog.Handler(newConsoleHandler(&buf, slog.LevelWarn, false))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}

	h = h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("grp")
	r := slog.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 6e6, time.UTC), slog.LevelError, "boom", 0)
	r.AddAttrs(
		slog.Int("n", 42),
		slog.Float64("pi", 3.14),
		slog.String("text", "two words"),
		slog.Group("pt", slog.Int("x", 1), slog.Int("y", 2)),
	)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := `03:04:05.006 ERR boom k=v grp.n=42 grp.pi=3.14 grp.text="two words" grp.pt.x=1 grp.pt.y=2` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestConsoleHandlerSource(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newConsoleHandler(&buf, slog.LevelDebug, true))
	l.Info("here")
	if !strings.Contains(buf.String(), "handlers_test.go:") {
		t.Fatalf("expected source position: %q", buf.String())
	}
}

func TestLevelTags(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug - 4: "DBG",
		slog.LevelDebug:     "DBG",
		slog.LevelInfo:      "INF",
		slog.LevelWarn + 1:  "WRN",
		slog.LevelError:     "ERR",
		slog.LevelError + 4: "ERR",
	}
	for l, want := range cases {
		if got := levelTag(l); got != want {
			t.Fatalf("levelTag(%v) = %s, want %s", l, got, want)
		}
	}
}

func TestFanoutRespectsEachLevel(t *testing.T) {
	var quiet, loud bytes.Buffer
	f := fanout{
		newConsoleHandler(&quiet, slog.LevelError, false),
		newConsoleHandler(&loud, slog.LevelDebug, false),
	}
	l := slog.New(f).With(slog.String("c", "x"))
	l.Info("note")
	if quiet.Len() != 0 {
		t.Fatalf("error-level sink received info: %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "INF note c=x") {
		t.Fatalf("debug-level sink missed info: %q", loud.String())
	}
}
