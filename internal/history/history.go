/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history keeps the board's linear undo/redo log: a sequence of
// immutable object-set snapshots plus a cursor at the present one.
package history

import (
	"log/slog"

	"sketchboard/internal/canvas"
	applog "sketchboard/internal/log"
)

// Config controls depth caps.
type Config struct {
	// MaxSnapshots limits how many snapshots are retained (0 means unlimited).
	// The oldest are dropped first. Values below 2 are raised to 2 so a commit
	// can always be undone once.
	MaxSnapshots int
}

// Stats describes the log for diagnostics.
type Stats struct {
	Snapshots int
	Cursor    int
	Objects   int
}

// History is a branch-discarding snapshot log. A History is owned by the
// event loop that drives the board and is not safe for concurrent use.
type History struct {
	cfg       Config
	snapshots []canvas.Objects
	cursor    int
	logger    *slog.Logger
}

// New returns a History holding one empty snapshot.
func New(cfg Config) *History {
	if cfg.MaxSnapshots < 0 {
		cfg.MaxSnapshots = 0
	}
	if cfg.MaxSnapshots > 0 && cfg.MaxSnapshots < 2 {
		cfg.MaxSnapshots = 2
	}
	h := &History{cfg: cfg, logger: applog.WithComponent("history")}
	h.reset()
	return h
}

func (h *History) reset() {
	h.snapshots = []canvas.Objects{{}}
	h.cursor = 0
}

// Commit truncates every snapshot after the cursor, appends objs and moves
// the cursor onto it. It commits even when objs equals the current set.
// objs is stored as given; callers hand over a fresh slice.
func (h *History) Commit(objs canvas.Objects) {
	if objs == nil {
		objs = canvas.Objects{}
	}
	h.snapshots = append(h.snapshots[:h.cursor+1:h.cursor+1], objs)
	h.cursor = len(h.snapshots) - 1
	h.enforceCap()
	h.logger.Debug("commit", slog.Int("cursor", h.cursor), slog.Int("objects", len(objs)))
}

// Undo moves the cursor back one snapshot. It reports false at the oldest one.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		h.logger.Debug("cannot undo")
		return false
	}
	h.cursor--
	h.logger.Debug("undo", slog.Int("cursor", h.cursor))
	return true
}

// Redo moves the cursor forward one snapshot. It reports false at the newest one.
func (h *History) Redo() bool {
	if h.cursor >= len(h.snapshots)-1 {
		h.logger.Debug("cannot redo")
		return false
	}
	h.cursor++
	h.logger.Debug("redo", slog.Int("cursor", h.cursor))
	return true
}

// Clear discards all history and returns to a single empty snapshot.
// It cannot be undone.
func (h *History) Clear() {
	h.reset()
	h.logger.Debug("clear")
}

// Current returns the snapshot at the cursor. It must not be modified.
func (h *History) Current() canvas.Objects { return h.snapshots[h.cursor] }

// Snapshots returns every retained snapshot from oldest to newest, including
// those ahead of the cursor. The sets must not be modified.
func (h *History) Snapshots() []canvas.Objects {
	return append([]canvas.Objects(nil), h.snapshots...)
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Len() int      { return len(h.snapshots) }

// Stats returns current sizes for diagnostics.
func (h *History) Stats() Stats {
	return Stats{Snapshots: len(h.snapshots), Cursor: h.cursor, Objects: len(h.Current())}
}

func (h *History) enforceCap() {
	if h.cfg.MaxSnapshots <= 0 || len(h.snapshots) <= h.cfg.MaxSnapshots {
		return
	}
	// drop the oldest extras
	toDrop := len(h.snapshots) - h.cfg.MaxSnapshots
	h.snapshots = append([]canvas.Objects{}, h.snapshots[toDrop:]...)
	h.cursor -= toDrop
	h.logger.Debug("pruned snapshots", slog.Int("dropped", toDrop))
}
