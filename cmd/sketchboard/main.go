/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"sketchboard/internal/board"
	"sketchboard/internal/canvas"
	"sketchboard/internal/config"
	"sketchboard/internal/crash"
	"sketchboard/internal/export"
	"sketchboard/internal/gesture"
	"sketchboard/internal/history"
	applog "sketchboard/internal/log"
	"sketchboard/internal/textlayout"
	"sketchboard/internal/toolbox"
	"sketchboard/internal/ui"
	"sketchboard/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Sketchboard")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sketchboard version|-v|--version             Show version")
	fmt.Fprintln(w, "  sketchboard replay <script> [flags]           Replay a gesture script headless and export the result")
	fmt.Fprintln(w, "      --pdf|--svg|--png|--cbz <file>            Write the final board (cbz: every undo step)")
	fmt.Fprintln(w, "      --batch web|print --out <dir>             Export a preset bundle into <dir>")
	fmt.Fprintln(w, "      --presets <file> [--preset <name>]        Load a tool preset pack, optionally applying one first")
	fmt.Fprintln(w, "  sketchboard presets <file>                    Validate a tool preset pack and list its presets")
	fmt.Fprintln(w, "  sketchboard ui [--presets <file>]             Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env is what every command needs: the loaded config and the font provider
// used for both measuring and rendering text.
type env struct {
	cfg      config.AppConfig
	provider textlayout.Provider
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.LogOptions())
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	var b *board.Board
	defer crash.Recover(crash.Options{Dir: cfg.General.CrashDir, Describe: func() string {
		if b == nil {
			return "no board"
		}
		st := b.Stats()
		return fmt.Sprintf("objects=%d snapshots=%d cursor=%d", st.Objects, st.Snapshots, st.Cursor)
	}})

	lib, err := cfg.FontLibrary()
	if err != nil {
		l.Warn("some fonts failed to load", slog.Any("err", err))
	}
	e := env{cfg: cfg, provider: &textlayout.GoProvider{Extra: lib}}

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "Sketchboard")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "replay":
		b = e.newBoard()
		if err := replay(context.Background(), e, b, args[1:], stdout); err != nil {
			l.Error("replay failed", slog.Any("err", err))
			fmt.Fprintln(stderr, "Error:", err)
			if errors.Is(err, errUsage) {
				return 2
			}
			return 1
		}
		return 0
	case "presets":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "presets requires <file>")
			usage(stderr)
			return 2
		}
		pack, err := toolbox.Load(args[1])
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		for _, n := range pack.Names() {
			fmt.Fprintln(stdout, n)
		}
		return 0
	case "ui":
		fs := flag.NewFlagSet("ui", flag.ContinueOnError)
		fs.SetOutput(stderr)
		presets := fs.String("presets", "", "tool preset pack")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		b = e.newBoard()
		opts := ui.Options{Board: b, CrashDir: cfg.General.CrashDir, Theme: cfg.General.Theme}
		if *presets != "" {
			pack, err := toolbox.Load(*presets)
			if err != nil {
				fmt.Fprintln(stderr, "Error:", err)
				return 1
			}
			opts.Presets = &pack
		}
		if err := ui.Run(opts); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	}
	usage(stderr)
	return 2
}

func (e env) newBoard() *board.Board {
	opts := e.cfg.ToolOptions()
	return board.New(board.Config{
		History:  history.Config{MaxSnapshots: e.cfg.History.MaxSnapshots},
		Options:  &opts,
		IDs:      canvas.UUIDSource{},
		Measurer: textlayout.FaceMeasurer{Provider: e.provider},
	})
}

var errUsage = errors.New("usage")

type replayFlags struct {
	pdf, svg, png, cbz string
	batch, out         string
	presets, preset    string
	background         string
}

func parseReplay(args []string, stderr io.Writer) (string, replayFlags, error) {
	var f replayFlags
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.pdf, "pdf", "", "write PDF")
	fs.StringVar(&f.svg, "svg", "", "write SVG")
	fs.StringVar(&f.png, "png", "", "write PNG")
	fs.StringVar(&f.cbz, "cbz", "", "write the undo timeline as a CBZ flipbook")
	fs.StringVar(&f.batch, "batch", "", "export preset: web or print")
	fs.StringVar(&f.out, "out", ".", "output directory for --batch")
	fs.StringVar(&f.presets, "presets", "", "tool preset pack")
	fs.StringVar(&f.preset, "preset", "", "preset to apply before replaying")
	fs.StringVar(&f.background, "background", "", "export background colour or none")

	// Allow the script path before or after the flags.
	var script string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		script, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", f, fmt.Errorf("%w: %v", errUsage, err)
	}
	if script == "" && fs.NArg() > 0 {
		script = fs.Arg(0)
	}
	if script == "" {
		return "", f, fmt.Errorf("%w: replay requires <script>", errUsage)
	}
	if f.preset != "" && f.presets == "" {
		return "", f, fmt.Errorf("%w: --preset needs --presets", errUsage)
	}
	return script, f, nil
}

func replay(ctx context.Context, e env, b *board.Board, args []string, stdout io.Writer) error {
	path, f, err := parseReplay(args, io.Discard)
	if err != nil {
		return err
	}
	l := applog.WithOperation(applog.WithComponent("cli"), "replay")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, perrs := gesture.Parse(string(data))
	if len(perrs) > 0 {
		msgs := make([]string, len(perrs))
		for i, pe := range perrs {
			msgs[i] = fmt.Sprintf("%s:%s", filepath.Base(path), pe.Error())
		}
		return fmt.Errorf("parse script:\n  %s", strings.Join(msgs, "\n  "))
	}

	r := &gesture.Runner{Board: b}
	if f.presets != "" {
		pack, err := toolbox.Load(f.presets)
		if err != nil {
			return err
		}
		r.Presets = &pack
		if f.preset != "" {
			pr, err := pack.Find(f.preset)
			if err != nil {
				return err
			}
			opts, k, ok := pr.Apply(b.Options())
			b.SetOptions(opts)
			if ok {
				b.SetTool(k)
			}
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := r.Run(ctx, script); err != nil {
		return err
	}
	l.Info("replayed", slog.String("script", path), slog.Int("steps", len(script.Steps)))

	objs := b.Objects()
	opts := export.Options{Background: f.background, Provider: e.provider}
	var written []string
	for _, out := range []string{f.pdf, f.svg, f.png} {
		if out == "" {
			continue
		}
		if err := export.WriteFile(out, objs, opts); err != nil {
			return err
		}
		written = append(written, out)
	}
	if f.cbz != "" {
		if err := export.WriteFlipbook(f.cbz, b.Timeline(), opts); err != nil {
			return err
		}
		written = append(written, f.cbz)
	}
	if f.batch != "" {
		files, err := export.Batch(objs, export.BatchOptions{
			Preset:  export.PresetName(f.batch),
			OutDir:  f.out,
			Frames:  b.Timeline(),
			Options: opts,
		})
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	summarize(stdout, b)
	for _, w := range written {
		fmt.Fprintln(stdout, "Wrote", w)
	}
	return nil
}

func summarize(w io.Writer, b *board.Board) {
	st := b.Stats()
	fmt.Fprintf(w, "Objects: %d\n", st.Objects)
	fmt.Fprintf(w, "Snapshot: %d of %d (undo %t, redo %t)\n", st.Cursor+1, st.Snapshots, b.CanUndo(), b.CanRedo())
	counts := map[canvas.Kind]int{}
	for _, o := range b.Objects() {
		counts[o.Kind]++
	}
	for _, k := range []canvas.Kind{canvas.KindLine, canvas.KindRect, canvas.KindCircle, canvas.KindText} {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", k, n)
		}
	}
	if s := b.Status(); s != "" {
		fmt.Fprintln(w, "Status:", s)
	}
}
