/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"sketchboard/internal/textedit"
	"sketchboard/internal/tool"
)

var (
	reToken   = regexp.MustCompile(`\S+`)
	reRef     = regexp.MustCompile(`^(#[1-9][0-9]*|[^#\s]\S*)$`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t")
)

// Parse parses a gesture script. Every line holds one command followed by
// whitespace separated arguments:
//
//	tool pencil
//	down 10 20        # or "down -" for a position the renderer lost
//	move 15 25
//	up                # optionally "up X Y"
//	click #1          # #N is the N-th object, anything else a literal id
//	type hello\nworld
//	grab resize tl 0 0
//	key left shift ctrl
//	transform #2 40 50 90 1 1
//	option pencil.color #ff0000
//	expect 3
//
// Lines starting with "#" or ";" are comments. Parsing continues past bad
// lines so every error is reported.
func Parse(input string) (Script, []Error) {
	s := Script{Steps: []Step{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			continue
		}
		st, err := parseLine(line, lineNo)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		s.Steps = append(s.Steps, st)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

func parseLine(line string, lineNo int) (Step, *Error) {
	spans := reToken.FindAllStringIndex(line, -1)
	toks := make([]string, len(spans))
	for i, sp := range spans {
		toks[i] = line[sp[0]:sp[1]]
	}
	fail := func(tok int, msg string) (Step, *Error) {
		col := len(line) + 1
		if tok < len(spans) {
			col = spans[tok][0] + 1
		}
		return Step{}, &Error{Line: lineNo, Column: col, Message: msg}
	}

	cmd := strings.ToLower(toks[0])
	op, ok := opNames[cmd]
	if !ok {
		return fail(0, "unknown command \""+toks[0]+"\"")
	}
	st := Step{Op: op, Line: lineNo}
	args := toks[1:]

	nums := func(from, n int) ([]float64, *Error) {
		out := make([]float64, 0, n)
		for i := from; i < from+n; i++ {
			if i >= len(args) {
				_, e := fail(i+1, "missing number")
				return nil, e
			}
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				_, e := fail(i+1, "bad number \""+args[i]+"\"")
				return nil, e
			}
			out = append(out, v)
		}
		return out, nil
	}
	arity := func(n int) *Error {
		if len(args) > n {
			_, e := fail(n+1, "unexpected argument \""+args[n]+"\"")
			return e
		}
		if len(args) < n {
			_, e := fail(len(args)+1, "missing argument")
			return e
		}
		return nil
	}
	point := func(optional bool) *Error {
		if (optional && len(args) == 0) || (len(args) == 1 && args[0] == "-") {
			st.Unavailable = true
			return nil
		}
		if e := arity(2); e != nil {
			return e
		}
		var e *Error
		st.Nums, e = nums(0, 2)
		return e
	}

	var e *Error
	switch op {
	case OpTool:
		if e = arity(1); e == nil {
			if _, err := tool.ParseKind(args[0]); err != nil {
				return fail(1, err.Error())
			}
			st.Word = strings.ToLower(args[0])
		}
	case OpDown, OpMove:
		e = point(false)
	case OpUp:
		e = point(true)
	case OpCancel, OpEdit, OpEndEdit, OpRelease, OpUndo, OpRedo, OpClear, OpDelete:
		e = arity(0)
	case OpClick, OpDoubleClick, OpOpen:
		if e = arity(1); e == nil {
			if !reRef.MatchString(args[0]) {
				return fail(1, "bad object reference \""+args[0]+"\"")
			}
			st.Word = args[0]
		}
	case OpType:
		rest := line[spans[0][1]:]
		if strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t") {
			rest = rest[1:]
		}
		st.Value = unescaper.Replace(rest)
	case OpGrab:
		e = parseGrab(&st, args, fail, nums)
	case OpKey:
		if len(args) == 0 {
			return fail(1, "missing key")
		}
		k, ok := textedit.ParseKey(args[0])
		if !ok {
			return fail(1, "unknown key \""+args[0]+"\"")
		}
		st.Key = k
		for i, m := range args[1:] {
			switch strings.ToLower(m) {
			case "shift":
				st.Mod = true
			case "ctrl":
				st.Ctrl = true
			default:
				return fail(i+2, "unknown modifier \""+m+"\"")
			}
		}
	case OpTransform:
		if e = arity(6); e == nil {
			if !reRef.MatchString(args[0]) {
				return fail(1, "bad object reference \""+args[0]+"\"")
			}
			st.Word = args[0]
			st.Nums, e = nums(1, 5)
		}
	case OpOption:
		if len(args) < 2 {
			return fail(len(args)+1, "option needs a path and a value")
		}
		st.Word = args[0]
		st.Value = strings.Join(args[1:], " ")
		probe := tool.DefaultOptions()
		if err := probe.Set(st.Word, st.Value); err != nil {
			return fail(1, err.Error())
		}
	case OpPreset:
		if len(args) == 0 {
			return fail(1, "missing preset name")
		}
		st.Word = strings.Join(args, " ")
	case OpExpect:
		if e = arity(1); e == nil {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fail(1, "expect needs an object count")
			}
			st.Nums = []float64{float64(n)}
		}
	}
	if e != nil {
		return Step{}, e
	}
	return st, nil
}

func parseGrab(st *Step, args []string, fail func(int, string) (Step, *Error), nums func(int, int) ([]float64, *Error)) *Error {
	if len(args) == 0 {
		_, e := fail(1, "grab needs drag or resize")
		return e
	}
	from := 1
	switch strings.ToLower(args[0]) {
	case "drag":
		st.Mode = textedit.Dragging
	case "resize":
		st.Mode = textedit.Resizing
		st.Corner = textedit.BottomRight
		if len(args) == 4 {
			c, ok := textedit.ParseCorner(args[1])
			if !ok {
				_, e := fail(2, "unknown corner \""+args[1]+"\"")
				return e
			}
			st.Corner = c
			from = 2
		}
	default:
		_, e := fail(1, "grab needs drag or resize")
		return e
	}
	if len(args) > from+2 {
		_, e := fail(from+3, "unexpected argument \""+args[from+2]+"\"")
		return e
	}
	var e *Error
	st.Nums, e = nums(from, 2)
	return e
}
