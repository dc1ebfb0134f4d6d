// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Asm assembles the single instruction text, written as Disasm writes it.
func Asm(text string) (code uint16, err error) {
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(runtime.Error); ok {
				panic(e)
			}
			err = fmt.Errorf("asm %q: %v", text, e)
		}
	}()

	op, args := parseAsm(strings.ToLower(text))
	list := lookupAsm(op)
	if len(list) == 0 {
		panic("unknown instruction")
	}
	for _, inst := range list {
		if code, ok := encode(inst, args); ok {
			return code, nil
		}
	}
	panic("invalid operands")
}

// encode returns the encoding of inst applied to args,
// or false if args do not fit its operands.
func encode(inst *instr, args []string) (uint16, bool) {
	_, iargs := parseAsm(inst.text)
	if len(args) != len(iargs) {
		return 0, false
	}
	code := inst.code
	for i, arg := range args {
		switch iarg := iargs[i]; iarg {
		default:
			if arg != iarg {
				return 0, false
			}
		case "%x", "%y":
			r, ok := parseReg(arg)
			if !ok {
				return 0, false
			}
			if iarg == "%x" {
				code |= uint16(r) << 8
			} else {
				code |= uint16(r) << 4
			}
		case "%n", "%b", "%a":
			limit := map[string]uint64{"%n": 0xF, "%b": 0xFF, "%a": 0xFFF}[iarg]
			n, err := strconv.ParseUint(arg, 0, 16)
			if err != nil || n > limit {
				return 0, false
			}
			code |= uint16(n)
		}
	}
	return code, true
}

func parseReg(arg string) (uint8, bool) {
	if len(arg) != 2 || arg[0] != 'v' {
		return 0, false
	}
	n, err := strconv.ParseUint(arg[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// Assemble assembles a program written one instruction per line.
// A line may instead list data bytes, as in "db 0xf0, 0x90".
// Text following // on a line is a comment.
func Assemble(src string) ([]byte, error) {
	var out []byte
	for i, line := range strings.Split(src, "\n") {
		line, _, _ = strings.Cut(line, "//")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if op, args := parseAsm(strings.ToLower(line)); op == "db" {
			if len(args) == 0 {
				return nil, fmt.Errorf("line %d: db without data", i+1)
			}
			for _, arg := range args {
				n, err := strconv.ParseUint(arg, 0, 8)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid byte %q", i+1, arg)
				}
				out = append(out, byte(n))
			}
			continue
		}
		code, err := Asm(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", i+1, err)
		}
		out = append(out, byte(code>>8), byte(code))
	}
	if len(out) > MaxROMSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrROMSize, len(out), MaxROMSize)
	}
	return out, nil
}
