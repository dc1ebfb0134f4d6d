// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"fmt"
	"strings"
)

// Disasm returns the assembly text for op.
func Disasm(op Opcode) (string, error) {
	inst := lookup(op)
	if inst == nil {
		return "", fmt.Errorf("%w %04x", ErrInst, uint16(op))
	}
	name, args := parseAsm(inst.text)
	var out []byte
	out = append(out, name...)
	for i, arg := range args {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, ' ')

		switch arg {
		default:
			out = append(out, arg...)
		case "%x":
			out = fmt.Appendf(out, "v%x", op.X())
		case "%y":
			out = fmt.Appendf(out, "v%x", op.Y())
		case "%n":
			out = fmt.Appendf(out, "%d", op.N())
		case "%b":
			out = fmt.Appendf(out, "%#02x", op.NN())
		case "%a":
			out = fmt.Appendf(out, "%#03x", op.NNN())
		}
	}
	return string(out), nil
}

// Disasm returns the assembly text for the instruction at pc.
func (cpu *CPU) Disasm(pc uint16) (string, error) {
	hi, err := cpu.Mem.Read(pc)
	if err != nil {
		return "", err
	}
	lo, err := cpu.Mem.Read(pc + 1)
	if err != nil {
		return "", err
	}
	return Disasm(Fetch(hi, lo))
}

func parseAsm(text string) (op string, args []string) {
	op, argstr := strings.TrimSpace(text), ""
	if i := strings.IndexAny(op, " \t"); i >= 0 {
		op, argstr = op[:i], strings.TrimSpace(op[i:])
	}
	args = strings.Split(argstr, ",")
	for i, arg := range args {
		args[i] = strings.TrimSpace(arg)
	}
	for len(args) > 0 && args[len(args)-1] == "" {
		args = args[:len(args)-1]
	}
	return op, args
}
