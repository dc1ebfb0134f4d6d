// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testDisasm(t *testing.T, do func(file string, line int, code uint16, text string)) {
	const file = "testdata/disasm.txt"
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	for i, line := range strings.Split(string(data), "\n") {
		line, _, _ = strings.Cut(line, "//")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		num, text, _ := strings.Cut(line, " ")
		n, err := strconv.ParseUint(num, 16, 16)
		if err != nil {
			t.Fatalf("%s:%d: unexpected syntax", file, i+1)
		}
		do(file, i+1, uint16(n), text)
	}
}

func TestDisasm(t *testing.T) {
	cpu, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	testDisasm(t, func(file string, line int, code uint16, text string) {
		cpu.Mem[0x300], cpu.Mem[0x301] = uint8(code>>8), uint8(code)
		asm, err := cpu.Disasm(0x300)
		if err != nil {
			t.Fatalf("%s:%d: %v", file, line, err)
		}
		if asm != text {
			t.Errorf("%s:%d: Disasm(%04x) = %q, want %q", file, line, code, asm, text)
		}
	})
}

func TestAsm(t *testing.T) {
	testDisasm(t, func(file string, line int, code uint16, text string) {
		acode, err := Asm(text)
		if err != nil {
			t.Fatalf("%s:%d: %v", file, line, err)
		}
		if acode != code {
			t.Errorf("%s:%d: Asm(%q) = %04x, want %04x", file, line, text, acode, code)
		}
	})
}

func TestDisasmAsm(t *testing.T) {
	errs := 0
	for i := 0; i < 1<<16; i++ {
		op := Opcode(i)
		asm, err := Disasm(op)
		if err != nil {
			if !errors.Is(err, ErrInst) {
				t.Errorf("Disasm(%04x): %v, want ErrInst", i, err)
			}
			continue
		}
		code, err := Asm(asm)
		if err != nil || code != uint16(op) {
			t.Errorf("Disasm(%04x) = %q, but Asm(%q) = %04x, %v", i, asm, asm, code, err)
			if errs++; errs >= 20 {
				t.Fatalf("too many errors")
			}
		}
	}
}

func TestDisasmUnknown(t *testing.T) {
	for _, code := range []uint16{0x0001, 0x00e1, 0x0fff, 0x5121, 0x800f, 0x9001, 0xe000, 0xf0ff, 0xf000} {
		if asm, err := Disasm(Opcode(code)); !errors.Is(err, ErrInst) {
			t.Errorf("Disasm(%04x) = %q, %v, want ErrInst", code, asm, err)
		}
	}
	var cpu CPU
	if _, err := cpu.Disasm(0xfff); !errors.Is(err, ErrMem) {
		t.Errorf("Disasm(0xfff): %v, want ErrMem", err)
	}
}

var asmTests = []struct {
	text string
	code uint16
}{
	{"LD V0, 0x05", 0x6005},
	{"ld v0,5", 0x6005},
	{"ld v0, 0b101", 0x6005},
	{"  jp   0o1000 ", 0x1200},
	{"drw va, vb, 0xf", 0xdabf},
	{"ld [I], VF", 0xff55},
}

func TestAsmSyntax(t *testing.T) {
	for _, tt := range asmTests {
		code, err := Asm(tt.text)
		if err != nil || code != tt.code {
			t.Errorf("Asm(%q) = %04x, %v, want %04x", tt.text, code, err, tt.code)
		}
	}
}

var asmErrorTests = []string{
	"",
	"nop",
	"ld v0",
	"ld v0, 0x100",
	"ld vg, 0x01",
	"jp 0x1000",
	"drw v0, v1, 16",
	"ld v0, v1, v2",
	"se i, 0x01",
	"shr v0",
}

func TestAsmError(t *testing.T) {
	for _, text := range asmErrorTests {
		if code, err := Asm(text); err == nil {
			t.Errorf("Asm(%q) = %04x, want error", text, code)
		}
	}
}

func TestAssemble(t *testing.T) {
	src := `
		// count to three
		ld v0, 0x00
		add v0, 0x01   // loop
		se v0, 0x03
		jp 0x202
		halt
		db 0xf0, 0x90
		db 0x0f
	`
	rom, err := Assemble(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x60, 0x00, 0x70, 0x01, 0x30, 0x03, 0x12, 0x02, 0x00, 0x00, 0xf0, 0x90, 0x0f}
	if diff := cmp.Diff(want, rom); diff != "" {
		t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleError(t *testing.T) {
	for _, tt := range []struct{ src, err string }{
		{"cls\nbogus v0\n", "line 2:"},
		{"db\n", "line 1: db without data"},
		{"db 0x100\n", `line 1: invalid byte "0x100"`},
	} {
		_, err := Assemble(tt.src)
		if err == nil || !strings.Contains(err.Error(), tt.err) {
			t.Errorf("Assemble(%q): %v, want %s", tt.src, err, tt.err)
		}
	}

	big := strings.Repeat("cls\n", MaxROMSize/2+1)
	if _, err := Assemble(big); !errors.Is(err, ErrROMSize) {
		t.Errorf("Assemble(large): %v, want ErrROMSize", err)
	}
}
