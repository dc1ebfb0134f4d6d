// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "strings"

// An Opcode is a 16-bit CHIP-8 instruction word.
// Its fields are fixed bit ranges of the word:
//
//	class x     y     n
//	      nnn---------------
//	            nn----------
//	15-12 11-8  7-4   3-0
type Opcode uint16

// Fetch returns the opcode stored big-endian in hi, lo.
func Fetch(hi, lo uint8) Opcode { return Opcode(hi)<<8 | Opcode(lo) }

func (op Opcode) Class() uint8 { return uint8(op >> 12) }
func (op Opcode) X() uint8     { return uint8(op>>8) & 0xF }
func (op Opcode) Y() uint8     { return uint8(op>>4) & 0xF }
func (op Opcode) N() uint8     { return uint8(op) & 0xF }
func (op Opcode) NN() uint8    { return uint8(op) }
func (op Opcode) NNN() uint16  { return uint16(op) & 0xFFF }

type instr struct {
	mask uint16
	code uint16
	do   func(cpu *CPU)
	text string
}

// Operands in text:
//
//	%x register from bits 8-11
//	%y register from bits 4-7
//	%n 4-bit constant
//	%b 8-bit constant
//	%a 12-bit address
var itab = []instr{
	{0xFFFF, 0x0000, xhalt, "halt"},
	{0xFFFF, 0x00E0, xcls, "cls"},
	{0xFFFF, 0x00EE, xret, "ret"},
	{0xF000, 0x1000, xjp, "jp %a"},
	{0xF000, 0x2000, xcall, "call %a"},
	{0xF000, 0x3000, xse, "se %x, %b"},
	{0xF000, 0x4000, xsne, "sne %x, %b"},
	{0xF00F, 0x5000, xser, "se %x, %y"},
	{0xF000, 0x6000, xld, "ld %x, %b"},
	{0xF000, 0x7000, xadd, "add %x, %b"},
	{0xF00F, 0x8000, xldr, "ld %x, %y"},
	{0xF00F, 0x8001, xor, "or %x, %y"},
	{0xF00F, 0x8002, xand, "and %x, %y"},
	{0xF00F, 0x8003, xxor, "xor %x, %y"},
	{0xF00F, 0x8004, xaddr, "add %x, %y"},
	{0xF00F, 0x8005, xsub, "sub %x, %y"},
	{0xF00F, 0x8006, xshr, "shr %x, %y"}, // y is ignored
	{0xF00F, 0x8007, xsubn, "subn %x, %y"},
	{0xF00F, 0x800E, xshl, "shl %x, %y"}, // y is ignored
	{0xF00F, 0x9000, xsner, "sne %x, %y"},
	{0xF000, 0xA000, xldi, "ld i, %a"},
	{0xF000, 0xB000, xjpv0, "jp v0, %a"},
	{0xF000, 0xC000, xrnd, "rnd %x, %b"},
	{0xF000, 0xD000, xdrw, "drw %x, %y, %n"},
	{0xF0FF, 0xE09E, xskp, "skp %x"},
	{0xF0FF, 0xE0A1, xsknp, "sknp %x"},
	{0xF0FF, 0xF007, xlddt, "ld %x, dt"},
	{0xF0FF, 0xF00A, xldk, "ld %x, k"},
	{0xF0FF, 0xF015, xsetdt, "ld dt, %x"},
	{0xF0FF, 0xF018, xsetst, "ld st, %x"},
	{0xF0FF, 0xF01E, xaddi, "add i, %x"},
	{0xF0FF, 0xF029, xldf, "ld f, %x"},
	{0xF0FF, 0xF033, xldb, "ld b, %x"},
	{0xF0FF, 0xF055, xstore, "ld [i], %x"},
	{0xF0FF, 0xF065, xload, "ld %x, [i]"},
}

// classTab lists the itab entries for each opcode class.
var classTab [16][]*instr

func init() {
	for i := range itab {
		inst := &itab[i]
		c := inst.code >> 12
		classTab[c] = append(classTab[c], inst)
	}
}

// lookup returns the instruction for op, or nil if op is not an instruction.
func lookup(op Opcode) *instr {
	for _, inst := range classTab[op.Class()] {
		if uint16(op)&inst.mask == inst.code {
			return inst
		}
	}
	return nil
}

// lookupAsm returns the instructions with the given mnemonic.
func lookupAsm(op string) []*instr {
	var list []*instr
	for i := range itab {
		inst := &itab[i]
		if iop, _, _ := strings.Cut(inst.text, " "); iop == op {
			list = append(list, inst)
		}
	}
	return list
}
