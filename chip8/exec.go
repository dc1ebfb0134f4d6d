// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"fmt"
	"runtime"
	"time"
)

// Step runs up to n instruction cycles, stopping at the first error.
func (cpu *CPU) Step(n int) error {
	for ; n > 0; n-- {
		if err := cpu.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Tick runs one instruction cycle: it decrements the timers,
// then fetches, decodes, and executes the instruction at PC.
//
// Tick returns ErrHalt when the program has ended: PC is outside memory,
// the instruction is the zero word, or the user quit while the program
// was reading the keypad. Any other error is a *Fault, after which PC
// still addresses the faulting instruction.
func (cpu *CPU) Tick() (err error) {
	pc := cpu.PC
	if pc >= MemSize {
		return ErrHalt
	}
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(runtime.Error); ok {
				panic(e)
			}
			if e == ErrHalt {
				err = ErrHalt
				return
			}
			e1, ok := e.(error)
			if !ok {
				e1 = fmt.Errorf("%v", e)
			}
			cpu.PC = pc
			err = &Fault{PC: pc, Inst: cpu.Inst, Err: e1}
		}
	}()

	cpu.timers()
	cpu.Inst = 0
	op := Fetch(cpu.read(pc), cpu.read(pc+1))
	cpu.Inst = uint16(op)
	inst := lookup(op)
	if inst == nil {
		panic(ErrInst)
	}
	cpu.PC = pc + 2
	inst.do(cpu)
	return nil
}

func (cpu *CPU) timers() {
	if cpu.DT > 0 {
		cpu.DT--
	}
	if cpu.ST > 0 {
		cpu.ST--
		if cpu.ST == 0 && cpu.Buzzer != nil {
			cpu.Buzzer.Tone(false)
		}
	}
}

func (cpu *CPU) read(addr uint16) uint8 {
	val, err := cpu.Mem.Read(addr)
	if err != nil {
		panic(err)
	}
	return val
}

// addrI returns I+off, which must be a valid memory address.
func (cpu *CPU) addrI(off int) uint16 {
	a := int(cpu.I) + off
	if a >= MemSize {
		panic(fmt.Errorf("%w %#04x", ErrMem, a))
	}
	return uint16(a)
}

func (cpu *CPU) op() Opcode   { return Opcode(cpu.Inst) }
func (cpu *CPU) vx() *uint8   { return &cpu.V[cpu.op().X()] }
func (cpu *CPU) vy() uint8    { return cpu.V[cpu.op().Y()] }
func (cpu *CPU) setVF(b bool) { cpu.V[0xF] = b2u(b) }

func (cpu *CPU) skipIf(b bool) {
	if b {
		cpu.PC += 2
	}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (cpu *CPU) render() {
	if cpu.Display != nil {
		cpu.Display.Render(&cpu.FB)
	}
}

// quit abandons the program at the user's request.
func (cpu *CPU) quit() {
	cpu.PC = HaltPC
	panic(ErrHalt)
}

// flow control

func xhalt(cpu *CPU) {
	cpu.PC -= 2
	panic(ErrHalt)
}

func xjp(cpu *CPU) { cpu.PC = cpu.op().NNN() }

func xjpv0(cpu *CPU) { cpu.PC = cpu.op().NNN() + uint16(cpu.V[0]) }

// The stack holds the address of the call instruction itself;
// ret resumes at the instruction after it.

func xcall(cpu *CPU) {
	if err := cpu.Stack.Push(cpu.PC - 2); err != nil {
		panic(err)
	}
	cpu.PC = cpu.op().NNN()
}

func xret(cpu *CPU) {
	addr, err := cpu.Stack.Pop()
	if err != nil {
		panic(err)
	}
	cpu.PC = addr + 2
}

func xse(cpu *CPU)   { cpu.skipIf(*cpu.vx() == cpu.op().NN()) }
func xsne(cpu *CPU)  { cpu.skipIf(*cpu.vx() != cpu.op().NN()) }
func xser(cpu *CPU)  { cpu.skipIf(*cpu.vx() == cpu.vy()) }
func xsner(cpu *CPU) { cpu.skipIf(*cpu.vx() != cpu.vy()) }

// registers and arithmetic

func xld(cpu *CPU)  { *cpu.vx() = cpu.op().NN() }
func xadd(cpu *CPU) { *cpu.vx() += cpu.op().NN() }
func xldr(cpu *CPU) { *cpu.vx() = cpu.vy() }
func xor(cpu *CPU)  { *cpu.vx() |= cpu.vy() }
func xand(cpu *CPU) { *cpu.vx() &= cpu.vy() }
func xxor(cpu *CPU) { *cpu.vx() ^= cpu.vy() }

func xaddr(cpu *CPU) {
	sum := uint16(*cpu.vx()) + uint16(cpu.vy())
	*cpu.vx() = uint8(sum)
	cpu.setVF(sum > 0xFF)
}

func xsub(cpu *CPU) {
	x, y := *cpu.vx(), cpu.vy()
	*cpu.vx() = x - y
	cpu.setVF(x > y)
}

func xsubn(cpu *CPU) {
	x, y := *cpu.vx(), cpu.vy()
	*cpu.vx() = y - x
	cpu.setVF(y > x)
}

// The shifts set the flag before the result,
// so shifting VF leaves the shifted value in VF.

func xshr(cpu *CPU) {
	x := *cpu.vx()
	cpu.V[0xF] = x & 1
	*cpu.vx() = x >> 1
}

func xshl(cpu *CPU) {
	x := *cpu.vx()
	cpu.V[0xF] = x >> 7
	*cpu.vx() = x << 1
}

func xrnd(cpu *CPU) {
	if cpu.Rand == nil {
		cpu.Rand = NewRand(time.Now().UnixNano())
	}
	*cpu.vx() = cpu.Rand.Byte() & cpu.op().NN()
}

// address register and memory

func xldi(cpu *CPU)  { cpu.I = cpu.op().NNN() }
func xaddi(cpu *CPU) { cpu.I += uint16(*cpu.vx()) }

func xldf(cpu *CPU) {
	d := *cpu.vx()
	if d > 0xF {
		panic(fmt.Errorf("%w: %#02x", ErrFont, d))
	}
	cpu.I = glyphAddr(d)
}

func xldb(cpu *CPU) {
	x := *cpu.vx()
	cpu.Mem[cpu.addrI(0)] = x / 100
	cpu.Mem[cpu.addrI(1)] = x / 10 % 10
	cpu.Mem[cpu.addrI(2)] = x % 10
}

func xstore(cpu *CPU) {
	for r := 0; r <= int(cpu.op().X()); r++ {
		cpu.Mem[cpu.addrI(r)] = cpu.V[r]
	}
}

func xload(cpu *CPU) {
	for r := 0; r <= int(cpu.op().X()); r++ {
		cpu.V[r] = cpu.Mem[cpu.addrI(r)]
	}
}

// display

func xcls(cpu *CPU) {
	cpu.FB.Clear()
	cpu.render()
}

func xdrw(cpu *CPU) {
	var sprite [15]byte
	n := int(cpu.op().N())
	for row := 0; row < n; row++ {
		sprite[row] = cpu.Mem[cpu.addrI(row)]
	}
	cpu.setVF(cpu.FB.Draw(*cpu.vx(), cpu.vy(), sprite[:n]))
	cpu.render()
}

// keypad

func (cpu *CPU) pressed() (Key, bool) {
	if cpu.Keypad == nil {
		return 0, false
	}
	k, ok := cpu.Keypad.Pressed()
	if ok && k == KeyQuit {
		cpu.quit()
	}
	return k, ok
}

func xskp(cpu *CPU) {
	k, ok := cpu.pressed()
	cpu.skipIf(ok && uint8(k) == *cpu.vx())
}

func xsknp(cpu *CPU) {
	k, ok := cpu.pressed()
	cpu.skipIf(!ok || uint8(k) != *cpu.vx())
}

func xldk(cpu *CPU) {
	k := KeyQuit
	if cpu.Keypad != nil {
		k = cpu.Keypad.WaitKey()
	}
	if k == KeyQuit {
		cpu.quit()
	}
	*cpu.vx() = uint8(k)
}

// timers

func xlddt(cpu *CPU)  { *cpu.vx() = cpu.DT }
func xsetdt(cpu *CPU) { cpu.DT = *cpu.vx() }

func xsetst(cpu *CPU) {
	cpu.ST = *cpu.vx()
	if cpu.ST > 0 && cpu.Buzzer != nil {
		cpu.Buzzer.Tone(true)
	}
}
