// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chip8 implements the CHIP-8 virtual machine:
// 4kB of memory, sixteen byte registers, a return stack,
// a 64x32 monochrome framebuffer, a hex keypad, and two timers.
//
// A host creates a CPU with [New], attaches a [Keypad], [Display],
// and optionally a [Buzzer], and calls [CPU.Tick] at a fixed rate
// until it returns an error. [ErrHalt] reports normal termination;
// any other error is a [*Fault].
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	MemSize     = 0x1000                // bytes of memory
	FontAddr    = 0x000                 // address of the font glyphs
	ProgramAddr = 0x200                 // address programs are loaded and started at
	MaxROMSize  = MemSize - ProgramAddr // largest loadable program
	StackDepth  = 16                    // return addresses held by the stack

	// HaltPC is the program counter left behind when the user quits.
	// It lies outside memory, so every later Tick reports ErrHalt.
	HaltPC = 0xFFFE
)

var (
	ErrHalt           = errors.New("halt")
	ErrMem            = errors.New("invalid memory access")
	ErrInst           = errors.New("unknown instruction")
	ErrFont           = errors.New("font index out of range")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrROMSize        = errors.New("rom too large")
)

// A Fault is a fatal error raised by the instruction Inst at address PC.
type Fault struct {
	PC   uint16
	Inst uint16
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc=%#04x inst=%04x: %v", f.PC, f.Inst, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// A Memory is the 4kB CHIP-8 address space.
type Memory [MemSize]byte

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) (uint8, error) {
	if addr >= MemSize {
		return 0, fmt.Errorf("%w %#04x", ErrMem, addr)
	}
	return m[addr], nil
}

// Write stores val at addr.
func (m *Memory) Write(addr uint16, val uint8) error {
	if addr >= MemSize {
		return fmt.Errorf("%w %#04x", ErrMem, addr)
	}
	m[addr] = val
	return nil
}

// A Stack holds the return addresses of active subroutine calls.
type Stack struct {
	addr [StackDepth]uint16
	sp   int
}

// Push saves addr on top of the stack.
func (s *Stack) Push(addr uint16) error {
	if s.sp >= len(s.addr) {
		return ErrStackOverflow
	}
	s.addr[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the address on top of the stack.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.addr[s.sp], nil
}

// Len returns the number of addresses on the stack.
func (s *Stack) Len() int { return s.sp }

// A Key is a keypad key, 0x0 through 0xF, or KeyQuit.
type Key uint8

// KeyQuit is reported by a Keypad in place of a key when the user
// asks to stop the program.
const KeyQuit Key = 0xFF

func (k Key) String() string {
	if k == KeyQuit {
		return "quit"
	}
	return fmt.Sprintf("%X", uint8(k))
}

// A Keypad reports the state of the hex keypad.
type Keypad interface {
	// Pressed returns the key currently held down, if any.
	Pressed() (Key, bool)
	// WaitKey blocks until a key is pressed and returns it.
	WaitKey() Key
}

// A Display shows the framebuffer.
// Render is called after every instruction that changes it.
// The framebuffer must not be retained or modified.
type Display interface {
	Render(fb *Framebuffer)
}

// A Rand is a source of random bytes.
type Rand interface {
	Byte() uint8
}

// A Buzzer sounds while the sound timer is running.
type Buzzer interface {
	Tone(on bool)
}

type mathRand struct{ r *rand.Rand }

func (m mathRand) Byte() uint8 { return uint8(m.r.Intn(256)) }

// NewRand returns a Rand using a pseudo-random sequence seeded with seed.
func NewRand(seed int64) Rand {
	return mathRand{rand.New(rand.NewSource(seed))}
}

// A CPU is a CHIP-8 virtual machine.
type CPU struct {
	V     [16]uint8 // registers; V[0xF] is the flag register
	I     uint16    // address register
	PC    uint16    // program counter
	DT    uint8     // delay timer
	ST    uint8     // sound timer
	Inst  uint16    // instruction being executed
	Stack Stack
	Mem   Memory
	FB    Framebuffer

	Keypad  Keypad
	Display Display
	Rand    Rand
	Buzzer  Buzzer
}

// New returns a CPU with the font set and rom loaded.
func New(rom []byte) (*CPU, error) {
	cpu := &CPU{Rand: NewRand(time.Now().UnixNano())}
	if err := cpu.Load(rom); err != nil {
		return nil, err
	}
	return cpu, nil
}

// Load resets the machine state and loads the font set and rom.
// The attached devices are kept.
func (cpu *CPU) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrROMSize, len(rom), MaxROMSize)
	}
	cpu.V = [16]uint8{}
	cpu.I = 0
	cpu.PC = ProgramAddr
	cpu.DT = 0
	cpu.ST = 0
	cpu.Inst = 0
	cpu.Stack = Stack{}
	cpu.Mem = Memory{}
	cpu.FB.Clear()
	copy(cpu.Mem[FontAddr:], font[:])
	copy(cpu.Mem[ProgramAddr:], rom)
	return nil
}
