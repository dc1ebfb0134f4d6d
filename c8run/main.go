// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// C8run runs a CHIP-8 program in the terminal.
//
// Usage:
//
//	c8run [-cpuprofile file] rom
//
// The rom argument is the name of a ROM file or of a built-in
// demonstration ROM (see c8rom -l).
//
// The keypad is the left-hand block of the keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   as   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
//
// Escape ends the program. Control-\ exits immediately.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"golang.org/x/term"
	"rsc.io/chip8/chip8"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpuprofile to `file`")

// tick is the time between instructions.
const tick = 2 * time.Millisecond

func usage() {
	fmt.Fprintf(os.Stderr, "usage: c8run [-cpuprofile file] rom\n")
	os.Exit(2)
}

func main() {
	log.SetPrefix("c8run: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}

	rom, err := readROM(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	cpu, err := chip8.New(rom)
	if err != nil {
		log.Fatal(err)
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Fatal("standard input is not a terminal")
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < chip8.Width || h < chip8.Height/2) {
		log.Fatalf("terminal is %dx%d, need at least %dx%d", w, h, chip8.Width, chip8.Height/2)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
	scr := newScreen(os.Stdout)
	fixup := func() {
		scr.close()
		term.Restore(fd, oldState)
	}
	defer fixup()

	keys := newKeypad(os.Stdin, func() {
		pprof.StopCPUProfile()
		fixup()
		os.Exit(0)
	})
	cpu.Keypad = keys
	cpu.Display = scr
	cpu.Buzzer = scr

	t := time.NewTicker(tick)
	defer t.Stop()
	if err := run(cpu, t.C); err != nil {
		// log.Fatal skips the deferred calls.
		pprof.StopCPUProfile()
		fixup()
		log.Fatal(err)
	}
}

// run executes one instruction per tick until the program halts,
// returning nil, or faults, returning the fault.
func run(cpu *chip8.CPU, ticks <-chan time.Time) error {
	for range ticks {
		if err := cpu.Tick(); err != nil {
			if err == chip8.ErrHalt {
				return nil
			}
			return err
		}
	}
	return nil
}

// readROM returns the contents of the named file,
// or else the built-in ROM with that name.
func readROM(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	lib, err1 := chip8.Builtin()
	if err1 != nil {
		return nil, err1
	}
	if rom, ok := lib.ROM(name); ok {
		return rom, nil
	}
	return nil, err
}
