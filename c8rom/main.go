// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// C8rom manages CHIP-8 ROM libraries in the txtar format
// used by the chip8 package.
//
// Usage:
//
//	c8rom [-o out.txtar] file...
//	c8rom -x [-o dir] lib.txtar
//	c8rom -l [rom]
//
// By default c8rom packs the named files into a library written to
// standard output or the -o file. A file ending in .asm is assembly
// source and is stored as text; any other file is a binary ROM image.
//
// The -x flag inverts the operation: lib.txtar is a library, and -o is
// the name of a directory to write the ROM images into (default _roms).
//
// The -l flag prints a disassembly of rom, which is a ROM file or the
// name of a built-in ROM. With no argument it lists the built-in ROMs.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/chip8/chip8"
)

var (
	outfile = flag.String("o", "", "write output to `file` (default standard output)")
	xflag   = flag.Bool("x", false, "extract txtar library")
	lflag   = flag.Bool("l", false, "list rom")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: c8rom [-o out.txtar] file...\n")
	fmt.Fprintf(os.Stderr, "       c8rom -x [-o dir] lib.txtar\n")
	fmt.Fprintf(os.Stderr, "       c8rom -l [rom]\n")
	os.Exit(2)
}

func main() {
	log.SetPrefix("c8rom: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()

	switch {
	case *xflag && *lflag:
		usage()
	case *xflag:
		if len(args) != 1 {
			usage()
		}
		if *outfile == "" {
			*outfile = "_roms"
		}
		if err := extract(args[0], *outfile); err != nil {
			log.Fatal(err)
		}
	case *lflag:
		if len(args) > 1 {
			usage()
		}
		w := bufio.NewWriter(os.Stdout)
		var err error
		if len(args) == 0 {
			err = listBuiltin(w)
		} else {
			err = list(w, args[0])
		}
		if err != nil {
			log.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			log.Fatal(err)
		}
	default:
		if len(args) == 0 {
			usage()
		}
		data, err := pack(args)
		if err != nil {
			log.Fatal(err)
		}
		if *outfile == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(*outfile, data, 0666); err != nil {
			log.Fatal(err)
		}
	}
}

// romName returns the library name for the file.
func romName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// pack returns a library holding the named files.
func pack(files []string) ([]byte, error) {
	lib := new(chip8.Library)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		name := romName(file)
		if _, ok := lib.ROM(name); ok {
			return nil, fmt.Errorf("%s: duplicate rom %s", file, name)
		}
		if filepath.Ext(file) == ".asm" {
			err = lib.AddSource(name, string(data))
		} else {
			err = lib.Add(name, data)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return lib.Format(), nil
}

// extract writes the ROMs in the library file to dir.
func extract(file, dir string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	lib, err := chip8.ParseLibrary(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for _, name := range lib.Names() {
		rom, _ := lib.ROM(name)
		if err := os.WriteFile(filepath.Join(dir, name+".ch8"), rom, 0666); err != nil {
			return err
		}
	}
	return nil
}

func listBuiltin(w io.Writer) error {
	lib, err := chip8.Builtin()
	if err != nil {
		return err
	}
	for _, name := range lib.Names() {
		rom, _ := lib.ROM(name)
		fmt.Fprintf(w, "%s\t%d bytes\n", name, len(rom))
	}
	return nil
}

// list writes a disassembly of the named rom to w.
func list(w io.Writer, name string) error {
	rom, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		lib, err1 := chip8.Builtin()
		if err1 != nil {
			return err1
		}
		if r, ok := lib.ROM(name); ok {
			rom, err = r, nil
		}
	}
	if err != nil {
		return err
	}
	cpu, err := chip8.New(rom)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	end := chip8.ProgramAddr + len(rom)
	for pc := chip8.ProgramAddr; pc < end; pc += 2 {
		if pc+1 == end {
			fmt.Fprintf(w, "%#04x  %02x    db %#02x\n", pc, rom[pc-chip8.ProgramAddr], rom[pc-chip8.ProgramAddr])
			break
		}
		hi, lo := cpu.Mem[pc], cpu.Mem[pc+1]
		text, err := cpu.Disasm(uint16(pc))
		if err != nil {
			text = fmt.Sprintf("db %#02x, %#02x", hi, lo)
		}
		fmt.Fprintf(w, "%#04x  %02x%02x  %s\n", pc, hi, lo, text)
	}
	return nil
}
