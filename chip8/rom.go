// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"
)

//go:embed roms.txtar
var romsArchive []byte

// A Library is a named collection of ROM images,
// stored as a txtar archive.
//
// Each archive file name may be followed by k=v attributes.
// A file whose name ends in .asm holds assembly source (see Assemble).
// Any other file holds a binary image, base64-encoded if the
// attribute base64=1 is present.
// A ROM's name is its file name without the extension.
type Library struct {
	roms map[string][]byte
	src  map[string]string // assembly source, by ROM name
}

// ParseLibrary parses a library archive.
func ParseLibrary(archive []byte) (*Library, error) {
	lib := &Library{roms: make(map[string][]byte), src: make(map[string]string)}
	ar := txtar.Parse(archive)
	for _, file := range ar.Files {
		f := strings.Fields(file.Name)
		if len(f) == 0 {
			return nil, fmt.Errorf("empty txtar file name")
		}
		file0 := f[0]
		b64 := false
		for _, arg := range f[1:] {
			k, v, ok := strings.Cut(arg, "=")
			if !ok || k != "base64" {
				return nil, fmt.Errorf("%s: invalid txtar k=v: %s", file0, arg)
			}
			i, err := strconv.ParseInt(v, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid txtar k=v: %s", file0, arg)
			}
			b64 = i != 0
		}

		name := strings.TrimSuffix(file0, path.Ext(file0))
		if _, dup := lib.roms[name]; dup {
			return nil, fmt.Errorf("%s: duplicate rom %s", file0, name)
		}
		var rom []byte
		asm := path.Ext(file0) == ".asm"
		switch {
		case asm:
			var err error
			rom, err = Assemble(string(file.Data))
			if err != nil {
				return nil, fmt.Errorf("%s: %v", file0, err)
			}
		case b64:
			var err error
			rom, err = base64.StdEncoding.DecodeString(strings.Join(strings.Fields(string(file.Data)), ""))
			if err != nil {
				return nil, fmt.Errorf("%s: decoding: %v", file0, err)
			}
		default:
			rom = file.Data
		}
		if err := lib.Add(name, rom); err != nil {
			return nil, fmt.Errorf("%s: %w", file0, err)
		}
		if asm {
			lib.src[name] = string(file.Data)
		}
	}
	return lib, nil
}

// Builtin returns the library of demonstration ROMs compiled into the package.
func Builtin() (*Library, error) {
	return ParseLibrary(romsArchive)
}

// Add adds rom to the library under name, replacing any ROM of that name.
func (l *Library) Add(name string, rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrROMSize, len(rom), MaxROMSize)
	}
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("invalid rom name %q", name)
	}
	if l.roms == nil {
		l.roms = make(map[string][]byte)
	}
	l.roms[name] = bytes.Clone(rom)
	delete(l.src, name)
	return nil
}

// AddSource adds the program assembled from src under name.
// Format keeps the source rather than the binary image.
func (l *Library) AddSource(name, src string) error {
	rom, err := Assemble(src)
	if err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}
	if err := l.Add(name, rom); err != nil {
		return err
	}
	if l.src == nil {
		l.src = make(map[string]string)
	}
	l.src[name] = src
	return nil
}

// ROM returns the image of the named ROM.
func (l *Library) ROM(name string) ([]byte, bool) {
	rom, ok := l.roms[name]
	return rom, ok
}

// Names returns the ROM names in sorted order.
func (l *Library) Names() []string {
	var names []string
	for name := range l.roms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format returns the library as a txtar archive that ParseLibrary accepts.
func (l *Library) Format() []byte {
	ar := new(txtar.Archive)
	for _, name := range l.Names() {
		if src, ok := l.src[name]; ok {
			if !strings.HasSuffix(src, "\n") {
				src += "\n"
			}
			ar.Files = append(ar.Files, txtar.File{Name: name + ".asm", Data: []byte(src)})
			continue
		}
		enc := base64.StdEncoding.EncodeToString(l.roms[name])
		var data []byte
		for len(enc) > 76 {
			data = append(data, enc[:76]...)
			data = append(data, '\n')
			enc = enc[76:]
		}
		data = append(data, enc...)
		data = append(data, '\n')
		ar.Files = append(ar.Files, txtar.File{Name: name + ".ch8 base64=1", Data: data})
	}
	return txtar.Format(ar)
}
