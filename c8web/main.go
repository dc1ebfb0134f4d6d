// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build js && wasm

//go:generate cp $GOROOT/misc/wasm/wasm_exec.js .
//go:generate env GOOS=js GOARCH=wasm go build -o main.wasm

// C8web runs a built-in CHIP-8 program in the browser.
// The page selects the program with ?rom=name (default digits).
package main

import (
	"log"
	"net/url"
	"strings"
	"sync"
	"syscall/js"
	"time"

	"rsc.io/chip8/chip8"
)

var doc js.Value

// A keypad is a chip8.Keypad fed by keydown and keyup events.
type keypad struct {
	mu   sync.Mutex
	key  chip8.Key
	held bool
	wait chan chip8.Key // non-nil while WaitKey is blocked
}

func (k *keypad) Pressed() (chip8.Key, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key, k.held
}

// WaitKey waits for the next keydown event.
func (k *keypad) WaitKey() chip8.Key {
	c := make(chan chip8.Key, 1)
	k.mu.Lock()
	k.wait = c
	k.mu.Unlock()
	return <-c
}

func (k *keypad) press(key chip8.Key) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key, k.held = key, true
	if k.wait != nil {
		k.wait <- key
		k.wait = nil
	}
}

func (k *keypad) release() {
	k.mu.Lock()
	k.held = false
	k.mu.Unlock()
}

// A screen renders the framebuffer into a <pre> element.
type screen struct {
	pre js.Value
}

func (s *screen) Render(fb *chip8.Framebuffer) {
	s.pre.Set("textContent", strings.NewReplacer("#", "█", ".", " ").Replace(fb.String()))
}

func (s *screen) Tone(on bool) {
	s.pre.Get("classList").Call("toggle", "beep", on)
}

func main() {
	log.SetPrefix("c8web: ")
	log.SetFlags(0)

	doc = js.Global().Get("document")
	name := "digits"
	if u, err := url.Parse(js.Global().Get("location").Get("href").String()); err == nil {
		if n := u.Query().Get("rom"); n != "" {
			name = n
		}
	}
	lib, err := chip8.Builtin()
	if err != nil {
		log.Fatal(err)
	}
	rom, ok := lib.ROM(name)
	if !ok {
		log.Fatalf("unknown rom %q", name)
	}
	cpu, err := chip8.New(rom)
	if err != nil {
		log.Fatal(err)
	}

	keys := new(keypad)
	scr := &screen{pre: doc.Call("getElementById", "screen")}
	cpu.Keypad = keys
	cpu.Display = scr
	cpu.Buzzer = scr

	keydown := js.FuncOf(func(this js.Value, args []js.Value) any {
		e := args[0]
		key := e.Get("key").String()
		if key == "Escape" {
			key = "\033"
		}
		if len(key) != 1 {
			return nil
		}
		if k, ok := chip8.MapKey(key[0]); ok {
			e.Call("preventDefault")
			keys.press(k)
		}
		return nil
	})
	keyup := js.FuncOf(func(this js.Value, args []js.Value) any {
		keys.release()
		return nil
	})
	doc.Call("addEventListener", "keydown", keydown)
	doc.Call("addEventListener", "keyup", keyup)

	status := doc.Call("getElementById", "status")
	status.Set("textContent", name)

	t := time.NewTicker(2 * time.Millisecond)
	defer t.Stop()
	for range t.C {
		if err := cpu.Tick(); err != nil {
			if err == chip8.ErrHalt {
				status.Set("textContent", name+": halted")
			} else {
				status.Set("textContent", name+": "+err.Error())
			}
			break
		}
	}
	select {}
}
