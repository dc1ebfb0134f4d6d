// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"io"
	"log"
	"sync"
	"time"

	"rsc.io/chip8/chip8"
)

// hold is how long a key counts as pressed after its byte arrives.
// Terminals report key presses but not releases.
const hold = 100 * time.Millisecond

// A keypad is a chip8.Keypad reading raw terminal input.
type keypad struct {
	input chan chip8.Key
	key   chip8.Key
	until time.Time
}

// newKeypad starts a goroutine reading keys from r.
// It calls abort if the user types control-\.
func newKeypad(r io.Reader, abort func()) *keypad {
	k := &keypad{input: make(chan chip8.Key, 100)}
	go func() {
		buf := make([]byte, 100)
		for {
			n, err := r.Read(buf)
			for _, c := range buf[:n] {
				if c == 0x1c {
					abort()
				}
				if key, ok := chip8.MapKey(c); ok {
					k.input <- key
				}
			}
			if err == io.EOF {
				k.input <- chip8.KeyQuit
				return
			}
			if err != nil {
				log.Fatalf("reading stdin: %v", err)
			}
		}
	}()
	return k
}

func (k *keypad) press(key chip8.Key) {
	k.key = key
	k.until = time.Now().Add(hold)
}

func (k *keypad) Pressed() (chip8.Key, bool) {
Loop:
	for {
		select {
		default:
			break Loop
		case key := <-k.input:
			k.press(key)
		}
	}
	if k.key == chip8.KeyQuit {
		return k.key, true
	}
	if time.Now().After(k.until) {
		return 0, false
	}
	return k.key, true
}

// WaitKey waits for the next key typed. Keys typed earlier are
// discarded, except that a pending quit is returned at once.
func (k *keypad) WaitKey() chip8.Key {
	k.Pressed()
	if k.key == chip8.KeyQuit {
		return k.key
	}
	key := <-k.input
	k.press(key)
	return key
}

// A screen draws the framebuffer on a terminal, two pixel rows
// per line of text, using half-block characters.
type screen struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closed bool
}

var blocks = [4]string{" ", "▀", "▄", "█"}

func newScreen(w io.Writer) *screen {
	s := &screen{w: bufio.NewWriter(w)}
	s.w.WriteString("\033[?25l\033[2J")
	s.w.Flush()
	return s
}

func (s *screen) Render(fb *chip8.Framebuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.w.WriteString("\033[H")
	for y := 0; y < chip8.Height; y += 2 {
		top, bot := fb.Row(y), fb.Row(y+1)
		for x := range top {
			s.w.WriteString(blocks[top[x]|bot[x]<<1])
		}
		s.w.WriteString("\r\n")
	}
	s.w.Flush()
}

func (s *screen) Tone(on bool) {
	if !on {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.w.WriteString("\a")
	s.w.Flush()
}

// close restores the cursor below the last frame.
func (s *screen) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.w.WriteString("\033[?25h\r\n")
	s.w.Flush()
}
