// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

// keymap lays the hex keypad
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// over the left-hand block of a QWERTY keyboard.
var keymap = map[byte]Key{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	'\033': KeyQuit,
}

// MapKey returns the keypad key for the keyboard character c.
// Upper- and lower-case letters map to the same key; escape maps to KeyQuit.
func MapKey(c byte) (Key, bool) {
	if 'A' <= c && c <= 'Z' {
		c += 'a' - 'A'
	}
	k, ok := keymap[c]
	return k, ok
}
