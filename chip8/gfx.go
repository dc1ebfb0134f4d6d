// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "strings"

const (
	Width  = 64 // framebuffer columns
	Height = 32 // framebuffer rows
)

// A Framebuffer is the 64x32 monochrome display memory,
// indexed [row][column]. Every pixel is 0 or 1.
type Framebuffer [Height][Width]uint8

// Clear turns off every pixel.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Draw XORs sprite onto the framebuffer with its top left corner at (x, y).
// Each sprite byte is one 8-pixel row, most significant bit leftmost.
// Pixels past the right or bottom edge wrap around to the opposite edge.
// Draw reports whether any lit pixel was turned off.
func (fb *Framebuffer) Draw(x, y uint8, sprite []byte) (collided bool) {
	for row, bits := range sprite {
		ty := (int(y) + row) % Height
		for bit := 0; bit < 8; bit++ {
			if bits&(0x80>>bit) == 0 {
				continue
			}
			tx := (int(x) + bit) % Width
			if fb[ty][tx] == 1 {
				collided = true
			}
			fb[ty][tx] ^= 1
		}
	}
	return collided
}

// Row returns row y. The result aliases the framebuffer.
func (fb *Framebuffer) Row(y int) []uint8 {
	return fb[y][:]
}

// Pixel returns the pixel at column x, row y.
func (fb *Framebuffer) Pixel(x, y int) uint8 {
	return fb[y][x]
}

// Lit returns the number of pixels turned on.
func (fb *Framebuffer) Lit() int {
	n := 0
	for y := range fb {
		for _, p := range fb[y] {
			n += int(p)
		}
	}
	return n
}

// String returns the framebuffer as Height lines of '#' and '.'.
func (fb *Framebuffer) String() string {
	var b strings.Builder
	for y := range fb {
		for _, p := range fb[y] {
			if p != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
