// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"io"

	"github.com/lassandro/gochip8/pkg/machine"
)

// drawFrame writes the display two pixel rows per terminal line.
func drawFrame(w *bufio.Writer, state *machine.MachineState) {
	w.WriteString("\033[H")

	for y := 0; y < state.Height; y += 2 {
		for x := 0; x < state.Width; x++ {
			top, bottom := state.Pixel(x, y), state.Pixel(x, y+1)

			switch {
			case top && bottom:
				w.WriteRune('█')
			case top:
				w.WriteRune('▀')
			case bottom:
				w.WriteRune('▄')
			default:
				w.WriteByte(' ')
			}
		}

		w.WriteString("\r\n")
	}
}

type screen struct {
	out  *bufio.Writer
	hash string
}

func newScreen(w io.Writer) *screen {
	return &screen{out: bufio.NewWriter(w)}
}

// Draw redraws the terminal only when the display contents changed.
func (s *screen) Draw(state *machine.MachineState) error {
	hash := state.DisplayHash()

	if hash == s.hash {
		return nil
	}

	s.hash = hash
	drawFrame(s.out, state)

	return s.out.Flush()
}

// Invalidate forces the next Draw to repaint, after the debugger has
// written over the terminal.
func (s *screen) Invalidate() {
	s.hash = ""
	s.out.WriteString("\033[2J")
}
