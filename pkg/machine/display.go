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

package machine

import (
	"crypto/sha1"
	"fmt"
)

func (mc *MachineState) Clear() {
	for i := range mc.Display {
		mc.Display[i] = 0x00
	}
}

// draw XORs n rows from I into the byte column containing x. Sprites are
// snapped to 8 pixel columns; any sub-byte offset in x is discarded. VF is
// only ever raised here, never lowered.
func (mc *Machine) draw(x, y, n uint8) {
	state := &mc.State

	if len(state.Display) == 0 {
		return
	}

	stride := state.Width / 8

	for i := uint8(0); i < n; i++ {
		index := (int(x)/8 + stride*(int(y)+int(i))) % len(state.Display)
		row := mc.read(state.Registers.I + uint16(i))

		if state.Display[index]&row != 0 {
			state.Registers.V[REGISTER_FLAG] |= 0x1
		}

		state.Display[index] ^= row
	}
}

// Pixel reports whether the pixel at (x, y) is set. Coordinates outside the
// display read as unset.
func (mc *MachineState) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= mc.Width || y >= mc.Height {
		return false
	}

	index := (y*mc.Width + x) / 8

	if index >= len(mc.Display) {
		return false
	}

	return (mc.Display[index]>>(7-uint(x%8)))&0x1 == 1
}

// DisplayHash is the hex encoded SHA-1 of the packed display.
func (mc *MachineState) DisplayHash() string {
	return fmt.Sprintf("%x", sha1.Sum(mc.Display))
}
