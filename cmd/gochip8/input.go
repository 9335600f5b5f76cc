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
	"time"

	"github.com/lassandro/gochip8/pkg/machine"
)

// Terminals only report presses, so a key counts as held until
// KEY_HOLD has passed since its last press.
const KEY_HOLD = 150 * time.Millisecond

const KEY_ESCAPE = 0x1B

//     1 2 3 4        1 2 3 C
//     q w e r   ->   4 5 6 D
//     a s d f        7 8 9 E
//     z x c v        A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type keypad struct {
	pressed [machine.KEY_COUNT]time.Time
}

// Feed applies raw terminal input to the machine keyboard. It returns
// false when a lone escape was read.
func (kp *keypad) Feed(mc *machine.Machine, input []byte, now time.Time) bool {
	for i, b := range input {
		if b == KEY_ESCAPE {
			if i == len(input)-1 {
				return false
			}

			// Escape sequence (arrows, function keys), drop the rest
			break
		}

		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}

		key, ok := keymap[b]

		if !ok {
			continue
		}

		kp.pressed[key] = now
		mc.KeyPress(key)
	}

	return true
}

// Expire releases every key whose hold window has run out.
func (kp *keypad) Expire(mc *machine.Machine, now time.Time) {
	for key, at := range kp.pressed {
		if at.IsZero() || now.Sub(at) < KEY_HOLD {
			continue
		}

		kp.pressed[key] = time.Time{}
		mc.KeyRelease(uint8(key))
	}
}
