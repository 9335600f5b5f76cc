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

func (mc *Machine) KeyPress(key uint8) {
	if key < KEY_COUNT {
		mc.State.Keyboard |= 1 << key
	}
}

func (mc *Machine) KeyRelease(key uint8) {
	if key < KEY_COUNT {
		mc.State.Keyboard &^= 1 << key
	}
}

// KeyHeld reports whether key is currently down.
func (mc *MachineState) KeyHeld(key uint8) bool {
	return key < KEY_COUNT && (mc.Keyboard>>key)&0x1 == 1
}

// Both timers count down once per step and stop at zero
func (mc *MachineState) tickTimers() {
	if mc.Registers.DT > 0 {
		mc.Registers.DT--
	}

	if mc.Registers.ST > 0 {
		mc.Registers.ST--
	}
}
