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
	"fmt"
)

type Registers struct {
	V  [REGISTER_COUNT]uint8
	I  uint16
	PC uint16

	// Points at the last pushed frame, zero when empty
	SP uint8

	DT uint8
	ST uint8
}

type MachineState struct {
	Registers Registers
	Stack     [STACK_SIZE]uint16
	Memory    [MEMORY_SIZE]byte

	// Packed row-major bitmap, one bit per pixel, MSB leftmost
	Display []byte
	Width   int
	Height  int

	// Bit n set while key n is held
	Keyboard uint16

	// Instructions executed since reset
	Ticks uint64

	// Fx0A bookkeeping, only used with Quirks.KeyWaitLatch
	KeyWait  bool
	KeyLatch uint16
}

// Quirks selects between reproducing the reference interpreter exactly and
// the conventional CHIP-8 behaviour. The zero value is the reference.
type Quirks struct {
	// Stop 8xy6 after the shift instead of continuing into the 8xy7 effect.
	ShiftNoFallthrough bool

	// Let Fx0A complete once a key is pressed that was not held when the
	// wait began. Without it Fx0A rewinds forever.
	KeyWaitLatch bool
}

// Random supplies the bytes consumed by Cxkk. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	State    MachineState
	Quirks   Quirks
	Random   Random
	Debugger MachineDebugger
}

type InvalidDisplayError struct {
	Width  int
	Height int
}

func (err *InvalidDisplayError) Error() string {
	return fmt.Sprintf(
		"Invalid display resolution %dx%d (width must be a positive "+
			"multiple of 8, height must be positive)",
		err.Width,
		err.Height,
	)
}

type ResourceExhaustedError struct {
	Requested int
}

func (err *ResourceExhaustedError) Error() string {
	return fmt.Sprintf(
		"Display exceeds allocation limit\n\twant:<=%d\n\thave:%d",
		MAX_DISPLAY_BYTES,
		err.Requested,
	)
}

// Size counts the bytes read before loading stopped, so the image is at
// least that large.
type OversizedProgramError struct {
	Size int
}

func (err *OversizedProgramError) Error() string {
	return fmt.Sprintf(
		"Program exceeds available memory\n\twant:<=%d\n\thave:>=%d",
		PROGRAM_SIZE,
		err.Size,
	)
}
