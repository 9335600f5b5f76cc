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
	"io"
	"math/bits"
	"math/rand"
	"time"

	"github.com/lassandro/gochip8/pkg/encoding"
)

// Init allocates a display of the given resolution and resets the machine.
// Any previously allocated display is replaced.
func (mc *Machine) Init(width, height int) error {
	if width <= 0 || height <= 0 || width%8 != 0 {
		return &InvalidDisplayError{width, height}
	}

	if height > MAX_DISPLAY_BYTES || width/8 > MAX_DISPLAY_BYTES/height {
		return &ResourceExhaustedError{(width / 8) * height}
	}

	mc.State.Display = make([]byte, (width*height)/8)
	mc.State.Width = width
	mc.State.Height = height
	mc.State.Reset()

	return nil
}

// Teardown releases the display. Calling it again, or without a prior Init,
// does nothing.
func (mc *Machine) Teardown() {
	mc.State.Display = nil
	mc.State.Width = 0
	mc.State.Height = 0
}

func (mc *MachineState) Reset() {
	for i := range mc.Memory {
		mc.Memory[i] = 0x00
	}

	copy(mc.Memory[MEMSPACE_FONT:], font[:])

	for i := range mc.Stack {
		mc.Stack[i] = 0x0000
	}

	mc.Registers = Registers{}
	mc.Registers.PC = MEMSPACE_PROGRAM
	mc.Registers.SP = 0

	mc.Keyboard = 0
	mc.KeyWait = false
	mc.KeyLatch = 0

	// Display buffer is kept, only its contents are cleared
	mc.Clear()

	mc.Ticks = 0
}

// LoadBin reads a program image and places it at MEMSPACE_PROGRAM. The
// machine is reset only once the whole image has been read successfully.
func (mc *Machine) LoadBin(reader io.Reader) error {
	image, err := io.ReadAll(io.LimitReader(reader, int64(PROGRAM_SIZE)+1))

	if err != nil {
		return err
	}

	// Reading stops one byte past the limit, the reader is never drained
	if len(image) > PROGRAM_SIZE {
		return &OversizedProgramError{len(image)}
	}

	mc.State.Reset()
	copy(mc.State.Memory[MEMSPACE_PROGRAM:], image)

	return nil
}

func (mc *Machine) read(addr uint16) byte {
	addr &= MEMORY_MASK

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr uint16, value byte) {
	addr &= MEMORY_MASK

	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

// The stack pointer is a raw 8-bit counter and wraps freely; only the slot
// index is reduced to the stack size.
func (mc *Machine) push(value uint16) {
	mc.State.Registers.SP++
	mc.State.Stack[mc.State.Registers.SP%STACK_SIZE] = value
}

func (mc *Machine) pop() uint16 {
	result := mc.State.Stack[mc.State.Registers.SP%STACK_SIZE]
	mc.State.Registers.SP--
	return result
}

func (mc *Machine) random() uint8 {
	if mc.Random == nil {
		mc.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return uint8(mc.Random.Intn(256))
}

func flag(condition bool) uint8 {
	if condition {
		return 1
	}

	return 0
}

// Vx = Vy - Vx, VF set only for a strictly positive signed result
func (mc *Machine) subn(x, y uint8) {
	regs := &mc.State.Registers

	result := int8(regs.V[y] - regs.V[x])
	regs.V[x] = uint8(result)
	regs.V[REGISTER_FLAG] = flag(result > 0)
}

func (mc *Machine) waitKey(x uint8) {
	state := &mc.State

	if !mc.Quirks.KeyWaitLatch {
		// Compared against itself, so nothing is ever newly pressed and the
		// instruction repeats forever
		held := state.Keyboard
		pressed := (held ^ held) & held

		if pressed != 0 {
			state.Registers.V[x] = uint8(bits.TrailingZeros16(pressed)) + 1
		} else {
			state.Registers.PC -= 2
		}

		return
	}

	if !state.KeyWait {
		state.KeyWait = true
		state.KeyLatch = state.Keyboard
		state.Registers.PC -= 2
		return
	}

	pressed := (state.Keyboard ^ state.KeyLatch) & state.Keyboard
	state.KeyLatch = state.Keyboard

	if pressed == 0 {
		state.Registers.PC -= 2
		return
	}

	state.Registers.V[x] = uint8(bits.TrailingZeros16(pressed))
	state.KeyWait = false
}

func (mc *Machine) Step() {
	state := &mc.State
	regs := &state.Registers

	instruction := uint16(mc.read(regs.PC))<<8 | uint16(mc.read(regs.PC+1))
	regs.PC += 2

	x := encoding.RegisterX(instruction)
	y := encoding.RegisterY(instruction)
	kk := encoding.Immediate(instruction)

	switch encoding.Class(instruction) {
	// CLS  |0000|0000|1110|0000| Clear display
	// RET  |0000|0000|1110|1110| Return from subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SYS:
		switch kk {
		case SYS_CLS:
			state.Clear()
		case SYS_RET:
			regs.PC = mc.pop()
		}

	// JP   |0001|nnn           | Jump
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_JP:
		regs.PC = encoding.Address(instruction)

	// CALL |0010|nnn           | Call subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_CALL:
		mc.push(regs.PC)
		regs.PC = encoding.Address(instruction)

	// SE   |0011|x   |kk       | Skip if Vx == kk
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SEI:
		if regs.V[x] == kk {
			regs.PC += 2
		}

	// SNE  |0100|x   |kk       | Skip if Vx != kk
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SNEI:
		if regs.V[x] != kk {
			regs.PC += 2
		}

	// SE   |0101|x   |y   |0000| Skip if Vx == Vy
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SER:
		if regs.V[x] == regs.V[y] {
			regs.PC += 2
		}

	// LD   |0110|x   |kk       | Load immediate
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		regs.V[x] = kk

	// ADD  |0111|x   |kk       | Add immediate, no carry
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_ADDI:
		regs.V[x] += kk

	// LD   |1000|x   |y   |0000| Vx = Vy
	// OR   |1000|x   |y   |0001| Vx |= Vy
	// AND  |1000|x   |y   |0010| Vx &= Vy
	// XOR  |1000|x   |y   |0011| Vx ^= Vy
	// ADD  |1000|x   |y   |0100| Vx += Vy, VF = carry
	// SUB  |1000|x   |y   |0101| Vx -= Vy, VF = signed result > 0
	// SHR  |1000|x   |y   |0110| Vx = Vy >> 1, VF = lsb, then SUBN
	// SUBN |1000|x   |y   |0111| Vx = Vy - Vx, VF = signed result > 0
	// SHL  |1000|x   |y   |1110| Vx = Vy << 1, VF = msb
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_ALU:
		switch encoding.Operand(instruction) {
		case ALU_LD:
			regs.V[x] = regs.V[y]

		case ALU_OR:
			regs.V[x] |= regs.V[y]

		case ALU_AND:
			regs.V[x] &= regs.V[y]

		case ALU_XOR:
			regs.V[x] ^= regs.V[y]

		case ALU_ADD:
			result := uint16(regs.V[x]) + uint16(regs.V[y])
			regs.V[x] = uint8(result)
			regs.V[REGISTER_FLAG] = flag(result > 0xFF)

		case ALU_SUB:
			result := int8(regs.V[x] - regs.V[y])
			regs.V[x] = uint8(result)
			regs.V[REGISTER_FLAG] = flag(result > 0)

		case ALU_SHR:
			regs.V[REGISTER_FLAG] = regs.V[y] & 0x1
			regs.V[x] = regs.V[y] >> 1

			if !mc.Quirks.ShiftNoFallthrough {
				mc.subn(x, y)
			}

		case ALU_SUBN:
			mc.subn(x, y)

		case ALU_SHL:
			regs.V[REGISTER_FLAG] = (regs.V[y] >> 7) & 0x1
			regs.V[x] = regs.V[y] << 1
		}

	// SNE  |1001|x   |y   |0000| Skip if Vx != Vy
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SNER:
		if regs.V[x] != regs.V[y] {
			regs.PC += 2
		}

	// LD   |1010|nnn           | I = nnn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_LDIX:
		regs.I = encoding.Address(instruction)

	// JP   |1011|nnn           | Jump to V0 + nnn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_JPV0:
		regs.PC = uint16(regs.V[0]) + encoding.Address(instruction)

	// RND  |1100|x   |kk       | Vx = random & kk
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_RND:
		regs.V[x] = mc.random() & kk

	// DRW  |1101|x   |y   |n   | Draw n sprite rows from I at (Vx, Vy)
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_DRW:
		mc.draw(regs.V[x], regs.V[y], encoding.Operand(instruction))

	// SKP  |1110|x   |1001|1110| Skip if key Vx held
	// SKNP |1110|x   |1010|0001| Skip if any key above Vx held
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_KEY:
		switch kk {
		case KEY_SKP:
			if (state.Keyboard>>regs.V[x])&0x1 == 1 {
				regs.PC += 2
			}
		case KEY_SKNP:
			if (state.Keyboard>>regs.V[x])&^0x1 != 0 {
				regs.PC += 2
			}
		}

	// LD   |1111|x   |0000|0111| Vx = DT
	// LD   |1111|x   |0000|1010| Wait for key into Vx
	// LD   |1111|x   |0001|0101| DT = Vx
	// LD   |1111|x   |0001|1000| ST = Vx
	// ADD  |1111|x   |0001|1110| I += Vx
	// LD   |1111|x   |0010|1001| I = glyph address of Vx
	// LD   |1111|x   |0011|0011| BCD of Vx at I, I+1, I+2
	// LD   |1111|x   |0101|0101| Store V0..Vx at I, I += x + 1
	// LD   |1111|x   |0110|0101| Load V0..Vx from I
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_MISC:
		switch kk {
		case MISC_LD_DT:
			regs.V[x] = regs.DT

		case MISC_LD_K:
			mc.waitKey(x)

		case MISC_SET_DT:
			regs.DT = regs.V[x]

		case MISC_SET_ST:
			regs.ST = regs.V[x]

		case MISC_ADD_I:
			regs.I += uint16(regs.V[x])

		case MISC_LD_F:
			regs.I = MEMSPACE_FONT + uint16(regs.V[x])*FONT_GLYPH_SIZE

		case MISC_LD_B:
			value := regs.V[x]
			mc.write(regs.I, (value/100)%10)
			mc.write(regs.I+1, (value/10)%10)
			mc.write(regs.I+2, value%10)

		case MISC_STORE:
			for i := uint16(0); i <= uint16(x); i++ {
				mc.write(regs.I+i, regs.V[i])
			}

			regs.I += uint16(x) + 1

		case MISC_LOAD:
			// I is left where it was
			for i := uint16(0); i <= uint16(x); i++ {
				regs.V[i] = mc.read(regs.I + i)
			}
		}
	}

	state.Ticks++
	state.tickTimers()

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}
