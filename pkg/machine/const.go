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

const (
	MEMORY_SIZE = 4096
	MEMORY_MASK = 0x0FFF

	STACK_SIZE = 16
	KEY_COUNT  = 16

	REGISTER_COUNT = 16
	REGISTER_FLAG  = 0xF
)

const (
	MEMSPACE_FONT    uint16 = 0x0000
	MEMSPACE_PROGRAM uint16 = 0x0200

	// Largest image the loader accepts
	PROGRAM_SIZE = MEMORY_SIZE - int(MEMSPACE_PROGRAM)
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32

	MAX_DISPLAY_BYTES = 1 << 16
)

const (
	FONT_GLYPHS     = 16
	FONT_GLYPH_SIZE = 5
	FONT_SIZE       = FONT_GLYPHS * FONT_GLYPH_SIZE
)

const (
	OP_SYS  uint8 = 0x0
	OP_JP   uint8 = 0x1
	OP_CALL uint8 = 0x2
	OP_SEI  uint8 = 0x3
	OP_SNEI uint8 = 0x4
	OP_SER  uint8 = 0x5
	OP_LDI  uint8 = 0x6
	OP_ADDI uint8 = 0x7
	OP_ALU  uint8 = 0x8
	OP_SNER uint8 = 0x9
	OP_LDIX uint8 = 0xA
	OP_JPV0 uint8 = 0xB
	OP_RND  uint8 = 0xC
	OP_DRW  uint8 = 0xD
	OP_KEY  uint8 = 0xE
	OP_MISC uint8 = 0xF
)

// Sub-selectors of OP_SYS, low byte
const (
	SYS_CLS uint8 = 0xE0
	SYS_RET uint8 = 0xEE
)

// Sub-selectors of OP_ALU, low nibble
const (
	ALU_LD   uint8 = 0x0
	ALU_OR   uint8 = 0x1
	ALU_AND  uint8 = 0x2
	ALU_XOR  uint8 = 0x3
	ALU_ADD  uint8 = 0x4
	ALU_SUB  uint8 = 0x5
	ALU_SHR  uint8 = 0x6
	ALU_SUBN uint8 = 0x7
	ALU_SHL  uint8 = 0xE
)

// Sub-selectors of OP_KEY, low byte
const (
	KEY_SKP  uint8 = 0x9E
	KEY_SKNP uint8 = 0xA1
)

// Sub-selectors of OP_MISC, low byte
const (
	MISC_LD_DT  uint8 = 0x07
	MISC_LD_K   uint8 = 0x0A
	MISC_SET_DT uint8 = 0x15
	MISC_SET_ST uint8 = 0x18
	MISC_ADD_I  uint8 = 0x1E
	MISC_LD_F   uint8 = 0x29
	MISC_LD_B   uint8 = 0x33
	MISC_STORE  uint8 = 0x55
	MISC_LOAD   uint8 = 0x65
)

// Hexadecimal digit glyphs 0-F, installed at MEMSPACE_FONT on reset
var font = [FONT_SIZE]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Font returns a copy of the built-in glyph table.
func Font() [FONT_SIZE]byte {
	return font
}
