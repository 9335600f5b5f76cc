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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 || s[0] != '0' {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123, #-1
func DecodeInt(s string) (int16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return int16(result), nil
}

// Nibble returns the i-th nibble of an instruction word, counting from the
// least significant end.
func Nibble(instruction uint16, i uint) uint8 {
	return uint8((instruction >> (i * 4)) & 0xF)
}

// Opcode class, bits 12-15
func Class(instruction uint16) uint8 {
	return Nibble(instruction, 3)
}

// Register field x, bits 8-11
func RegisterX(instruction uint16) uint8 {
	return Nibble(instruction, 2)
}

// Register field y, bits 4-7
func RegisterY(instruction uint16) uint8 {
	return Nibble(instruction, 1)
}

// Immediate byte kk, bits 0-7
func Immediate(instruction uint16) uint8 {
	return uint8(instruction & 0xFF)
}

// Address nnn, bits 0-11
func Address(instruction uint16) uint16 {
	return instruction & 0xFFF
}

// Operand nibble n, bits 0-3
func Operand(instruction uint16) uint8 {
	return Nibble(instruction, 0)
}
