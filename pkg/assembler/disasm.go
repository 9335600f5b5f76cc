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

package assembler

import (
	"fmt"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

// Disassemble renders a single instruction word in the syntax accepted by
// AssembleChip8Source. Words without a canonical encoding are rendered as
// .WORD data so the output always reassembles to the same bytes.
func Disassemble(word uint16) string {
	x := encoding.RegisterX(word)
	y := encoding.RegisterY(word)
	n := encoding.Operand(word)
	kk := encoding.Immediate(word)
	nnn := encoding.Address(word)

	switch encoding.Class(word) {
	case machine.OP_SYS:
		switch word {
		case uint16(machine.SYS_CLS):
			return "CLS"
		case uint16(machine.SYS_RET):
			return "RET"
		}

		return fmt.Sprintf("SYS 0x%03X", nnn)

	case machine.OP_JP:
		return fmt.Sprintf("JP 0x%03X", nnn)

	case machine.OP_CALL:
		return fmt.Sprintf("CALL 0x%03X", nnn)

	case machine.OP_SEI:
		return fmt.Sprintf("SE V%X, 0x%02X", x, kk)

	case machine.OP_SNEI:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, kk)

	case machine.OP_SER:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}

	case machine.OP_LDI:
		return fmt.Sprintf("LD V%X, 0x%02X", x, kk)

	case machine.OP_ADDI:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, kk)

	case machine.OP_ALU:
		var mnemonic string

		switch n {
		case machine.ALU_LD:
			mnemonic = "LD"
		case machine.ALU_OR:
			mnemonic = "OR"
		case machine.ALU_AND:
			mnemonic = "AND"
		case machine.ALU_XOR:
			mnemonic = "XOR"
		case machine.ALU_ADD:
			mnemonic = "ADD"
		case machine.ALU_SUB:
			mnemonic = "SUB"
		case machine.ALU_SHR:
			mnemonic = "SHR"
		case machine.ALU_SUBN:
			mnemonic = "SUBN"
		case machine.ALU_SHL:
			mnemonic = "SHL"
		}

		if mnemonic != "" {
			return fmt.Sprintf("%s V%X, V%X", mnemonic, x, y)
		}

	case machine.OP_SNER:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}

	case machine.OP_LDIX:
		return fmt.Sprintf("LD I, 0x%03X", nnn)

	case machine.OP_JPV0:
		return fmt.Sprintf("JP V0, 0x%03X", nnn)

	case machine.OP_RND:
		return fmt.Sprintf("RND V%X, 0x%02X", x, kk)

	case machine.OP_DRW:
		return fmt.Sprintf("DRW V%X, V%X, 0x%X", x, y, n)

	case machine.OP_KEY:
		switch kk {
		case machine.KEY_SKP:
			return fmt.Sprintf("SKP V%X", x)
		case machine.KEY_SKNP:
			return fmt.Sprintf("SKNP V%X", x)
		}

	case machine.OP_MISC:
		format := ""

		switch kk {
		case machine.MISC_LD_DT:
			format = "LD V%X, DT"
		case machine.MISC_LD_K:
			format = "LD V%X, K"
		case machine.MISC_SET_DT:
			format = "LD DT, V%X"
		case machine.MISC_SET_ST:
			format = "LD ST, V%X"
		case machine.MISC_ADD_I:
			format = "ADD I, V%X"
		case machine.MISC_LD_F:
			format = "LD F, V%X"
		case machine.MISC_LD_B:
			format = "LD B, V%X"
		case machine.MISC_STORE:
			format = "LD [I], V%X"
		case machine.MISC_LOAD:
			format = "LD V%X, [I]"
		}

		if format != "" {
			return fmt.Sprintf(format, x)
		}
	}

	return fmt.Sprintf(".WORD 0x%04X", word)
}
