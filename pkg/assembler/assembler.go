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
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

func parseDirective(token *Token) DirectiveType {
	if token.Type != TOKEN_DIRECTIVE {
		return DIRECTIVE_INVALID
	}

	return directives[strings.ToUpper(token.Value)]
}

func parseInstruction(token *Token) InstructionType {
	if token.Type != TOKEN_IDENT {
		return INSTRUCTION_INVALID
	}

	return mnemonics[strings.ToUpper(token.Value)]
}

// Hex literals must carry a 0x prefix, anything else is read as base 10
// with an optional leading '#'. Negative decimals down to the signed minimum
// are stored as two's complement.
func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	limit := uint32(1) << bits

	if strings.HasPrefix(token.Value, "0x") || strings.HasPrefix(token.Value, "0X") {
		result, err := encoding.DecodeHex(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		if uint32(result) >= limit {
			return 0, &OversizedLiteralError{token.Position, limit - 1, result}
		}

		return result, nil
	}

	result, err := encoding.DecodeInt(token.Value)

	if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	if int32(result) >= int32(limit) || int32(result) < -int32(limit/2) {
		return 0, &OversizedLiteralError{token.Position, limit - 1, result}
	}

	return uint16(result) & uint16(limit-1), nil
}

func parseRegister(token *Token) (uint8, bool) {
	ident := token.Value

	if len(ident) != 2 || (ident[0] != 'V' && ident[0] != 'v') {
		return 0, false
	}

	reg, err := strconv.ParseUint(ident[1:], 16, 8)

	if err != nil {
		return 0, false
	}

	return uint8(reg), true
}

func parseOperand(token *Token) (OperandType, uint8) {
	switch token.Type {
	case TOKEN_LITERAL:
		return OPERAND_LITERAL, 0
	case TOKEN_IDENT:
		break
	default:
		return OPERAND_INVALID, 0
	}

	if reg, ok := parseRegister(token); ok {
		return OPERAND_REGISTER, reg
	}

	if operand, exists := operandNames[strings.ToUpper(token.Value)]; exists {
		return operand, 0
	}

	if strings.ContainsAny(token.Value, "[]") {
		return OPERAND_INVALID, 0
	}

	return OPERAND_LABEL, 0
}

// tokenizeLine splits one source line into tokens, stopping at a comment.
func tokenizeLine(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int
	var tokenType TokenType = TOKEN_NONE
	var lineStart = cursor.Byte

	// Position of a separator still waiting for its operand
	var comma *Cursor

	flush := func() {
		if builder.Len() > 0 {
			tokens = append(tokens, Token{
				Type:  tokenType,
				Value: builder.String(),
				Position: Cursor{
					Line:     cursor.Line,
					Column:   tokenStart,
					Byte:     lineStart + int64(tokenStart-1),
					Size:     int64(builder.Len()),
					LineByte: cursor.LineByte,
				},
			})

			builder.Reset()
			comma = nil
		}

		tokenType = TOKEN_NONE
	}

scan:
	for column, char := range line {
		cursor.Column = column + 1

		// Character errors point at the character alone
		cursor.Byte = lineStart + int64(column)
		cursor.Size = 1

		if tokenType == TOKEN_NONE {
			tokenStart = cursor.Column
		}

		switch {
		// Whitespace
		case unicode.IsSpace(char):
			flush()
			continue

		// Comments
		case char == ';':
			break scan

		// Operand Separator
		case char == ',':
			flush()

			if comma != nil || len(tokens) == 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

			position := cursor
			comma = &position
			continue

		// Assembler Directives
		case char == '.':
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_DIRECTIVE
			} else {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

		// Base 10 Literal (i.e. #42)
		case char == '#':
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			} else {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

		// Numeric Literal
		case char <= unicode.MaxASCII && unicode.IsDigit(char):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			}

		// Numeric Sign
		case char == '-':
			if tokenType != TOKEN_LITERAL {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

		// Underscore'd and bracketed identifiers (i.e. [I])
		case char == '_' || char == '[' || char == ']':
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_IDENT
			} else if tokenType != TOKEN_IDENT {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

		// Identifier
		case unicode.IsLetter(char):
			if char > unicode.MaxASCII {
				errs = append(errs, &OversizedCharacterError{cursor})
			}

			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_IDENT
			}

		default:
			if char > unicode.MaxASCII {
				errs = append(errs, &OversizedCharacterError{cursor})
			} else {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}
		}

		builder.WriteRune(char)
	}

	flush()

	if comma != nil {
		errs = append(errs, &UnexpectedCharacterError{*comma, ','})
	}

	return
}

func pack(class uint8, x, y, n uint16) uint16 {
	return uint16(class)<<12 | (x&0xF)<<8 | (y&0xF)<<4 | (n & 0xF)
}

func packByte(class uint8, x, kk uint16) uint16 {
	return uint16(class)<<12 | (x&0xF)<<8 | (kk & 0xFF)
}

func packAddress(class uint8, nnn uint16) uint16 {
	return uint16(class)<<12 | (nnn & 0xFFF)
}

type labelRef struct {
	Label    string
	Addr     uint16
	Size     LiteralType
	Position Cursor
}

type assembly struct {
	result     []byte
	program    uint32
	end        uint32
	labels     map[string]uint16
	labelRefs  []labelRef
	errs       []error
	overflowed bool
}

func (asm *assembly) fail(err error) {
	asm.errs = append(asm.errs, err)
}

func (asm *assembly) overflow() bool {
	asm.fail(&OversizedBinaryError{})
	asm.overflowed = true
	return true
}

func (asm *assembly) advance(n uint32) bool {
	if asm.program+n > machine.MEMORY_SIZE {
		return false
	}

	asm.program += n

	if asm.program > asm.end {
		asm.end = asm.program
	}

	return true
}

func (asm *assembly) put(b byte) bool {
	offset := asm.program - uint32(ORIGIN_MIN)

	if !asm.advance(1) {
		return false
	}

	asm.result[offset] = b
	return true
}

// Instructions are stored big-endian
func (asm *assembly) emit(word uint16) bool {
	if asm.program+2 > machine.MEMORY_SIZE {
		return false
	}

	return asm.put(byte(word>>8)) && asm.put(byte(word))
}

func (asm *assembly) arguments(keyword *Token, operands []Token, required int) bool {
	if count := len(operands); count != required {
		asm.fail(&InvalidNumArgumentsError{keyword.Position, required, count})
		return false
	}

	return true
}

func (asm *assembly) register(token *Token) uint16 {
	if operand, reg := parseOperand(token); operand == OPERAND_REGISTER {
		return uint16(reg)
	}

	if token.Type != TOKEN_IDENT {
		asm.fail(
			&InvalidOperandError{
				token.Position,
				[]TokenType{TOKEN_IDENT},
				token.Type,
			},
		)
	} else {
		asm.fail(&InvalidRegisterError{token.Position})
	}

	return 0
}

func (asm *assembly) literal(token *Token, bits LiteralType) uint16 {
	if token.Type != TOKEN_LITERAL {
		asm.fail(
			&InvalidOperandError{
				token.Position,
				[]TokenType{TOKEN_LITERAL},
				token.Type,
			},
		)

		return 0
	}

	literal, err := parseLiteral(token, bits)

	if err != nil {
		asm.fail(err)
	}

	return literal
}

// address accepts a literal or a label. Labels are always patched in after
// the whole source has been read, so forward references need no special
// handling.
func (asm *assembly) address(token *Token, at uint16, bits LiteralType) uint16 {
	switch operand, _ := parseOperand(token); operand {
	case OPERAND_LITERAL:
		return asm.literal(token, bits)
	case OPERAND_LABEL:
		asm.labelRefs = append(
			asm.labelRefs,
			labelRef{token.Value, at, bits, token.Position},
		)

		return 0
	}

	asm.fail(
		&InvalidOperandError{
			token.Position,
			[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
			token.Type,
		},
	)

	return 0
}

func (asm *assembly) encodeLoad(dst *Token, src *Token, at uint16) uint16 {
	dstType, _ := parseOperand(dst)
	srcType, _ := parseOperand(src)

	switch dstType {
	case OPERAND_REGISTER:
		x := asm.register(dst)

		switch srcType {
		case OPERAND_REGISTER:
			return pack(machine.OP_ALU, x, asm.register(src), uint16(machine.ALU_LD))
		case OPERAND_DELAY:
			return packByte(machine.OP_MISC, x, uint16(machine.MISC_LD_DT))
		case OPERAND_KEY:
			return packByte(machine.OP_MISC, x, uint16(machine.MISC_LD_K))
		case OPERAND_INDIRECT:
			return packByte(machine.OP_MISC, x, uint16(machine.MISC_LOAD))
		}

		return packByte(machine.OP_LDI, x, asm.literal(src, LITERAL_BYTE))

	case OPERAND_INDEX:
		return packAddress(machine.OP_LDIX, asm.address(src, at, LITERAL_ADDRESS))

	case OPERAND_DELAY:
		return packByte(machine.OP_MISC, asm.register(src), uint16(machine.MISC_SET_DT))

	case OPERAND_SOUND:
		return packByte(machine.OP_MISC, asm.register(src), uint16(machine.MISC_SET_ST))

	case OPERAND_FONT:
		return packByte(machine.OP_MISC, asm.register(src), uint16(machine.MISC_LD_F))

	case OPERAND_BCD:
		return packByte(machine.OP_MISC, asm.register(src), uint16(machine.MISC_LD_B))

	case OPERAND_INDIRECT:
		return packByte(machine.OP_MISC, asm.register(src), uint16(machine.MISC_STORE))
	}

	// Reports the bad destination
	asm.register(dst)
	return 0
}

func (asm *assembly) encode(instruction InstructionType, keyword *Token, operands []Token) uint16 {
	at := uint16(asm.program)

	var scratch uint16 = 0

	switch instruction {
	// CLS  |0000|0000|1110|0000| Clear display
	// RET  |0000|0000|1110|1110| Return from subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_CLS, INSTRUCTION_RET:
		asm.arguments(keyword, operands, 0)

		if instruction == INSTRUCTION_CLS {
			scratch = uint16(machine.SYS_CLS)
		} else {
			scratch = uint16(machine.SYS_RET)
		}

	// SYS  |0000|nnn           | Machine routine, ignored
	// CALL |0010|nnn           | Call subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_SYS, INSTRUCTION_CALL:
		if !asm.arguments(keyword, operands, 1) {
			break
		}

		class := machine.OP_SYS
		if instruction == INSTRUCTION_CALL {
			class = machine.OP_CALL
		}

		scratch = packAddress(class, asm.address(&operands[0], at, LITERAL_ADDRESS))

	// JP   |0001|nnn           | Jump
	// JP   |1011|nnn           | Jump to V0 + nnn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_JP:
		if len(operands) == 2 {
			if operand, reg := parseOperand(&operands[0]); operand != OPERAND_REGISTER || reg != 0 {
				asm.fail(&InvalidRegisterError{operands[0].Position})
			}

			scratch = packAddress(
				machine.OP_JPV0, asm.address(&operands[1], at, LITERAL_ADDRESS),
			)

			break
		}

		if !asm.arguments(keyword, operands, 1) {
			break
		}

		scratch = packAddress(machine.OP_JP, asm.address(&operands[0], at, LITERAL_ADDRESS))

	// SE   |0011|x   |kk       | Skip if Vx == kk
	// SNE  |0100|x   |kk       | Skip if Vx != kk
	// SE   |0101|x   |y   |0000| Skip if Vx == Vy
	// SNE  |1001|x   |y   |0000| Skip if Vx != Vy
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_SE, INSTRUCTION_SNE:
		if !asm.arguments(keyword, operands, 2) {
			break
		}

		x := asm.register(&operands[0])

		if operand, _ := parseOperand(&operands[1]); operand == OPERAND_REGISTER {
			class := machine.OP_SER
			if instruction == INSTRUCTION_SNE {
				class = machine.OP_SNER
			}

			scratch = pack(class, x, asm.register(&operands[1]), 0)
		} else {
			class := machine.OP_SEI
			if instruction == INSTRUCTION_SNE {
				class = machine.OP_SNEI
			}

			scratch = packByte(class, x, asm.literal(&operands[1], LITERAL_BYTE))
		}

	// LD   |0110|x   |kk       | Vx = kk
	// LD   |1000|x   |y   |0000| Vx = Vy
	// LD   |1010|nnn           | I = nnn
	// LD   |1111|x   |....|....| Timer, key, font, BCD and block forms
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_LD:
		if !asm.arguments(keyword, operands, 2) {
			break
		}

		scratch = asm.encodeLoad(&operands[0], &operands[1], at)

	// ADD  |0111|x   |kk       | Vx += kk
	// ADD  |1000|x   |y   |0100| Vx += Vy
	// ADD  |1111|x   |0001|1110| I += Vx
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_ADD:
		if !asm.arguments(keyword, operands, 2) {
			break
		}

		if operand, _ := parseOperand(&operands[0]); operand == OPERAND_INDEX {
			scratch = packByte(
				machine.OP_MISC,
				asm.register(&operands[1]),
				uint16(machine.MISC_ADD_I),
			)

			break
		}

		x := asm.register(&operands[0])

		if operand, _ := parseOperand(&operands[1]); operand == OPERAND_REGISTER {
			scratch = pack(
				machine.OP_ALU, x, asm.register(&operands[1]), uint16(machine.ALU_ADD),
			)
		} else {
			scratch = packByte(
				machine.OP_ADDI, x, asm.literal(&operands[1], LITERAL_BYTE),
			)
		}

	// OR   |1000|x   |y   |0001|
	// AND  |1000|x   |y   |0010|
	// XOR  |1000|x   |y   |0011|
	// SUB  |1000|x   |y   |0101|
	// SUBN |1000|x   |y   |0111|
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_OR,
		INSTRUCTION_AND,
		INSTRUCTION_XOR,
		INSTRUCTION_SUB,
		INSTRUCTION_SUBN:
		if !asm.arguments(keyword, operands, 2) {
			break
		}

		var selector uint8

		switch instruction {
		case INSTRUCTION_OR:
			selector = machine.ALU_OR
		case INSTRUCTION_AND:
			selector = machine.ALU_AND
		case INSTRUCTION_XOR:
			selector = machine.ALU_XOR
		case INSTRUCTION_SUB:
			selector = machine.ALU_SUB
		case INSTRUCTION_SUBN:
			selector = machine.ALU_SUBN
		}

		scratch = pack(
			machine.OP_ALU,
			asm.register(&operands[0]),
			asm.register(&operands[1]),
			uint16(selector),
		)

	// SHR  |1000|x   |y   |0110| Vy defaults to Vx
	// SHL  |1000|x   |y   |1110| Vy defaults to Vx
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_SHR, INSTRUCTION_SHL:
		if count := len(operands); count != 1 && count != 2 {
			asm.fail(&InvalidNumArgumentsError{keyword.Position, 2, count})
			break
		}

		x := asm.register(&operands[0])
		y := x

		if len(operands) == 2 {
			y = asm.register(&operands[1])
		}

		selector := machine.ALU_SHR
		if instruction == INSTRUCTION_SHL {
			selector = machine.ALU_SHL
		}

		scratch = pack(machine.OP_ALU, x, y, uint16(selector))

	// RND  |1100|x   |kk       | Vx = random & kk
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_RND:
		if !asm.arguments(keyword, operands, 2) {
			break
		}

		scratch = packByte(
			machine.OP_RND,
			asm.register(&operands[0]),
			asm.literal(&operands[1], LITERAL_BYTE),
		)

	// DRW  |1101|x   |y   |n   | Draw n rows from I at (Vx, Vy)
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_DRW:
		if !asm.arguments(keyword, operands, 3) {
			break
		}

		scratch = pack(
			machine.OP_DRW,
			asm.register(&operands[0]),
			asm.register(&operands[1]),
			asm.literal(&operands[2], LITERAL_NIBBLE),
		)

	// SKP  |1110|x   |1001|1110| Skip if key Vx held
	// SKNP |1110|x   |1010|0001| Skip if any key above Vx held
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case INSTRUCTION_SKP, INSTRUCTION_SKNP:
		if !asm.arguments(keyword, operands, 1) {
			break
		}

		selector := machine.KEY_SKP
		if instruction == INSTRUCTION_SKNP {
			selector = machine.KEY_SKNP
		}

		scratch = packByte(machine.OP_KEY, asm.register(&operands[0]), uint16(selector))
	}

	return scratch
}

// statement assembles one tokenized line and reports whether assembly
// should stop.
func (asm *assembly) statement(tokens []Token, symtable *SymTable, lineByte int64) bool {
	if len(tokens) == 0 {
		return false
	}

	instruction := parseInstruction(&tokens[0])
	directive := parseDirective(&tokens[0])

	if instruction == INSTRUCTION_INVALID && directive == DIRECTIVE_INVALID {
		label := &tokens[0]

		if operand, _ := parseOperand(label); operand != OPERAND_LABEL {
			asm.fail(&UnknownIdentifierError{label.Position, label.Value})
			return false
		}

		if _, exists := asm.labels[label.Value]; !exists {
			asm.labels[label.Value] = uint16(asm.program)
		} else {
			asm.fail(&RedeclaredLabelError{label.Position, label.Value})
		}

		// No need to assemble label-only statements
		if tokens = tokens[1:]; len(tokens) == 0 {
			return false
		}

		instruction = parseInstruction(&tokens[0])
		directive = parseDirective(&tokens[0])
	}

	keyword := &tokens[0]
	operands := tokens[1:]

	if instruction == INSTRUCTION_INVALID && directive == DIRECTIVE_INVALID {
		asm.fail(&UnknownIdentifierError{keyword.Position, keyword.Value})
		return false
	}

	if symtable != nil && directive != DIRECTIVE_ORIG && directive != DIRECTIVE_END {
		symtable.Symbols[uint16(asm.program)] = lineByte
	}

	switch directive {
	// .END
	case DIRECTIVE_END:
		asm.arguments(keyword, operands, 0)
		return true

	// .ORIG addr
	case DIRECTIVE_ORIG:
		if !asm.arguments(keyword, operands, 1) {
			break
		}

		if operands[0].Type != TOKEN_LITERAL {
			asm.literal(&operands[0], LITERAL_WORD)
			break
		}

		origin, err := parseLiteral(&operands[0], LITERAL_WORD)

		if err != nil {
			asm.fail(err)
			break
		}

		if origin < ORIGIN_MIN || origin > ORIGIN_MAX {
			asm.fail(&InvalidOriginError{operands[0].Position, origin})
			break
		}

		asm.program = uint32(origin)

	// .BYTE b[, b...]
	case DIRECTIVE_BYTE:
		if len(operands) == 0 {
			asm.fail(&InvalidNumArgumentsError{keyword.Position, 1, 0})
			break
		}

		for i := range operands {
			if !asm.put(byte(asm.literal(&operands[i], LITERAL_BYTE))) {
				return asm.overflow()
			}
		}

	// .WORD w|label
	case DIRECTIVE_WORD:
		if !asm.arguments(keyword, operands, 1) {
			break
		}

		at := uint16(asm.program)

		if !asm.emit(asm.address(&operands[0], at, LITERAL_WORD)) {
			return asm.overflow()
		}

	// .BLKB n
	case DIRECTIVE_BLKB:
		if !asm.arguments(keyword, operands, 1) {
			break
		}

		if !asm.advance(uint32(asm.literal(&operands[0], LITERAL_ADDRESS))) {
			return asm.overflow()
		}
	}

	if instruction != INSTRUCTION_INVALID {
		if !asm.emit(asm.encode(instruction, keyword, operands)) {
			return asm.overflow()
		}
	}

	return false
}

// AssembleChip8Source assembles a program image whose first byte belongs at
// MEMSPACE_PROGRAM. The image runs up to the highest address written or
// reserved. When symtable is non-nil its maps must already be allocated.
func AssembleChip8Source(input io.ReadSeeker, symtable *SymTable) (result []byte, errs []error) {
	asm := assembly{
		result:  make([]byte, machine.PROGRAM_SIZE),
		program: uint32(ORIGIN_MIN),
		end:     uint32(ORIGIN_MIN),
		labels:  make(map[string]uint16),
		errs:    make([]error, 0),
	}

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1, Column: 0, Size: 0, Byte: 0}

	// Process:
	// - Tokenize line
	// - Assemble line, unless tokenizing it failed
	for scanner.Scan() {
		line := scanner.Text()
		cursor.Size = int64(len(line))

		tokens, lineErrs := tokenizeLine(line, cursor)

		var stop bool

		if len(lineErrs) > 0 {
			asm.errs = append(asm.errs, lineErrs...)
		} else {
			stop = asm.statement(tokens, symtable, cursor.LineByte)
		}

		cursor.Line++
		cursor.Byte += int64(len(line) + 1)
		cursor.LineByte += int64(len(line) + 1)

		if stop {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		asm.fail(err)
	}

	if asm.overflowed {
		return nil, asm.errs
	}

	// Label
	// - Resolve label references
	// - Add labels to symbol table
	for _, ref := range asm.labelRefs {
		addr, exists := asm.labels[ref.Label]

		if !exists {
			asm.fail(&UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		offset := uint32(ref.Addr - ORIGIN_MIN)

		if ref.Size == LITERAL_WORD {
			asm.result[offset] = byte(addr >> 8)
		} else {
			asm.result[offset] |= byte(addr>>8) & 0x0F
		}

		asm.result[offset+1] = byte(addr)
	}

	if symtable != nil {
		for label, addr := range asm.labels {
			symtable.Labels[addr] = label
		}
	}

	return asm.result[:asm.end-uint32(ORIGIN_MIN)], asm.errs
}
