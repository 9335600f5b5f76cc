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

package assembler_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/assembler"
)

type testCase struct {
	Name     string
	Input    string
	Output   map[uint16]byte
	SymTable *assembler.SymTable
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	var symtarget *assembler.SymTable = nil

	if test.SymTable != nil {
		symtarget = assembler.NewSymTable("")
	}

	result, errs := assembler.AssembleChip8Source(
		strings.NewReader(test.Input), symtarget,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	for i, have := range result {
		addr := uint16(0x200 + i)
		want, exists := test.Output[addr]

		if exists && have != want {
			t.Fatalf(
				"Instruction encoding mismatch\n"+
					"want:%#02x (test.Output[%#04x])\n"+
					"have:%#02x",
				want,
				addr,
				have,
			)
		} else if !exists && have != 0 {
			t.Fatalf(
				"Unexpected byte\n"+
					"want:0x00\n"+
					"have:%#02x (result[%#04x])",
				have,
				addr,
			)
		}
	}

	for addr, want := range test.Output {
		if int(addr)-0x200 >= len(result) {
			t.Fatalf(
				"Image too short\n"+
					"want:%#02x (test.Output[%#04x])\n"+
					"have:<end of image at %#04x>",
				want,
				addr,
				0x200+len(result),
			)
		}
	}

	if test.SymTable == nil {
		return
	}

	if !reflect.DeepEqual(test.SymTable.Symbols, symtarget.Symbols) {
		t.Fatalf(
			"Symtable encoding mismatch\n"+
				"want:%v (test.SymTable.Symbols)\n"+
				"have:%v",
			test.SymTable.Symbols,
			symtarget.Symbols,
		)
	}

	if !reflect.DeepEqual(test.SymTable.Labels, symtarget.Labels) {
		t.Fatalf(
			"Symtable encoding mismatch\n"+
				"want:%v (test.SymTable.Labels)\n"+
				"have:%v",
			test.SymTable.Labels,
			symtarget.Labels,
		)
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	file := strings.NewReader(test.Input)

	_, errs := assembler.AssembleChip8Source(file, nil)

	if test.Error == nil {
		panic("Fail case missing error value")
	}

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if len(errs) > 1 {
		errTypes := make([]reflect.Type, 0, len(errs))
		for _, err := range errs {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			errs[0],
		)
	}

	if _, positioned := errs[0].(assembler.TokenError); !positioned {
		if _, oversized := errs[0].(*assembler.OversizedBinaryError); !oversized {
			t.Fatalf("%T carries no source position", errs[0])
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

// CLS  |0000|0000|1110|0000| Clear display
// RET  |0000|0000|1110|1110| Return from subroutine
// SYS  |0000|nnn           | Machine routine
// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestSystem(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "CLS",
			Input:  `CLS`,
			Output: map[uint16]byte{0x200: 0x00, 0x201: 0xE0},
		},
		{
			Name:   "RET",
			Input:  `ret`,
			Output: map[uint16]byte{0x200: 0x00, 0x201: 0xEE},
		},
		{
			Name:   "SYS",
			Input:  `SYS 0x123`,
			Output: map[uint16]byte{0x200: 0x01, 0x201: 0x23},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "CLS Operand",
			Input: `CLS V0`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "SYS Missing",
			Input: `SYS`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "SYS Register",
			Input: `SYS V0`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "SYS Oversized",
			Input: `SYS 0x1000`,
			Error: &assembler.OversizedLiteralError{},
		},
	})
}

// JP   |0001|nnn           | Jump
// CALL |0010|nnn           | Call subroutine
// JP   |1011|nnn           | Jump to V0 + nnn
// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestJump(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "JP",
			Input:  `JP 0x2A4`,
			Output: map[uint16]byte{0x200: 0x12, 0x201: 0xA4},
		},
		{
			Name:   "JP Decimal",
			Input:  `JP #512`,
			Output: map[uint16]byte{0x200: 0x12, 0x201: 0x00},
		},
		{
			Name:   "JP V0",
			Input:  `JP V0, 0x300`,
			Output: map[uint16]byte{0x200: 0xB3, 0x201: 0x00},
		},
		{
			Name:   "CALL",
			Input:  `CALL 0x300`,
			Output: map[uint16]byte{0x200: 0x23, 0x201: 0x00},
		},
		{
			Name: "JP Label Backward",
			Input: `LOOP CLS
			        JP LOOP`,
			Output: map[uint16]byte{
				0x200: 0x00, 0x201: 0xE0,
				0x202: 0x12, 0x203: 0x00,
			},
		},
		{
			Name: "CALL Label Forward",
			Input: `CALL SUBR
			        SUBR RET`,
			Output: map[uint16]byte{
				0x200: 0x22, 0x201: 0x02,
				0x202: 0x00, 0x203: 0xEE,
			},
		},
		{
			Name: "JP V0 Label",
			Input: `.ORIG 0x3F0
			        TABLE JP V0, TABLE`,
			Output: map[uint16]byte{0x3F0: 0xB3, 0x3F1: 0xF0},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "JP Missing",
			Input: `JP`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "JP Too Many",
			Input: `JP V0, 0x300, 1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "JP Offset Register",
			Input: `JP V1, 0x300`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "JP Unknown Label",
			Input: `JP NOWHERE`,
			Error: &assembler.UnknownLabelError{},
		},
		{
			Name:  "JP Oversized",
			Input: `JP 4096`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "CALL Register",
			Input: `CALL V2`,
			Error: &assembler.InvalidOperandError{},
		},
	})
}

// SE   |0011|x   |kk       | Skip if Vx == kk
// SNE  |0100|x   |kk       | Skip if Vx != kk
// SE   |0101|x   |y   |0000| Skip if Vx == Vy
// SNE  |1001|x   |y   |0000| Skip if Vx != Vy
// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestSkip(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "SE Byte",
			Input:  `SE V1, 0x42`,
			Output: map[uint16]byte{0x200: 0x31, 0x201: 0x42},
		},
		{
			Name:   "SE Register",
			Input:  `SE V1, V2`,
			Output: map[uint16]byte{0x200: 0x51, 0x201: 0x20},
		},
		{
			Name:   "SNE Byte",
			Input:  `SNE VA, #66`,
			Output: map[uint16]byte{0x200: 0x4A, 0x201: 0x42},
		},
		{
			Name:   "SNE Register",
			Input:  `sne v1, vf`,
			Output: map[uint16]byte{0x200: 0x91, 0x201: 0xF0},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "SE Literal Register",
			Input: `SE 0x42, V1`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "SE Oversized",
			Input: `SE V1, 256`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "SE Unknown Register",
			Input: `SE VG, 1`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "SNE Missing",
			Input: `SNE V1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestLoad(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "LD Byte",
			Input:  `LD V1, 0x42`,
			Output: map[uint16]byte{0x200: 0x61, 0x201: 0x42},
		},
		{
			Name:   "LD Register",
			Input:  `LD V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x20},
		},
		{
			Name:   "LD I",
			Input:  `LD I, 0x300`,
			Output: map[uint16]byte{0x200: 0xA3, 0x201: 0x00},
		},
		{
			Name: "LD I Label",
			Input: `DATA .BYTE 0xAA
			        LD I, DATA`,
			Output: map[uint16]byte{0x200: 0xAA, 0x201: 0xA2, 0x202: 0x00},
		},
		{
			Name:   "LD Vx DT",
			Input:  `LD V3, DT`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x07},
		},
		{
			Name:   "LD Vx K",
			Input:  `LD V3, K`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x0A},
		},
		{
			Name:   "LD DT Vx",
			Input:  `LD DT, V3`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x15},
		},
		{
			Name:   "LD ST Vx",
			Input:  `LD ST, V3`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x18},
		},
		{
			Name:   "LD F Vx",
			Input:  `LD F, V3`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x29},
		},
		{
			Name:   "LD B Vx",
			Input:  `LD B, V3`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x33},
		},
		{
			Name:   "LD [I] Vx",
			Input:  `LD [I], V3`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x55},
		},
		{
			Name:   "LD Vx [I]",
			Input:  `ld v3, [i]`,
			Output: map[uint16]byte{0x200: 0xF3, 0x201: 0x65},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "LD DT Literal",
			Input: `LD DT, 5`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "LD Literal Destination",
			Input: `LD 5, V1`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "LD Label Source",
			Input: `LD V1, DATA`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "LD Broken Indirect",
			Input: `LD [I, V1`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "LD Unprefixed Hex",
			Input: `LD V1, x2A`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "LD Malformed Literal",
			Input: `LD V1, 12ab`,
			Error: &assembler.InvalidLiteralError{},
		},
		{
			Name:  "LD Malformed Hex",
			Input: `LD V1, 0xZZ`,
			Error: &assembler.InvalidLiteralError{},
		},
		{
			Name:  "LD Missing",
			Input: `LD V1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "ADD Byte",
			Input:  `ADD V1, 5`,
			Output: map[uint16]byte{0x200: 0x71, 0x201: 0x05},
		},
		{
			Name:   "ADD Negative",
			Input:  `ADD V1, #-1`,
			Output: map[uint16]byte{0x200: 0x71, 0x201: 0xFF},
		},
		{
			Name:   "ADD Register",
			Input:  `ADD V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x24},
		},
		{
			Name:   "ADD I",
			Input:  `ADD I, V2`,
			Output: map[uint16]byte{0x200: 0xF2, 0x201: 0x1E},
		},
		{
			Name:   "OR",
			Input:  `OR V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x21},
		},
		{
			Name:   "AND",
			Input:  `AND V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x22},
		},
		{
			Name:   "XOR",
			Input:  `XOR V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x23},
		},
		{
			Name:   "SUB",
			Input:  `SUB V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x25},
		},
		{
			Name:   "SUBN",
			Input:  `SUBN V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x27},
		},
		{
			Name:   "SHR",
			Input:  `SHR V1`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x16},
		},
		{
			Name:   "SHR Source",
			Input:  `SHR V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x26},
		},
		{
			Name:   "SHL",
			Input:  `SHL V1`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x1E},
		},
		{
			Name:   "SHL Source",
			Input:  `SHL V1, V2`,
			Output: map[uint16]byte{0x200: 0x81, 0x201: 0x2E},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "ADD Negative Oversized",
			Input: `ADD V1, #-129`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "ADD I Literal",
			Input: `ADD I, 5`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "OR Literal",
			Input: `OR V1, 5`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "SHR Missing",
			Input: `SHR`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "SHL Too Many",
			Input: `SHL V1, V2, V3`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// RND  |1100|x   |kk       | Vx = random & kk
// DRW  |1101|x   |y   |n   | Draw n rows from I at (Vx, Vy)
// SKP  |1110|x   |1001|1110| Skip if key Vx held
// SKNP |1110|x   |1010|0001| Skip if any key above Vx held
// ---- [ _ _ _ _ _ _ _ _ _ ]
func TestMisc(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "RND",
			Input:  `RND V1, 0xFF`,
			Output: map[uint16]byte{0x200: 0xC1, 0x201: 0xFF},
		},
		{
			Name:   "DRW",
			Input:  `DRW V1, V2, 5`,
			Output: map[uint16]byte{0x200: 0xD1, 0x201: 0x25},
		},
		{
			Name:   "DRW Hex",
			Input:  `DRW V1, V2, 0xF`,
			Output: map[uint16]byte{0x200: 0xD1, 0x201: 0x2F},
		},
		{
			Name:   "SKP",
			Input:  `SKP V4`,
			Output: map[uint16]byte{0x200: 0xE4, 0x201: 0x9E},
		},
		{
			Name:   "SKNP",
			Input:  `SKNP V4`,
			Output: map[uint16]byte{0x200: 0xE4, 0x201: 0xA1},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "DRW Oversized",
			Input: `DRW V1, V2, 16`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "DRW Missing",
			Input: `DRW V1, V2`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "SKP Literal",
			Input: `SKP 4`,
			Error: &assembler.InvalidOperandError{},
		},
	})
}

func TestDirectives(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ORIG",
			Input: `.ORIG 0x300
			        CLS`,
			Output: map[uint16]byte{0x300: 0x00, 0x301: 0xE0},
		},
		{
			Name:   "BYTE",
			Input:  `.BYTE 1, 2, 0xFF`,
			Output: map[uint16]byte{0x200: 0x01, 0x201: 0x02, 0x202: 0xFF},
		},
		{
			Name:   "WORD",
			Input:  `.WORD 0x1234`,
			Output: map[uint16]byte{0x200: 0x12, 0x201: 0x34},
		},
		{
			Name: "WORD Label",
			Input: `.WORD HERE
			        HERE CLS`,
			Output: map[uint16]byte{
				0x200: 0x02, 0x201: 0x02,
				0x202: 0x00, 0x203: 0xE0,
			},
		},
		{
			Name: "BLKB",
			Input: `.BLKB 4
			        .BYTE 1`,
			Output: map[uint16]byte{0x204: 0x01},
		},
		{
			Name: "END",
			Input: `CLS
			        .END
			        RET`,
			Output: map[uint16]byte{0x200: 0x00, 0x201: 0xE0},
		},
		{
			Name: "Comments",
			Input: `; whole line
			        CLS ; trailing
			        RET;tight`,
			Output: map[uint16]byte{
				0x200: 0x00, 0x201: 0xE0,
				0x202: 0x00, 0x203: 0xEE,
			},
		},
		{
			Name: "Fill Memory",
			Input: `.ORIG 0xFFE
			        CLS`,
			Output: map[uint16]byte{0xFFE: 0x00, 0xFFF: 0xE0},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "ORIG Low",
			Input: `.ORIG 0x100`,
			Error: &assembler.InvalidOriginError{},
		},
		{
			Name:  "ORIG High",
			Input: `.ORIG 0x1000`,
			Error: &assembler.InvalidOriginError{},
		},
		{
			Name:  "ORIG Label",
			Input: `.ORIG START`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "ORIG Missing",
			Input: `.ORIG`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "BYTE Missing",
			Input: `.BYTE`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "BYTE Oversized",
			Input: `.BYTE 256`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "END Operand",
			Input: `.END 1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Unknown Directive",
			Input: `.FILL 1`,
			Error: &assembler.UnknownIdentifierError{},
		},
		{
			Name: "Past Memory",
			Input: `.ORIG 0xFFF
			        CLS`,
			Error: &assembler.OversizedBinaryError{},
		},
		{
			Name:  "BLKB Past Memory",
			Input: `.BLKB 0xE01`,
			Error: &assembler.OversizedBinaryError{},
		},
	})
}

func TestSyntax(t *testing.T) {
	testFail(t, []failCase{
		{
			Name:  "Unexpected Character",
			Input: `CLS ~`,
			Error: &assembler.UnexpectedCharacterError{},
		},
		{
			Name:  "Double Separator",
			Input: `LD V1,, V2`,
			Error: &assembler.UnexpectedCharacterError{},
		},
		{
			Name:  "Trailing Separator",
			Input: `LD V1, V2,`,
			Error: &assembler.UnexpectedCharacterError{},
		},
		{
			Name:  "Non ASCII",
			Input: `LD Vé, 1`,
			Error: &assembler.OversizedCharacterError{},
		},
		{
			Name: "Redeclared Label",
			Input: `A CLS
			        A RET`,
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Unknown Mnemonic",
			Input: `LOOP FOO V1`,
			Error: &assembler.UnknownIdentifierError{},
		},
		{
			Name:  "Literal Statement",
			Input: `0x200 CLS`,
			Error: &assembler.UnknownIdentifierError{},
		},
	})
}

func TestSymTable(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Symbols",
			Input: "START CLS\n" +
				"; comment\n" +
				"  JP START\n" +
				"DATA .BYTE 1, 2",
			Output: map[uint16]byte{
				0x200: 0x00, 0x201: 0xE0,
				0x202: 0x12, 0x203: 0x00,
				0x204: 0x01, 0x205: 0x02,
			},
			SymTable: &assembler.SymTable{
				Symbols: map[uint16]int64{
					0x200: 0,
					0x202: 20,
					0x204: 31,
				},
				Labels: map[uint16]string{
					0x200: "START",
					0x204: "DATA",
				},
			},
		},
	})
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		Word uint16
		Text string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS 0x123"},
		{0x12A4, "JP 0x2A4"},
		{0x2300, "CALL 0x300"},
		{0x3142, "SE V1, 0x42"},
		{0x4A42, "SNE VA, 0x42"},
		{0x5120, "SE V1, V2"},
		{0x5121, ".WORD 0x5121"},
		{0x6A05, "LD VA, 0x05"},
		{0x7A05, "ADD VA, 0x05"},
		{0x8120, "LD V1, V2"},
		{0x8126, "SHR V1, V2"},
		{0x812E, "SHL V1, V2"},
		{0x8128, ".WORD 0x8128"},
		{0x91F0, "SNE V1, VF"},
		{0xA300, "LD I, 0x300"},
		{0xB300, "JP V0, 0x300"},
		{0xC1FF, "RND V1, 0xFF"},
		{0xD125, "DRW V1, V2, 0x5"},
		{0xE49E, "SKP V4"},
		{0xE4A1, "SKNP V4"},
		{0xE400, ".WORD 0xE400"},
		{0xF307, "LD V3, DT"},
		{0xF30A, "LD V3, K"},
		{0xF315, "LD DT, V3"},
		{0xF318, "LD ST, V3"},
		{0xF31E, "ADD I, V3"},
		{0xF329, "LD F, V3"},
		{0xF333, "LD B, V3"},
		{0xF355, "LD [I], V3"},
		{0xF365, "LD V3, [I]"},
		{0xF3FF, ".WORD 0xF3FF"},
	}

	for _, test := range tests {
		if have := assembler.Disassemble(test.Word); have != test.Text {
			t.Errorf(
				"Disassembly mismatch for %#04x\nwant:%s\nhave:%s",
				test.Word,
				test.Text,
				have,
			)
		}
	}
}

// Every word must survive a trip through text and back
func TestDisassembleRoundTrip(t *testing.T) {
	const batch = 1024

	for start := 0; start < 1<<16; start += batch {
		var source strings.Builder

		for word := start; word < start+batch; word++ {
			fmt.Fprintln(&source, assembler.Disassemble(uint16(word)))
		}

		result, errs := assembler.AssembleChip8Source(
			strings.NewReader(source.String()), nil,
		)

		if len(errs) > 0 {
			t.Fatalf("Batch at %#04x failed to assemble: %v", start, errs[0])
		}

		if len(result) != batch*2 {
			t.Fatalf(
				"Batch at %#04x length mismatch\nwant:%d\nhave:%d",
				start,
				batch*2,
				len(result),
			)
		}

		for i := 0; i < batch; i++ {
			word := uint16(start + i)
			have := uint16(result[i*2])<<8 | uint16(result[i*2+1])

			if have != word {
				t.Fatalf(
					"Round trip mismatch\nwant:%#04x (%s)\nhave:%#04x",
					word,
					assembler.Disassemble(word),
					have,
				)
			}
		}
	}
}
