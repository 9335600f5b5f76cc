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

package encoding_test

import (
	"testing"

	"github.com/lassandro/gochip8/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output uint16
		Fail   bool
	}{
		{Name: "Long Prefix", Input: "0x0200", Output: 0x0200},
		{Name: "Short Prefix", Input: "xFF", Output: 0x00FF},
		{Name: "Upper Prefix", Input: "0XABC", Output: 0x0ABC},
		{Name: "No Prefix", Input: "1234", Fail: true},
		{Name: "Misplaced Prefix", Input: "1x23", Fail: true},
		{Name: "Oversized", Input: "0x10000", Fail: true},
		{Name: "Invalid Digit", Input: "0xG1", Fail: true},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			have, err := encoding.DecodeHex(test.Input)

			if test.Fail {
				if err == nil {
					t.Fatalf("Expected error decoding %q\nhave:%#04x", test.Input, have)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if have != test.Output {
				t.Errorf(
					"Decode mismatch\nwant:%#04x (test.Output)\nhave:%#04x",
					test.Output,
					have,
				)
			}
		})
	}
}

func TestDecodeInt(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Output int16
		Fail   bool
	}{
		{Name: "Prefixed", Input: "#42", Output: 42},
		{Name: "Bare", Input: "512", Output: 512},
		{Name: "Negative", Input: "#-1", Output: -1},
		{Name: "Hex", Input: "0x10", Fail: true},
		{Name: "Empty", Input: "#", Fail: true},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			have, err := encoding.DecodeInt(test.Input)

			if test.Fail {
				if err == nil {
					t.Fatalf("Expected error decoding %q\nhave:%d", test.Input, have)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if have != test.Output {
				t.Errorf(
					"Decode mismatch\nwant:%d (test.Output)\nhave:%d",
					test.Output,
					have,
				)
			}
		})
	}
}

func TestFields(t *testing.T) {
	const instruction uint16 = 0xD12F

	if have := encoding.Class(instruction); have != 0xD {
		t.Errorf("Class mismatch\nwant:0xd\nhave:%#x", have)
	}

	if have := encoding.RegisterX(instruction); have != 0x1 {
		t.Errorf("RegisterX mismatch\nwant:0x1\nhave:%#x", have)
	}

	if have := encoding.RegisterY(instruction); have != 0x2 {
		t.Errorf("RegisterY mismatch\nwant:0x2\nhave:%#x", have)
	}

	if have := encoding.Operand(instruction); have != 0xF {
		t.Errorf("Operand mismatch\nwant:0xf\nhave:%#x", have)
	}

	if have := encoding.Immediate(instruction); have != 0x2F {
		t.Errorf("Immediate mismatch\nwant:0x2f\nhave:%#x", have)
	}

	if have := encoding.Address(instruction); have != 0x12F {
		t.Errorf("Address mismatch\nwant:0x12f\nhave:%#x", have)
	}
}
