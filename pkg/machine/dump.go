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
	"io"
)

// Dump writes the register file in a fixed four-column layout.
func (mc *MachineState) Dump(w io.Writer) {
	regs := &mc.Registers

	for row := 0; row < REGISTER_COUNT; row += 4 {
		fmt.Fprintf(
			w,
			"V%X: %#02x  V%X: %#02x  V%X: %#02x  V%X: %#02x\n",
			row, regs.V[row],
			row+1, regs.V[row+1],
			row+2, regs.V[row+2],
			row+3, regs.V[row+3],
		)
	}

	fmt.Fprintf(
		w,
		"I: %#04x  PC: %#04x  SP: %#02x  DT: %#02x  ST: %#02x\n",
		regs.I, regs.PC, regs.SP, regs.DT, regs.ST,
	)
}
