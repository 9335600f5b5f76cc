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

package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/lassandro/gochip8/pkg/assembler"
	"github.com/lassandro/gochip8/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Registers.PC == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// Reload resets the machine and loads the program binary again from the
// start.
func (dbg *Debugger) Reload(mc *machine.Machine) error {
	if dbg.Binary == nil {
		return errors.New("No binary loaded")
	}

	if _, err := dbg.Binary.Seek(0, io.SeekStart); err != nil {
		return err
	}

	return mc.LoadBin(dbg.Binary)
}

// Label returns the name declared at addr, if any.
func (dbg *Debugger) Label(addr uint16) (string, bool) {
	if dbg.SymTable == nil {
		return "", false
	}

	label, exists := dbg.SymTable.Labels[addr]
	return label, exists
}

// Lookup finds the address of a label.
func (dbg *Debugger) Lookup(label string) (uint16, bool) {
	if dbg.SymTable == nil {
		return 0, false
	}

	for addr, name := range dbg.SymTable.Labels {
		if name == label {
			return addr, true
		}
	}

	return 0, false
}

func (dbg *Debugger) PrintSource(w io.Writer, addr uint16, count uint16) {
	if dbg.Source == nil {
		fmt.Fprintln(w, "No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	offset, exists := dbg.SymTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(w, "No instruction found at %#04x\n", addr)
		return
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(w, err)
		return
	}

	lines := make(map[int64]uint16, len(dbg.SymTable.Symbols))
	for lineaddr, linebyte := range dbg.SymTable.Symbols {
		lines[linebyte] = lineaddr
	}

	scanner := bufio.NewScanner(dbg.Source)
	scanner.Split(bufio.ScanLines)

	for i := uint16(0); i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if lineaddr, found := lines[offset]; found {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", lineaddr)
		} else {
			fmt.Fprint(w, "\033[1;30m~~~~~~~~\033[0m ")
		}

		fmt.Fprintln(w, line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(w, err)
	}
}

// PrintDisassembly lists count instructions from addr, decoded from memory
// rather than read from source.
func (dbg *Debugger) PrintDisassembly(w io.Writer, mc *machine.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		at := (addr + i*2) & machine.MEMORY_MASK
		word := uint16(mc.Memory[at])<<8 | uint16(mc.Memory[(at+1)&machine.MEMORY_MASK])

		if label, exists := dbg.Label(at); exists {
			fmt.Fprintf(w, "\033[1;30m%s:\033[0m\n", label)
		}

		marker := "  "
		if at == mc.Registers.PC {
			marker = "=>"
		}

		fmt.Fprintf(
			w,
			"%s \033[1m[%#04x]\033[0m %04X  %s\n",
			marker,
			at,
			word,
			assembler.Disassemble(word),
		)
	}
}

func (dbg *Debugger) PrintMem(w io.Writer, mc *machine.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		at := (addr + i) & machine.MEMORY_MASK

		if i == 0 {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		} else if i%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		}

		result := mc.Memory[at]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#02x ", result)
		}
	}

	fmt.Fprintln(w)
}

// PrintDisplay draws the display with one character per pixel.
func (dbg *Debugger) PrintDisplay(w io.Writer, mc *machine.MachineState) {
	if len(mc.Display) == 0 {
		fmt.Fprintln(w, "No display allocated")
		return
	}

	row := make([]byte, mc.Width+1)
	row[mc.Width] = '\n'

	for y := 0; y < mc.Height; y++ {
		for x := 0; x < mc.Width; x++ {
			if mc.Pixel(x, y) {
				row[x] = '#'
			} else {
				row[x] = '.'
			}
		}

		w.Write(row)
	}
}

// MapState writes a graphviz digraph of the register file, stack and
// keyboard. Memory and the display are left out of the graph.
func (dbg *Debugger) MapState(w io.Writer, mc *machine.MachineState) {
	view := struct {
		Registers machine.Registers
		Stack     [machine.STACK_SIZE]uint16
		Keyboard  uint16
		Ticks     uint64
	}{
		mc.Registers,
		mc.Stack,
		mc.Keyboard,
		mc.Ticks,
	}

	memviz.Map(w, &view)
}
