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

package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

var lastcmd []string

// resolveAddr accepts 0x#### or a label name.
func resolveAddr(dbg *debugger.Debugger, arg string) (uint16, error) {
	if addr, exists := dbg.Lookup(arg); exists {
		return addr, nil
	}

	addr, err := encoding.DecodeHex(arg)

	if err != nil {
		return 0, err
	}

	return addr & machine.MEMORY_MASK, nil
}

func parseCount(arg string) (uint16, error) {
	value, err := strconv.ParseUint(arg, 10, 16)
	return uint16(value), err
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x###|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := resolveAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
		fmt.Printf("Breakpoint added [%#04x]\n", addr)

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
	}
}

var watchNames = map[debugger.WatchpointType]string{
	debugger.ReadWatch:      "read",
	debugger.WriteWatch:     "write",
	debugger.ReadWriteWatch: "readwrite",
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x###|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := resolveAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints,
			debugger.Watchpoint{Addr: addr, Type: wtype},
		)

		fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, watchNames[wtype])

	case "l", "ls", "list":
		const usage = "watch list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchNames[watchpoint.Type])
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func printRegisters(mc *machine.MachineState) {
	regs := &mc.Registers

	for i, register := range regs.V {
		fmt.Printf("\033[1mV%X:\033[0m %#02x\t", i, register)
		if i == len(regs.V)/2-1 {
			fmt.Println()
		}
	}

	fmt.Println()
	fmt.Printf(
		"\033[1mI:\033[0m %#04x\t\033[1mPC:\033[0m %#04x\t"+
			"\033[1mSP:\033[0m %#02x\t\033[1mDT:\033[0m %#02x\t"+
			"\033[1mST:\033[0m %#02x\n",
		regs.I, regs.PC, regs.SP, regs.DT, regs.ST,
	)
}

func debugReg(mc *machine.MachineState, args []string) {
	const usage = "register [V#|I|PC|SP|DT|ST] [0x###]"

	if len(args) == 0 {
		printRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToUpper(args[0])
	regs := &mc.Registers

	switch name {
	case "I":
		regs.I = value & machine.MEMORY_MASK
		value = regs.I
	case "PC":
		regs.PC = value & machine.MEMORY_MASK
		value = regs.PC
	case "SP", "DT", "ST":
		if value > math.MaxUint8 {
			log.Printf("%s holds a single byte\n", name)
			return
		}

		switch name {
		case "SP":
			regs.SP = uint8(value)
		case "DT":
			regs.DT = uint8(value)
		case "ST":
			regs.ST = uint8(value)
		}
	default:
		index, err := strconv.ParseUint(strings.TrimPrefix(name, "V"), 16, 4)

		if err != nil || !strings.HasPrefix(name, "V") || len(name) != 2 {
			log.Println("Invalid register")
			return
		}

		if value > math.MaxUint8 {
			log.Printf("%s holds a single byte\n", name)
			return
		}

		regs.V[index] = uint8(value)
	}

	fmt.Printf("\033[1m%s:\033[0m %#02x\n", name, value)
}

// printListing shows source lines when a symbol table and source file are
// loaded, otherwise disassembles memory.
func printListing(dbg *debugger.Debugger, mc *machine.MachineState, addr, count uint16) {
	if dbg.Source != nil && dbg.SymTable != nil {
		if _, exists := dbg.SymTable.Symbols[addr]; exists {
			dbg.PrintSource(os.Stdout, addr, count)
			return
		}
	}

	dbg.PrintDisassembly(os.Stdout, mc, addr, count)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [0x###|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr := mc.Registers.PC
	var count uint16 = 3
	var err error

	if len(args) > 0 {
		if addr, err = resolveAddr(dbg, args[0]); err != nil {
			if count, err = parseCount(args[0]); err != nil {
				log.Println(err)
				return
			}

			addr = mc.Registers.PC
		}
	}

	if len(args) > 1 {
		if count, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	printListing(dbg, mc, addr, count)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		log.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Printf(
			"\033[1m[%#04x]\033[0m %s\n", addr, dbg.SymTable.Labels[addr],
		)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [0x###|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := resolveAddr(dbg, args[0])

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	mc.Registers.PC = addr

	if label, exists := dbg.Label(addr); exists {
		fmt.Printf(
			"\033[1mPC:\033[0m %#04x \033[1;30m(%s)\033[0m\n", addr, label,
		)
	} else {
		fmt.Printf("\033[1mPC:\033[0m %#04x\n", addr)
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x###|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr := mc.Registers.I
	var count uint16 = 8
	var err error

	if len(args) > 0 {
		if addr, err = resolveAddr(dbg, args[0]); err != nil {
			if count, err = parseCount(args[0]); err != nil {
				log.Println(err)
				return
			}

			addr = mc.Registers.I
		}
	}

	if len(args) > 1 {
		if count, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintMem(os.Stdout, mc, addr, count)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x###|label] [0x##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := resolveAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if value > math.MaxUint8 {
		log.Println("Memory cells hold a single byte")
		return
	}

	mc.Memory[addr] = uint8(value)
	dbg.PrintMem(os.Stdout, mc, addr, 1)
}

func debugKey(mc *machine.Machine, args []string) {
	const usage = "key [0-F] [press|release]"

	if len(args) == 0 {
		for key := uint8(0); key < machine.KEY_COUNT; key++ {
			if mc.State.KeyHeld(key) {
				fmt.Printf("%X ", key)
			}
		}

		fmt.Println()
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	key, err := strconv.ParseUint(args[0], 16, 4)

	if err != nil {
		log.Println(usage)
		return
	}

	switch args[1] {
	case "p", "press":
		mc.KeyPress(uint8(key))
	case "r", "release":
		mc.KeyRelease(uint8(key))
	default:
		log.Println(usage)
	}
}

func debugMemviz(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memviz [filename]"

	switch len(args) {
	case 0:
		dbg.MapState(os.Stdout, mc)

	case 1:
		file, err := os.Create(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		dbg.MapState(file, mc)

		if err := file.Close(); err != nil {
			log.Println(err)
			return
		}

		fmt.Printf("State graph written to %s\n", args[0])

	default:
		log.Println(usage)
	}
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	exitRawTerm()
	defer enterRawTerm()

	defer func() {
		if display != nil {
			display.Invalidate()
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(&mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "k", "key", "keys":
			debugKey(mc, args)

		case "d", "display":
			dbg.PrintDisplay(os.Stdout, &mc.State)

		case "dump":
			mc.State.Dump(os.Stdout)

		case "memviz":
			debugMemviz(dbg, &mc.State, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			if err := dbg.Reload(mc); err != nil {
				log.Println(err)
				continue
			}

			fmt.Println("Program reloaded")
			printListing(dbg, &mc.State, mc.State.Registers.PC, 1)

		default:
			log.Printf("'%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Print("\r\n")
		fmt.Println("Program stopped")
	}

	printListing(dbg, &mc.State, mc.State.Registers.PC, 1)
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Print("\r\n")
	fmt.Println("Program stopped on read")
	dbg.PrintMem(os.Stdout, &mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Print("\r\n")
	fmt.Println("Program stopped on write")
	dbg.PrintMem(os.Stdout, &mc.State, addr, 1)
	debugREPL(dbg, mc)
}
