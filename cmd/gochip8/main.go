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
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/lassandro/gochip8/pkg/assembler"
	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
)

var helpvar bool
var debugvar bool
var hzvar int
var widthvar int
var heightvar int
var headlessvar uint64
var quirksvar string
var statsvar string

var shouldexit bool
var display *screen

const usage = "gochip8 [-debug] [-hz #] [-headless #] [-quirks list] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.IntVar(&hzvar, "hz", 60, "Instructions executed per second")
	flag.IntVar(
		&widthvar, "width", machine.DISPLAY_WIDTH, "Display width in pixels",
	)
	flag.IntVar(
		&heightvar, "height", machine.DISPLAY_HEIGHT, "Display height in pixels",
	)
	flag.Uint64Var(
		&headlessvar, "headless", 0,
		"Runs the given number of instructions without a terminal, then "+
			"prints the display hash and machine state",
	)
	flag.StringVar(
		&quirksvar, "quirks", "",
		"Comma separated behaviour changes: "+strings.Join(quirkNames(), ", "),
	)
	flag.StringVar(
		&statsvar, "statsview", "",
		"Serves runtime statistics on the given address, e.g. localhost:12600",
	)
}

func loadSymbols(dbg *debugger.Debugger, binary string) {
	filename := filepath.Join(filepath.Dir(binary), strings.TrimSuffix(
		filepath.Base(binary), filepath.Ext(binary),
	)+".c8db")

	file, err := os.Open(filename)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	dbg.SymTable = &symtable
}

func run(mc *machine.Machine, dbg *debugger.Debugger) {
	ticker := time.NewTicker(time.Second / time.Duration(hzvar))
	defer ticker.Stop()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	var pad keypad
	input := make([]byte, 64)

	for !shouldexit {
		select {
		case <-interrupts:
			if dbg == nil {
				return
			}

			dbg.Break = true

		case now := <-ticker.C:
			n := readInput(input)

			if !pad.Feed(mc, input[:n], now) {
				return
			}

			pad.Expire(mc, now)
			mc.Step()

			if err := display.Draw(&mc.State); err != nil {
				log.Println(err)
				return
			}
		}
	}
}

func gochip8() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	if hzvar <= 0 {
		log.Println("-hz must be positive")
		return 1
	}

	quirks, err := parseQuirks(quirksvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	var mc machine.Machine
	mc.Quirks = quirks

	if err := mc.Init(widthvar, heightvar); err != nil {
		log.Println(err)
		return 1
	}

	defer mc.Teardown()

	if err := mc.LoadBin(file); err != nil {
		log.Println(err)
		return 1
	}

	if statsvar != "" {
		serveStats(statsvar)
	}

	if headlessvar > 0 {
		for i := uint64(0); i < headlessvar; i++ {
			mc.Step()
		}

		fmt.Println(mc.State.DisplayHash())
		mc.State.Dump(os.Stdout)
		return 0
	}

	if !isTerminal() {
		log.Println("stdin and stdout must be a terminal, see -headless")
		return 1
	}

	if !fitsTerminal(widthvar, heightvar) {
		log.Printf(
			"Terminal is smaller than the %dx%d display", widthvar, heightvar,
		)
	}

	var dbg *debugger.Debugger

	if debugvar {
		dbg = &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
			Binary:      file,
		}
		mc.Debugger = dbg

		loadSymbols(dbg, args[0])

		if dbg.SymTable != nil && dbg.SymTable.Source != "" {
			if file, err := os.Open(dbg.SymTable.Source); err == nil {
				dbg.Source = file
				defer file.Close()
			} else {
				log.Println("Error loading source file")
				log.Println(err)
			}
		}
	}

	display = newScreen(os.Stdout)

	enterRawTerm()
	defer exitRawTerm()

	if dbg != nil {
		debugREPL(dbg, &mc)
	}

	run(&mc, dbg)

	return 0
}

func main() {
	os.Exit(gochip8())
}
