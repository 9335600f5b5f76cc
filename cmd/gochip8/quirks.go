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
	"fmt"
	"sort"
	"strings"

	"github.com/lassandro/gochip8/pkg/machine"
)

var quirkSetters = map[string]func(*machine.Quirks){
	"shift":   func(q *machine.Quirks) { q.ShiftNoFallthrough = true },
	"keywait": func(q *machine.Quirks) { q.KeyWaitLatch = true },
}

func quirkNames() []string {
	names := make([]string, 0, len(quirkSetters))
	for name := range quirkSetters {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// parseQuirks reads a comma separated list such as "shift,keywait".
func parseQuirks(s string) (machine.Quirks, error) {
	var quirks machine.Quirks

	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))

		if name == "" {
			continue
		}

		set, exists := quirkSetters[name]

		if !exists {
			return machine.Quirks{}, fmt.Errorf(
				"Unknown quirk '%s', expected one of: %s",
				name,
				strings.Join(quirkNames(), ", "),
			)
		}

		set(&quirks)
	}

	return quirks, nil
}
