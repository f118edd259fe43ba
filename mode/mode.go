/*
 * ARMv4/5 debug core - processor mode tables.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package mode holds the static description of the ARM operating modes:
// their display names, their PSR encodings, and their linear 0..7
// numbering used to index the register map (the map itself, and the
// physical slots each mode shadows, live in package reg).
package mode

// Mode is a processor operating mode, or the ANY sentinel.
type Mode int

const (
	USR Mode = 0x10
	FIQ Mode = 0x11
	IRQ Mode = 0x12
	SVC Mode = 0x13
	MON Mode = 0x16
	ABT Mode = 0x17
	UND Mode = 0x1B
	SYS Mode = 0x1F

	// ANY means "caller does not care / use current mode". It is not a
	// valid PSR encoding.
	ANY Mode = -1
)

// State is the instruction-set state of the core.
type State int

const (
	ARM State = iota
	Thumb
	Jazelle
	ThumbEE
)

var stateNames = [...]string{"ARM", "Thumb", "Jazelle", "ThumbEE"}

// String returns the display name for a State.
func (s State) String() string {
	if s < ARM || s > ThumbEE {
		return "UNRECOGNIZED"
	}
	return stateNames[s]
}

// entry describes one row of the mode table: display name, PSR
// encoding, and the linear index used to enter the 8x17 register map.
// USR and SYS share the same register behavior but are kept as
// distinct rows so that both encodings are named and valid; the "reg"
// command skips the SYS row and shows those registers under USR.
type entry struct {
	name   string
	psr    Mode
	number int
}

// table is ordered the way the source's mode display walks it: USR,
// FIQ, IRQ, SVC, ABT, UND, SYS, MON. The number column is what
// ToNumber/FromNumber use; it runs 0..7 in that same order, so SYS is
// 6 and MON is 7 even though their PSR encodings are not in that order.
var table = []entry{
	{name: "User", psr: USR, number: 0},
	{name: "FIQ", psr: FIQ, number: 1},
	{name: "IRQ", psr: IRQ, number: 2},
	{name: "Supervisor", psr: SVC, number: 3},
	{name: "Abort", psr: ABT, number: 4},
	{name: "Undefined instruction", psr: UND, number: 5},
	{name: "System", psr: SYS, number: 6},
	{name: "Secure Monitor", psr: MON, number: 7},
}

func lookup(psr Mode) (entry, bool) {
	for _, e := range table {
		if e.psr == psr {
			return e, true
		}
	}
	return entry{}, false
}

// Name maps PSR mode bits to the display name of an ARM operating
// mode, or "UNRECOGNIZED" if the bits don't name a real mode.
func Name(psr Mode) string {
	e, ok := lookup(psr)
	if !ok {
		return "UNRECOGNIZED"
	}
	return e.name
}

// IsValid reports whether psr names one of the eight ARM operating
// modes in the table. MON counts as valid whether or not a given core
// has TrustZone; this package does not know the core's configuration.
func IsValid(psr Mode) bool {
	_, ok := lookup(psr)
	return ok
}

// ToNumber maps a mode to the dense 0..7 index used to enter the 8x17
// view map. ANY is treated as USR for lookup purposes. Any other
// unrecognized mode returns (-1, false).
func ToNumber(m Mode) (int, bool) {
	if m == ANY {
		m = USR
	}
	e, ok := lookup(m)
	if !ok {
		return -1, false
	}
	return e.number, true
}

// FromNumber is the inverse of ToNumber: it maps a dense 0..7 index
// back to PSR mode bits. An out-of-range number returns (ANY, false).
func FromNumber(n int) (Mode, bool) {
	for _, e := range table {
		if e.number == n {
			return e.psr, true
		}
	}
	return ANY, false
}

// All returns the mode table in display order: USR, FIQ, IRQ, SVC,
// ABT, UND, SYS, MON. Callers that need to walk every mode (the "reg"
// command) should skip SYS (merged into USR's display) and skip MON
// unless the core advertises TrustZone.
func All() []struct {
	Name   string
	PSR    Mode
	Number int
} {
	out := make([]struct {
		Name   string
		PSR    Mode
		Number int
	}, len(table))
	for i, e := range table {
		out[i] = struct {
			Name   string
			PSR    Mode
			Number int
		}{Name: e.name, PSR: e.psr, Number: e.number}
	}
	return out
}
