/*
 * ARMv4/5 debug core - GDB register-list adapter.
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

// Package gdbview produces the 26-entry register list the GDB
// remote-serial stub expects from an ARM target: entries 0..15 are the
// current mode's GPRs and PC, 16..23 are obsolete FPA register slots
// padded with a shared dummy value, 24 is the FPA status word, and 25
// is the CPSR. Building the actual "G"/"g" packets is the stub's job,
// out of scope here; this package only assembles the list.
package gdbview

import (
	"sync"

	"github.com/rcornwell/armv45/armerr"
	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/reg"
)

// Entry is one register as GDB sees it: a name, a size in bits, and a
// byte value in target-independent (little-endian) order.
type Entry struct {
	Name  string
	Size  int
	Valid bool

	slot  *reg.Slot
	dummy []byte
}

// Bytes returns the entry's current value.
func (e *Entry) Bytes() []byte {
	if e.slot != nil {
		v := e.slot.Value
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	}
	return e.dummy
}

var (
	dummyFPOnce  sync.Once
	dummyFPSOnce sync.Once
	dummyFP      *Entry
	dummyFPS     *Entry
)

// dummyFPReg returns the process-wide "GDB dummy FPA register"
// singleton: 96 bits of zero, read-only, always valid. Every target
// attachment shares the same eight pointers to it, matching the
// source's single static struct reg.
func dummyFPReg() *Entry {
	dummyFPOnce.Do(func() {
		dummyFP = &Entry{
			Name:  "GDB dummy FPA register",
			Size:  96,
			Valid: true,
			dummy: make([]byte, 12),
		}
	})
	return dummyFP
}

// dummyFPSReg returns the process-wide "GDB dummy FPA status
// register" singleton: 32 bits of zero, read-only, always valid.
func dummyFPSReg() *Entry {
	dummyFPSOnce.Do(func() {
		dummyFPS = &Entry{
			Name:  "GDB dummy FPA status register",
			Size:  32,
			Valid: true,
			dummy: make([]byte, 4),
		}
	})
	return dummyFPS
}

func fromSlot(s *reg.Slot) *Entry {
	return &Entry{Name: s.Name, Size: s.Size, Valid: s.Valid, slot: s}
}

// List builds the 26-entry GDB register list for the bank's current
// mode. It fails if the current mode isn't a valid ARM mode.
func List(b *reg.Bank) ([26]*Entry, error) {
	var out [26]*Entry

	if !mode.IsValid(b.CoreMode()) {
		return out, armerr.ErrFail
	}

	for i := 0; i < 16; i++ {
		slot, ok := b.View(b.CoreMode(), i)
		if !ok {
			return out, armerr.ErrFail
		}
		out[i] = fromSlot(slot)
	}

	fp := dummyFPReg()
	for i := 16; i < 24; i++ {
		out[i] = fp
	}

	out[24] = dummyFPSReg()
	out[25] = fromSlot(b.CPSRSlot())

	return out, nil
}
