/*
 * ARMv4/5 debug core - halted-target register accessor.
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

package reg

import (
	"github.com/rcornwell/armv45/armerr"
	"github.com/rcornwell/armv45/target"
)

// Get fetches this slot's value from the target, failing with
// ErrNotHalted if the target isn't halted. On success it marks the
// slot valid and not dirty. Back-end errors propagate unchanged.
func (s *Slot) Get() error {
	if s.owner.backend.State() != target.StateHalted {
		return armerr.ErrNotHalted
	}
	value, err := s.owner.backend.ReadCoreReg(s.Cookie, s.Mode)
	if err != nil {
		return err
	}
	s.Value = value
	s.Valid = true
	s.Dirty = false
	return nil
}

// Set writes value into the slot's cache without touching the target
// (the writeback model): it marks the slot dirty and valid and
// returns. Writing the CPSR slot additionally runs the C4
// write-through, which may push the value to the target immediately.
func (s *Slot) Set(value uint32) error {
	if s.owner.backend.State() != target.StateHalted {
		return armerr.ErrNotHalted
	}
	s.Value = value
	s.Dirty = true
	s.Valid = true

	if s == s.owner.CPSRSlot() {
		return s.owner.applyCPSRWrite(value)
	}
	return nil
}

// FullContext refreshes the bank from the target. When the back-end
// supplies a batch fetch (ReadAllOptional), every slot it returns is
// overwritten and marked valid and clean, whether or not it was
// already valid. Otherwise it fetches every slot that isn't already
// Valid, in ascending physical order, stopping at the first error.
func (b *Bank) FullContext() error {
	if fetched, ok := b.backend.ReadAllOptional(); ok {
		for physical, value := range fetched {
			if physical < 0 || physical >= NumSlots {
				continue
			}
			slot := &b.slots[physical]
			if slot.Name == "" {
				continue
			}
			slot.Value = value
			slot.Valid = true
			slot.Dirty = false
		}
		return nil
	}

	for i := range b.slots {
		slot := &b.slots[i]
		if slot.Name == "" || slot.Valid {
			continue
		}
		if err := slot.Get(); err != nil {
			return err
		}
	}
	return nil
}
