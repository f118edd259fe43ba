/*
 * ARMv4/5 debug core - CPSR write-through.
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
	"log/slog"

	"github.com/rcornwell/armv45/mode"
)

const (
	cpsrTBit    = 0x20
	cpsrModeMsk = 0x1f
)

// applyCPSRWrite is C4: it runs whenever a write lands on the CPSR
// slot. It never itself fails -- only the eager back-end write it
// triggers on a mode change can fail, and that error is the one
// returned.
//
// The J bit (Jazelle) and ThumbEE are acknowledged gaps: this core
// only ever transitions between ARM and Thumb on the T bit.
func (b *Bank) applyCPSRWrite(value uint32) error {
	if value&cpsrTBit != 0 {
		if b.coreState == mode.ARM {
			slog.Debug("changing to Thumb state")
			b.coreState = mode.Thumb
		}
	} else {
		if b.coreState == mode.Thumb {
			slog.Debug("changing to ARM state")
			b.coreState = mode.ARM
		}
	}

	newMode := mode.Mode(value & cpsrModeMsk)
	if b.coreMode != newMode {
		slog.Debug("changing ARM core mode", "mode", mode.Name(newMode))
		b.coreMode = newMode

		if err := b.backend.WriteCoreReg(16, mode.ANY, value); err != nil {
			return err
		}
		b.CPSRSlot().Dirty = false
	}

	return nil
}
