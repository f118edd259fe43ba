/*
 * ARMv4/5 debug core - physical register bank and mode-aware view.
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

// Package reg is the mode-aware register file: the 40-slot physical
// bank (C2), the halted-target accessor (C3), and the CPSR
// write-through logic (C4). Higher layers never see a physical slot
// number; they ask for (mode, logical register 0..16) and get back a
// *Slot.
package reg

import (
	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/target"
)

// NumSlots is the size of the physical register bank, gaps included.
const NumSlots = 40

// CPSR is the physical slot number of the current program status
// register. It is always current; exactly one mode's SPSR, if any, is
// additionally "current" at a time.
const CPSR = 31

// Slot is one physical register: a 32-bit value with the valid/dirty
// bookkeeping the writeback model needs, plus enough metadata to
// display and marshal it.
type Slot struct {
	Name  string
	Size  int // bits; always 32 for GPRs/PSRs
	Value uint32
	Valid bool
	Dirty bool

	Cookie int       // 0..16
	Mode   mode.Mode // mode.ANY for shared slots

	owner *Bank // borrowed back-reference, not an owning pointer
}

// descriptor is the static (name, cookie, mode) template used to
// build the physical bank. It mirrors the source's arm_core_regs
// table: MON-mode entries are only materialized when the core
// advertises TrustZone.
type descriptor struct {
	name   string
	cookie int
	m      mode.Mode
}

var slotTemplate = [NumSlots]descriptor{
	0:  {"r0", 0, mode.ANY},
	1:  {"r1", 1, mode.ANY},
	2:  {"r2", 2, mode.ANY},
	3:  {"r3", 3, mode.ANY},
	4:  {"r4", 4, mode.ANY},
	5:  {"r5", 5, mode.ANY},
	6:  {"r6", 6, mode.ANY},
	7:  {"r7", 7, mode.ANY},
	8:  {"r8", 8, mode.ANY},
	9:  {"r9", 9, mode.ANY},
	10: {"r10", 10, mode.ANY},
	11: {"r11", 11, mode.ANY},
	12: {"r12", 12, mode.ANY},
	13: {"sp_usr", 13, mode.USR},
	14: {"lr_usr", 14, mode.USR},
	15: {"pc", 15, mode.ANY},

	16: {"r8_fiq", 8, mode.FIQ},
	17: {"r9_fiq", 9, mode.FIQ},
	18: {"r10_fiq", 10, mode.FIQ},
	19: {"r11_fiq", 11, mode.FIQ},
	20: {"r12_fiq", 12, mode.FIQ},
	21: {"sp_fiq", 13, mode.FIQ},
	22: {"lr_fiq", 14, mode.FIQ},

	23: {"sp_irq", 13, mode.IRQ},
	24: {"lr_irq", 14, mode.IRQ},

	25: {"sp_svc", 13, mode.SVC},
	26: {"lr_svc", 14, mode.SVC},

	27: {"sp_abt", 13, mode.ABT},
	28: {"lr_abt", 14, mode.ABT},

	29: {"sp_und", 13, mode.UND},
	30: {"lr_und", 14, mode.UND},

	31: {"cpsr", 16, mode.ANY},

	32: {"spsr_fiq", 16, mode.FIQ},
	33: {"spsr_irq", 16, mode.IRQ},
	34: {"spsr_svc", 16, mode.SVC},
	35: {"spsr_abt", 16, mode.ABT},
	36: {"spsr_und", 16, mode.UND},

	37: {"sp_mon", 13, mode.MON},
	38: {"lr_mon", 14, mode.MON},
	39: {"spsr_mon", 16, mode.MON},
}

// viewMap[modeNumber][logical] is the 8x17 table translating a dense
// mode number (mode.ToNumber) and a logical register 0..16 to a
// physical slot. Row order follows mode.ToNumber: USR, FIQ, IRQ, SVC,
// ABT, UND, SYS, MON.
var viewMap = [8][17]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 31},   // USR
	{0, 1, 2, 3, 4, 5, 6, 7, 16, 17, 18, 19, 20, 21, 22, 15, 32}, // FIQ
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 23, 24, 15, 33},   // IRQ
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 25, 26, 15, 34},   // SVC
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 27, 28, 15, 35},   // ABT
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 29, 30, 15, 36},   // UND
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 31},   // SYS (== USR)
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 37, 38, 15, 39},   // MON
}

// Bank is the register file for one target attachment: the 40-slot
// physical bank plus the backing Backend it delegates reads/writes to.
type Bank struct {
	slots     [NumSlots]Slot
	trustZone bool
	isARMv4   bool
	backend   target.Backend

	coreMode  mode.Mode
	coreState mode.State
}

// New builds the physical bank for one target attachment. trustZone
// controls whether the MON slots (37..39) and the MON mode-table row
// are exposed; isARMv4 marks a core that predates ARMv5's software
// BKPT, for which the algorithm runner refuses a zero exit offset. The register file
// is built once per attachment; slots are never reallocated.
func New(backend target.Backend, trustZone, isARMv4 bool) *Bank {
	b := &Bank{
		trustZone: trustZone,
		isARMv4:   isARMv4,
		backend:   backend,
		coreMode:  mode.USR,
		coreState: mode.ARM,
	}
	for i, d := range slotTemplate {
		if d.m == mode.MON && !trustZone {
			// Slot stays zero-valued and nameless: present in the
			// array for addressing uniformity, absent from NumRegs
			// and from any display/iteration surface.
			continue
		}
		b.slots[i] = Slot{
			Name:   d.name,
			Size:   32,
			Cookie: d.cookie,
			Mode:   d.m,
			owner:  b,
		}
	}
	return b
}

// TrustZone reports whether this bank exposes the Secure Monitor mode
// and its three MON-banked slots.
func (b *Bank) TrustZone() bool { return b.trustZone }

// IsARMv4 reports whether this core predates ARMv5's software BKPT.
func (b *Bank) IsARMv4() bool { return b.isARMv4 }

// NumRegs is the effective number of exposed slots: 37 without
// TrustZone, 40 with it.
func (b *Bank) NumRegs() int {
	if b.trustZone {
		return NumSlots
	}
	return NumSlots - 3
}

// CoreMode returns the cached current processor mode.
func (b *Bank) CoreMode() mode.Mode { return b.coreMode }

// CoreState returns the cached current instruction-set state.
func (b *Bank) CoreState() mode.State { return b.coreState }

// CPSRSlot returns the stable pointer to slot 31, the CPSR.
func (b *Bank) CPSRSlot() *Slot { return &b.slots[CPSR] }

// Slot returns the physical slot at the given index. The "reg"
// command's tab completion uses it to walk every exposed slot.
func (b *Bank) Slot(physical int) *Slot { return &b.slots[physical] }

// View is a constant-time lookup translating (mode, logical register
// 0..16) to the physical slot for the current core configuration.
// mode.ANY is substituted with the cached current core mode.
func (b *Bank) View(m mode.Mode, logical int) (*Slot, bool) {
	if logical < 0 || logical > 16 {
		return nil, false
	}
	if m == mode.ANY {
		m = b.coreMode
	}
	n, ok := mode.ToNumber(m)
	if !ok {
		return nil, false
	}
	physical := viewMap[n][logical]
	slot := &b.slots[physical]
	if slot.Name == "" {
		// MON row entered on a non-TrustZone bank.
		return nil, false
	}
	return slot, true
}

// ByName finds a slot by its register name ("r0", "sp_fiq", "cpsr",
// ...), used by the algorithm runner to marshal register parameters.
func (b *Bank) ByName(name string) (*Slot, bool) {
	for i := range b.slots {
		if b.slots[i].Name == name {
			return &b.slots[i], true
		}
	}
	return nil, false
}

// SetCachedMode updates the cached core mode without touching CPSR or
// the target; used by the algorithm runner's post-run restore step.
func (b *Bank) SetCachedMode(m mode.Mode) { b.coreMode = m }

// SetCachedState updates the cached instruction-set state without
// touching CPSR or the target; used by the algorithm runner's restore
// step and by the "core_state" debug escape hatch.
func (b *Bank) SetCachedState(s mode.State) { b.coreState = s }
