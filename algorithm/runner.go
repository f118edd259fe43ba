/*
 * ARMv4/5 debug core - target algorithm runner.
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

// Package algorithm uploads small pieces of ARM machine code into
// target RAM and runs them to completion: the CRC32 checksum and
// blank-check helpers below are the two call sites the rest of the
// core needs, but Run itself is generic over any code blob, memory
// parameter list, and register parameter list.
package algorithm

import (
	"errors"
	"fmt"
	"time"

	"github.com/rcornwell/armv45/armerr"
	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
)

// RegParam binds a value to a named register slot, either to feed an
// input or to read back an output once the algorithm halts.
type RegParam struct {
	Name  string
	Value uint32
}

// MemDirection controls whether a MemParam's buffer is re-read from
// the target once the algorithm halts.
type MemDirection int

const (
	MemIn MemDirection = iota
	MemOut
	MemInOut
)

// MemParam binds a byte buffer to a target memory range for one Run
// call. Data is written to Address before the algorithm executes,
// regardless of Direction. After the algorithm halts, Data is read
// back from Address again unless Direction is MemOut.
type MemParam struct {
	Address   uint32
	Data      []byte
	Direction MemDirection
}

// Info carries the register context one Run call executes under: the
// mode whose banked registers are snapshotted and restored, and the
// instruction-set state the exit breakpoint size is chosen from. If
// CoreMode is not mode.ANY, CPSR bits 0..4 are overwritten with it
// before the algorithm resumes.
//
// The zero value is not "leave as-is": CoreMode 0 is neither a valid
// ARM mode nor mode.ANY (-1), so a caller that wants to run under
// whatever mode is already cached must set CoreMode to mode.ANY
// explicitly.
type Info struct {
	CoreMode  mode.Mode
	CoreState mode.State
}

// cpsrModeMask isolates CPSR bits 0..4, the current-mode field.
const cpsrModeMask = 0x1f

// Run uploads code to a freshly allocated working area, marshals in
// the memory and register parameters, commits info's mode/state,
// sets a breakpoint at the exit offset, resumes the target, and waits
// up to timeout for it to reach the breakpoint. On every return path
// -- success, marshal error, or timeout -- it restores every logical
// register banked under info.CoreMode (plus CPSR and the bank's
// pre-call cached mode/state) and frees the working area, per the
// source's armv4_5_run_algorithm_completion behavior.
//
// ARMv4 cores have no BKPT instruction (feature added in ARMv5); a
// zero exitOffset on such a core is refused rather than silently
// relying on a hardware breakpoint the caller never set up.
func Run(bank *reg.Bank, backend target.Backend, code []byte, mem []MemParam, in, out []RegParam, entryOffset, exitOffset uint32, info Info, timeout time.Duration) ([]RegParam, error) {
	if backend.State() != target.StateHalted {
		return nil, armerr.ErrNotHalted
	}
	if !mode.IsValid(bank.CoreMode()) {
		return nil, armerr.ErrFail
	}
	if bank.IsARMv4() && exitOffset == 0 {
		return nil, armerr.ErrInvalidArguments
	}

	bpSize, err := breakpointSize(info.CoreState)
	if err != nil {
		return nil, err
	}

	addr, free, err := backend.AllocWorkingArea(len(code))
	if err != nil {
		return nil, fmt.Errorf("algorithm: alloc working area: %w", err)
	}
	defer free()

	if err := backend.WriteBuffer(addr, code); err != nil {
		return nil, fmt.Errorf("algorithm: upload: %w", err)
	}

	savedMode, savedState := bank.CoreMode(), bank.CoreState()
	defer func() {
		bank.SetCachedMode(savedMode)
		bank.SetCachedState(savedState)
	}()

	savedCtx, savedCPSR := snapshotRegs(bank, info.CoreMode)
	defer restoreRegs(savedCtx, savedCPSR)

	// Marshal in: memory parameters first, then register parameters,
	// both written unconditionally regardless of direction.
	for _, m := range mem {
		if err := backend.WriteBuffer(m.Address, m.Data); err != nil {
			return nil, fmt.Errorf("algorithm: write mem param at %#x: %w", m.Address, err)
		}
	}
	for _, p := range in {
		slot, ok := bank.ByName(p.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown input register %q", armerr.ErrInvalidArguments, p.Name)
		}
		if err := slot.Set(p.Value); err != nil {
			return nil, err
		}
	}

	// State setup: commit the instruction-set state, and if the caller
	// asked for a specific mode, write it into CPSR through the same
	// accessor path C4 uses for any other CPSR write.
	bank.SetCachedState(info.CoreState)
	if info.CoreMode != mode.ANY {
		cpsr := bank.CPSRSlot()
		if !cpsr.Valid {
			if err := cpsr.Get(); err != nil {
				return nil, err
			}
		}
		newValue := (cpsr.Value &^ cpsrModeMask) | uint32(info.CoreMode)
		if err := cpsr.Set(newValue); err != nil {
			return nil, fmt.Errorf("algorithm: commit core mode: %w", err)
		}
	}

	entry := addr + entryOffset
	exit := addr + exitOffset

	if err := backend.BreakpointAdd(exit, bpSize); err != nil {
		return nil, fmt.Errorf("algorithm: breakpoint: %w", err)
	}
	defer backend.BreakpointRemove(exit)

	if err := backend.Resume(entry); err != nil {
		return nil, fmt.Errorf("algorithm: resume: %w", err)
	}

	if err := backend.WaitState(target.StateHalted, timeout); err != nil {
		backend.Halt()
		_ = backend.WaitState(target.StateHalted, 500*time.Millisecond)
		return nil, armerr.ErrTargetTimeout
	}

	// Marshal out: best-effort, records and continues past a failure
	// instead of discarding whatever was already gathered.
	var marshalErr error
	results := make([]RegParam, 0, len(out))
	for _, p := range out {
		slot, ok := bank.ByName(p.Name)
		if !ok {
			marshalErr = errors.Join(marshalErr, fmt.Errorf("%w: unknown output register %q", armerr.ErrInvalidArguments, p.Name))
			continue
		}
		if err := slot.Get(); err != nil {
			marshalErr = errors.Join(marshalErr, err)
			continue
		}
		results = append(results, RegParam{Name: p.Name, Value: slot.Value})
	}
	for i := range mem {
		if mem[i].Direction == MemOut {
			continue
		}
		data, err := backend.ReadBuffer(mem[i].Address, len(mem[i].Data))
		if err != nil {
			marshalErr = errors.Join(marshalErr, fmt.Errorf("algorithm: read mem param at %#x: %w", mem[i].Address, err))
			continue
		}
		copy(mem[i].Data, data)
	}

	return results, marshalErr
}

// breakpointSize is 4 bytes for ARM state, 2 for Thumb; any other
// instruction-set state is not something an exit breakpoint can be
// sized for.
func breakpointSize(state mode.State) (int, error) {
	switch state {
	case mode.ARM:
		return 4, nil
	case mode.Thumb:
		return 2, nil
	default:
		return 0, armerr.ErrInvalidArguments
	}
}

type savedReg struct {
	slot  *reg.Slot
	value uint32
	valid bool
}

// snapshotRegs captures the 17 logical registers (0..16) banked under
// coreMode, reading any not yet valid, plus the CPSR slot itself --
// the 17+1 context a restore needs. Logical register 16 is a mode's
// SPSR, not CPSR, for every mode but USR/SYS, so the two are saved
// separately.
func snapshotRegs(bank *reg.Bank, coreMode mode.Mode) ([17]savedReg, savedReg) {
	var ctx [17]savedReg
	for i := 0; i <= 16; i++ {
		slot, ok := bank.View(coreMode, i)
		if !ok {
			continue
		}
		if !slot.Valid {
			_ = slot.Get()
		}
		ctx[i] = savedReg{slot: slot, value: slot.Value, valid: slot.Valid}
	}

	// CPSR is saved unconditionally: unlike the logical slots above, its
	// raw cached value is captured whether or not it is currently
	// valid, so a restore always has a concrete value to write back.
	cpsr := bank.CPSRSlot()
	return ctx, savedReg{slot: cpsr, value: cpsr.Value, valid: true}
}

// restoreRegs writes back any snapshotted slot whose value changed
// during the run, then unconditionally restores the CPSR slot,
// mirroring the completion handler's per-context restore before the
// cached mode/state restore that Run itself defers.
func restoreRegs(ctx [17]savedReg, cpsr savedReg) {
	for _, s := range ctx {
		if s.slot == nil || !s.valid {
			continue
		}
		if s.slot.Value != s.value {
			_ = s.slot.Set(s.value)
		}
	}
	_ = cpsr.slot.Set(cpsr.value)
}
