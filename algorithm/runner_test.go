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

package algorithm

import (
	"errors"
	"testing"
	"time"

	"github.com/rcornwell/armv45/armerr"
	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
)

var svcARM = Info{CoreMode: mode.SVC, CoreState: mode.ARM}

func TestRunRejectsWhenNotHalted(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)
	backend.Resume(0)

	code, exit := BlankCheckCode()
	_, err := Run(bank, backend, code, nil, nil, nil, 0, exit, svcARM, time.Second)
	if err == nil {
		t.Error("Run on a running target succeeded, want an error")
	}
}

func TestRunARMv4RequiresNonzeroExit(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, true)
	backend.SetExit(0, 1)

	code, _ := BlankCheckCode()
	_, err := Run(bank, backend, code, nil, nil, nil, 0, 0, svcARM, time.Second)
	if err == nil {
		t.Error("Run with a zero exit offset on an ARMv4 core succeeded, want an error")
	}
}

func TestRunRejectsInvalidCoreState(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)

	code, exit := BlankCheckCode()
	info := Info{CoreMode: mode.SVC, CoreState: mode.Jazelle}
	_, err := Run(bank, backend, code, nil, nil, nil, 0, exit, info, time.Second)
	if !errors.Is(err, armerr.ErrInvalidArguments) {
		t.Errorf("Run with CoreState=Jazelle = %v, want ErrInvalidArguments", err)
	}
}

func TestRunRestoresRegistersAndCachedModeState(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)
	origMode, origState := bank.CoreMode(), bank.CoreState()

	r0, _ := bank.View(mode.ANY, 0)
	r0.Set(0x11111111)

	code, exit := BlankCheckCode()
	backend.SetExit(code2exit(len(code), exit), 1)

	in := []RegParam{{Name: "r0", Value: 0x2000}, {Name: "r1", Value: 4}, {Name: "r2", Value: 0xff}}
	out := []RegParam{{Name: "r2"}}

	_, err := Run(bank, backend, code, nil, in, out, 0, exit, svcARM, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if bank.CoreMode() != origMode {
		t.Errorf("CoreMode() after Run = %v, want %v (restored)", bank.CoreMode(), origMode)
	}
	if bank.CoreState() != origState {
		t.Errorf("CoreState() after Run = %v, want %v (restored)", bank.CoreState(), origState)
	}
	if r0.Value != 0x11111111 {
		t.Errorf("r0 after Run = %#x, want 0x11111111 (restored)", r0.Value)
	}
}

// cpsrRecorder wraps a Mock, remembering every value written to the
// CPSR cookie so a test can see the transient mode commit that the
// final post-Run restore otherwise overwrites.
type cpsrRecorder struct {
	*target.Mock
	cpsrWrites []uint32
}

func (r *cpsrRecorder) WriteCoreReg(cookie int, m mode.Mode, value uint32) error {
	if cookie == 16 {
		r.cpsrWrites = append(r.cpsrWrites, value)
	}
	return r.Mock.WriteCoreReg(cookie, m, value)
}

func TestRunCommitsRequestedCoreModeDuringExecution(t *testing.T) {
	backend := &cpsrRecorder{Mock: target.NewMock(4096)}
	bank := reg.New(backend, true, false)

	code, exit := BlankCheckCode()
	backend.SetExit(code2exit(len(code), exit), 1)

	in := []RegParam{{Name: "r0", Value: 0x2000}, {Name: "r1", Value: 4}, {Name: "r2", Value: 0xff}}
	if _, err := Run(bank, backend, code, nil, in, nil, 0, exit, svcARM, 50*time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(backend.cpsrWrites) == 0 {
		t.Fatal("Run never pushed a CPSR write to the backend")
	}
	if mode.Mode(backend.cpsrWrites[0]&0x1f) != mode.SVC {
		t.Errorf("first CPSR write during Run encodes mode %#x, want SVC", backend.cpsrWrites[0]&0x1f)
	}
}

func TestRunRestoresScratchRegistersNotInAnyParamList(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)

	r3, _ := bank.View(mode.SVC, 3)
	r3.Set(0xcafef00d)

	code, exit := CRC32Code()
	backend.SetExit(code2exit(len(code), exit), 1)

	in := []RegParam{{Name: "r0", Value: 0x2000}, {Name: "r1", Value: 4}}
	out := []RegParam{{Name: "r0"}}

	if _, err := Run(bank, backend, code, nil, in, out, 0, exit, svcARM, 50*time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r3.Value != 0xcafef00d {
		t.Errorf("r3 (scratch, never in an in/out list) after Run = %#x, want 0xcafef00d (restored)", r3.Value)
	}
}

// TestSnapshotRestoreRegsRoundTrip exercises Run's save/restore helpers
// directly, since the mock backend never actually executes code and so
// never clobbers a register Run didn't itself touch: this simulates
// the clobber CRC32's r2..r7 scratch usage would cause on a real core.
func TestSnapshotRestoreRegsRoundTrip(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)

	r3, _ := bank.View(mode.SVC, 3)
	r3.Set(0x11111111)

	ctx, cpsr := snapshotRegs(bank, mode.SVC)

	r3.Set(0x22222222) // simulate the algorithm clobbering a scratch register

	restoreRegs(ctx, cpsr)

	if r3.Value != 0x11111111 {
		t.Errorf("r3 after restoreRegs = %#x, want 0x11111111 (the snapshotted value)", r3.Value)
	}
}

func TestRunMarshalOutIsBestEffort(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)

	code, exit := BlankCheckCode()
	backend.SetExit(code2exit(len(code), exit), 1)

	in := []RegParam{{Name: "r0", Value: 0x2000}, {Name: "r1", Value: 4}, {Name: "r2", Value: 0xff}}
	out := []RegParam{{Name: "bogus"}, {Name: "r2"}}

	results, err := Run(bank, backend, code, nil, in, out, 0, exit, svcARM, 50*time.Millisecond)
	if !errors.Is(err, armerr.ErrInvalidArguments) {
		t.Fatalf("Run with an unknown output register = %v, want ErrInvalidArguments", err)
	}
	if len(results) != 1 || results[0].Name != "r2" {
		t.Errorf("results = %+v, want the r2 result to survive the bogus-register failure", results)
	}
}

// readRecorder wraps a Mock, remembering every address ReadBuffer was
// called with, so a test can tell whether a MemOut parameter was
// (wrongly) read back without depending on the mock ever mutating
// memory on its own.
type readRecorder struct {
	*target.Mock
	reads []uint32
}

func (r *readRecorder) ReadBuffer(address uint32, size int) ([]byte, error) {
	r.reads = append(r.reads, address)
	return r.Mock.ReadBuffer(address, size)
}

func TestRunMarshalsMemParams(t *testing.T) {
	backend := &readRecorder{Mock: target.NewMock(0x4000)}
	bank := reg.New(backend, true, false)

	code, exit := BlankCheckCode()
	backend.SetExit(code2exit(len(code), exit), 1)

	in := []RegParam{{Name: "r0", Value: 0x2000}, {Name: "r1", Value: 4}, {Name: "r2", Value: 0xff}}

	inOutData := []byte{0x01, 0x02, 0x03, 0x04}
	outOnlyData := []byte{0xaa}
	mem := []MemParam{
		{Address: 0x3000, Data: inOutData, Direction: MemInOut},
		{Address: 0x3100, Data: outOnlyData, Direction: MemOut},
	}

	if _, err := Run(bank, backend, code, mem, in, nil, 0, exit, svcARM, 50*time.Millisecond); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Read through the embedded Mock so this check is not itself
	// recorded as a marshal-out read.
	written, err := backend.Mock.ReadBuffer(0x3000, 4)
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	for i, b := range written {
		if b != inOutData[i] {
			t.Errorf("target memory at 0x3000 = %v, want %v (marshalled in)", written, inOutData)
			break
		}
	}

	sawReadAt := func(addr uint32) bool {
		for _, a := range backend.reads {
			if a == addr {
				return true
			}
		}
		return false
	}
	if !sawReadAt(0x3000) {
		t.Error("MemInOut parameter was never read back during marshal-out")
	}
	if sawReadAt(0x3100) {
		t.Error("MemOut parameter was read back during marshal-out, want it skipped")
	}
}

func TestRunTimesOutWhenTargetNeverHalts(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)
	backend.SetExit(0, 1000) // never reached within one WaitState call

	code, exit := BlankCheckCode()
	_, err := Run(bank, backend, code, nil, nil, []RegParam{{Name: "r2"}}, 0, exit, svcARM, time.Millisecond)
	if err == nil {
		t.Error("Run succeeded against a target that never halts, want a timeout error")
	}
}

// code2exit is a test-only helper: the mock's SetExit wants the actual
// exit address, which Run computes internally as addr+exitOffset. Since
// the mock always places the working area at a fixed 0x1000 base, the
// exit address is that base plus the offset.
func code2exit(_ int, exitOffset uint32) uint32 {
	return 0x1000 + exitOffset
}
