/*
 * ARMv4/5 debug core - CRC32 checksum example algorithm.
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
	"testing"
	"time"

	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
)

func TestCRC32CodeExitOffset(t *testing.T) {
	code, exit := CRC32Code()
	if len(code) != len(crc32Words)*4 {
		t.Errorf("len(code) = %d, want %d", len(code), len(crc32Words)*4)
	}
	wantExit := uint32(len(crc32Words)-2) * 4
	if exit != wantExit {
		t.Errorf("exit offset = %d, want %d (two words before the end, skipping the CRC32XOR constant)", exit, wantExit)
	}
}

func TestChecksumMemoryOneMegabyteReturnsPromptly(t *testing.T) {
	backend := target.NewMock(2 * 1024 * 1024)
	bank := reg.New(backend, true, false)
	backend.SetExit(0x1000+uint32(len(crc32Words)-2)*4, 1)

	start := time.Now()
	if _, err := ChecksumMemory(bank, backend, 0x2000, 1024*1024); err != nil {
		t.Fatalf("ChecksumMemory: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("ChecksumMemory took unexpectedly long for a mock that halts on the first poll")
	}
}

func TestChecksumMemoryPlumbsAddressAndCountIn(t *testing.T) {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)
	backend.SetExit(0x1000+uint32(len(crc32Words)-2)*4, 1)

	crc, err := ChecksumMemory(bank, backend, 0x40, 8)
	if err != nil {
		t.Fatalf("ChecksumMemory: %v", err)
	}
	// The mock does not execute ARM instructions (emulating instruction
	// semantics is out of scope), so r0 reads back whatever Run marshaled
	// in: the start address. This confirms the register plumbing, not a
	// real CRC32 value.
	if crc != 0x40 {
		t.Errorf("crc = %#x, want 0x40 (mock does not execute the algorithm)", crc)
	}
}
