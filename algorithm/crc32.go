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
	"encoding/binary"
	"time"

	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
)

// crc32Words is the ARM-state SVC-mode CRC32 loop: r0 in is the start
// address, r1 in is the byte count, r0 out is the CRC32 (seeded with
// 0xffffffff, CRC32XOR polynomial 0x04C11DB7).
var crc32Words = []uint32{
	0xE1A02000, // mov   r2, r0
	0xE3E00000, // mov   r0, #0xffffffff
	0xE1A03001, // mov   r3, r1
	0xE3A04000, // mov   r4, #0
	0xEA00000B, // b     ncomp
	// nbyte:
	0xE7D21004, // ldrb  r1, [r2, r4]
	0xE59F7030, // ldr   r7, CRC32XOR
	0xE0200C01, // eor   r0, r0, r1, asl 24
	0xE3A05000, // mov   r5, #0
	// loop:
	0xE3500000, // cmp   r0, #0
	0xE1A06080, // mov   r6, r0, asl #1
	0xE2855001, // add   r5, r5, #1
	0xE1A00006, // mov   r0, r6
	0xB0260007, // eorlt r0, r6, r7
	0xE3550008, // cmp   r5, #8
	0x1AFFFFF8, // bne   loop
	0xE2844001, // add   r4, r4, #1
	// ncomp:
	0xE1540003, // cmp   r4, r3
	0x1AFFFFF1, // bne   nbyte
	// end:
	0xEAFFFFFE, // b     end
	// CRC32XOR:
	0x04C11DB7,
}

func wordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// CRC32Code returns the uploadable byte form of the checksum
// algorithm, and the offset of its exit breakpoint (the infinite loop
// at "end:", two words before the end of the blob -- the CRC32XOR
// constant is data, not code, and must not be executed).
func CRC32Code() (code []byte, exitOffset uint32) {
	code = wordsToBytes(crc32Words)
	return code, uint32(len(crc32Words)-2) * 4
}

// ChecksumMemory runs the CRC32 algorithm over count bytes starting at
// address. The timeout scales with the transfer size: 20 seconds, plus
// 20 seconds for every whole megabyte in count.
func ChecksumMemory(bank *reg.Bank, backend target.Backend, address, count uint32) (uint32, error) {
	code, exitOffset := CRC32Code()
	timeout := time.Duration(20000*(1+count/(1024*1024))) * time.Millisecond

	in := []RegParam{
		{Name: "r0", Value: address},
		{Name: "r1", Value: count},
	}
	out := []RegParam{{Name: "r0"}}

	info := Info{CoreMode: mode.SVC, CoreState: mode.ARM}
	results, err := Run(bank, backend, code, nil, in, out, 0, exitOffset, info, timeout)
	if err != nil {
		return 0, err
	}
	return results[0].Value, nil
}
