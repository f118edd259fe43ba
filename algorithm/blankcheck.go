/*
 * ARMv4/5 debug core - blank-check example algorithm.
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
	"time"

	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
)

// blankCheckWords ANDs every byte in [r0, r0+r1) into r2, which starts
// seeded at 0xff: erased NOR flash reads all ones, so a fully blank
// range leaves r2 == 0xff.
var blankCheckWords = []uint32{
	// loop:
	0xe4d03001, // ldrb r3, [r0], #1
	0xe0022003, // and  r2, r2, r3
	0xe2511001, // subs r1, r1, #1
	0x1afffffb, // bne  loop
	// end:
	0xeafffffe, // b    end
}

// BlankCheckCode returns the uploadable byte form of the blank-check
// algorithm and the offset of its exit breakpoint.
func BlankCheckCode() (code []byte, exitOffset uint32) {
	code = wordsToBytes(blankCheckWords)
	return code, uint32(len(blankCheckWords)-1) * 4
}

// BlankCheckMemory runs the blank-check algorithm over count bytes
// starting at address, reporting whether the range reads back as all
// 0xff (erased). The timeout is fixed at 10 seconds regardless of
// count, matching the example's behavior.
func BlankCheckMemory(bank *reg.Bank, backend target.Backend, address, count uint32) (blank bool, err error) {
	code, exitOffset := BlankCheckCode()

	in := []RegParam{
		{Name: "r0", Value: address},
		{Name: "r1", Value: count},
		{Name: "r2", Value: 0xff},
	}
	out := []RegParam{{Name: "r2"}}

	info := Info{CoreMode: mode.SVC, CoreState: mode.ARM}
	results, err := Run(bank, backend, code, nil, in, out, 0, exitOffset, info, 10*time.Second)
	if err != nil {
		return false, err
	}
	return results[0].Value == 0xff, nil
}
