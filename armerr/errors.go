/*
 * ARMv4/5 debug core - shared error codes.
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

// Package armerr holds the sentinel errors shared by every layer of the
// ARMv4/5 core so that callers can errors.Is against a stable vocabulary
// instead of string-matching.
package armerr

import "errors"

var (
	// ErrNotHalted is returned by any register or algorithm operation
	// attempted while the target is running.
	ErrNotHalted = errors.New("target not halted")

	// ErrInvalidArguments covers unknown register names, register size
	// mismatches, and unsupported instruction-set states.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrTargetInvalid marks a caller/target mismatch, such as a
	// common-magic check failing or a core that isn't an ARM at all.
	ErrTargetInvalid = errors.New("target invalid")

	// ErrTargetTimeout is returned when an algorithm fails to reach its
	// exit point within the requested (plus grace) timeout.
	ErrTargetTimeout = errors.New("target timeout")

	// ErrTargetFailure covers back-end failures that aren't timeouts,
	// such as a breakpoint that could not be installed.
	ErrTargetFailure = errors.New("target failure")

	// ErrFail is the generic catch-all failure, returned when the cached
	// core mode is not a valid ARM mode (algorithm.Run, gdbview.List).
	ErrFail = errors.New("command failed")
)
