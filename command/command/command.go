/*
 * ARMv4/5 debug core - command argument types.
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

// Package command holds the argument-shape vocabulary the debug
// console commands share. One target is attached per session rather
// than many addressable devices, so this is a trimmed descendant of a
// multi-device attach/set/show option system: just enough left to
// describe an argument's shape for the "help" command's usage lines.
package command

// ArgType is the shape of value an Arg expects.
type ArgType int

const (
	ArgSwitch  ArgType = 1 + iota // presence only, no value
	ArgHex                        // hexadecimal address or value
	ArgDecimal                    // decimal count
	ArgRegName                    // a register name, e.g. "r0" or "cpsr"
	ArgList                       // one of a fixed set of words
)

// Arg describes one argument a console command accepts.
type Arg struct {
	Name string
	Type ArgType
	List []string // valid words, when Type == ArgList
}
