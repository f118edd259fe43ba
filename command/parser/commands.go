/*
 * ARMv4/5 debug core - command executor.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/armv45/algorithm"
	"github.com/rcornwell/armv45/command/command"
	"github.com/rcornwell/armv45/mode"
	"github.com/rcornwell/armv45/session"
	"github.com/rcornwell/armv45/target"
)

// cmdHalt halts the attached target.
func cmdHalt(_ *cmdLine, sess *session.Session) (bool, error) {
	slog.Info("Command Halt")
	return false, sess.Backend.Halt()
}

// cmdResume resumes execution. With no argument, it resumes from the
// current PC; an optional hex address overrides the entry point.
func cmdResume(line *cmdLine, sess *session.Session) (bool, error) {
	slog.Info("Command Resume")

	entry := uint32(0)
	if !line.isEOL() {
		v, err := line.parseHex32()
		if err != nil {
			return false, err
		}
		entry = v
	} else {
		pc, ok := sess.Bank.View(mode.ANY, 15)
		if !ok {
			return false, errors.New("resume: no pc slot for current mode")
		}
		if err := pc.Get(); err != nil {
			return false, err
		}
		entry = pc.Value
	}
	return false, sess.Backend.Resume(entry)
}

// cmdReg implements the "reg" command of spec §4.7: walk the mode
// table, skip SYS (merged into USR) and MON unless TrustZone, print
// each mode's distinctive registers four per line. A single eager
// FullContext call replaces the source's per-slot lazy fetch -- a
// documented simplification, not a behavior regression.
func cmdReg(_ *cmdLine, sess *session.Session) (bool, error) {
	if sess.Backend.State() != target.StateHalted {
		return false, errors.New("reg: target is not halted")
	}
	if !mode.IsValid(sess.Bank.CoreMode()) {
		return false, errors.New("reg: core is not a recognized ARM mode")
	}

	if err := sess.Bank.FullContext(); err != nil {
		return false, err
	}

	for _, m := range mode.All() {
		if m.PSR == mode.SYS {
			continue
		}
		if m.PSR == mode.MON && !sess.Bank.TrustZone() {
			continue
		}

		var names []string
		for logical := 0; logical < 17; logical++ {
			slot, ok := sess.Bank.View(m.PSR, logical)
			if !ok {
				continue
			}
			if slot.Mode == mode.ANY {
				continue
			}
			names = append(names, slot.Name)
		}
		if len(names) == 0 {
			continue
		}

		fmt.Printf("-- %s --\n", m.Name)
		for i := 0; i < len(names); i += 4 {
			end := min(i+4, len(names))
			var line strings.Builder
			for _, name := range names[i:end] {
				slot, _ := sess.Bank.ByName(name)
				fmt.Fprintf(&line, "%8s: %08x ", slot.Name, slot.Value)
			}
			fmt.Println(line.String())
		}
	}
	return false, nil
}

// completeReg offers every register name as a completion candidate.
func completeReg(line *cmdLine, sess *session.Session) []string {
	prefix := line.getWord()
	var matches []string
	for i := 0; i < sess.Bank.NumRegs(); i++ {
		slot := sess.Bank.Slot(i)
		if slot.Name == "" {
			continue
		}
		if strings.HasPrefix(slot.Name, prefix) {
			matches = append(matches, slot.Name)
		}
	}
	return matches
}

// cmdCoreState implements "core_state [arm|thumb]": with no argument,
// print the cached instruction-set state; with an argument, set it
// directly without touching CPSR. This is a debugging escape hatch,
// not a real mode transition.
func cmdCoreState(line *cmdLine, sess *session.Session) (bool, error) {
	if line.isEOL() {
		fmt.Println(sess.Bank.CoreState().String())
		return false, nil
	}

	switch line.getWord() {
	case "arm":
		sess.Bank.SetCachedState(mode.ARM)
	case "thumb":
		sess.Bank.SetCachedState(mode.Thumb)
	default:
		return false, errors.New("core_state: argument must be arm or thumb")
	}
	return false, nil
}

func completeCoreState(line *cmdLine, _ *session.Session) []string {
	prefix := line.getWord()
	var matches []string
	for _, s := range []string{"arm", "thumb"} {
		if strings.HasPrefix(s, prefix) {
			matches = append(matches, s)
		}
	}
	return matches
}

// cmdDisassemble implements "disassemble <address> [<count> [thumb]]"
// of spec §4.7. The instruction decoder itself is an external
// collaborator (spec §1 non-goal); decodeStub stands in for it here,
// printing the raw instruction word rather than a mnemonic. A low bit
// set on address forces Thumb and is cleared before the first fetch.
func cmdDisassemble(line *cmdLine, sess *session.Session) (bool, error) {
	address, err := line.parseHex32()
	if err != nil {
		return false, err
	}

	count := uint32(1)
	if !line.isEOL() {
		c, err := line.parseDecimal32()
		if err != nil {
			return false, err
		}
		count = c
	}

	thumb := false
	if !line.isEOL() {
		if line.getWord() != "thumb" {
			return false, errors.New("disassemble: trailing argument must be \"thumb\"")
		}
		thumb = true
	}

	if address&1 != 0 {
		thumb = true
		address &^= 1
	}

	for i := uint32(0); i < count; i++ {
		text, size, err := decodeStub(sess.Backend, address, thumb)
		if err != nil {
			return false, err
		}
		fmt.Printf("%08x: %s\n", address, text)
		address += size
	}
	return false, nil
}

// decodeStub is the minimal stand-in for the out-of-scope instruction
// decoder: it fetches the raw word (or halfword, in Thumb) and renders
// it in hex rather than as a mnemonic.
func decodeStub(backend target.Backend, address uint32, thumb bool) (text string, size uint32, err error) {
	if thumb {
		buf, err := backend.ReadBuffer(address, 2)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf(".hword 0x%02x%02x", buf[1], buf[0]), 2, nil
	}
	v, err := backend.ReadU32(address)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf(".word 0x%08x", v), 4, nil
}

// cmdMem dumps "count" words of target memory starting at "address" as
// "%06X:"-prefixed lines, the teacher's examine-command dump idiom.
func cmdMem(line *cmdLine, sess *session.Session) (bool, error) {
	address, err := line.parseHex32()
	if err != nil {
		return false, err
	}
	count, err := line.parseDecimal32()
	if err != nil {
		return false, err
	}

	for i := uint32(0); i < count; i++ {
		v, err := sess.Backend.ReadU32(address)
		if err != nil {
			return false, err
		}
		fmt.Printf("%06X: %08X\n", address, v)
		address += 4
	}
	return false, nil
}

// cmdCRC32 runs the CRC32 example algorithm over "crc32 <address>
// <count>" and prints the result.
func cmdCRC32(line *cmdLine, sess *session.Session) (bool, error) {
	address, err := line.parseHex32()
	if err != nil {
		return false, err
	}
	count, err := line.parseDecimal32()
	if err != nil {
		return false, err
	}

	crc, err := algorithm.ChecksumMemory(sess.Bank, sess.Backend, address, count)
	if err != nil {
		return false, err
	}
	fmt.Printf("crc32 = %08x\n", crc)
	return false, nil
}

// cmdBlankCheck runs the blank-check example algorithm and reports
// whether the range reads back erased.
func cmdBlankCheck(line *cmdLine, sess *session.Session) (bool, error) {
	address, err := line.parseHex32()
	if err != nil {
		return false, err
	}
	count, err := line.parseDecimal32()
	if err != nil {
		return false, err
	}

	blank, err := algorithm.BlankCheckMemory(sess.Bank, sess.Backend, address, count)
	if err != nil {
		return false, err
	}
	if blank {
		fmt.Println("range is blank")
	} else {
		fmt.Println("range is not blank")
	}
	return false, nil
}

// cmdDebug toggles debug-level echo to stderr.
func cmdDebug(line *cmdLine, sess *session.Session) (bool, error) {
	word := line.getWord()
	switch word {
	case "", "on":
		sess.Log.SetDebug(true)
	case "off":
		sess.Log.SetDebug(false)
	default:
		return false, errors.New("debug: argument must be on or off")
	}
	return false, nil
}

// cmdQuit ends the console session.
func cmdQuit(_ *cmdLine, _ *session.Session) (bool, error) {
	slog.Info("Command Quit")
	return true, nil
}

// cmdHelp lists every command and the shape of the arguments it takes,
// built off the same command.Arg vocabulary completion would use for a
// richer per-argument completer.
func cmdHelp(_ *cmdLine, _ *session.Session) (bool, error) {
	for _, c := range cmdList {
		if len(c.args) == 0 {
			fmt.Println(c.name)
			continue
		}
		var parts []string
		for _, a := range c.args {
			parts = append(parts, argUsage(a))
		}
		fmt.Printf("%s %s\n", c.name, strings.Join(parts, " "))
	}
	return false, nil
}

// argUsage renders one command.Arg as a usage fragment, e.g.
// "<address:hex>" or "<state: arm|thumb>".
func argUsage(a command.Arg) string {
	switch a.Type {
	case command.ArgSwitch:
		return "[" + a.Name + "]"
	case command.ArgHex:
		return "<" + a.Name + ":hex>"
	case command.ArgDecimal:
		return "<" + a.Name + ":dec>"
	case command.ArgRegName:
		return "<" + a.Name + ":reg>"
	case command.ArgList:
		return "<" + a.Name + ": " + strings.Join(a.List, "|") + ">"
	default:
		return "<" + a.Name + ">"
	}
}
