/*
 * ARMv4/5 debug core - command parser.
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
	"testing"

	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/session"
	"github.com/rcornwell/armv45/target"
	"github.com/rcornwell/armv45/util/logger"
)

func newTestSession() *session.Session {
	backend := target.NewMock(4096)
	bank := reg.New(backend, true, false)
	return session.New(bank, backend, logger.NewHandler(nil, 0, false))
}

func TestProcessCommandUnknown(t *testing.T) {
	sess := newTestSession()
	_, err := ProcessCommand("frobnicate", sess)
	if err == nil {
		t.Error("ProcessCommand(frobnicate) succeeded, want an error")
	}
}

func TestProcessCommandPrefixBelowEveryMinimum(t *testing.T) {
	sess := newTestSession()
	// "c" is a prefix of both "core_state" (min=5) and "crc32" (min=3)
	// but shorter than either minimum, so it matches no command.
	_, err := ProcessCommand("c", sess)
	if err == nil {
		t.Error("ProcessCommand(c) succeeded, want a command-not-found error")
	}
}

func TestProcessCommandAbbreviation(t *testing.T) {
	sess := newTestSession()
	// "halt" has min=2: "ha" should resolve uniquely.
	if _, err := ProcessCommand("ha", sess); err != nil {
		t.Errorf("ProcessCommand(ha) = %v, want nil (unique abbreviation of halt)", err)
	}
}

func TestProcessCommandBelowMinimumAbbreviation(t *testing.T) {
	sess := newTestSession()
	// "quit" has min=4: "qui" is below the minimum and also a prefix of
	// no other command, so it should fail outright.
	if _, err := ProcessCommand("qui", sess); err == nil {
		t.Error("ProcessCommand(qui) succeeded, want an error (below quit's min abbreviation)")
	}
}

func TestProcessCommandQuitReturnsTrue(t *testing.T) {
	sess := newTestSession()
	quit, err := ProcessCommand("quit", sess)
	if err != nil {
		t.Fatalf("ProcessCommand(quit): %v", err)
	}
	if !quit {
		t.Error("ProcessCommand(quit) quit = false, want true")
	}
}

func TestProcessCommandIsCaseInsensitive(t *testing.T) {
	sess := newTestSession()
	if _, err := ProcessCommand("HALT", sess); err != nil {
		t.Errorf("ProcessCommand(HALT): %v, want nil", err)
	}
}

func TestProcessCommandTrailingComment(t *testing.T) {
	sess := newTestSession()
	if _, err := ProcessCommand("halt # stop the core", sess); err != nil {
		t.Errorf("ProcessCommand with a trailing comment: %v, want nil", err)
	}
}

func TestCompleteCmdOnCommandName(t *testing.T) {
	sess := newTestSession()
	matches := CompleteCmd("cr", sess)
	found := false
	for _, m := range matches {
		if m == "crc32" {
			found = true
		}
	}
	if !found {
		t.Errorf("CompleteCmd(cr) = %v, want it to include crc32", matches)
	}
}

func TestCompleteCmdDelegatesToSubcommand(t *testing.T) {
	sess := newTestSession()
	matches := CompleteCmd("core_state a", sess)
	if len(matches) != 1 || matches[0] != "arm" {
		t.Errorf("CompleteCmd(core_state a) = %v, want [arm]", matches)
	}
}

func TestMatchCommandRejectsLongerName(t *testing.T) {
	m := cmd{name: "halt", min: 2}
	if matchCommand(m, "haltnow") {
		t.Error("matchCommand matched a candidate longer than the command name")
	}
}

func TestCmdLineParseHex32AcceptsOptional0xPrefix(t *testing.T) {
	line := &cmdLine{line: "0x1000 rest"}
	v, err := line.parseHex32()
	if err != nil {
		t.Fatalf("parseHex32: %v", err)
	}
	if v != 0x1000 {
		t.Errorf("parseHex32 = %#x, want 0x1000", v)
	}
}

func TestCmdLineParseHex32RejectsGarbage(t *testing.T) {
	line := &cmdLine{line: "not-hex"}
	if _, err := line.parseHex32(); err == nil {
		t.Error("parseHex32(not-hex) succeeded, want an error")
	}
}

func TestCmdLineParseDecimal32(t *testing.T) {
	line := &cmdLine{line: "42"}
	v, err := line.parseDecimal32()
	if err != nil {
		t.Fatalf("parseDecimal32: %v", err)
	}
	if v != 42 {
		t.Errorf("parseDecimal32 = %d, want 42", v)
	}
}

func TestCmdLineGetWordLowercases(t *testing.T) {
	line := &cmdLine{line: "HaLt now"}
	if got := line.getWord(); got != "halt" {
		t.Errorf("getWord = %q, want halt", got)
	}
}

func TestCmdLineIsEOLAtHash(t *testing.T) {
	line := &cmdLine{line: "# comment"}
	if !line.isEOL() {
		t.Error("isEOL() at a leading # = false, want true")
	}
}
