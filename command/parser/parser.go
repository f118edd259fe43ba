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

// Package parser is the prefix-matched command dispatcher behind the
// debug console: halt/resume/reg/core_state/disassemble/mem/crc32/
// blank_check/debug/quit, each with an optional tab-completion hook.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/armv45/command/command"
	"github.com/rcornwell/armv45/session"
)

type cmd struct {
	name     string // Command name.
	min      int    // Minimum match size.
	args     []command.Arg
	process  func(*cmdLine, *session.Session) (bool, error)
	complete func(*cmdLine, *session.Session) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "halt", min: 2, process: cmdHalt},
	{
		name: "resume", min: 1, process: cmdResume,
		args: []command.Arg{{Name: "entry", Type: command.ArgHex}},
	},
	{
		name: "reg", min: 3, process: cmdReg, complete: completeReg,
		args: []command.Arg{{Name: "name", Type: command.ArgRegName}},
	},
	{
		name: "core_state", min: 5, process: cmdCoreState, complete: completeCoreState,
		args: []command.Arg{{Name: "state", Type: command.ArgList, List: []string{"arm", "thumb"}}},
	},
	{
		name: "disassemble", min: 4, process: cmdDisassemble,
		args: []command.Arg{
			{Name: "address", Type: command.ArgHex},
			{Name: "count", Type: command.ArgDecimal},
			{Name: "thumb", Type: command.ArgList, List: []string{"thumb"}},
		},
	},
	{
		name: "mem", min: 3, process: cmdMem,
		args: []command.Arg{{Name: "address", Type: command.ArgHex}, {Name: "count", Type: command.ArgDecimal}},
	},
	{
		name: "crc32", min: 3, process: cmdCRC32,
		args: []command.Arg{{Name: "address", Type: command.ArgHex}, {Name: "count", Type: command.ArgDecimal}},
	},
	{
		name: "blank_check", min: 3, process: cmdBlankCheck,
		args: []command.Arg{{Name: "address", Type: command.ArgHex}, {Name: "count", Type: command.ArgDecimal}},
	},
	{
		name: "debug", min: 3, process: cmdDebug,
		args: []command.Arg{{Name: "on|off", Type: command.ArgList, List: []string{"on", "off"}}},
	},
	{name: "help", min: 1, process: cmdHelp},
	{name: "quit", min: 4, process: cmdQuit},
}

// ProcessCommand parses and runs one command line against sess. It
// returns true when the session should end.
func ProcessCommand(commandLine string, sess *session.Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(&line, sess)
}

// CompleteCmd drives line-editor tab completion.
func CompleteCmd(commandLine string, sess *session.Session) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.pos < len(line.line) && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line, sess)
	}

	var matches []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			matches = append(matches, m.name)
		}
	}
	return matches
}

// matchCommand checks a candidate name against a command's minimum
// unique prefix length.
func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := range name {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

func (line *cmdLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

func (line *cmdLine) getPeek() byte {
	if line.pos+1 >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

// getWord reads the next whitespace-delimited word, lower-cased.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}
	value := ""
	by := line.line[line.pos]
	for {
		value += string(by)
		by = line.getNext()
		if line.isEOL() || unicode.IsSpace(rune(by)) {
			break
		}
	}
	return strings.ToLower(value)
}

// parseQuoteString reads a "quoted string" or a bare word.
func (line *cmdLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""
	if line.getPeek() == '"' {
		inQuote = true
		_ = line.getNext()
	}
	for {
		by := line.getNext()
		if by == '"' && inQuote {
			return value, true
		}
		if !inQuote && (unicode.IsSpace(rune(by)) || by == 0) {
			return value, true
		}
		value += string(by)
		if line.isEOL() {
			return value, !inQuote
		}
	}
}

// parseHex32 reads a word and parses it as hex, with or without a
// leading "0x".
func (line *cmdLine) parseHex32() (uint32, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("expected a hex number")
	}
	word = strings.TrimPrefix(word, "0x")
	v, err := strconv.ParseUint(word, 16, 32)
	if err != nil {
		return 0, errors.New("not a valid hex number: " + word)
	}
	return uint32(v), nil
}

// parseDecimal32 reads a word and parses it as a decimal count.
func (line *cmdLine) parseDecimal32() (uint32, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("expected a number")
	}
	v, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		return 0, errors.New("not a valid number: " + word)
	}
	return uint32(v), nil
}
