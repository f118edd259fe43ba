/*
 * ARMv4/5 debug core - session configuration file parser.
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

// Package configparser reads the session configuration file that
// describes one debug attachment: which back-end to use, whether the
// core advertises TrustZone/ARMv4, the working-area hint, and the
// ambient logging/console setup.
//
// File format:
//
//	'#' starts a comment, rest of line ignored.
//	<line> := <key> [<value>]
//	<key>  := 'target' | 'trustzone' | 'armv4' | 'memsize' |
//	          'workarea' | 'listen' | 'logfile' | 'loglevel'
//	<value> for trustzone/armv4 is 'on'/'off', bare key means 'on'.
//	<value> for memsize is a decimal or 0x-hex number with an optional k/m suffix.
//	<value> for workarea is "<addr> <size>", both hex or decimal/k/m.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Config is the parsed session configuration, pre-populated with
// defaults by Default before a file is loaded over it.
type Config struct {
	Target    string // back-end name, e.g. "mock"
	TrustZone bool
	IsARMv4   bool

	MemSize         uint32
	WorkAreaAddress uint32
	WorkAreaSize    uint32

	Listen   string // console TCP listen address, empty disables it
	LogFile  string
	LogLevel string // "debug", "info", "warn", or "error"
}

// Default returns the baseline configuration: an in-process mock
// target, no TrustZone, ARMv5+ semantics, a 64KiB address space, and
// console logging only.
func Default() *Config {
	return &Config{
		Target:   "mock",
		MemSize:  64 * 1024,
		LogLevel: "info",
	}
}

type optionLine struct {
	line string
	pos  int
}

// LoadConfigFile reads name line by line, applying each directive onto
// cfg. Lines are processed in order, so a later directive overrides an
// earlier one of the same key.
func LoadConfigFile(name string, cfg *Config) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber := 0
	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		line := optionLine{line: raw}
		if perr := line.parseLine(cfg); perr != nil {
			return fmt.Errorf("line %d: %w", lineNumber, perr)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return nil
}

func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

func (line *optionLine) getNext() byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	return line.line[line.pos]
}

func (line *optionLine) getPeek() byte {
	if line.pos+1 >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

// getWord reads a run of non-space characters.
func (line *optionLine) getWord() string {
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
	return value
}

// parseQuoteString reads either a "quoted string" or a bare
// whitespace-delimited word.
func (line *optionLine) parseQuoteString() (string, bool) {
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

func (line *optionLine) parseLine(cfg *Config) error {
	line.skipSpace()
	if line.isEOL() {
		return nil
	}

	key := strings.ToLower(line.getWord())
	switch key {
	case "target":
		cfg.Target = strings.ToLower(line.getWord())
	case "trustzone":
		cfg.TrustZone = line.parseSwitch()
	case "armv4":
		cfg.IsARMv4 = line.parseSwitch()
	case "memsize":
		v, err := line.parseSize()
		if err != nil {
			return fmt.Errorf("memsize: %w", err)
		}
		cfg.MemSize = v
	case "workarea":
		addr, err := line.parseSize()
		if err != nil {
			return fmt.Errorf("workarea address: %w", err)
		}
		size, err := line.parseSize()
		if err != nil {
			return fmt.Errorf("workarea size: %w", err)
		}
		cfg.WorkAreaAddress = addr
		cfg.WorkAreaSize = size
	case "listen":
		cfg.Listen = line.getWord()
	case "logfile":
		v, ok := line.parseQuoteString()
		if !ok {
			return errors.New("logfile: unterminated quoted string")
		}
		cfg.LogFile = v
	case "loglevel":
		cfg.LogLevel = strings.ToLower(line.getWord())
	default:
		return errors.New("unknown directive: " + key)
	}
	return nil
}

// parseSwitch reads an optional on/off argument; a bare switch
// directive (nothing follows on the line) means "on".
func (line *optionLine) parseSwitch() bool {
	line.skipSpace()
	if line.isEOL() {
		return true
	}
	return strings.ToLower(line.getWord()) != "off"
}

// parseSize reads a decimal or 0x-hex number with an optional k/m
// suffix (1k = 1024, 1m = 1024*1024).
func (line *optionLine) parseSize() (uint32, error) {
	word := line.getWord()
	if word == "" {
		return 0, errors.New("expected a number")
	}
	mult := uint64(1)
	switch word[len(word)-1] {
	case 'k', 'K':
		mult = 1024
		word = word[:len(word)-1]
	case 'm', 'M':
		mult = 1024 * 1024
		word = word[:len(word)-1]
	}
	base := 10
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		base = 16
		word = word[2:]
	}
	v, err := strconv.ParseUint(word, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v * mult), nil
}
