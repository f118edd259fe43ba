/*
 * ARMv4/5 debug core - debug session state.
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

// Package session ties one attached target's register bank and
// back-end together with the logging handler, so the CLI and console
// front ends share a single handle instead of threading three
// arguments through every command.
package session

import (
	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/target"
	"github.com/rcornwell/armv45/util/logger"
)

// Session is one attached ARM core: its register bank, the back-end
// it talks to, and the session-wide log handler.
type Session struct {
	Bank    *reg.Bank
	Backend target.Backend
	Log     *logger.Handler
}

// New builds a session over an already-constructed bank/back-end pair.
func New(bank *reg.Bank, backend target.Backend, log *logger.Handler) *Session {
	return &Session{Bank: bank, Backend: backend, Log: log}
}
