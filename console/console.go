/*
 * ARMv4/5 debug core - TCP console server.
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

// Package console is a second front end for the C7 command family,
// reachable over plain TCP instead of stdin: the same accept-loop,
// per-connection goroutine, and shutdown-channel pattern the teacher
// uses for its telnet listener, with the terminal-model/3270 protocol
// machinery stripped out in favor of a line-oriented command loop.
package console

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rcornwell/armv45/command/parser"
	"github.com/rcornwell/armv45/session"
)

// Server accepts command-console connections on one TCP address.
type Server struct {
	wg         sync.WaitGroup
	listener   net.Listener
	shutdown   chan struct{}
	connection chan net.Conn
	sess       *session.Session
}

// Start opens a listener on addr and begins serving connections in
// background goroutines. Stop must be called to release it.
func Start(addr string, sess *session.Session) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("console: listen on %s: %w", addr, err)
	}

	s := &Server{
		listener:   listener,
		shutdown:   make(chan struct{}),
		connection: make(chan net.Conn),
		sess:       sess,
	}

	slog.Info("console server started on " + listener.Addr().String())

	s.wg.Add(2)
	go s.acceptConnections()
	go s.handleConnections()
	return s, nil
}

// Stop closes the listener and waits up to one second for the accept
// and dispatch goroutines to exit. Client sessions already running are
// neither closed nor waited for.
func (s *Server) Stop() {
	close(s.shutdown)
	s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("console: timed out waiting for connections to close")
	}
}

func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		default:
			conn, err := s.listener.Accept()
			if err != nil {
				continue
			}
			s.connection <- conn
		}
	}
}

func (s *Server) handleConnections() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		case conn := <-s.connection:
			go handleClient(conn, s.sess)
		}
	}
}

// handleClient runs the read-eval-print loop for one connection: a
// line in, then an "Error:" line back if the command failed, until the
// client quits, disconnects, or the command set says to end the
// session. Command output itself goes to the process's stdout, not to
// the connection.
func handleClient(conn net.Conn, sess *session.Session) {
	defer conn.Close()

	fmt.Fprint(conn, "armdbg> ")
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		commandLine := strings.TrimRight(scanner.Text(), "\r\n")
		quit, err := parser.ProcessCommand(commandLine, sess)
		if err != nil {
			fmt.Fprintln(conn, "Error: "+err.Error())
		}
		if quit {
			return
		}
		fmt.Fprint(conn, "armdbg> ")
	}
}
