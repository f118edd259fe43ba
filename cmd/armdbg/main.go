/*
 * ARMv4/5 debug core - main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/armv45/command/reader"
	config "github.com/rcornwell/armv45/config/configparser"
	"github.com/rcornwell/armv45/console"
	logger "github.com/rcornwell/armv45/util/logger"

	"github.com/rcornwell/armv45/reg"
	"github.com/rcornwell/armv45/session"
	"github.com/rcornwell/armv45/target"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optListen := getopt.StringLong("listen", 'L', "", "Console TCP listen address (overrides config file)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *optConfig != "" {
		if err := config.LoadConfigFile(*optConfig, cfg); err != nil {
			slog.Error("loading configuration: " + err.Error())
			os.Exit(1)
		}
	}
	if *optListen != "" {
		cfg.Listen = *optListen
	}

	var logFile *os.File
	if *optLogFile != "" {
		cfg.LogFile = *optLogFile
	}
	if cfg.LogFile != "" {
		var err error
		logFile, err = os.Create(cfg.LogFile)
		if err != nil {
			slog.Error("creating log file: " + err.Error())
			os.Exit(1)
		}
	}

	level := parseLevel(cfg.LogLevel)
	handler := logger.NewHandler(logFile, level, level <= slog.LevelDebug)
	log := slog.New(handler)
	slog.SetDefault(log)

	log.Info("armdbg started", "target", cfg.Target)

	backend, err := newBackend(cfg)
	if err != nil {
		log.Error("creating back end: " + err.Error())
		os.Exit(1)
	}

	bank := reg.New(backend, cfg.TrustZone, cfg.IsARMv4)
	sess := session.New(bank, backend, handler)

	var consoleServer *console.Server
	if cfg.Listen != "" {
		consoleServer, err = console.Start(cfg.Listen, sess)
		if err != nil {
			log.Error("starting console server: " + err.Error())
			os.Exit(1)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		reader.ConsoleReader(sess)
		close(done)
	}()

	select {
	case <-sigChan:
		log.Info("got quit signal")
	case <-done:
		log.Info("console quit")
	}

	if consoleServer != nil {
		consoleServer.Stop()
	}
	log.Info("armdbg shutting down")
}

// newBackend constructs the back end named by cfg.Target. Only the
// in-memory Mock is built in; real JTAG adapter drivers are external
// collaborators per spec §1/§6 and are wired in by a caller that
// imports its own target.Backend implementation.
func newBackend(cfg *config.Config) (target.Backend, error) {
	switch cfg.Target {
	case "", "mock":
		return target.NewMock(cfg.MemSize), nil
	default:
		return nil, errUnknownTarget(cfg.Target)
	}
}

type errUnknownTarget string

func (e errUnknownTarget) Error() string { return "unknown target backend: " + string(e) }

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
