// Package logging provides the leveled logger used across the engine.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	verbose bool
}

// New creates a Logger writing to stdout/stderr. Debug lines are emitted
// only when verbose is set.
func New(verbose bool) *Logger {
	return &Logger{
		info:    log.New(os.Stdout, "", 0),
		warn:    log.New(os.Stdout, "", 0),
		err:     log.New(os.Stderr, "", 0),
		debug:   log.New(os.Stdout, "", 0),
		verbose: verbose,
	}
}

// NewWriter creates a Logger sending every level to w, for session log files.
func NewWriter(w io.Writer, verbose bool) *Logger {
	l := log.New(w, "", 0)
	return &Logger{info: l, warn: l, err: l, debug: l, verbose: verbose}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(fmt.Sprintf("[%s] \033[32mINFO\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(fmt.Sprintf("[%s] \033[33mWARN\033[0m  %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(fmt.Sprintf("[%s] \033[31mERROR\033[0m %s\n", l.timestamp(), format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.debug.Printf(fmt.Sprintf("[%s] \033[36mDEBUG\033[0m %s\n", l.timestamp(), format), args...)
}
