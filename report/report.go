// Package report carries pipeline status messages to the console, so the
// table and filter code never prints anything itself.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Reporter receives status messages from the pipeline.
type Reporter interface {
	// Stage announces the start of a pipeline step.
	Stage(msg string)

	// Removed records how many SNPs a filter step eliminated.
	Removed(stage string, n int)

	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Logrus writes status messages through a logrus logger.
type Logrus struct {
	log *logrus.Logger
}

// NewLogrus logs to w. Timestamps are dropped when w is not a terminal, the
// same as for logs captured by a batch scheduler.
func NewLogrus(w io.Writer, verbose bool) *Logrus {
	l := logrus.New()
	l.Out = w

	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp: !tty,
		FullTimestamp:    tty,
	}

	l.Level = logrus.InfoLevel
	if verbose {
		l.Level = logrus.DebugLevel
	}

	return &Logrus{log: l}
}

// Logger exposes the underlying logger, e.g. for fatal errors in main.
func (r *Logrus) Logger() *logrus.Logger {
	return r.log
}

func (r *Logrus) Stage(msg string) {
	r.log.WithField("stage", msg).Info(msg)
}

func (r *Logrus) Removed(stage string, n int) {
	r.log.WithFields(logrus.Fields{
		"stage":   stage,
		"removed": n,
	}).Infof("SNPs removed: %d", n)
}

func (r *Logrus) Infof(format string, args ...interface{}) {
	r.log.Infof(format, args...)
}

func (r *Logrus) Warnf(format string, args ...interface{}) {
	r.log.Warnf(format, args...)
}

func (r *Logrus) Debugf(format string, args ...interface{}) {
	r.log.Debugf(format, args...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Stage(string)                  {}
func (Nop) Removed(string, int)           {}
func (Nop) Infof(string, ...interface{})  {}
func (Nop) Warnf(string, ...interface{})  {}
func (Nop) Debugf(string, ...interface{}) {}

// Recorder keeps every message in memory. It is meant for tests.
type Recorder struct {
	mu       sync.Mutex
	Stages   []string
	Removals []Removal
	Messages []string
	Warnings []string
}

type Removal struct {
	Stage string
	N     int
}

func (r *Recorder) Stage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stages = append(r.Stages, msg)
}

func (r *Recorder) Removed(stage string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Removals = append(r.Removals, Removal{Stage: stage, N: n})
}

func (r *Recorder) Infof(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warnf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Debugf(format string, args ...interface{}) {}
