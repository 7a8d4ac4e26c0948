// Package logwriter wraps a io.Writer for dinephil logging.
//
package logwriter // "github.com/nickng/dinephil/logwriter"

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Writer is a log writer and its configurations.
//
// Philosophers log from their own goroutines, so writes to the underlying
// destination are serialised.
type Writer struct {
	io.Writer

	LogFile       string
	EnableLogging bool
	EnableColour  bool
	Cleanup       func()

	mu sync.Mutex
}

// NewFile creates a new file writer. An empty logfile means stdout.
func NewFile(logfile string, enableLogging, enableColour bool) *Writer {
	return &Writer{
		LogFile:       logfile,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// New creates a new log writer.
func New(w io.Writer, enableLogging, enableColour bool) *Writer {
	return &Writer{
		Writer:        w,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// Create initialises a new writer.
func (w *Writer) Create() error {
	color.NoColor = !w.EnableColour
	if !w.EnableLogging {
		w.Writer = io.Discard
		w.Cleanup = func() {}
		return nil
	}
	if w.Writer != nil {
		w.Cleanup = func() {}
		return nil
	}
	if w.LogFile == "" {
		w.Writer = os.Stdout
		w.Cleanup = func() {}
		return nil
	}
	f, err := os.Create(w.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	bufWriter := bufio.NewWriter(f)
	w.Writer = bufWriter
	w.Cleanup = func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if err := bufWriter.Flush(); err != nil {
			log.Printf("flush: %s", err)
		}
		if err := f.Close(); err != nil {
			log.Printf("close: %s", err)
		}
	}
	return nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Writer.Write(p)
}

// Logger returns a logger writing to w with the given component prefix.
func (w *Writer) Logger(prefix string) *log.Logger {
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}
