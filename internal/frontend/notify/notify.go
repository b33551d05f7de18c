// Package notify carries transient user notifications (toasts) from the
// booking controllers to whatever front end hosts them.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

type Notifier interface {
	Notify(message string, level Level)
}

// Writer prints one line per notification, e.g. to a terminal.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func (w *Writer) Notify(message string, level Level) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.W, "[%s] %s\n", level, message)
}

type Entry struct {
	Message string
	Level   Level
}

// Recorder keeps every notification in order.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Notify(message string, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Message: message, Level: level})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
