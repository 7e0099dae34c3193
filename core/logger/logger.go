// Package logger records shell session activity as newline-delimited JSON
// so sessions can be audited or summarized after the fact.
package logger

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event kinds.
const (
	// KindExec is an external command that was spawned.
	KindExec = "exec"
	// KindBuiltin is a command handled inside the shell.
	KindBuiltin = "builtin"
	// KindNotFound is a command that resolved to nothing.
	KindNotFound = "not_found"
	// KindSyntaxError is a line the tokenizer rejected.
	KindSyntaxError = "syntax_error"
)

// Event is a single record in the session log.
type Event struct {
	Time   time.Time `json:"time"`
	Kind   string    `json:"kind"`
	Line   string    `json:"line,omitempty"`
	Argv   []string  `json:"argv,omitempty"`
	Path   string    `json:"path,omitempty"`
	Status int       `json:"status"`
}

// Recorder writes events as JSON lines.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc: json.NewEncoder(w),
		now: time.Now,
	}
}

// Record stamps and writes one event.
func (r *Recorder) Record(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Time.IsZero() {
		ev.Time = r.now()
	}
	return r.enc.Encode(ev)
}

// ReadLog parses a newline-delimited JSON session log, calling handler for
// each event in order.
func ReadLog(r io.Reader, handler func(ev *Event)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var ev Event
		if err := decoder.Decode(&ev); err != nil {
			return err
		}
		handler(&ev)
	}
	return nil
}
