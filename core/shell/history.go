package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// History is the append-only log of lines the shell has read. Indices are
// 1-based and never reused within a session. The store tracks a watermark of
// entries already written to a history file so repeated appends only emit
// what is new.
type History struct {
	entries []string
	flushed int
}

func NewHistory() *History {
	return &History{}
}

// Add records a line as the next history entry.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
}

// Len returns the number of entries recorded so far.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the full history in insertion order.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Tail returns the most recent n entries and the 1-based index of the first
// one returned.
func (h *History) Tail(n int) (start int, entries []string) {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return len(h.entries) - n + 1, append([]string(nil), h.entries[len(h.entries)-n:]...)
}

// Load appends the lines of the named file as new entries. The loaded lines
// do not count as flushed; a later append writes them back out.
func (h *History) Load(fsys vos.VFS, path string) error {
	fd, err := fsys.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			h.entries = append(h.entries, line)
		}
	}
	return scanner.Err()
}

// LoadInitial seeds the history from the configured history file at startup.
// Loaded entries count as flushed so the exit-time append won't duplicate
// them.
func (h *History) LoadInitial(fsys vos.VFS, path string) error {
	err := h.Load(fsys, path)
	h.flushed = len(h.entries)
	return err
}

// Write replaces the named file with the entire in-memory history and resets
// the watermark.
func (h *History) Write(fsys vos.VFS, path string) error {
	fd, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer fd.Close()

	for _, entry := range h.entries {
		if _, err := fmt.Fprintln(fd, entry); err != nil {
			return err
		}
	}
	h.flushed = len(h.entries)
	return nil
}

// Append writes the entries added since the last Append, Write or startup
// load, then advances the watermark. Appending with nothing new is a no-op.
func (h *History) Append(fsys vos.VFS, path string) error {
	if h.flushed >= len(h.entries) {
		return nil
	}

	fd, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer fd.Close()

	for _, entry := range h.entries[h.flushed:] {
		if _, err := fmt.Fprintln(fd, entry); err != nil {
			return err
		}
	}
	h.flushed = len(h.entries)
	return nil
}
