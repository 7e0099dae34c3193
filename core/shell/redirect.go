package shell

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// Streams wires a command's output to either the shell's own streams or the
// files named by a redirection spec.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer

	toClose listCloser
}

// OpenStreams opens the redirection targets against the virtual OS, creating
// files that don't exist. The result must be closed on every exit path so
// handles never outlive the command they were opened for.
func OpenStreams(v vos.VOS, spec RedirectionSpec) (*Streams, error) {
	st := &Streams{
		Stdout: v.Stdout(),
		Stderr: v.Stderr(),
	}

	if spec.Stdout != nil {
		fd, err := openTarget(v, spec.Stdout)
		if err != nil {
			return nil, err
		}
		st.Stdout = fd
		st.toClose = append(st.toClose, fd)
	}

	if spec.Stderr != nil {
		fd, err := openTarget(v, spec.Stderr)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.Stderr = fd
		st.toClose = append(st.toClose, fd)
	}

	return st, nil
}

func openTarget(v vos.VOS, r *Redirection) (afero.File, error) {
	flag := os.O_WRONLY | os.O_CREATE
	if r.Mode == Append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	return v.OpenFile(vos.Abs(v, r.Path), flag, 0644)
}

// Close releases the redirection handles, keeping the shell's own streams
// open.
func (s *Streams) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
