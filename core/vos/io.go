package vos

import (
	"io"
	"os"
)

// VIO holds the standard streams of the virtual process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

func NewVIOAdapter(stdin io.ReadCloser, stdout, stderr io.WriteCloser) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  stdin,
		IStdout: stdout,
		IStderr: stderr,
	}
}

// NewNullIO returns streams connected to nothing, like a detached daemon.
func NewNullIO() VIO {
	return NewVIOAdapter(&ClosedReader{}, &NopWriteCloser{}, &NopWriteCloser{})
}

type VIOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

var _ VIO = (*VIOAdapter)(nil)

func (a *VIOAdapter) Stdin() io.ReadCloser {
	return a.IStdin
}

func (a *VIOAdapter) Stdout() io.WriteCloser {
	return a.IStdout
}

func (a *VIOAdapter) Stderr() io.WriteCloser {
	return a.IStderr
}

// ClosedReader implements io.ReadCloser and always throws ErrClosed on Read.
type ClosedReader struct{}

var _ io.ReadCloser = (*ClosedReader)(nil)

func (*ClosedReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func (*ClosedReader) Close() error {
	return nil
}

type NopWriteCloser struct{}

var _ io.WriteCloser = (*NopWriteCloser)(nil)

func (*NopWriteCloser) Write(b []byte) (int, error) {
	return len(b), nil
}

func (*NopWriteCloser) Close() error {
	return nil
}

// WriteNopCloser wraps w with a no-op Close, for streams whose lifetime is
// owned elsewhere.
func WriteNopCloser(w io.Writer) io.WriteCloser {
	return writeNopCloser{w}
}

type writeNopCloser struct {
	io.Writer
}

func (writeNopCloser) Close() error {
	return nil
}
