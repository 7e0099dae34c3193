package vos

import "github.com/spf13/afero"

// VFS is the filesystem layer of the virtual OS. The interactive shell runs
// it against the host filesystem; tests swap in an in-memory one.
type VFS = afero.Fs

// PTY describes the controlling terminal, if any.
type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// VOS provides the process-wide state the shell threads through its
// dispatcher, resolver and builtins: environment variables, standard
// streams, filesystem and working directory. Modeling it as an explicit
// value lets tests inject a fabricated environment without touching real
// process state.
type VOS interface {
	VEnv
	VIO
	VFS

	// Getwd returns the working directory of the shell process.
	Getwd() string

	// Chdir changes the working directory. Relative paths are resolved
	// against the current directory.
	Chdir(dir string) error

	SetPTY(PTY)
	GetPTY() PTY
}
