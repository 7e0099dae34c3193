package shell

import (
	"errors"
	"io"
	"os/exec"
)

// Cmd describes a single external command invocation. Argv[0] is the name
// the user typed, which becomes the child's reported program name even when
// Path points elsewhere.
type Cmd struct {
	// Path is the resolved location of the executable.
	Path string

	// Argv holds the command line, including the command name as Argv[0].
	Argv []string

	// Dir is the working directory for the child.
	Dir string

	// Env gives the environment in "key=value" form.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes external commands and reports their exit status. The
// production runner spawns real processes; tests substitute a recording
// fake.
type Runner interface {
	// Run blocks until the command exits. A non-nil error means the child
	// could not be started; status is still valid in that case.
	Run(cmd *Cmd) (status int, err error)
}

// NewExecRunner returns the Runner that spawns real host processes.
func NewExecRunner() Runner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(c *Cmd) (int, error) {
	cmd := &exec.Cmd{
		Path:   c.Path,
		Args:   c.Argv,
		Dir:    c.Dir,
		Env:    c.Env,
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case err != nil:
		// The executable vanished or became unrunnable between resolution
		// and spawn.
		return StatusSpawnFailure, err
	default:
		return 0, nil
	}
}
