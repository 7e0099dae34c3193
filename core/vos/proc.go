package vos

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ProcOS is the concrete VOS for a single shell process.
type ProcOS struct {
	VEnv
	VIO
	VFS

	// dir holds the working directory of the process.
	dir string
	pty PTY
}

var _ VOS = (*ProcOS)(nil)

// NewProcOS assembles a virtual OS from its parts. The working directory
// starts at dir, which must be absolute.
func NewProcOS(fsys VFS, env VEnv, stdio VIO, dir string) *ProcOS {
	return &ProcOS{
		VEnv: env,
		VIO:  stdio,
		VFS:  fsys,
		dir:  dir,
	}
}

// NewHostOS returns a VOS backed by the host: the real filesystem, a copy of
// the process environment and the process's standard streams.
func NewHostOS() *ProcOS {
	wd, err := os.Getwd()
	if err != nil {
		wd = string(os.PathSeparator)
	}

	return NewProcOS(
		afero.NewOsFs(),
		NewMapEnvFromEnvList(os.Environ()),
		NewVIOAdapter(os.Stdin, os.Stdout, os.Stderr),
		wd,
	)
}

// Getwd implements VOS.Getwd.
func (p *ProcOS) Getwd() string {
	return p.dir
}

// Chdir implements VOS.Chdir.
func (p *ProcOS) Chdir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.dir, dir)
	}
	dir = filepath.Clean(dir)

	stat, err := p.Stat(dir)
	switch {
	case err != nil:
		return err
	case !stat.IsDir():
		return fmt.Errorf("%s: not a directory", dir)
	default:
		p.dir = dir
		return nil
	}
}

func (p *ProcOS) SetPTY(pty PTY) {
	p.pty = pty
}

func (p *ProcOS) GetPTY() PTY {
	return p.pty
}
