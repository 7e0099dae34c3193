// Package vostest builds deterministic virtual OS instances for tests: an
// in-memory filesystem and a fabricated environment instead of the host.
package vostest

import (
	"github.com/spf13/afero"

	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// NewDeterministicOS returns a VOS rooted at /home/gopher with an empty
// /bin and /usr/bin on the PATH. stdio may be nil to discard all streams.
func NewDeterministicOS(stdio vos.VIO) *vos.ProcOS {
	if stdio == nil {
		stdio = vos.NewNullIO()
	}

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{"/bin", "/usr/bin", "/home/gopher", "/tmp"} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
	}

	env := vos.NewMapEnv()
	env.Setenv("HOME", "/home/gopher")
	env.Setenv("USER", "gopher")
	env.Setenv("HOSTNAME", "testhost")
	env.Setenv("PATH", "/usr/bin:/bin")

	return vos.NewProcOS(fsys, env, stdio, "/home/gopher")
}

// InstallExecutable drops a file with the executable bit set at path.
func InstallExecutable(fsys vos.VFS, path string) error {
	if err := afero.WriteFile(fsys, path, []byte("#!/bin/sh\n"), 0755); err != nil {
		return err
	}
	return fsys.Chmod(path, 0755)
}

// InstallFile drops a plain, non-executable file at path.
func InstallFile(fsys vos.VFS, path string, contents []byte) error {
	if err := afero.WriteFile(fsys, path, contents, 0644); err != nil {
		return err
	}
	return fsys.Chmod(path, 0644)
}
