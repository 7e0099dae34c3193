package vos

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

// Abs resolves path against the working directory of the virtual process.
func Abs(v VOS, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(v.Getwd(), path)
}

func findExecutable(v VOS, file string) error {
	d, err := v.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable, re-read on every call so that PATH edits
// take effect immediately. If file contains a path separator it is tried
// directly and the PATH is not consulted. Directories earlier in the PATH
// shadow later ones.
func LookPath(v VOS, file string) (string, error) {
	if strings.ContainsAny(file, pathSeparators) {
		abs := Abs(v, file)
		if err := findExecutable(v, abs); err != nil {
			return "", err
		}
		return abs, nil
	}

	for _, dir := range filepath.SplitList(v.Getenv("PATH")) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := Abs(v, filepath.Join(dir, file))
		if err := findExecutable(v, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

var pathSeparators = "/" + string(os.PathSeparator)
