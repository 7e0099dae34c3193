package shell

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitanshu-dhawan/gosh/core/vos"
	"github.com/hitanshu-dhawan/gosh/core/vos/vostest"
)

func TestOpenStreamsDefaults(t *testing.T) {
	v := vostest.NewDeterministicOS(nil)

	st, err := OpenStreams(v, RedirectionSpec{})
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, v.Stdout(), st.Stdout)
	assert.Equal(t, v.Stderr(), st.Stderr)
}

func TestOpenStreamsOverwrite(t *testing.T) {
	v := vostest.NewDeterministicOS(nil)
	require.NoError(t, vostest.InstallFile(v, "/home/gopher/out.txt", []byte("stale contents\n")))

	spec := RedirectionSpec{Stdout: &Redirection{Path: "out.txt", Mode: Overwrite}}
	st, err := OpenStreams(v, spec)
	require.NoError(t, err)

	fmt.Fprintln(st.Stdout, "fresh")
	require.NoError(t, st.Close())

	contents, err := afero.ReadFile(v, "/home/gopher/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(contents))
}

func TestOpenStreamsAppend(t *testing.T) {
	v := vostest.NewDeterministicOS(nil)

	spec := RedirectionSpec{Stdout: &Redirection{Path: "/tmp/log.txt", Mode: Append}}
	for _, line := range []string{"one", "two"} {
		st, err := OpenStreams(v, spec)
		require.NoError(t, err)
		fmt.Fprintln(st.Stdout, line)
		require.NoError(t, st.Close())
	}

	contents, err := afero.ReadFile(v, "/tmp/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(contents))
}

func TestOpenStreamsBoth(t *testing.T) {
	v := vostest.NewDeterministicOS(nil)

	spec := RedirectionSpec{
		Stdout: &Redirection{Path: "/tmp/out.txt", Mode: Overwrite},
		Stderr: &Redirection{Path: "/tmp/err.txt", Mode: Overwrite},
	}
	st, err := OpenStreams(v, spec)
	require.NoError(t, err)

	fmt.Fprintln(st.Stdout, "to stdout")
	fmt.Fprintln(st.Stderr, "to stderr")
	require.NoError(t, st.Close())

	out, err := afero.ReadFile(v, "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "to stdout\n", string(out))

	errOut, err := afero.ReadFile(v, "/tmp/err.txt")
	require.NoError(t, err)
	assert.Equal(t, "to stderr\n", string(errOut))
}

func TestOpenStreamsCreatesMissingTargets(t *testing.T) {
	v := vostest.NewDeterministicOS(nil)

	spec := RedirectionSpec{Stderr: &Redirection{Path: "err.txt", Mode: Append}}
	st, err := OpenStreams(v, spec)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	exists, err := afero.Exists(v, "/home/gopher/err.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpenStreamsOpenError(t *testing.T) {
	base := vostest.NewDeterministicOS(nil)
	v := vos.NewProcOS(afero.NewReadOnlyFs(base), base, base, "/home/gopher")

	spec := RedirectionSpec{Stdout: &Redirection{Path: "out.txt", Mode: Overwrite}}
	_, err := OpenStreams(v, spec)
	assert.Error(t, err)
}
