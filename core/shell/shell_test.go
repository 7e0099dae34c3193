package shell

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitanshu-dhawan/gosh/core/vos"
	"github.com/hitanshu-dhawan/gosh/core/vos/vostest"
)

// newTestShell builds a shell over a deterministic OS with stdout and stderr
// joined into one buffer, the way a terminal shows them.
func newTestShell(t *testing.T) (*Shell, *vos.ProcOS, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(&vos.ClosedReader{}, vos.WriteNopCloser(buf), vos.WriteNopCloser(buf))
	v := vostest.NewDeterministicOS(stdio)

	s, err := New(v)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	return s, v, buf
}

// feed mimics the interactive loop for a scripted line: record it in the
// history, then run it.
func (s *Shell) feed(line string) {
	s.History.Add(line)
	s.RunCommand(line)
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Lines []string
	Setup func(t *testing.T, v *vos.ProcOS)
}

func (gts goldenTestSuite) Run(t *testing.T) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			s, v, buf := newTestShell(t)
			if tc.Setup != nil {
				tc.Setup(t, v)
			}
			for _, line := range tc.Lines {
				s.feed(line)
			}

			g.Assert(t, tn, buf.Bytes())
		})
	}
}

func TestShellGolden(t *testing.T) {
	goldenTestSuite{
		"echo": {
			Lines: []string{
				"echo hello world",
				`echo 'a  b' "c d"`,
				"echo",
			},
		},
		"pwd-and-cd": {
			Lines: []string{
				"pwd",
				"cd /tmp",
				"pwd",
				"cd",
				"pwd",
				"cd /does/not/exist",
				"cd /tmp /var",
			},
		},
		"cd-tilde": {
			Lines: []string{
				"cd /tmp",
				"cd ~",
				"pwd",
			},
		},
		"type": {
			Setup: func(t *testing.T, v *vos.ProcOS) {
				require.NoError(t, vostest.InstallExecutable(v, "/bin/ls"))
			},
			Lines: []string{
				"type echo cd",
				"type ls",
				"type missingcmd",
			},
		},
		"history": {
			Lines: []string{
				"echo one",
				"echo two",
				"history",
			},
		},
		"history-count": {
			Lines: []string{
				"echo one",
				"echo two",
				"echo three",
				"history 2",
			},
		},
		"not-found": {
			Lines: []string{
				"missingcmd --verbose",
			},
		},
		"syntax-error": {
			Lines: []string{
				"echo 'oops",
			},
		},
		"exit-non-numeric": {
			Lines: []string{
				"exit abc",
			},
		},
	}.Run(t)
}

// fakeRunner records spawn requests instead of starting processes.
type fakeRunner struct {
	calls  []*Cmd
	status int
	stdout string
	stderr string
}

func (f *fakeRunner) Run(c *Cmd) (int, error) {
	f.calls = append(f.calls, c)
	if f.stdout != "" {
		io.WriteString(c.Stdout, f.stdout)
	}
	if f.stderr != "" {
		io.WriteString(c.Stderr, f.stderr)
	}
	return f.status, nil
}

func TestRunCommandDispatch(t *testing.T) {
	s, v, _ := newTestShell(t)
	require.NoError(t, vostest.InstallExecutable(v, "/bin/tool"))

	fake := &fakeRunner{status: 3}
	s.Runner = fake

	s.RunCommand("tool --flag arg")

	require.Len(t, fake.calls, 1)
	cmd := fake.calls[0]
	assert.Equal(t, "/bin/tool", cmd.Path)
	assert.Equal(t, []string{"tool", "--flag", "arg"}, cmd.Argv)
	assert.Equal(t, "/home/gopher", cmd.Dir)
	assert.Contains(t, cmd.Env, "PATH=/usr/bin:/bin")
	assert.Equal(t, 3, s.LastStatus())
}

func TestRunCommandBuiltinPrecedence(t *testing.T) {
	s, v, buf := newTestShell(t)
	require.NoError(t, vostest.InstallExecutable(v, "/bin/echo"))

	fake := &fakeRunner{}
	s.Runner = fake

	s.RunCommand("echo built in")

	assert.Empty(t, fake.calls)
	assert.Equal(t, "built in\n", buf.String())
	assert.Equal(t, 0, s.LastStatus())
}

func TestTypeBuiltinPrecedence(t *testing.T) {
	s, v, buf := newTestShell(t)
	require.NoError(t, vostest.InstallExecutable(v, "/bin/echo"))

	s.RunCommand("type echo")

	assert.Equal(t, "echo is a shell builtin\n", buf.String())
}

func TestRunCommandNotFound(t *testing.T) {
	s, _, buf := newTestShell(t)

	fake := &fakeRunner{}
	s.Runner = fake

	s.RunCommand("missingcmd")

	assert.Empty(t, fake.calls)
	assert.Equal(t, "missingcmd: command not found\n", buf.String())
	assert.Equal(t, StatusNotFound, s.LastStatus())
}

func TestRunCommandPermissionDenied(t *testing.T) {
	s, v, buf := newTestShell(t)
	require.NoError(t, vostest.InstallFile(v, "/home/gopher/script", []byte("text")))

	fake := &fakeRunner{}
	s.Runner = fake

	s.RunCommand("./script")

	assert.Empty(t, fake.calls)
	assert.Equal(t, "./script: permission denied\n", buf.String())
	assert.Equal(t, StatusSpawnFailure, s.LastStatus())
}

func TestRunCommandSyntaxError(t *testing.T) {
	s, _, _ := newTestShell(t)

	s.RunCommand(`echo "oops`)

	assert.Equal(t, StatusSyntaxError, s.LastStatus())
}

func TestRunCommandEmptyArgv(t *testing.T) {
	s, _, buf := newTestShell(t)

	s.RunCommand("echo marker")
	s.RunCommand("   ")

	assert.Equal(t, "marker\n", buf.String())
	assert.Equal(t, 0, s.LastStatus())
}

func TestRunCommandRedirection(t *testing.T) {
	s, v, buf := newTestShell(t)
	require.NoError(t, vostest.InstallExecutable(v, "/bin/tool"))

	fake := &fakeRunner{stdout: "result\n", stderr: "warning\n"}
	s.Runner = fake

	s.RunCommand("tool > /tmp/out.txt 2> /tmp/err.txt")

	assert.Empty(t, buf.String())

	out, err := afero.ReadFile(v, "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "result\n", string(out))

	errOut, err := afero.ReadFile(v, "/tmp/err.txt")
	require.NoError(t, err)
	assert.Equal(t, "warning\n", string(errOut))
}

func TestRunCommandBuiltinRedirection(t *testing.T) {
	s, v, buf := newTestShell(t)

	s.RunCommand("echo noted > /tmp/note.txt")
	s.RunCommand("echo appended >> /tmp/note.txt")

	assert.Empty(t, buf.String())

	contents, err := afero.ReadFile(v, "/tmp/note.txt")
	require.NoError(t, err)
	assert.Equal(t, "noted\nappended\n", string(contents))
}

func TestRunCommandExit(t *testing.T) {
	s, _, _ := newTestShell(t)

	s.RunCommand("exit 7")

	assert.True(t, s.Quit)
	assert.Equal(t, 7, s.ExitStatus)
	assert.Equal(t, 7, s.LastStatus())
}

func TestNewLoadsHistFile(t *testing.T) {
	buf := &bytes.Buffer{}
	stdio := vos.NewVIOAdapter(&vos.ClosedReader{}, vos.WriteNopCloser(buf), vos.WriteNopCloser(buf))
	v := vostest.NewDeterministicOS(stdio)
	require.NoError(t, afero.WriteFile(v, "/home/gopher/.gosh_history", []byte("echo old\n"), 0600))
	v.Setenv(EnvHistFile, "/home/gopher/.gosh_history")

	s, err := New(v)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"echo old"}, s.History.Entries())

	// Loaded entries count as flushed, so flushing again adds nothing.
	s.flushHistory()
	contents, err := afero.ReadFile(v, "/home/gopher/.gosh_history")
	require.NoError(t, err)
	assert.Equal(t, "echo old\n", string(contents))
}

func TestHistoryBuiltinFiles(t *testing.T) {
	s, v, buf := newTestShell(t)

	s.feed("echo one")
	s.feed("history -w /tmp/saved")

	contents, err := afero.ReadFile(v, "/tmp/saved")
	require.NoError(t, err)
	assert.Equal(t, "echo one\nhistory -w /tmp/saved\n", string(contents))

	s.feed("echo two")
	s.feed("history -a /tmp/saved")

	contents, err = afero.ReadFile(v, "/tmp/saved")
	require.NoError(t, err)
	assert.Equal(t, "echo one\nhistory -w /tmp/saved\necho two\nhistory -a /tmp/saved\n", string(contents))

	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestHistoryBuiltinRead(t *testing.T) {
	s, v, _ := newTestShell(t)
	require.NoError(t, afero.WriteFile(v, "/tmp/imported", []byte("echo imported\n"), 0600))

	s.feed("history -r /tmp/imported")

	assert.Equal(t, []string{"history -r /tmp/imported", "echo imported"}, s.History.Entries())
}

func TestPrompt(t *testing.T) {
	s, v, _ := newTestShell(t)

	assert.Equal(t, "gopher@testhost:~$ ", s.prompt())

	require.NoError(t, v.Chdir("/tmp"))
	assert.Equal(t, "gopher@testhost:/tmp$ ", s.prompt())

	v.Setenv(EnvPrompt, `\w> `)
	assert.Equal(t, "/tmp> ", s.prompt())
}
