// Package shell implements the input-processing and execution core of gosh:
// the tokenizer, the builtin-vs-external dispatcher, the history store and
// the completion engine.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/hitanshu-dhawan/gosh/core/logger"
	"github.com/hitanshu-dhawan/gosh/core/vos"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvPrompt   = "PS1"
	EnvHistFile = "HISTFILE"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"

	DefaultPrompt = `\u@\h:\w\$ `
)

// Exit status conventions: a child's own status is passed through, the rest
// follow the usual shell numbering.
const (
	StatusSyntaxError  = 2
	StatusUsageError   = 2
	StatusSpawnFailure = 126
	StatusNotFound     = 127
)

var (
	promptUserHost = newPromptColor(color.FgGreen)
	promptWorkdir  = newPromptColor(color.FgBlue)
)

func newPromptColor(attr color.Attribute) *color.Color {
	c := color.New(attr, color.Bold)
	// Rendering decides based on the PTY, not on os.Stdout.
	c.EnableColor()
	return c
}

// Shell runs a read-eval loop over a virtual OS: every line is tokenized,
// resolved to a builtin or an executable on the PATH, executed with its
// redirections, and recorded in the session history.
type Shell struct {
	VirtualOS vos.VOS
	Readline  *readline.Instance
	History   *History

	// Runner spawns external commands.
	Runner Runner

	// Events, when set, receives one record per executed line.
	Events *logger.Recorder

	// Quit is set by the exit builtin.
	Quit       bool
	ExitStatus int

	lastRet int
}

// New builds a shell around the given virtual OS and seeds the history from
// the file named by HISTFILE, if any.
func New(virtualOS vos.VOS) (*Shell, error) {
	s := &Shell{
		VirtualOS: virtualOS,
		History:   NewHistory(),
		Runner:    NewExecRunner(),
	}

	cfg := &readline.Config{
		Stdin:        readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout:       virtualOS.Stdout(),
		Stderr:       virtualOS.Stderr(),
		AutoComplete: &completer{shell: s},
		FuncGetWidth: func() int {
			return virtualOS.GetPTY().Width
		},
		FuncIsTerminal: func() bool {
			return virtualOS.GetPTY().IsPTY
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	s.Readline = rl

	if histFile := virtualOS.Getenv(EnvHistFile); histFile != "" {
		path := vos.Abs(virtualOS, histFile)
		if ok, _ := afero.Exists(virtualOS, path); ok {
			if err := s.History.LoadInitial(virtualOS, path); err != nil {
				fmt.Fprintf(virtualOS.Stderr(), "gosh: history: %v\n", err)
			}
			for _, entry := range s.History.Entries() {
				_ = rl.SaveHistory(entry)
			}
		}
	}

	return s, nil
}

func (s *Shell) prompt() string {
	prompt := s.VirtualOS.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}

	user := s.VirtualOS.Getenv(EnvUser)
	host := s.VirtualOS.Getenv(EnvHostname)

	pwd := s.VirtualOS.Getwd()
	home := s.VirtualOS.Getenv(EnvHome)
	if home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	if s.VirtualOS.GetPTY().IsPTY {
		user = promptUserHost.Sprint(user)
		host = promptUserHost.Sprint(host)
		pwd = promptWorkdir.Sprint(pwd)
	}

	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	prompt = strings.ReplaceAll(prompt, `\$`, "$")

	return prompt
}

// Run drives the interactive loop until exit or end of input and returns
// the shell's exit status. New history entries are appended to HISTFILE on
// the way out.
func (s *Shell) Run() int {
	defer s.flushHistory()

	for !s.Quit {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			// Input closed, quit with the last command's status.
			return s.lastRet

		case err == readline.ErrInterrupt:
			// ^C abandons the current line.
			continue

		case err != nil:
			log.Printf("readline: %v", err)
			continue

		case strings.TrimSpace(line) == "":
			continue

		default:
			s.History.Add(line)
			_ = s.Readline.SaveHistory(line)
			s.RunCommand(line)
		}
	}

	return s.ExitStatus
}

// RunCommand executes a single input line: Parse → Resolve → Execute →
// Report. The resulting exit status is kept for the next prompt.
func (s *Shell) RunCommand(line string) {
	argv, redirect, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "gosh: %v\n", err)
		s.lastRet = StatusSyntaxError
		s.record(logger.KindSyntaxError, line, nil, "", s.lastRet)
		return
	}
	if len(argv) == 0 {
		return
	}

	st, err := OpenStreams(s.VirtualOS, redirect)
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "gosh: %v\n", err)
		s.lastRet = 1
		return
	}
	defer st.Close()

	if status, ok := s.runBuiltin(st, argv); ok {
		s.lastRet = status
		s.record(logger.KindBuiltin, line, argv, "", status)
		return
	}

	execPath, err := vos.LookPath(s.VirtualOS, argv[0])
	switch {
	case errors.Is(err, vos.ErrNotFound):
		fmt.Fprintf(st.Stderr, "%s: command not found\n", argv[0])
		s.lastRet = StatusNotFound
		s.record(logger.KindNotFound, line, argv, "", s.lastRet)
		return
	case err != nil:
		fmt.Fprintf(st.Stderr, "%s: permission denied\n", argv[0])
		s.lastRet = StatusSpawnFailure
		s.record(logger.KindNotFound, line, argv, "", s.lastRet)
		return
	}

	status, err := s.Runner.Run(&Cmd{
		Path:   execPath,
		Argv:   argv,
		Dir:    s.VirtualOS.Getwd(),
		Env:    s.VirtualOS.Environ(),
		Stdin:  s.VirtualOS.Stdin(),
		Stdout: st.Stdout,
		Stderr: st.Stderr,
	})
	if err != nil {
		fmt.Fprintf(st.Stderr, "gosh: %s: %v\n", argv[0], err)
	}
	s.lastRet = status
	s.record(logger.KindExec, line, argv, execPath, status)
}

// LastStatus returns the exit status of the most recent line.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

func (s *Shell) flushHistory() {
	histFile := s.VirtualOS.Getenv(EnvHistFile)
	if histFile == "" {
		return
	}
	if err := s.History.Append(s.VirtualOS, vos.Abs(s.VirtualOS, histFile)); err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "gosh: history: %v\n", err)
	}
}

func (s *Shell) record(kind string, line string, argv []string, path string, status int) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(logger.Event{
		Kind:   kind,
		Line:   line,
		Argv:   argv,
		Path:   path,
		Status: status,
	}); err != nil {
		log.Printf("session log: %v", err)
	}
}

func (s *Shell) Close() error {
	return s.Readline.Close()
}
