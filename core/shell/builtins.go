package shell

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// BuiltinNames lists the shell's built-in commands in sorted order. The set
// is fixed at compile time.
func BuiltinNames() []string {
	return []string{"cd", "echo", "exit", "history", "pwd", "type"}
}

// IsBuiltin reports whether name is handled inside the shell process.
func IsBuiltin(name string) bool {
	for _, builtin := range BuiltinNames() {
		if builtin == name {
			return true
		}
	}
	return false
}

// runBuiltin dispatches argv to a builtin. The commands form a closed set of
// variants, so dispatch is an explicit switch rather than a registration
// table. ok reports whether argv[0] named a builtin at all.
func (s *Shell) runBuiltin(st *Streams, argv []string) (status int, ok bool) {
	switch argv[0] {
	case "echo":
		return s.builtinEcho(st, argv), true
	case "pwd":
		return s.builtinPwd(st, argv), true
	case "cd":
		return s.builtinCd(st, argv), true
	case "type":
		return s.builtinType(st, argv), true
	case "history":
		return s.builtinHistory(st, argv), true
	case "exit":
		return s.builtinExit(st, argv), true
	default:
		return 0, false
	}
}

func (s *Shell) builtinEcho(st *Streams, argv []string) int {
	fmt.Fprintln(st.Stdout, strings.Join(argv[1:], " "))
	return 0
}

func (s *Shell) builtinPwd(st *Streams, argv []string) int {
	fmt.Fprintln(st.Stdout, s.VirtualOS.Getwd())
	return 0
}

func (s *Shell) builtinCd(st *Streams, argv []string) int {
	var target string
	switch len(argv) {
	case 1:
		target = s.VirtualOS.Getenv(EnvHome)
	case 2:
		target = argv[1]
		switch {
		case target == "~":
			target = s.VirtualOS.Getenv(EnvHome)
		case strings.HasPrefix(target, "~/"):
			target = filepath.Join(s.VirtualOS.Getenv(EnvHome), target[2:])
		}
	default:
		fmt.Fprintln(st.Stderr, "cd: too many arguments")
		return 1
	}

	if err := s.VirtualOS.Chdir(target); err != nil {
		display := target
		if len(argv) == 2 {
			display = argv[1]
		}
		fmt.Fprintf(st.Stderr, "cd: %s: No such file or directory\n", display)
		return 1
	}
	return 0
}

func (s *Shell) builtinType(st *Streams, argv []string) int {
	status := 0
	for _, name := range argv[1:] {
		if IsBuiltin(name) {
			fmt.Fprintf(st.Stdout, "%s is a shell builtin\n", name)
			continue
		}

		if path, err := vos.LookPath(s.VirtualOS, name); err == nil {
			fmt.Fprintf(st.Stdout, "%s is %s\n", name, path)
		} else {
			fmt.Fprintf(st.Stderr, "%s: not found\n", name)
			status = 1
		}
	}
	return status
}

func (s *Shell) builtinHistory(st *Streams, argv []string) int {
	opts := getopt.New()
	readFile := opts.Bool('r', "append the lines of FILE to the history list")
	writeFile := opts.Bool('w', "write the full history list to FILE")
	appendFile := opts.Bool('a', "append history lines added this session to FILE")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(argv, nil); err != nil {
		fmt.Fprintf(st.Stderr, "history: %v\n", err)
		return 1
	}

	if *helpOpt {
		fmt.Fprintln(st.Stdout, "usage: history [-r|-w|-a FILE] [N]")
		fmt.Fprintln(st.Stdout, "Display or manipulate the history list.")
		fmt.Fprintln(st.Stdout)
		fmt.Fprintln(st.Stdout, "Options:")
		opts.PrintOptions(st.Stdout)
		return 0
	}

	args := opts.Args()

	if *readFile || *writeFile || *appendFile {
		if len(args) != 1 {
			fmt.Fprintln(st.Stderr, "history: file argument required")
			return 1
		}
		path := vos.Abs(s.VirtualOS, args[0])

		var err error
		switch {
		case *readFile:
			err = s.History.Load(s.VirtualOS, path)
		case *writeFile:
			err = s.History.Write(s.VirtualOS, path)
		case *appendFile:
			err = s.History.Append(s.VirtualOS, path)
		}
		if err != nil {
			fmt.Fprintf(st.Stderr, "history: %v\n", err)
			return 1
		}
		return 0
	}

	n := s.History.Len()
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			fmt.Fprintf(st.Stderr, "history: %s: numeric argument required\n", args[0])
			return 1
		}
		n = parsed
	}

	start, entries := s.History.Tail(n)
	for i, entry := range entries {
		fmt.Fprintf(st.Stdout, "% 5d  %s\n", start+i, entry)
	}
	return 0
}

func (s *Shell) builtinExit(st *Streams, argv []string) int {
	status := 0
	if len(argv) > 1 {
		parsed, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(st.Stderr, "exit: %s: numeric argument required\n", argv[1])
			parsed = StatusUsageError
		}
		status = parsed
	}

	s.Quit = true
	s.ExitStatus = status
	return status
}
