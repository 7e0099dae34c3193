package shell

import (
	"strings"
)

// RedirMode selects how a redirection target file is opened.
type RedirMode int

const (
	// Overwrite truncates the target before writing.
	Overwrite RedirMode = iota
	// Append writes to the end of the target.
	Append
)

// Redirection is a parsed target for a single output stream.
type Redirection struct {
	Path string
	Mode RedirMode
}

// RedirectionSpec holds at most one target per standard stream. A later
// operator for the same stream on one line overrides an earlier one.
type RedirectionSpec struct {
	Stdout *Redirection
	Stderr *Redirection
}

// SyntaxError reports malformed quoting in an input line.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.msg
}

// pendingRedirect is an operator waiting for its target token.
type pendingRedirect struct {
	toStderr bool
	mode     RedirMode
}

// Tokenize splits a raw input line into the fully unescaped argv for a
// command plus its redirections.
//
// Unquoted whitespace separates tokens. Single quotes preserve everything
// between them literally. Inside double quotes a backslash escapes only
// `"`, `\`, `$` and backtick. Outside quotes a backslash makes the next
// character literal. Adjacent quoted and unquoted fragments concatenate
// into one token.
//
// The operators >, >>, 1>, 1>>, 2> and 2>> are recognized only outside
// quotes; the operator and the token that follows it are removed from argv
// and recorded as a redirection instead. The fd digit must immediately
// precede the operator.
//
// The only failure is an unterminated quote.
func Tokenize(line string) ([]string, RedirectionSpec, error) {
	var (
		argv     []string
		spec     RedirectionSpec
		cur      strings.Builder
		hasToken bool // a token is in progress, possibly empty (e.g. '')
		literal  bool // part of cur came from quotes or escapes
		pending  *pendingRedirect
	)

	endToken := func() {
		if !hasToken {
			return
		}
		tok := cur.String()
		cur.Reset()
		hasToken = false
		literal = false

		if pending != nil {
			target := &Redirection{Path: tok, Mode: pending.mode}
			if pending.toStderr {
				spec.Stderr = target
			} else {
				spec.Stdout = target
			}
			pending = nil
			return
		}
		argv = append(argv, tok)
	}

	i := 0
	for i < len(line) {
		switch c := line[i]; c {
		case ' ', '\t':
			endToken()
			i++

		case '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, RedirectionSpec{}, &SyntaxError{"unterminated single quote"}
			}
			cur.WriteString(line[i+1 : i+1+end])
			hasToken = true
			literal = true
			i += end + 2

		case '"':
			i++
			closed := false
			for i < len(line) {
				ch := line[i]
				if ch == '"' {
					closed = true
					i++
					break
				}
				if ch == '\\' && i+1 < len(line) {
					switch next := line[i+1]; next {
					case '"', '\\', '$', '`':
						cur.WriteByte(next)
						i += 2
						continue
					}
				}
				cur.WriteByte(ch)
				i++
			}
			if !closed {
				return nil, RedirectionSpec{}, &SyntaxError{"unterminated double quote"}
			}
			hasToken = true
			literal = true

		case '\\':
			if i+1 < len(line) {
				cur.WriteByte(line[i+1])
				i += 2
			} else {
				// A trailing backslash escapes nothing; keep it.
				cur.WriteByte('\\')
				i++
			}
			hasToken = true
			literal = true

		case '>':
			toStderr := false
			// An unquoted fd digit directly before the operator selects the
			// stream and is consumed with it.
			if hasToken && !literal {
				switch cur.String() {
				case "2":
					toStderr = true
					fallthrough
				case "1":
					cur.Reset()
					hasToken = false
				}
			}
			endToken()

			mode := Overwrite
			i++
			if i < len(line) && line[i] == '>' {
				mode = Append
				i++
			}
			pending = &pendingRedirect{toStderr: toStderr, mode: mode}

		default:
			cur.WriteByte(c)
			hasToken = true
			i++
		}
	}
	endToken()

	// An operator with no target before end of line is dropped.
	return argv, spec, nil
}
