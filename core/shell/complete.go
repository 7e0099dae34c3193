package shell

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"

	"github.com/hitanshu-dhawan/gosh/core/vos"
)

// Complete returns the commands beginning with partial: builtin names plus
// executable basenames visible on the PATH, deduplicated and sorted. The
// engine is stateless; tab bookkeeping belongs to the line editor.
func Complete(v vos.VOS, partial string) []string {
	seen := make(map[string]bool)
	var matches []string

	for _, name := range BuiltinNames() {
		if strings.HasPrefix(name, partial) && !seen[name] {
			seen[name] = true
			matches = append(matches, name)
		}
	}

	for _, dir := range filepath.SplitList(v.Getenv(EnvPath)) {
		if dir == "" {
			dir = "."
		}
		infos, err := afero.ReadDir(v, vos.Abs(v, dir))
		if err != nil {
			continue
		}
		for _, info := range infos {
			name := info.Name()
			if info.IsDir() || info.Mode()&0111 == 0 {
				continue
			}
			if strings.HasPrefix(name, partial) && !seen[name] {
				seen[name] = true
				matches = append(matches, name)
			}
		}
	}

	sort.Strings(matches)
	return matches
}

// completer adapts Complete to readline's tab handling: one candidate is
// inserted with a trailing space, several extend to their common prefix, and
// a second tab on the same word lists everything.
type completer struct {
	shell *Shell

	lastWord string
	tabCount int
}

var _ readline.AutoCompleter = (*completer)(nil)

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !unicode.IsSpace(line[start-1]) {
		start--
	}
	word := string(line[start:pos])

	if word != c.lastWord {
		c.lastWord = word
		c.tabCount = 0
	}

	matches := Complete(c.shell.VirtualOS, word)
	if len(matches) == 0 {
		c.bell()
		c.tabCount = 0
		return nil, pos
	}

	if len(matches) == 1 {
		c.tabCount = 0
		return [][]rune{[]rune(matches[0][len(word):] + " ")}, pos
	}

	if lcp := longestCommonPrefix(matches); lcp != word {
		c.lastWord = lcp
		c.tabCount = 0
		return [][]rune{[]rune(lcp[len(word):])}, pos
	}

	c.tabCount++
	if c.tabCount == 1 {
		c.bell()
		return nil, pos
	}

	w := c.shell.VirtualOS.Stdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(matches, "  "))
	c.shell.Readline.Refresh()
	c.tabCount = 0
	return nil, pos
}

func (c *completer) bell() {
	fmt.Fprint(c.shell.VirtualOS.Stderr(), "\a")
}

func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
