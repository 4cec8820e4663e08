// Package complete provides tab completion for the interactive shell.
package complete

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
)

// wordBreaks end the word being completed.
const wordBreaks = " \t|<>"

// Completer completes command names for the first word of each pipeline
// stage and file names everywhere else.
type Completer struct {
	// Commands lists the names offered for the first word.
	Commands func() []string
	// Fs is searched for file names, it defaults to the OS.
	Fs afero.Fs
	// Getwd defaults to os.Getwd.
	Getwd func() (string, error)
	// UserHomeDir defaults to os.UserHomeDir.
	UserHomeDir func() (string, error)
}

var _ readline.AutoCompleter = (*Completer)(nil)

// Do implements readline.AutoCompleter. The returned candidates are the
// suffixes to add after the cursor, length is the number of runes of the
// current word they extend.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	before := string(line[:pos])
	start := strings.LastIndexAny(before, wordBreaks) + 1
	word := before[start:]

	var candidates []string
	var prefix string
	if isCommandPosition(before[:start]) {
		candidates, prefix = c.commands(word), word
	} else {
		candidates, prefix = c.files(word)
	}

	var out [][]rune
	for _, candidate := range candidates {
		out = append(out, []rune(strings.TrimPrefix(candidate, prefix)))
	}
	return out, len([]rune(prefix))
}

// isCommandPosition checks if the word starting after head is a command name.
func isCommandPosition(head string) bool {
	if i := strings.LastIndex(head, "|"); i >= 0 {
		head = head[i+1:]
	}
	return strings.TrimSpace(head) == ""
}

func (c *Completer) commands(word string) []string {
	var names []string
	if c.Commands != nil {
		names = c.Commands()
	}

	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		if seen[name] || !strings.HasPrefix(name, word) {
			continue
		}
		seen[name] = true
		out = append(out, name+" ")
	}
	sort.Strings(out)
	return out
}

// files returns the entries matching word and the part of word they share.
func (c *Completer) files(word string) ([]string, string) {
	if word == "~" {
		return []string{"~/"}, word
	}
	dir, base := splitWord(word)

	lookup, err := c.expand(dir)
	if err != nil {
		return nil, base
	}

	fsys := c.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	entries, err := afero.ReadDir(fsys, lookup)
	if err != nil {
		return nil, base
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		// Hidden files only complete when asked for.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if entry.IsDir() {
			out = append(out, name+"/")
		} else {
			out = append(out, name+" ")
		}
	}
	sort.Strings(out)
	return out, base
}

// splitWord splits a partial path into its directory, including the trailing
// slash, and the partial file name.
func splitWord(word string) (string, string) {
	i := strings.LastIndex(word, "/")
	return word[:i+1], word[i+1:]
}

// expand turns the directory part of a word into a path to read.
func (c *Completer) expand(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		homeDir := c.UserHomeDir
		if homeDir == nil {
			homeDir = os.UserHomeDir
		}
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}

	if filepath.IsAbs(dir) {
		return dir, nil
	}

	getwd := c.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	wd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, dir), nil
}
