// Package insights explains pipeline failures in plain language.
package insights

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/josephlewis42/shellcraft/core/shell"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// closeEnough is the minimum similarity for a suggestion to be offered.
const closeEnough = 0.6

var (
	colorError   = []color.Attribute{color.FgRed, color.Bold}
	colorHint    = []color.Attribute{color.FgYellow}
	colorExample = []color.Attribute{color.FgCyan}

	stageRegex   = regexp.MustCompile(`(?m)^(\S+): (?:command not found|built-in commands cannot be piped)`)
	missingRegex = regexp.MustCompile(`(?:open|stat|lstat|chdir) (.+?): no such file or directory`)
)

// Reporter prints failures with a hint about how to fix them.
type Reporter struct {
	Out io.Writer
	// Color is one of config.ColorAlways, config.ColorAuto or config.ColorNever.
	Color string
	// Commands lists the names to suggest when a command isn't found.
	Commands func() []string
	// Fs is searched for similarly named files, it defaults to the OS.
	Fs afero.Fs
}

var _ shell.ErrorReporter = (*Reporter)(nil)

// Report implements shell.ErrorReporter.
func (r *Reporter) Report(command, details string) {
	fmt.Fprintln(r.Out, r.paint(colorError, "[!] Error running command: %s", command))
	fmt.Fprintln(r.Out, strings.TrimSpace(details))
	fmt.Fprintln(r.Out, r.explain(command, details))
}

type pattern struct {
	match   string
	explain func(r *Reporter, base string) string
}

var patterns = []pattern{
	{"no such file or directory", func(r *Reporter, base string) string {
		return r.hint("File not found.", "Try creating it with %s.", r.example("touch <filename>"))
	}},
	{"file exists", func(r *Reporter, base string) string {
		return r.hint("File or directory already exists.", "Try a different name or remove the existing one.")
	}},
	{"is a directory", func(r *Reporter, base string) string {
		return r.hint("You're trying to use a directory as a file.", "Use %s or give a file path.", r.example("cd <dir>"))
	}},
	{"not a directory", func(r *Reporter, base string) string {
		return r.hint("You're trying to use a file as a directory.", "Check the path.")
	}},
	{"permission denied", func(r *Reporter, base string) string {
		return r.hint("Permission denied.", "Fix the ownership or mode with %s.", r.example("chmod/chown"))
	}},
	{"command not found", func(r *Reporter, base string) string {
		return r.hint("Unknown command.", "Did you mean %s?", r.example(r.closestCommand(base)))
	}},
	{"cannot be piped", func(r *Reporter, base string) string {
		return r.hint("Built-in commands run inside the shell.", "Run %s on its own or at the start of the pipeline.", r.example(base))
	}},
	{"invalid option", func(r *Reporter, base string) string {
		return r.hint("Invalid option used.", "Try %s or %s.", r.example("man "+base), r.example(base+" --help"))
	}},
	{"invalid argument", func(r *Reporter, base string) string {
		return r.hint("Invalid argument provided.", "Check the usage with %s.", r.example(base+" --help"))
	}},
	{"syntax error", func(r *Reporter, base string) string {
		return r.hint("Syntax error detected.", "Check the command's quotes and redirections.")
	}},
	{"no space left on device", func(r *Reporter, base string) string {
		return r.hint("Disk is full.", "Free up some space.")
	}},
	{"input/output error", func(r *Reporter, base string) string {
		return r.hint("I/O error encountered.", "Check the device or disk health.")
	}},
	{"network is unreachable", func(r *Reporter, base string) string {
		return r.hint("Network unreachable.", "Check your connection or VPN.")
	}},
	{"connection refused", func(r *Reporter, base string) string {
		return r.hint("Connection refused.", "Make sure the service is running and reachable.")
	}},
	{"temporary failure in name resolution", func(r *Reporter, base string) string {
		return r.hint("DNS issue.", "Check your network configuration or try again later.")
	}},
	{"cannot allocate memory", func(r *Reporter, base string) string {
		return r.hint("Out of memory.", "Close other programs and try again.")
	}},
	{"bad interpreter", func(r *Reporter, base string) string {
		return r.hint("Bad interpreter path in script.", "Check the %s line of the script.", r.example("#!"))
	}},
	{"operation not permitted", func(r *Reporter, base string) string {
		return r.hint("Operation not permitted.", "You may need root privileges.")
	}},
}

// explain finds the first pattern matching details.
func (r *Reporter) explain(command, details string) string {
	msg := strings.ToLower(details)
	base := baseCommand(command, details)

	for _, p := range patterns {
		if !strings.Contains(msg, p.match) {
			continue
		}

		out := p.explain(r, base)
		if p.match == "no such file or directory" {
			if alt, ok := r.similarFile(details); ok {
				out += "\n" + r.hint("Did you mean:", "%s?", r.example(alt))
			}
		}
		return out
	}

	return r.hint("Unrecognized error.", "Check the command syntax or path.")
}

// baseCommand is the name of the command that failed. Stage errors name the
// stage, otherwise it's the first word of the line.
func baseCommand(command, details string) string {
	if m := stageRegex.FindStringSubmatch(details); m != nil {
		return m[1]
	}
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return "command"
}

// closestCommand suggests a known command for name, falling back to help.
func (r *Reporter) closestCommand(name string) string {
	var known []string
	if r.Commands != nil {
		known = r.Commands()
	}

	ranks := fuzzy.RankFindFold(name, known)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if rank.Target != name {
			return rank.Target
		}
	}

	if best, ok := closest(name, known); ok {
		return best
	}
	return "help"
}

// similarFile suggests a file in the same directory as the missing one.
func (r *Reporter) similarFile(details string) (string, bool) {
	m := missingRegex.FindStringSubmatch(details)
	if m == nil {
		return "", false
	}

	fsys := r.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	dir, base := filepath.Split(m[1])
	if dir == "" {
		dir = "."
	}
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return "", false
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	best, ok := closest(base, names)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, best), true
}

// closest returns the candidate most similar to name, if any is similar
// enough.
func closest(name string, candidates []string) (string, bool) {
	var best string
	bestScore := 0.0
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		if score := similarity(name, candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, bestScore >= closeEnough
}

// similarity scores two strings between 0 (nothing in common) and 1 (equal)
// as twice the matching characters over the total length.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return float64(2*commonSubsequence(ra, rb)) / float64(total)
}

// commonSubsequence returns the length of the longest common subsequence.
func commonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			switch {
			case a[i] == b[j]:
				cur[j+1] = prev[j] + 1
			case prev[j+1] > cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func (r *Reporter) hint(headline, format string, a ...interface{}) string {
	return r.paint(colorHint, "%s", headline) + " " + fmt.Sprintf(format, a...)
}

func (r *Reporter) example(text string) string {
	return r.paint(colorExample, "%s", text)
}

func (r *Reporter) paint(attrs []color.Attribute, format string, a ...interface{}) string {
	if !r.shouldColor() {
		return fmt.Sprintf(format, a...)
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprintf(format, a...)
}

func (r *Reporter) shouldColor() bool {
	switch r.Color {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		fd, ok := r.Out.(*os.File)
		return ok && term.IsTerminal(int(fd.Fd()))
	}
}
