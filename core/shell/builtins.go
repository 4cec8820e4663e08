package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pborman/getopt/v2"
)

// History gives builtins access to the read loop's line history.
type History interface {
	Entries() []string
	Clear()
}

// BuiltinEnv is the in-process environment a builtin runs in.
type BuiltinEnv struct {
	Stdout io.Writer
	Stderr io.Writer

	Registry *BuiltinRegistry
	// History may be nil when the shell isn't interactive.
	History History

	err error
}

// fail records the error the builtin stopped on, the first one wins.
func (env *BuiltinEnv) fail(name string, err error) {
	if env.err == nil {
		env.err = newError(BuiltinExecutionError, name, err)
	}
}

// Err returns the failure recorded by the builtin, if any.
func (env *BuiltinEnv) Err() error {
	return env.err
}

// ShellBuiltin is a command that runs inside the shell process.
type ShellBuiltin interface {
	Main(env *BuiltinEnv, args []string) Status
}

type ShellBuiltinFunc func(env *BuiltinEnv, args []string) Status

func (f ShellBuiltinFunc) Main(env *BuiltinEnv, args []string) Status {
	return f(env, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

type builtinEntry struct {
	short   string
	builtin ShellBuiltin
}

// BuiltinRegistry maps reserved command names to builtins.
type BuiltinRegistry struct {
	builtins map[string]builtinEntry
}

// NewBuiltinRegistry creates an empty registry.
func NewBuiltinRegistry() *BuiltinRegistry {
	return &BuiltinRegistry{builtins: make(map[string]builtinEntry)}
}

// DefaultBuiltins returns a registry holding cd, exit, help and history.
func DefaultBuiltins() *BuiltinRegistry {
	reg := NewBuiltinRegistry()
	reg.Register("cd", "change the working directory", ShellBuiltinFunc(Cd))
	reg.Register("exit", "exit the shell", ShellBuiltinFunc(Exit))
	reg.Register("help", "list the shell builtins", ShellBuiltinFunc(Help))
	reg.Register("history", "display or clear the command history", ShellBuiltinFunc(HistoryBuiltin))
	return reg
}

// Register adds a builtin, replacing any existing one with the same name.
func (r *BuiltinRegistry) Register(name, short string, builtin ShellBuiltin) {
	r.builtins[name] = builtinEntry{short: short, builtin: builtin}
}

// Lookup finds the builtin with the given name.
func (r *BuiltinRegistry) Lookup(name string) (ShellBuiltin, bool) {
	if r == nil {
		return nil, false
	}
	entry, ok := r.builtins[name]
	return entry.builtin, ok
}

// Names returns the registered names in sorted order.
func (r *BuiltinRegistry) Names() []string {
	var names []string
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Short returns the one line description of the named builtin.
func (r *BuiltinRegistry) Short(name string) string {
	return r.builtins[name].short
}

var errTooManyArgs = errors.New("too many arguments")

// Cd is the cd shell builtin. With no argument it changes to the user's home
// directory.
func Cd(env *BuiltinEnv, args []string) Status {
	var target string
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			env.fail(args[0], err)
			return Continue
		}
		target = home
	case 2:
		expanded, err := expandHome(args[1])
		if err != nil {
			env.fail(args[0], err)
			return Continue
		}
		target = expanded
	default:
		env.fail(args[0], errTooManyArgs)
		return Continue
	}

	if err := os.Chdir(target); err != nil {
		env.fail(args[0], err)
	}
	return Continue
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Exit quits the shell, arguments are ignored.
func Exit(env *BuiltinEnv, args []string) Status {
	return Terminate
}

// Help lists the shell builtins.
func Help(env *BuiltinEnv, args []string) Status {
	w := env.Stdout
	fmt.Fprintln(w, "These shell commands are defined internally.")
	fmt.Fprintln(w, "Everything else is run as a program found on $PATH.")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 8, 8, 2, ' ', 0)
	for _, name := range env.Registry.Names() {
		fmt.Fprintf(tw, "  %s\t%s\n", name, env.Registry.Short(name))
	}
	tw.Flush()

	return Continue
}

// HistoryBuiltin displays or clears the line history.
func HistoryBuiltin(env *BuiltinEnv, args []string) Status {
	opts := getopt.New()
	clearAll := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := env.Stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return Continue
	}

	if env.History == nil {
		return Continue
	}

	if *clearAll {
		env.History.Clear()
		return Continue
	}

	for i, line := range env.History.Entries() {
		fmt.Fprintf(env.Stdout, "% 5d  %s\n", i+1, line)
	}
	return Continue
}
