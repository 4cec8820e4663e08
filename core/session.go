package core

import (
	"io"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/shellcraft/core/autocorrect"
	"github.com/josephlewis42/shellcraft/core/complete"
	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/josephlewis42/shellcraft/core/insights"
	"github.com/josephlewis42/shellcraft/core/logger"
	"github.com/josephlewis42/shellcraft/core/shell"
)

// Session holds the collaborators lines are executed with.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Resolver *autocorrect.Resolver
	Reporter *insights.Reporter
	Executor *shell.Executor
	Events   *logger.SessionLogger

	toClose listCloser
}

// NewSession wires an Executor to the configuration's resolver, reporter and
// event log. Events are tagged with a new session ID.
func NewSession(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer) (*Session, error) {
	return newSession(cfg, (*logger.Logger).NewSession, stdin, stdout, stderr)
}

// NewCommandSession is like NewSession but for a single line run outside the
// read loop, its events carry no session ID.
func NewCommandSession(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer) (*Session, error) {
	return newSession(cfg, (*logger.Logger).Sessionless, stdin, stdout, stderr)
}

func newSession(cfg *config.Configuration, events func(*logger.Logger) *logger.SessionLogger, stdin io.Reader, stdout, stderr io.Writer) (*Session, error) {
	resolver, err := autocorrect.NewResolver(cfg)
	if err != nil {
		return nil, err
	}

	eventLog, err := cfg.OpenEventLog()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Resolver: resolver,
		Events:   events(logger.NewJsonLinesLogRecorder(eventLog)),
		toClose:  listCloser{eventLog},
	}

	builtins := shell.DefaultBuiltins()

	s.Reporter = &insights.Reporter{
		Out:      stderr,
		Color:    cfg.Color,
		Commands: s.commandNames(builtins),
	}

	orchestrator := &shell.Orchestrator{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Builtins: builtins,
		Resolver: resolver,
		Events:   s.Events,
	}
	if cfg.Trace {
		orchestrator.Trace = stderr
	}

	s.Executor = &shell.Executor{
		Reporter:     s.Reporter,
		Orchestrator: orchestrator,
	}

	return s, nil
}

// Execute runs one line.
func (s *Session) Execute(line string) shell.ExecutionResult {
	return s.Executor.Execute(line)
}

// Completer returns a tab completer offering the session's commands.
func (s *Session) Completer() readline.AutoCompleter {
	return &complete.Completer{
		Commands: s.commandNames(s.Executor.Orchestrator.Builtins),
	}
}

func (s *Session) commandNames(builtins *shell.BuiltinRegistry) func() []string {
	return func() []string {
		return append(builtins.Names(), s.Resolver.KnownCommands()...)
	}
}

func (s *Session) Close() error {
	return s.toClose.Close()
}
