package shell

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// ParseError is malformed quoting or a dangling redirection operator.
	ParseError ErrorKind = iota + 1
	// RedirectionTargetError is a missing input file or unwritable output file.
	RedirectionTargetError
	// BuiltinPipeMisuseError is a builtin after the first stage of a pipeline.
	BuiltinPipeMisuseError
	// SpawnError is an external command that couldn't be started.
	SpawnError
	// BuiltinExecutionError is a builtin that failed, e.g. cd to a bad path.
	BuiltinExecutionError
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse_error"
	case RedirectionTargetError:
		return "redirection_target_error"
	case BuiltinPipeMisuseError:
		return "builtin_pipe_misuse_error"
	case SpawnError:
		return "spawn_error"
	case BuiltinExecutionError:
		return "builtin_execution_error"
	default:
		return "unknown_error"
	}
}

var (
	ErrUnterminatedQuote     = errors.New("syntax error: unterminated quote")
	ErrMissingRedirectTarget = errors.New("syntax error: missing redirection target")
	ErrMissingCommand        = errors.New("syntax error: missing command")
	ErrBuiltinInPipeline     = errors.New("built-in commands cannot be piped")
	ErrCommandNotFound       = errors.New("command not found")
)

// Error is a failure that aborted a pipeline.
type Error struct {
	Kind ErrorKind
	// Command is the stage or path the error relates to, it may be empty.
	Command string
	Err     error
}

func (e *Error) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err or zero if err isn't an *Error.
func KindOf(err error) ErrorKind {
	var shellErr *Error
	if errors.As(err, &shellErr) {
		return shellErr.Kind
	}
	return 0
}

func newError(kind ErrorKind, command string, err error) *Error {
	return &Error{Kind: kind, Command: command, Err: err}
}
