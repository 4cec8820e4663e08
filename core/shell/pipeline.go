package shell

import "strings"

// Status tells the read loop whether to keep going.
type Status int

const (
	// Continue keeps the read loop running.
	Continue Status = iota
	// Terminate ends the read loop.
	Terminate
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Stage is a single command and its arguments, Stage[0] is the command name.
type Stage []string

// Name returns the command name of the stage.
func (s Stage) Name() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (s Stage) String() string {
	return strings.Join(s, " ")
}

// Redirection is a file attached to a pipeline boundary.
type Redirection struct {
	Path string
}

// Pipeline is one parsed line: the stages in order plus optional input
// redirection for the first stage and output redirection for the last.
type Pipeline struct {
	Stages []Stage
	Input  *Redirection
	Output *Redirection
}

// StageKind distinguishes in-process builtins from spawned programs.
type StageKind int

const (
	StageExternal StageKind = iota
	StageBuiltin
)

// ResolvedStage is a stage after command resolution.
type ResolvedStage struct {
	Kind StageKind

	// Argv holds the full argument vector with the resolved command name in
	// position zero.
	Argv []string

	// Builtin is set when Kind is StageBuiltin.
	Builtin ShellBuiltin
}

// Name returns the resolved command name.
func (r ResolvedStage) Name() string {
	return Stage(r.Argv).Name()
}

// IsBuiltin returns true if the stage runs in-process.
func (r ResolvedStage) IsBuiltin() bool {
	return r.Kind == StageBuiltin
}

// ExecutionResult is returned to the read loop after every line.
type ExecutionResult struct {
	Status Status
	// Err holds the failure that was reported, if any.
	Err error
}
