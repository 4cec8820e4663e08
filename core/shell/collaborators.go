package shell

import (
	"github.com/josephlewis42/shellcraft/core/logger"
)

// CommandResolver maps typed command names to the names that get run.
type CommandResolver interface {
	// Resolve is called once per stage before the stage is classified.
	Resolve(name string) string
	// Record is called once for each external stage that started
	// successfully. Failures are the resolver's problem.
	Record(name string)
}

// ErrorReporter displays pipeline failures to the user.
type ErrorReporter interface {
	Report(command, details string)
}

// EventRecorder stores interaction events.
type EventRecorder interface {
	Record(event logger.LogType) error
}

// IdentityResolver returns names unchanged and learns nothing.
type IdentityResolver struct{}

func (IdentityResolver) Resolve(name string) string { return name }

func (IdentityResolver) Record(string) {}

var _ CommandResolver = IdentityResolver{}
