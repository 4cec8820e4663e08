package shell

import (
	"github.com/josephlewis42/shellcraft/core/logger"
)

// Executor runs lines of input. It is the single place where pipeline
// failures are reported, every failure becomes a Continue result.
type Executor struct {
	Reporter     ErrorReporter
	Orchestrator *Orchestrator
}

// Execute parses and runs one line.
func (e *Executor) Execute(line string) ExecutionResult {
	stages, err := Tokenize(line)
	if err != nil {
		return e.fail(line, nil, err)
	}
	if len(stages) == 0 {
		return ExecutionResult{Status: Continue}
	}

	pipeline, err := ResolveRedirections(stages)
	if err != nil {
		return e.fail(line, stages[0], err)
	}

	resolved := Classify(pipeline, e.resolver(), e.Orchestrator.Builtins)

	status, err := e.Orchestrator.Run(pipeline, resolved)
	if err != nil {
		result := e.fail(line, stages[0], err)
		result.Status = status
		return result
	}
	return ExecutionResult{Status: status}
}

func (e *Executor) fail(line string, command Stage, err error) ExecutionResult {
	kind := KindOf(err)
	if kind == 0 {
		kind = SpawnError
		err = newError(kind, "", err)
	}

	// Spawn failures are logged by the orchestrator as unknown commands.
	if kind != SpawnError {
		e.Orchestrator.recordEvent(&logger.InvalidInvocation{
			Command: []string(command),
			Kind:    kind.String(),
			Error:   err.Error(),
		})
	}

	e.Reporter.Report(line, err.Error())
	return ExecutionResult{Status: Continue, Err: err}
}

func (e *Executor) resolver() CommandResolver {
	if e.Orchestrator.Resolver == nil {
		return IdentityResolver{}
	}
	return e.Orchestrator.Resolver
}
