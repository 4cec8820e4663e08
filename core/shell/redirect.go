package shell

import (
	"fmt"
	"os"
)

const (
	redirectIn  = "<"
	redirectOut = ">"
)

// ResolveRedirections builds a Pipeline from tokenized stages by pulling the
// first "<" operator out of the first stage and the first ">" operator out of
// the last stage along with the word following each. The operator doesn't
// need to be the last word of its stage.
//
// Operators in interior stages are left alone and passed to the program as
// ordinary arguments.
func ResolveRedirections(stages []Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, newError(ParseError, "", ErrMissingCommand)
	}

	p := &Pipeline{Stages: make([]Stage, len(stages))}
	copy(p.Stages, stages)

	first := 0
	last := len(p.Stages) - 1

	stage, path, err := extractRedirect(p.Stages[first], redirectIn)
	if err != nil {
		return nil, err
	}
	p.Stages[first] = stage
	if path != "" {
		p.Input = &Redirection{Path: path}
	}

	stage, path, err = extractRedirect(p.Stages[last], redirectOut)
	if err != nil {
		return nil, err
	}
	p.Stages[last] = stage
	if path != "" {
		p.Output = &Redirection{Path: path}
	}

	for _, stage := range p.Stages {
		if len(stage) == 0 {
			return nil, newError(ParseError, "", ErrMissingCommand)
		}
	}

	return p, nil
}

// extractRedirect returns a copy of stage without the first op and its
// operand, and the operand.
func extractRedirect(stage Stage, op string) (Stage, string, error) {
	for i, word := range stage {
		if word != op {
			continue
		}
		if i+1 >= len(stage) {
			return nil, "", newError(ParseError, op, ErrMissingRedirectTarget)
		}

		out := make(Stage, 0, len(stage)-2)
		out = append(out, stage[:i]...)
		out = append(out, stage[i+2:]...)
		return out, stage[i+1], nil
	}

	return stage, "", nil
}

// openInput opens the input redirection target for reading.
func (r *Redirection) openInput() (*os.File, error) {
	fd, err := os.Open(r.Path)
	if err != nil {
		return nil, newError(RedirectionTargetError, "", err)
	}
	return fd, nil
}

// openOutput opens the output redirection target, truncating it.
func (r *Redirection) openOutput() (*os.File, error) {
	fd, err := os.OpenFile(r.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, newError(RedirectionTargetError, "", fmt.Errorf("cannot write output: %w", err))
	}
	return fd, nil
}
