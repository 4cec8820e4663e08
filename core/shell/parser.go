package shell

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
)

const pipeOperator = '|'

// Tokenize splits a line into stages on unquoted pipe characters then breaks
// each stage into words using POSIX shell quoting rules.
//
// Empty stages are dropped, so a blank line returns no stages and no error.
func Tokenize(line string) ([]Stage, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	segments, err := splitPipes(line)
	if err != nil {
		return nil, err
	}

	var stages []Stage
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		words, err := shlex.Split(segment, true)
		if err != nil {
			return nil, newError(ParseError, "", fmt.Errorf("syntax error: %v", err))
		}
		if len(words) == 0 {
			continue
		}
		stages = append(stages, Stage(words))
	}

	return stages, nil
}

// splitPipes cuts line on pipe characters that aren't quoted or escaped.
// Quotes and escapes are left in place for the word splitter.
func splitPipes(line string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		quote    rune
		escaped  bool
	)

	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == pipeOperator:
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}

	if quote != 0 {
		return nil, newError(ParseError, "", ErrUnterminatedQuote)
	}

	return append(segments, current.String()), nil
}
