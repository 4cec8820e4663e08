// Package shell turns a line of input into a running pipeline.
//
// A line is processed in the following order:
//
// 1. The line is split into stages on unquoted pipe characters and each stage
// is broken into words (see Tokenize).
//
// 2. Redirection operators and their operands are removed from the first (<)
// and last (>) stage (see ResolveRedirections).
//
// 3. Each stage's command name is passed through the CommandResolver and the
// stage is classified as a builtin or an external program (see Classify).
//
// 4. The Orchestrator opens redirection targets, creates one OS pipe between
// each pair of adjacent stages, starts every external stage and waits for
// all of them to exit.
//
// Executor.Execute ties the steps together and is the only place failures
// are reported.
package shell
