// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON objects so they can be
// appended to by many shell sessions and replayed into reports.
package logger
