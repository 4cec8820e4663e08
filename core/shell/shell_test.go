package shell

import (
	"os"
	"sync"
	"testing"

	"github.com/josephlewis42/shellcraft/core/logger"
	"github.com/stretchr/testify/require"
)

type report struct {
	Command string
	Details string
}

// fakeReporter records every report.
type fakeReporter struct {
	mu      sync.Mutex
	reports []report
}

func (f *fakeReporter) Report(command, details string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report{Command: command, Details: details})
}

func (f *fakeReporter) Reports() []report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]report(nil), f.reports...)
}

// fakeResolver maps names using a table and records what it learns.
type fakeResolver struct {
	table    map[string]string
	resolved []string
	recorded []string
}

func (f *fakeResolver) Resolve(name string) string {
	f.resolved = append(f.resolved, name)
	if out, ok := f.table[name]; ok {
		return out
	}
	return name
}

func (f *fakeResolver) Record(name string) {
	f.recorded = append(f.recorded, name)
}

// fakeEvents collects logged events.
type fakeEvents struct {
	events []logger.LogType
}

func (f *fakeEvents) Record(event logger.LogType) error {
	f.events = append(f.events, event)
	return nil
}

type fakeHistory struct {
	entries []string
}

func (f *fakeHistory) Entries() []string { return f.entries }

func (f *fakeHistory) Clear() { f.entries = nil }

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func getwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}
