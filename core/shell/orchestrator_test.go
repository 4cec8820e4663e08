package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/josephlewis42/shellcraft/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePrograms(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

type fakeProcess struct {
	mu     sync.Mutex
	waited int
}

func (p *fakeProcess) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited++
	return nil
}

// fakeSpawner starts nothing, it fails for names in fail.
type fakeSpawner struct {
	fail    map[string]error
	started [][]string
	stderrs []io.Writer
	procs   []*fakeProcess
}

func (f *fakeSpawner) Start(argv []string, stdin io.Reader, stdout, stderr io.Writer) (Process, error) {
	if err, ok := f.fail[argv[0]]; ok {
		return nil, err
	}
	f.started = append(f.started, argv)
	f.stderrs = append(f.stderrs, stderr)
	proc := &fakeProcess{}
	f.procs = append(f.procs, proc)
	return proc, nil
}

// channelRecorder creates real pipes and remembers them.
type channelRecorder struct {
	readers []*os.File
	writers []*os.File
}

func (c *channelRecorder) NewChannel() (*os.File, *os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}
	c.readers = append(c.readers, r)
	c.writers = append(c.writers, w)
	return r, w, nil
}

func assertClosed(t *testing.T, files []*os.File) {
	t.Helper()
	for i, f := range files {
		_, err := f.Stat()
		assert.True(t, errors.Is(err, os.ErrClosed), "file %d is still open", i)
	}
}

func external(argv ...string) ResolvedStage {
	return ResolvedStage{Kind: StageExternal, Argv: argv}
}

func builtin(b ShellBuiltin, argv ...string) ResolvedStage {
	return ResolvedStage{Kind: StageBuiltin, Argv: argv, Builtin: b}
}

func pipelineOf(stages ...ResolvedStage) *Pipeline {
	p := &Pipeline{}
	for _, s := range stages {
		p.Stages = append(p.Stages, Stage(s.Argv))
	}
	return p
}

func newTestOrchestrator() (*Orchestrator, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Orchestrator{
		Stdin:    strings.NewReader(""),
		Stdout:   stdout,
		Stderr:   stderr,
		Builtins: DefaultBuiltins(),
		Resolver: IdentityResolver{},
	}, stdout, stderr
}

func TestOrchestratorChannels(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("%d-stages", n), func(t *testing.T) {
			o, _, _ := newTestOrchestrator()
			spawner := &fakeSpawner{}
			channels := &channelRecorder{}
			o.Spawner = spawner
			o.NewChannel = channels.NewChannel

			var stages []ResolvedStage
			for i := 0; i < n; i++ {
				stages = append(stages, external("prog"))
			}

			status, err := o.Run(pipelineOf(stages...), stages)
			require.NoError(t, err)
			assert.Equal(t, Continue, status)

			assert.Len(t, channels.writers, n-1)
			assertClosed(t, channels.writers)
			assertClosed(t, channels.readers)

			assert.Len(t, spawner.started, n)
			for _, proc := range spawner.procs {
				assert.Equal(t, 1, proc.waited)
			}
		})
	}
}

func TestOrchestratorSpawnFailure(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	spawner := &fakeSpawner{fail: map[string]error{"missing": exec.ErrNotFound}}
	channels := &channelRecorder{}
	resolver := &fakeResolver{}
	events := &fakeEvents{}
	o.Spawner = spawner
	o.NewChannel = channels.NewChannel
	o.Resolver = resolver
	o.Events = events

	stages := []ResolvedStage{external("first"), external("missing"), external("never")}
	status, err := o.Run(pipelineOf(stages...), stages)

	assert.Equal(t, Continue, status)
	assert.Equal(t, SpawnError, KindOf(err))
	assert.True(t, errors.Is(err, ErrCommandNotFound))
	assert.EqualError(t, err, "missing: command not found")

	// The first stage still ran to completion, the third never started.
	assert.Equal(t, [][]string{{"first"}}, spawner.started)
	assert.Equal(t, 1, spawner.procs[0].waited)
	assert.Equal(t, []string{"first"}, resolver.recorded)

	assert.Len(t, channels.writers, 2)
	assertClosed(t, channels.writers)
	assertClosed(t, channels.readers)

	require.Len(t, events.events, 2)
	assert.Equal(t, &logger.RunCommand{Command: []string{"first"}, ResolvedCommand: "first"}, events.events[0])
	assert.Equal(t, &logger.UnknownCommand{Command: []string{"missing"}, Error: exec.ErrNotFound.Error()}, events.events[1])
}

func TestOrchestratorOtherSpawnFailure(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Spawner = &fakeSpawner{fail: map[string]error{"locked": os.ErrPermission}}

	stages := []ResolvedStage{external("locked")}
	_, err := o.Run(pipelineOf(stages...), stages)
	assert.Equal(t, SpawnError, KindOf(err))
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestOrchestratorChannelFailure(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	spawner := &fakeSpawner{}
	o.Spawner = spawner
	o.NewChannel = func() (*os.File, *os.File, error) {
		return nil, nil, errors.New("too many open files")
	}

	stages := []ResolvedStage{external("a"), external("b")}
	status, err := o.Run(pipelineOf(stages...), stages)
	assert.Equal(t, Continue, status)
	assert.Equal(t, SpawnError, KindOf(err))
	assert.Empty(t, spawner.started)
}

func TestOrchestratorLoneBuiltin(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	spawner := &fakeSpawner{}
	o.Spawner = spawner

	dir := t.TempDir()
	p := &Pipeline{
		Stages: []Stage{{"exit"}},
		Output: &Redirection{Path: filepath.Join(dir, "out.txt")},
	}
	exit, _ := o.Builtins.Lookup("exit")
	status, err := o.Run(p, []ResolvedStage{builtin(exit, "exit")})

	require.NoError(t, err)
	assert.Equal(t, Terminate, status)
	assert.Empty(t, spawner.started)

	// Redirection has no effect on a lone builtin.
	_, err = os.Stat(filepath.Join(dir, "out.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestOrchestratorBuiltinMisuse(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	spawner := &fakeSpawner{}
	channels := &channelRecorder{}
	o.Spawner = spawner
	o.NewChannel = channels.NewChannel

	cd, _ := o.Builtins.Lookup("cd")
	stages := []ResolvedStage{external("ls"), builtin(cd, "cd")}
	status, err := o.Run(pipelineOf(stages...), stages)

	assert.Equal(t, Continue, status)
	assert.Equal(t, BuiltinPipeMisuseError, KindOf(err))
	assert.EqualError(t, err, "cd: built-in commands cannot be piped")
	assert.Empty(t, spawner.started)
	assert.Empty(t, channels.writers)
}

func TestOrchestratorRedirectionFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing-input", func(t *testing.T) {
		o, _, _ := newTestOrchestrator()
		spawner := &fakeSpawner{}
		o.Spawner = spawner

		stages := []ResolvedStage{external("cat")}
		p := pipelineOf(stages...)
		p.Input = &Redirection{Path: filepath.Join(dir, "missing.txt")}

		_, err := o.Run(p, stages)
		assert.Equal(t, RedirectionTargetError, KindOf(err))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Empty(t, spawner.started)
	})

	t.Run("unwritable-output", func(t *testing.T) {
		o, _, _ := newTestOrchestrator()
		spawner := &fakeSpawner{}
		o.Spawner = spawner

		stages := []ResolvedStage{external("echo", "hi")}
		p := pipelineOf(stages...)
		p.Output = &Redirection{Path: filepath.Join(dir, "no-such-dir", "out.txt")}

		_, err := o.Run(p, stages)
		assert.Equal(t, RedirectionTargetError, KindOf(err))
		assert.Empty(t, spawner.started)
	})
}

func TestOrchestratorTrace(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.Spawner = &fakeSpawner{}
	trace := &bytes.Buffer{}
	o.Trace = trace

	stages := []ResolvedStage{external("echo", "a", "b"), external("wc", "-c")}
	_, err := o.Run(pipelineOf(stages...), stages)
	require.NoError(t, err)
	assert.Equal(t, "+ echo a b\n+ wc -c\n", trace.String())
}

func TestOrchestratorProcesses(t *testing.T) {
	requirePrograms(t, "echo", "cat", "tr")

	t.Run("passthrough", func(t *testing.T) {
		o, _, _ := newTestOrchestrator()
		out, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
		require.NoError(t, err)
		defer out.Close()
		o.Stdout = out

		stages := []ResolvedStage{external("echo", "hello")}
		_, err = o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)

		data, err := os.ReadFile(out.Name())
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("pipe", func(t *testing.T) {
		o, stdout, _ := newTestOrchestrator()

		stages := []ResolvedStage{external("echo", "hello"), external("cat")}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", stdout.String())
	})

	t.Run("long-pipe", func(t *testing.T) {
		o, stdout, _ := newTestOrchestrator()

		stages := []ResolvedStage{
			external("echo", "hello"),
			external("cat"),
			external("tr", "a-z", "A-Z"),
			external("cat"),
		}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, "HELLO\n", stdout.String())
	})

	t.Run("stdin", func(t *testing.T) {
		o, stdout, _ := newTestOrchestrator()
		o.Stdin = strings.NewReader("from stdin\n")

		stages := []ResolvedStage{external("cat")}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, "from stdin\n", stdout.String())
	})

	t.Run("piped-builtin", func(t *testing.T) {
		o, stdout, _ := newTestOrchestrator()

		help, _ := o.Builtins.Lookup("help")
		stages := []ResolvedStage{builtin(help, "help"), external("tr", "a-z", "A-Z")}
		status, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, Continue, status)
		assert.Contains(t, stdout.String(), "THESE SHELL COMMANDS ARE DEFINED INTERNALLY.")
	})

	t.Run("piped-exit-continues", func(t *testing.T) {
		o, stdout, _ := newTestOrchestrator()

		exit, _ := o.Builtins.Lookup("exit")
		stages := []ResolvedStage{builtin(exit, "exit"), external("cat")}
		status, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, Continue, status)
		assert.Empty(t, stdout.String())
	})

	t.Run("stderr-passthrough", func(t *testing.T) {
		requirePrograms(t, "sh")
		o, stdout, stderr := newTestOrchestrator()

		stages := []ResolvedStage{external("sh", "-c", "echo out; echo err >&2"), external("cat")}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, "out\n", stdout.String())
		assert.Equal(t, "err\n", stderr.String())
	})

	t.Run("stderr-from-every-stage", func(t *testing.T) {
		requirePrograms(t, "sh")
		o, stdout, stderr := newTestOrchestrator()

		stages := []ResolvedStage{
			external("sh", "-c", "echo one >&2; echo out"),
			external("sh", "-c", "cat; echo two >&2"),
			external("sh", "-c", "cat; echo three >&2"),
		}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)
		assert.Equal(t, "out\n", stdout.String())
		assert.ElementsMatch(t, []string{"one", "two", "three"}, strings.Fields(stderr.String()))
	})
}

func TestOrchestratorSharedStderr(t *testing.T) {
	t.Run("buffer", func(t *testing.T) {
		o, _, stderr := newTestOrchestrator()
		spawner := &fakeSpawner{}
		o.Spawner = spawner

		stages := []ResolvedStage{external("a"), external("b"), external("c")}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)

		require.Len(t, spawner.stderrs, 3)
		for _, w := range spawner.stderrs {
			assert.Same(t, spawner.stderrs[0], w, "stages share one writer")
		}
		assert.NotSame(t, stderr, spawner.stderrs[0])

		fmt.Fprint(spawner.stderrs[1], "written")
		assert.Equal(t, "written", stderr.String())
	})

	t.Run("file", func(t *testing.T) {
		o, _, _ := newTestOrchestrator()
		spawner := &fakeSpawner{}
		o.Spawner = spawner
		o.Stderr = os.Stderr

		stages := []ResolvedStage{external("a"), external("b")}
		_, err := o.Run(pipelineOf(stages...), stages)
		require.NoError(t, err)

		for _, w := range spawner.stderrs {
			assert.Same(t, os.Stderr, w)
		}
	})
}
