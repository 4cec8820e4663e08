package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/josephlewis42/shellcraft/core/logger"
)

// Process is a started external program.
type Process interface {
	Wait() error
}

// Spawner starts external programs.
type Spawner interface {
	Start(argv []string, stdin io.Reader, stdout, stderr io.Writer) (Process, error)
}

// ExecSpawner starts programs from $PATH using os/exec.
type ExecSpawner struct{}

var _ Spawner = ExecSpawner{}

func (ExecSpawner) Start(argv []string, stdin io.Reader, stdout, stderr io.Writer) (Process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ChannelFunc creates the pipe between two adjacent stages.
type ChannelFunc func() (r *os.File, w *os.File, err error)

// Orchestrator starts the stages of a pipeline, wires them together and waits
// for them to finish.
type Orchestrator struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Builtins *BuiltinRegistry
	Resolver CommandResolver
	Events   EventRecorder
	Spawner  Spawner
	// NewChannel defaults to os.Pipe.
	NewChannel ChannelFunc
	// History is handed to builtins.
	History History
	// Trace, if set, receives each argv before it's started.
	Trace io.Writer
}

// Run executes a classified pipeline. The returned error is always an *Error
// and is never reported here. A builtin's own failure is returned along with
// its status.
func (o *Orchestrator) Run(p *Pipeline, stages []ResolvedStage) (Status, error) {
	env := &BuiltinEnv{
		Stdout:   o.Stdout,
		Stderr:   o.Stderr,
		Registry: o.Builtins,
		History:  o.History,
	}

	// A lone builtin runs in-process, redirection has no effect on it.
	if len(stages) == 1 && stages[0].IsBuiltin() {
		status := stages[0].Builtin.Main(env, stages[0].Argv)
		return status, env.Err()
	}

	for _, stage := range stages[1:] {
		if stage.IsBuiltin() {
			return Continue, newError(BuiltinPipeMisuseError, stage.Name(), ErrBuiltinInPipeline)
		}
	}

	stdin := o.Stdin
	if p.Input != nil {
		fd, err := p.Input.openInput()
		if err != nil {
			return Continue, err
		}
		defer fd.Close()
		stdin = fd
	}

	stdout := o.Stdout
	if p.Output != nil {
		fd, err := p.Output.openOutput()
		if err != nil {
			return Continue, err
		}
		// Deferred so the file stays open until every stage has exited.
		defer fd.Close()
		stdout = fd
	}

	stopInterrupts := catchInterrupts()
	defer stopInterrupts()

	procs, spawnErr := o.spawn(env, stages, stdin, stdout, sharedWriter(o.Stderr))
	for _, proc := range procs {
		// Exit statuses aren't surfaced.
		_ = proc.Wait()
	}

	if spawnErr != nil {
		return Continue, spawnErr
	}
	return Continue, env.Err()
}

// channelEnds tracks the pipe ends the orchestrator still owns. Every end is
// closed exactly once, either when its process has been started or when the
// pipeline is torn down.
type channelEnds []*os.File

func (c *channelEnds) own(f *os.File) {
	*c = append(*c, f)
}

func (c *channelEnds) release(f *os.File) {
	for i, owned := range *c {
		if owned == f {
			*c = append((*c)[:i], (*c)[i+1:]...)
			f.Close()
			return
		}
	}
}

// transfer gives up ownership of f without closing it.
func (c *channelEnds) transfer(f *os.File) {
	for i, owned := range *c {
		if owned == f {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return
		}
	}
}

func (c *channelEnds) Close() error {
	var lastErr error
	for _, f := range *c {
		if err := f.Close(); err != nil {
			lastErr = err
		}
	}
	*c = nil
	return lastErr
}

// spawn starts each stage in order and returns the processes that were
// started. On failure the remaining stages aren't started, every owned pipe
// end is closed and the processes started so far are still returned so they
// can be waited on.
func (o *Orchestrator) spawn(env *BuiltinEnv, stages []ResolvedStage, stdin io.Reader, stdout, stderr io.Writer) (procs []Process, err error) {
	var owned channelEnds
	defer owned.Close()

	newChannel := o.NewChannel
	if newChannel == nil {
		newChannel = os.Pipe
	}

	var prevRead *os.File
	in := stdin
	last := len(stages) - 1

	for i, stage := range stages {
		out := stdout
		var r, w *os.File
		if i != last {
			r, w, err = newChannel()
			if err != nil {
				return procs, newError(SpawnError, stage.Name(), fmt.Errorf("creating pipe: %w", err))
			}
			owned.own(r)
			owned.own(w)
			out = w
		}

		if stage.IsBuiltin() {
			// Only the first stage can get here, the writer goroutine takes w.
			owned.transfer(w)
			o.runPipedBuiltin(env, stage, w)
		} else {
			proc, startErr := o.start(stage, in, out, stderr)
			// The child holds its own copies of the ends it was given.
			if prevRead != nil {
				owned.release(prevRead)
			}
			if w != nil {
				owned.release(w)
			}
			if startErr != nil {
				return procs, startErr
			}
			procs = append(procs, proc)
			o.record(stage)
		}

		prevRead = r
		in = r
	}

	return procs, nil
}

// runPipedBuiltin runs a builtin that feeds the next stage. Its output is
// collected first then handed to the pipe from a goroutine so a large output
// can't fill the pipe before the reader exists. The goroutine closes w.
func (o *Orchestrator) runPipedBuiltin(env *BuiltinEnv, stage ResolvedStage, w *os.File) {
	buf := &bytes.Buffer{}
	pipedEnv := *env
	pipedEnv.Stdout = buf

	// The status is ignored, exit only ends the shell as a lone stage.
	_ = stage.Builtin.Main(&pipedEnv, stage.Argv)
	env.err = pipedEnv.err

	go func() {
		defer w.Close()
		if _, err := io.Copy(w, buf); err != nil && !errors.Is(err, syscall.EPIPE) {
			log.Printf("writing builtin output: %v", err)
		}
	}()
}

func (o *Orchestrator) start(stage ResolvedStage, stdin io.Reader, stdout, stderr io.Writer) (Process, error) {
	if o.Trace != nil {
		fmt.Fprintf(o.Trace, "+ %s\n", strings.Join(stage.Argv, " "))
	}

	spawner := o.Spawner
	if spawner == nil {
		spawner = ExecSpawner{}
	}

	proc, err := spawner.Start(stage.Argv, stdin, stdout, stderr)
	if err == nil {
		return proc, nil
	}

	o.recordEvent(&logger.UnknownCommand{Command: stage.Argv, Error: err.Error()})
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, newError(SpawnError, stage.Name(), ErrCommandNotFound)
	}
	return nil, newError(SpawnError, stage.Name(), err)
}

func (o *Orchestrator) record(stage ResolvedStage) {
	o.recordEvent(&logger.RunCommand{Command: stage.Argv, ResolvedCommand: stage.Name()})
	if o.Resolver != nil {
		o.Resolver.Record(stage.Name())
	}
}

func (o *Orchestrator) recordEvent(event logger.LogType) {
	if o.Events == nil {
		return
	}
	if err := o.Events.Record(event); err != nil {
		log.Printf("recording event: %v", err)
	}
}

// sharedWriter returns a writer every stage of a pipeline can hold at once.
// Files are handed to the children directly, anything else gets a copying
// goroutine per stage so writes are serialized.
func sharedWriter(w io.Writer) io.Writer {
	if _, ok := w.(*os.File); ok || w == nil {
		return w
	}
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// catchInterrupts keeps SIGINT from killing the shell while children run.
// The children are in the terminal's foreground process group and get the
// signal directly.
func catchInterrupts() (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	return func() {
		signal.Stop(sigs)
	}
}
