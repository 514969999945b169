// Package shell invokes one external process per step with the run's
// environment context injected, and guarantees the process is reaped on
// every exit path. Non-zero exit is not an error at this layer: it is
// reported in the Result, and treating it as fatal is the caller's policy.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gookit/color"

	"github.com/makex-dev/makex/internal/ctxlog"
	"github.com/makex-dev/makex/internal/envctx"
)

// Step describes one external invocation.
type Step struct {
	// Command is the argv vector; Command[0] is the program.
	Command []string

	// Dir is an optional working directory.
	Dir string

	// Capture buffers stdout/stderr into the Result instead of streaming
	// them live. Used for steps whose output is parsed, such as querying
	// the package version.
	Capture bool

	// Highlight streams output live but colors lines containing compiler
	// warnings and errors. Used by the build step.
	Highlight bool
}

// Result is the outcome of one invocation.
type Result struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}

// Invoker runs steps against a fixed pair of output streams.
type Invoker struct {
	Out    io.Writer
	ErrOut io.Writer
}

// New returns an Invoker writing live output to the given streams.
func New(out, errOut io.Writer) *Invoker {
	return &Invoker{Out: out, ErrOut: errOut}
}

// waitDelay bounds how long a cancelled step may linger after the
// interrupt before being killed outright.
const waitDelay = 10 * time.Second

// Run spawns the step's process with the environment context injected and
// waits for it. The process is always reaped: on spawn failure the call
// returns *SpawnError, on signal death *SignalError, and on a plain
// non-zero exit a Result with ExitCode set and a nil error.
func (inv *Invoker) Run(ctx context.Context, step *Step, env *envctx.Context) (*Result, error) {
	if len(step.Command) == 0 {
		return nil, fmt.Errorf("step has an empty command")
	}
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, step.Command[0], step.Command[1:]...)
	cmd.Dir = step.Dir
	cmd.Env = env.Environ()
	// On cancellation forward an interrupt so the child can clean up its
	// own process group; WaitDelay kills it if the interrupt is ignored
	// (or unsupported, as on Windows).
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = waitDelay

	fmt.Fprintf(inv.Out, "cmd: %s\n", strings.Join(step.Command, " "))
	logger.Debug("Spawning external step.", "command", step.Command, "dir", step.Dir, "capture", step.Capture)

	var stdout, stderr bytes.Buffer
	var flush func()
	switch {
	case step.Capture:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	case step.Highlight:
		// Merge both streams into one pipe so warnings keep their place
		// relative to surrounding output.
		pr, pw := io.Pipe()
		cmd.Stdout = pw
		cmd.Stderr = pw
		done := make(chan struct{})
		go func() {
			defer close(done)
			scanner := bufio.NewScanner(pr)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				inv.printHighlighted(scanner.Text())
			}
		}()
		flush = func() {
			pw.Close()
			<-done
		}
	default:
		cmd.Stdout = inv.Out
		cmd.Stderr = inv.ErrOut
		cmd.Stdin = os.Stdin
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if flush != nil {
			flush()
		}
		return nil, &SpawnError{Command: step.Command, Err: err}
	}

	waitErr := cmd.Wait()
	if flush != nil {
		flush()
	}

	result := &Result{
		Command: step.Command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			if code := exitErr.ExitCode(); code >= 0 {
				result.ExitCode = code
				logger.Debug("External step exited non-zero.", "command", step.Command[0], "code", code)
				return result, nil
			}
			return nil, &SignalError{Command: step.Command, State: exitErr.ProcessState.String()}
		}
		return nil, fmt.Errorf("command %q did not complete cleanly: %w", step.Command[0], waitErr)
	}

	logger.Debug("External step completed.", "command", step.Command[0], "elapsed", result.Elapsed)
	return result, nil
}

// printHighlighted echoes one merged output line, coloring diagnostics the
// external compiler emits.
func (inv *Invoker) printHighlighted(line string) {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "error"):
		fmt.Fprintln(inv.Out, color.Red.Sprint(line))
	case strings.Contains(lower, "warning"):
		fmt.Fprintln(inv.Out, color.Yellow.Sprint(line))
	default:
		fmt.Fprintln(inv.Out, line)
	}
}
