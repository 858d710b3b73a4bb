package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// Stage is one program invocation within a command line: an argument
// vector plus the bindings for its standard streams.
type Stage struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Engine launches external commands for a single interactive session.
//
// Each command line fully completes, with every child reaped, before Run
// returns; the only concurrency is between the children of a pipeline,
// which synchronize through the pipe's own blocking semantics.
type Engine struct {
	// Default stream bindings for launched stages. Nil values fall back
	// to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the session working directory. Stages run in it and
	// relative redirect targets resolve against it. Empty means the
	// process working directory.
	Dir string

	// Env is the environment for launched stages in "key=value" form.
	// Nil means inherit the parent environment.
	Env []string
}

// Run executes a tokenized command line: a line containing a pipeline
// operator takes the two-stage path, anything else has redirects
// resolved and takes the single-stage path. Run blocks until every
// launched process has been reaped.
//
// The returned status is the exit code of the last stage; it's recorded
// but not meant for display. Start failures inside a stage are reported
// to the stage's stderr and don't produce an error, mirroring a child
// that fails after fork: the rest of the command still runs and is
// still reaped.
func (e *Engine) Run(tokens []string) (int, error) {
	if HasPipe(tokens) {
		first, second := SplitPipe(tokens)
		return e.runPiped(first, second)
	}
	return e.runPlain(tokens)
}

func (e *Engine) runPlain(tokens []string) (int, error) {
	rd, err := ResolveRedirects(e.Dir, tokens)
	if err != nil {
		return -1, err
	}
	defer rd.Close()

	stage := &Stage{
		Argv:   Argv(tokens),
		Stdin:  e.stdin(),
		Stdout: e.stdout(),
		Stderr: e.stderr(),
	}
	if rd.In != nil {
		stage.Stdin = rd.In
	}
	if rd.Out != nil {
		stage.Stdout = rd.Out
	}
	return e.launch(stage)
}

func (e *Engine) runPiped(first, second []string) (int, error) {
	return e.launch(
		&Stage{Argv: first, Stdin: e.stdin(), Stderr: e.stderr()},
		&Stage{Argv: second, Stdout: e.stdout(), Stderr: e.stderr()},
	)
}

// launch starts every stage, wiring adjacent stages together through a
// pipe, then reaps each started child. The parent's copies of the pipe
// ends are closed as soon as every child exists; holding them open
// would leave the downstream reader blocked waiting for an EOF that
// never comes.
//
// A stage that can't start is reported to its stderr and skipped; the
// remaining stages still run and are still reaped.
func (e *Engine) launch(stages ...*Stage) (int, error) {
	var parentEnds []*os.File
	for i := 0; i+1 < len(stages); i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			return -1, fmt.Errorf("cannot create pipe: %w", err)
		}
		stages[i].Stdout = pw
		stages[i+1].Stdin = pr
		parentEnds = append(parentEnds, pw, pr)
	}

	statuses := make([]int, len(stages))
	cmds := make([]*exec.Cmd, len(stages))
	for i, stage := range stages {
		statuses[i] = 127 // status for stages that never start

		cmd, err := e.command(stage)
		if err == nil {
			err = cmd.Start()
		}
		if err != nil {
			e.reportStartError(stage, err)
			continue
		}
		cmds[i] = cmd
	}

	for _, end := range parentEnds {
		end.Close()
	}

	for i, cmd := range cmds {
		if cmd == nil {
			continue
		}
		cmd.Wait()
		statuses[i] = cmd.ProcessState.ExitCode()
	}
	return statuses[len(statuses)-1], nil
}

func (e *Engine) command(stage *Stage) (*exec.Cmd, error) {
	if len(stage.Argv) == 0 {
		return nil, errors.New("missing program name")
	}

	execPath, err := LookPath(e.searchPath(), e.Dir, stage.Argv[0])
	if err != nil {
		return nil, err
	}

	return &exec.Cmd{
		Path:   execPath,
		Args:   stage.Argv,
		Dir:    e.Dir,
		Env:    e.Env,
		Stdin:  stage.Stdin,
		Stdout: stage.Stdout,
		Stderr: stage.Stderr,
	}, nil
}

func (e *Engine) reportStartError(stage *Stage, err error) {
	stderr := stage.Stderr
	if stderr == nil {
		stderr = e.stderr()
	}

	switch {
	case len(stage.Argv) == 0:
		fmt.Fprintf(stderr, "mishell: %v\n", err)
	case errors.Is(err, ErrNotFound):
		fmt.Fprintf(stderr, "%s: command not found\n", stage.Argv[0])
	case errors.Is(err, fs.ErrPermission):
		fmt.Fprintf(stderr, "%s: permission denied\n", stage.Argv[0])
	default:
		fmt.Fprintf(stderr, "%s: %v\n", stage.Argv[0], err)
	}
}

func (e *Engine) searchPath() string {
	for _, entry := range e.Env {
		if value, ok := strings.CutPrefix(entry, "PATH="); ok {
			return value
		}
	}
	return os.Getenv("PATH")
}

func (e *Engine) stdin() io.Reader {
	if e.Stdin != nil {
		return e.Stdin
	}
	return os.Stdin
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}
