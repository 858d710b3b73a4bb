package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/mishell-project/mishell/core/config"
	"github.com/mishell-project/mishell/core/engine"
	"github.com/mishell-project/mishell/core/logger"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
	EnvUser = "USER"

	DefaultPrompt = `mishell:\w\$ `
)

// SessionIO binds a shell session to its terminal.
type SessionIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsPTY reports whether the terminal is interactive.
	IsPTY bool
	// Width returns the terminal width, nil when unknown.
	Width func() int
}

// ShellOptions adjust a new session.
type ShellOptions struct {
	// Username shown in the prompt. Empty falls back to $USER.
	Username string
	// Dir is the initial working directory. Empty means the process
	// working directory.
	Dir string
	// Env is the environment for launched commands. Nil inherits the
	// parent environment.
	Env []string
}

type Shell struct {
	Engine   *engine.Engine
	Readline *readline.Instance

	config  *config.Configuration
	log     *logger.SessionLogger
	stdout  io.Writer
	stderr  io.Writer
	user    string
	history []string
	done    bool
}

func NewShell(sio SessionIO, configuration *config.Configuration, sessionLog *logger.SessionLogger, opts ShellOptions) (*Shell, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(io.NopCloser(sio.Stdin)),
		Stdout: sio.Stdout,
		Stderr: sio.Stderr,

		FuncIsTerminal: func() bool {
			return sio.IsPTY
		},
	}
	if sio.Width != nil {
		cfg.FuncGetWidth = sio.Width
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	user := opts.Username
	if user == "" {
		user = os.Getenv(EnvUser)
	}

	return &Shell{
		Engine: &engine.Engine{
			Stdin:  sio.Stdin,
			Stdout: sio.Stdout,
			Stderr: sio.Stderr,
			Dir:    dir,
			Env:    opts.Env,
		},
		Readline: rl,
		config:   configuration,
		log:      sessionLog,
		stdout:   sio.Stdout,
		stderr:   sio.Stderr,
		user:     user,
	}, nil
}

// Prompt renders the configured prompt, expanding \u, \h, \w and \$.
func (s *Shell) Prompt() string {
	prompt := s.config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	prompt = strings.ReplaceAll(prompt, `\u`, s.user)
	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd := s.Engine.Dir
	if home := s.home(); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.user == "root" {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run drives the interactive loop until the session ends. Each command
// fully completes, with all of its children reaped, before the next
// prompt is shown; no single command failure terminates the loop.
func (s *Shell) Run() error {
	if s.config.Motd != "" {
		fmt.Fprintln(s.stdout, s.config.Motd)
	}

	for !s.done {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		case len(line) == 0:
			continue // empty line
		}

		tokens := engine.Tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		s.history = append(s.history, line)

		if builtin, ok := AllBuiltins[tokens[0]]; ok {
			status := builtin.Main(s, tokens)
			s.record(&logger.CommandRun{Argv: tokens, ExitStatus: status, Builtin: true})
			continue
		}

		status, err := s.Engine.Run(tokens)
		if err != nil {
			fmt.Fprintf(s.stderr, "mishell: %v\n", err)
			s.record(&logger.CommandError{Argv: tokens, Error: err.Error()})
			continue
		}
		s.record(&logger.CommandRun{Argv: tokens, ExitStatus: status})
	}

	return nil
}

func (s *Shell) Close() error {
	return s.Readline.Close()
}

func (s *Shell) record(event logger.Event) {
	if s.log == nil {
		return
	}
	if err := s.log.Record(event); err != nil {
		log.Printf("Error recording log event: %v", err)
	}
}

func (s *Shell) home() string {
	for _, entry := range s.Engine.Env {
		if home, ok := strings.CutPrefix(entry, EnvHome+"="); ok {
			return home
		}
	}
	return os.Getenv(EnvHome)
}

// resolveDir turns path into a cleaned absolute directory path relative
// to the session working directory.
func (s *Shell) resolveDir(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Engine.Dir, path)
	}
	return filepath.Clean(path)
}
