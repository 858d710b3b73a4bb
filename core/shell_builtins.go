package core

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd changes the session working directory. The operand is required;
// without it the directory is left untouched.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 2:
		dir := s.resolveDir(args[1])
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return 1
		case !info.IsDir():
			fmt.Fprintf(s.stderr, "%s: %s: not a directory\n", args[0], args[1])
			return 1
		}
		s.Engine.Dir = dir
	case 1:
		fmt.Fprintf(s.stderr, "%s: missing operand\n", args[0])
		return 1
	default:
		fmt.Fprintf(s.stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Pwd prints the session working directory.
func Pwd(s *Shell, args []string) int {
	fmt.Fprintln(s.stdout, s.Engine.Dir)
	return 0
}

// Exit quits the shell.
func Exit(s *Shell, args []string) int {
	s.done = true
	return 0
}

func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	if *clear {
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.stdout, "% 5d  %s\n", i, line)
	}
	return 0
}

func Help(s *Shell, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, "mishell, an interactive command launcher")
	fmt.Fprintln(w, "These commands are defined internally. Type `help' to see this list.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	fmt.Fprintln(w, strings.Join(builtins, "\n"))

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
