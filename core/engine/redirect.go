package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	redirectIn  = "<"
	redirectOut = ">"

	// Mode for files created by the > operator.
	outFileMode = 0644
)

// OpenError reports a redirect target that couldn't be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Redirects holds the descriptors opened for the redirection operators
// of a single command. A nil descriptor means the stream is inherited.
//
// Whoever holds a Redirects owns its descriptors until they're handed to
// a child process; Close must run on every exit path.
type Redirects struct {
	In  *os.File
	Out *os.File
}

// Close releases any open descriptors. Safe to call on nil and more than
// once.
func (r *Redirects) Close() error {
	if r == nil {
		return nil
	}
	var lastErr error
	if r.In != nil {
		if err := r.In.Close(); err != nil {
			lastErr = err
		}
		r.In = nil
	}
	if r.Out != nil {
		if err := r.Out.Close(); err != nil {
			lastErr = err
		}
		r.Out = nil
	}
	return lastErr
}

func isRedirectOp(token string) bool {
	return token == redirectIn || token == redirectOut
}

// ResolveRedirects scans tokens for the < and > operators and opens
// their targets, resolving relative paths against dir. Input targets
// are opened read-only; output targets are created if absent and
// truncated if present.
//
// If the same operator appears more than once the last occurrence wins
// and the superseded descriptor is closed. An operator in the final
// position has no target and is ignored. The token list is never
// modified; use Argv to build the matching argument vector.
//
// On failure everything opened so far is closed and an *OpenError is
// returned; the command must not run.
func ResolveRedirects(dir string, tokens []string) (*Redirects, error) {
	rd := &Redirects{}
	for i, token := range tokens {
		if i+1 >= len(tokens) {
			break
		}

		switch token {
		case redirectIn:
			fd, err := os.Open(resolvePath(dir, tokens[i+1]))
			if err != nil {
				rd.Close()
				return nil, &OpenError{Path: tokens[i+1], Err: err}
			}
			if rd.In != nil {
				rd.In.Close()
			}
			rd.In = fd

		case redirectOut:
			fd, err := os.OpenFile(resolvePath(dir, tokens[i+1]), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outFileMode)
			if err != nil {
				rd.Close()
				return nil, &OpenError{Path: tokens[i+1], Err: err}
			}
			if rd.Out != nil {
				rd.Out.Close()
			}
			rd.Out = fd
		}
	}
	return rd, nil
}

// Argv returns the argument vector for tokens: everything up to the
// first redirection operator.
func Argv(tokens []string) []string {
	for i, token := range tokens {
		if isRedirectOp(token) {
			return tokens[:i:i]
		}
	}
	return tokens
}

func resolvePath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
