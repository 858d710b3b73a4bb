package engine

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories of
// the given search path. If file contains a slash, it is tried directly
// relative to dir and the search path is not consulted.
func LookPath(searchPath, dir, file string) (string, error) {
	if strings.Contains(file, "/") {
		resolved := resolvePath(dir, file)
		if err := findExecutable(resolved); err != nil {
			return "", err
		}
		return resolved, nil
	}
	for _, pathDir := range filepath.SplitList(searchPath) {
		if pathDir == "" {
			// Unix shell semantics: path element "" means "."
			pathDir = "."
		}
		candidate := filepath.Join(pathDir, file)
		if !filepath.IsAbs(candidate) {
			candidate = resolvePath(dir, candidate)
		}
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}
