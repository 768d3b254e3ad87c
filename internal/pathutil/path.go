// Package pathutil resolves file arguments given on the command line.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading ~/ with the home directory and expands
// environment variables. The path is returned unchanged when the home
// directory is unknown.
func Expand(path string) string {
	path = os.ExpandEnv(path)
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Resolve expands path and makes it absolute relative to base.
func Resolve(path, base string) string {
	path = Expand(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// ResolveAll applies Resolve to every path.
func ResolveAll(paths []string, base string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = Resolve(p, base)
	}
	return out
}
