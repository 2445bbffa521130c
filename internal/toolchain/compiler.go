package toolchain

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Invocation describes one run of the Glaz compiler.
type Invocation struct {
	// Compiler is the compiler executable, relative to the directory the
	// invocation runs in.
	Compiler string
	// SrcName is the --src-name identifier; non-library builds write an
	// executable with this name into the working directory.
	SrcName string
	NoStd   bool
	Lib     bool
	Release bool
	// Sources are files or glob patterns relative to the working directory.
	Sources []string
}

// Args returns the compiler argv (without the executable).
func (inv Invocation) Args() []string {
	var args []string
	if inv.Release {
		args = append(args, "--release")
	}
	if inv.SrcName != "" {
		args = append(args, "--src-name", inv.SrcName)
	}
	if inv.NoStd {
		args = append(args, "--no-std")
	}
	if inv.Lib {
		args = append(args, "--lib")
	}
	return append(args, inv.Sources...)
}

// Command binds the invocation to dir without expanding source patterns.
func (inv Invocation) Command(dir string) Command {
	return Command{Dir: dir, Path: inv.Compiler, Args: inv.Args()}
}

// Expand binds the invocation to dir and expands glob sources relative to
// it. A pattern without matches is passed through unchanged.
func (inv Invocation) Expand(dir string) (Command, error) {
	expanded := inv
	expanded.Sources = nil
	for _, src := range inv.Sources {
		files, err := ExpandGlob(dir, src)
		if err != nil {
			return Command{}, err
		}
		expanded.Sources = append(expanded.Sources, files...)
	}
	return expanded.Command(dir), nil
}

// Artifact is the executable a successful non-library build produces,
// relative to the working directory. Library builds have none.
func (inv Invocation) Artifact() string {
	if inv.Lib || inv.SrcName == "" {
		return ""
	}
	return inv.SrcName
}

// ExpandGlob expands pattern against dir and returns matches relative to dir
// in lexical order. Only pattern is glob syntax; dir is taken literally, so a
// directory name containing '[' or '*' still matches.
func ExpandGlob(dir, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return nil, fmt.Errorf("source pattern %q must be relative", pattern)
	}
	rel := path.Clean(filepath.ToSlash(pattern))
	if !fs.ValidPath(rel) {
		return nil, fmt.Errorf("source pattern %q must stay inside %s", pattern, dir)
	}
	matches, err := fs.Glob(os.DirFS(dir), rel)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return []string{pattern}, nil
	}

	sort.Strings(matches)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.FromSlash(m))
	}
	return out, nil
}
