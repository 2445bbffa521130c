// Package snapshot is the golden-output test harness for the Glaz compiler.
//
// Fixtures live in <tests>/<category>/*.glaz and each has a sibling .out
// golden file holding the raw diagnostic stream it is expected to produce.
// Bad fixtures must fail to compile and their golden is the compiler's
// stderr. InOut fixtures must compile, and their golden is the stderr of
// the produced binary, which is expected to exit non-zero.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GoldenExt is the extension of golden files.
const GoldenExt = ".out"

// Kind selects how a category's fixtures are evaluated.
type Kind int

const (
	KindBad Kind = iota
	KindInOut
)

func (k Kind) String() string {
	if k == KindInOut {
		return "inout"
	}
	return "bad"
}

// Category is a fixture directory and the evaluation it gets.
type Category struct {
	// Name is the directory under the tests root.
	Name string
	Kind Kind
}

var (
	Bad   = Category{Name: "bad", Kind: KindBad}
	InOut = Category{Name: "inout", Kind: KindInOut}
)

// ParseCategory maps a category argument to a Category. Only "inout" gets
// the InOut evaluation; any other name is evaluated as Bad, with fixtures
// still read from the directory of that name.
func ParseCategory(name string) Category {
	if name == InOut.Name {
		return InOut
	}
	return Category{Name: name, Kind: KindBad}
}

// TestCase is one fixture file.
type TestCase struct {
	// Path is the fixture path relative to the workspace root, slash separated.
	Path     string
	Category Category
}

// Stem is the file name without extension. It names both the compiler's
// --src-name and the executable a successful compile produces.
func (tc TestCase) Stem() string {
	base := filepath.Base(tc.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GoldenPath returns the sibling golden file path.
func (tc TestCase) GoldenPath() string {
	return strings.TrimSuffix(tc.Path, filepath.Ext(tc.Path)) + GoldenExt
}

// Corpus locates fixtures under a workspace.
type Corpus struct {
	Root     string
	TestsDir string
	Ext      string
}

// Discover returns the fixtures of a category in lexical order.
func (c Corpus) Discover(cat Category) ([]TestCase, error) {
	dir := filepath.Join(c.Root, c.TestsDir, cat.Name)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture directory %s is not a directory", dir)
	}

	// Glob inside dir so metacharacters in the workspace path stay literal.
	matches, err := fs.Glob(os.DirFS(dir), "*"+c.Ext)
	if err != nil {
		return nil, fmt.Errorf("listing fixtures: %w", err)
	}
	sort.Strings(matches)

	cases := make([]TestCase, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(c.Root, filepath.Join(dir, m))
		if err != nil {
			return nil, err
		}
		cases = append(cases, TestCase{Path: filepath.ToSlash(rel), Category: cat})
	}
	return cases, nil
}

// ReadGolden returns the golden content for tc. found is false when the
// golden file does not exist.
func (c Corpus) ReadGolden(tc TestCase) (content []byte, found bool, err error) {
	data, err := os.ReadFile(c.abs(tc.GoldenPath()))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading golden %s: %w", tc.GoldenPath(), err)
	}
	return data, true, nil
}

func (c Corpus) abs(rel string) string {
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}
