// Package config loads the optional glazboot.yaml that sits at the root of a
// Glaz source tree.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up at the workspace root.
const FileName = "glazboot.yaml"

// DefaultSeedURL is the nightly seed compiler archive.
const DefaultSeedURL = "https://github.com/glaz-lang/glaz/releases/download/nightly/glazc-linux-nightly.zip"

// Config holds the paths and URLs glazboot works with. Relative paths are
// relative to the workspace root.
type Config struct {
	SeedURL   string `yaml:"seed_url"`
	Compiler  string `yaml:"compiler"`
	TestsDir  string `yaml:"tests_dir"`
	SourceExt string `yaml:"source_ext"`
	StateDir  string `yaml:"state_dir"`
}

// Default returns the layout of the upstream Glaz repository.
func Default() Config {
	return Config{
		SeedURL:   DefaultSeedURL,
		Compiler:  "compiler/glazc",
		TestsDir:  "tests",
		SourceExt: ".glaz",
		StateDir:  ".glazboot",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	if c.SeedURL == "" {
		return errors.New("seed_url is empty")
	}
	if !strings.HasPrefix(c.SeedURL, "http://") && !strings.HasPrefix(c.SeedURL, "https://") {
		return fmt.Errorf("seed_url must be an http(s) URL: %s", c.SeedURL)
	}
	for name, p := range map[string]string{
		"compiler":  c.Compiler,
		"tests_dir": c.TestsDir,
		"state_dir": c.StateDir,
	} {
		if p == "" {
			return fmt.Errorf("%s is empty", name)
		}
		if filepath.IsAbs(p) {
			return fmt.Errorf("%s must be relative: %s", name, p)
		}
		if clean := filepath.ToSlash(filepath.Clean(p)); clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("%s must not escape the workspace root: %s", name, p)
		}
	}
	if !strings.HasPrefix(c.SourceExt, ".") || c.SourceExt == ".out" {
		return fmt.Errorf("source_ext must be an extension other than .out: %q", c.SourceExt)
	}
	return nil
}

// CompilerCommand returns the compiler path as invoked from the root, e.g.
// "./compiler/glazc".
func (c Config) CompilerCommand() string {
	p := filepath.ToSlash(filepath.Clean(c.Compiler))
	if strings.HasPrefix(p, "./") {
		return p
	}
	return "./" + p
}
