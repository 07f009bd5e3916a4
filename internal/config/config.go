// Package config loads quadform.toml.
//
// A file looks like
//
//	[group]
//	discriminant = "-108751"   # or: seed = "hello", bits = 256
//
//	[chain]
//	steps = 1000
//	workers = 4
//	checkpoint = ".quadform"
//	save_every = 100
//	sample_every = 10
//
//	[[batch]]
//	name = "small"
//	discriminant = "-108751"
//	steps = 11
//
// Integers may be TOML integers or strings; values that do not fit in 64
// bits must be strings.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"quadform/internal/arith"
	"quadform/internal/discriminant"
	"quadform/internal/form"
)

// FileName is the file searched for by Find.
const FileName = "quadform.toml"

// ErrNoGroup reports a group section that names neither a discriminant nor
// a seed.
var ErrNoGroup = errors.New("no discriminant or seed given")

// Integer is an arbitrary-precision integer read from TOML.
type Integer struct {
	*big.Int
}

func (i *Integer) UnmarshalTOML(v any) error {
	n, err := arith.Plain(v)
	if err != nil {
		return err
	}
	i.Int = n
	return nil
}

// Set reports whether a value was decoded.
func (i Integer) Set() bool { return i.Int != nil }

// Group selects a class group by discriminant or by seed.
type Group struct {
	Discriminant Integer `toml:"discriminant"`
	Seed         string  `toml:"seed"`
	Bits         int     `toml:"bits"`
	Form         string  `toml:"form"` // optional start form "a,b,c"
}

// Resolve returns the discriminant Group names. It fails with ErrNoGroup
// when neither form is given.
func (g Group) Resolve() (*big.Int, error) {
	switch {
	case g.Discriminant.Set() && g.Seed != "":
		return nil, errors.New("both discriminant and seed given")
	case g.Discriminant.Set():
		return new(big.Int).Set(g.Discriminant.Int), nil
	case g.Seed != "":
		return discriminant.FromSeed([]byte(g.Seed), g.Bits)
	}
	return nil, ErrNoGroup
}

// Start parses the optional start form; ok is false when none is set.
func (g Group) Start() (f form.Form, ok bool, err error) {
	if strings.TrimSpace(g.Form) == "" {
		return form.Form{}, false, nil
	}
	f, err = form.Parse(g.Form)
	return f, err == nil, err
}

type Chain struct {
	Steps       uint64 `toml:"steps"`
	Workers     int    `toml:"workers"`
	Checkpoint  string `toml:"checkpoint"`
	SaveEvery   uint64 `toml:"save_every"`
	SampleEvery uint64 `toml:"sample_every"`
}

// BatchEntry is one [[batch]] table.
type BatchEntry struct {
	Name  string `toml:"name"`
	Steps uint64 `toml:"steps"`
	Group
}

// File is a decoded quadform.toml.
type File struct {
	Path  string `toml:"-"`
	Root  string `toml:"-"`
	Group Group        `toml:"group"`
	Chain Chain        `toml:"chain"`
	Batch []BatchEntry `toml:"batch"`
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest FileName above startDir.
func Discover(startDir string) (*File, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	f, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// Load decodes and validates the file at path. Relative checkpoint paths
// are resolved against the file's directory.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	f.Path = path
	f.Root = filepath.Dir(path)

	if meta.IsDefined("group") {
		if err := checkGroup(f.Group, "[group]"); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if f.Chain.Workers < 0 {
		return nil, fmt.Errorf("%s: [chain].workers must not be negative", path)
	}
	if f.Chain.Checkpoint != "" && !filepath.IsAbs(f.Chain.Checkpoint) {
		f.Chain.Checkpoint = filepath.Join(f.Root, f.Chain.Checkpoint)
	}

	seen := make(map[string]bool, len(f.Batch))
	for i, entry := range f.Batch {
		where := fmt.Sprintf("[[batch]] #%d", i+1)
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("%s: %s: missing name", path, where)
		}
		where = fmt.Sprintf("[[batch]] %q", entry.Name)
		if seen[entry.Name] {
			return nil, fmt.Errorf("%s: %s: duplicate name", path, where)
		}
		seen[entry.Name] = true
		if entry.Steps == 0 {
			return nil, fmt.Errorf("%s: %s: missing steps", path, where)
		}
		if err := checkGroup(entry.Group, where); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return &f, nil
}

func checkGroup(g Group, where string) error {
	if !g.Discriminant.Set() && g.Seed == "" {
		return fmt.Errorf("%s: %w", where, ErrNoGroup)
	}
	if g.Discriminant.Set() && g.Seed != "" {
		return fmt.Errorf("%s: discriminant and seed are mutually exclusive", where)
	}
	if g.Seed != "" && g.Bits < discriminant.MinBits {
		return fmt.Errorf("%s: seed needs bits >= %d", where, discriminant.MinBits)
	}
	if _, _, err := g.Start(); err != nil {
		return fmt.Errorf("%s: form: %w", where, err)
	}
	return nil
}
