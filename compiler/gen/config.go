package gen

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/codemodel/golang"
	"github.com/syssam/springforge/codemodel/java"
	"github.com/syssam/springforge/compiler/load"
	"github.com/syssam/springforge/compiler/merge"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by springforge. DO NOT EDIT."

// ConflictPolicy decides what a merge conflict does to the run.
type ConflictPolicy string

// Conflict policies.
const (
	// ConflictAbort fails the run on the first merge conflict.
	ConflictAbort ConflictPolicy = "abort"
	// ConflictSkip drops the conflicting group and keeps its previous output.
	ConflictSkip ConflictPolicy = "skip"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ConflictPolicy) UnmarshalText(text []byte) error {
	switch v := ConflictPolicy(text); v {
	case ConflictAbort, ConflictSkip:
		*p = v
		return nil
	}
	return springforge.NewConfigError("Conflict", string(text), "unsupported policy; use abort or skip")
}

// Config holds the configuration of a generation run.
type Config struct {
	// Input is the directory of the documents to generate.
	Input string
	// Lookup directories hold documents whose fragments are merged into
	// groups of the input but are not generated themselves.
	Lookup []string
	// Output is the root of the generated tree.
	Output string
	// Repositories and Services enable data access and service units.
	Repositories bool
	Services     bool
	// BaseNamespace applies to modules without a package, and prefixes
	// packages that start with a dot.
	BaseNamespace string
	// Recursive walks subdirectories of the input and lookup directories.
	Recursive bool

	// Target names the renderer: "java" or "go".
	Target string
	// Module is the Go module path of the generated tree for the go target.
	Module string
	// Header is written at the top of each generated file.
	Header string
	// Format post-processes rendered files. Nil selects the target default.
	Format cm.FormatFunc
	// Profile overrides the built-in profile of the target.
	Profile *Profile
	// OverrideCheck overrides the property override check of the merge.
	OverrideCheck merge.OverrideCheck

	// Workers bounds the groups emitted and files written concurrently.
	Workers int
	// Conflict is the merge conflict policy.
	Conflict ConflictPolicy
	// CleanupOnAbort runs the cleanup phase when the caller aborts the run,
	// protecting every planned path. It is on by default.
	CleanupOnAbort bool

	// ParseContext is the parse context. Nil selects load.DefaultContext.
	ParseContext *load.Context
	// Logger receives progress logs. Nil discards them.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration used before options apply.
func DefaultConfig() *Config {
	return &Config{
		Repositories:   true,
		Services:       true,
		Target:         java.Name,
		Header:         DefaultHeader,
		Workers:        runtime.GOMAXPROCS(0),
		Conflict:       ConflictAbort,
		CleanupOnAbort: true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return springforge.NewConfigError("Input", nil, "input directory cannot be empty")
	case c.Output == "":
		return springforge.NewConfigError("Output", nil, "output directory cannot be empty")
	case c.Workers < 1:
		return springforge.NewConfigError("Workers", c.Workers, "at least one worker is required")
	case c.Conflict != ConflictAbort && c.Conflict != ConflictSkip:
		return springforge.NewConfigError("Conflict", string(c.Conflict), "unsupported policy; use abort or skip")
	}
	switch c.Target {
	case java.Name:
	case golang.Name:
		if c.Module == "" {
			return springforge.NewConfigError("Module", nil, "the go target requires a module path")
		}
	default:
		return springforge.NewConfigError("Target", c.Target, fmt.Sprintf("unsupported target; use %s or %s", java.Name, golang.Name))
	}
	if c.Profile != nil && c.Profile.Target != c.Target {
		return springforge.NewConfigError("Profile", c.Profile.Target, "profile does not match target "+c.Target)
	}
	return nil
}

// renderer returns the renderer of the configured target.
func (c *Config) renderer() cm.Renderer {
	if c.Target == golang.Name {
		return golang.New(c.Module, golang.WithHeader(c.Header))
	}
	return java.New(java.WithHeader(c.Header))
}

// formatter returns the configured format hook or the target default.
func (c *Config) formatter() cm.FormatFunc {
	switch {
	case c.Format != nil:
		return c.Format
	case c.Target == golang.Name:
		return FormatGo
	}
	return nil
}

// profile returns the configured profile or the target's built-in one.
func (c *Config) profile() (*Profile, error) {
	if c.Profile != nil {
		return c.Profile, nil
	}
	return ProfileFor(c.Target)
}

func (c *Config) parseContext() *load.Context {
	if c.ParseContext != nil {
		return c.ParseContext
	}
	return load.DefaultContext()
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
