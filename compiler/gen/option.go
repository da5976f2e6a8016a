package gen

import (
	"errors"

	"go.uber.org/zap"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/compiler/load"
	"github.com/syssam/springforge/compiler/merge"
)

// Option configures code generation.
type Option func(*Config) error

// WithInput sets the directory of the documents to generate.
func WithInput(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return springforge.NewConfigError("Input", nil, "input directory cannot be empty")
		}
		c.Input = dir
		return nil
	}
}

// WithLookup adds directories whose documents contribute fragments to the
// groups of the input without being generated.
func WithLookup(dirs ...string) Option {
	return func(c *Config) error {
		for _, dir := range dirs {
			if dir == "" {
				return springforge.NewConfigError("Lookup", nil, "lookup directory cannot be empty")
			}
		}
		c.Lookup = append(c.Lookup, dirs...)
		return nil
	}
}

// WithOutput sets the root directory of the generated tree.
func WithOutput(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return springforge.NewConfigError("Output", nil, "output directory cannot be empty")
		}
		c.Output = dir
		return nil
	}
}

// WithRepositories enables or disables data access units.
func WithRepositories(enabled bool) Option {
	return func(c *Config) error {
		c.Repositories = enabled
		return nil
	}
}

// WithServices enables or disables service units.
func WithServices(enabled bool) Option {
	return func(c *Config) error {
		c.Services = enabled
		return nil
	}
}

// WithBaseNamespace sets the namespace of modules that declare no package.
func WithBaseNamespace(ns string) Option {
	return func(c *Config) error {
		c.BaseNamespace = ns
		return nil
	}
}

// WithRecursive enables walking subdirectories of the input.
func WithRecursive(recursive bool) Option {
	return func(c *Config) error {
		c.Recursive = recursive
		return nil
	}
}

// WithTarget sets the render target.
// Supported targets: "java", "go".
func WithTarget(target string) Option {
	return func(c *Config) error {
		switch target {
		case "java", "go":
			c.Target = target
			return nil
		}
		return springforge.NewConfigError("Target", target, "unsupported target; use java or go")
	}
}

// WithModule sets the Go module path of the generated tree.
// For example: "github.com/org/project/domain".
func WithModule(module string) Option {
	return func(c *Config) error {
		if module == "" {
			return springforge.NewConfigError("Module", nil, "module cannot be empty")
		}
		c.Module = module
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithFormatter sets the hook applied to rendered files.
func WithFormatter(format cm.FormatFunc) Option {
	return func(c *Config) error {
		c.Format = format
		return nil
	}
}

// WithProfile replaces the built-in decoration profile of the target.
func WithProfile(p *Profile) Option {
	return func(c *Config) error {
		if p == nil {
			return springforge.NewConfigError("Profile", nil, "profile cannot be nil")
		}
		if err := p.Validate(); err != nil {
			return springforge.NewConfigError("Profile", p.Target, err.Error())
		}
		c.Profile = p
		return nil
	}
}

// WithOverrideCheck replaces the property override check of the merge.
func WithOverrideCheck(check merge.OverrideCheck) Option {
	return func(c *Config) error {
		if check == nil {
			return springforge.NewConfigError("OverrideCheck", nil, "override check cannot be nil")
		}
		c.OverrideCheck = check
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return springforge.NewConfigError("Workers", n, "at least one worker is required")
		}
		c.Workers = n
		return nil
	}
}

// WithConflictPolicy sets what a merge conflict does to the run.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(c *Config) error {
		return c.Conflict.UnmarshalText([]byte(p))
	}
}

// WithCleanupOnAbort sets whether cleanup runs when the caller aborts the
// run.
func WithCleanupOnAbort(enabled bool) Option {
	return func(c *Config) error {
		c.CleanupOnAbort = enabled
		return nil
	}
}

// WithParseContext sets the parse context shared by the run.
func WithParseContext(ctx *load.Context) Option {
	return func(c *Config) error {
		if ctx == nil {
			return springforge.NewConfigError("ParseContext", nil, "parse context cannot be nil")
		}
		c.ParseContext = ctx
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a Config from the defaults and the given options, and
// validates it.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
