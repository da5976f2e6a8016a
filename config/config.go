// Package config loads the settings of the springforge command from a
// configuration file, SPRINGFORGE_ environment variables and command line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/compiler/gen"
	"github.com/syssam/springforge/internal/logx"
)

// EnvPrefix prefixes the environment variables read by Load. Dashes and
// dots of keys become underscores: SPRINGFORGE_BASE_NAMESPACE,
// SPRINGFORGE_LOG_LEVEL.
const EnvPrefix = "SPRINGFORGE"

// Config is the command configuration.
type Config struct {
	Input          string             `mapstructure:"input"`
	Lookup         []string           `mapstructure:"lookup"`
	Output         string             `mapstructure:"output"`
	Repositories   bool               `mapstructure:"repositories"`
	Services       bool               `mapstructure:"services"`
	BaseNamespace  string             `mapstructure:"base-namespace"`
	Recursive      bool               `mapstructure:"recursive"`
	Target         string             `mapstructure:"target"`
	Module         string             `mapstructure:"module"`
	Header         string             `mapstructure:"header"`
	Workers        int                `mapstructure:"workers"`
	Conflict       gen.ConflictPolicy `mapstructure:"conflict"`
	CleanupOnAbort bool               `mapstructure:"cleanup-on-abort"`
	// Watch regenerates whenever a document changes.
	Watch bool        `mapstructure:"watch"`
	Log   logx.Config `mapstructure:"log"`
}

// flagKeys maps flag names to configuration keys where they differ.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"log-file":  "log.file",
	"log-dev":   "log.dev",
	"no-color":  "log.no-color",
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	d := gen.DefaultConfig()
	fs := pflag.NewFlagSet("springforge", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "configuration file (yaml, json or toml)")
	fs.StringP("input", "i", "", "directory of the domain documents")
	fs.StringSlice("lookup", nil, "directories of documents merged into the input groups")
	fs.StringP("output", "o", "", "root directory of the generated sources")
	fs.Bool("repositories", d.Repositories, "generate data access units")
	fs.Bool("services", d.Services, "generate service units")
	fs.String("base-namespace", "", "namespace of modules without a package")
	fs.BoolP("recursive", "r", false, "walk subdirectories of the input")
	fs.StringP("target", "t", d.Target, "render target: java or go")
	fs.String("module", "", "Go module path of the generated tree (go target)")
	fs.String("header", d.Header, "header comment of generated files")
	fs.IntP("workers", "j", d.Workers, "number of parallel workers")
	fs.String("conflict", string(d.Conflict), "merge conflict policy: abort or skip")
	fs.Bool("cleanup-on-abort", true, "delete obsolete files when a run is interrupted")
	fs.BoolP("watch", "w", false, "regenerate when documents change")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-file", "", "also write JSON logs to this rotated file")
	fs.Bool("log-dev", false, "development logging")
	fs.Bool("no-color", false, "disable colored console logs")
	return fs
}

// Load reads the configuration. The file at path is optional; flags may be
// nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var perr viper.ConfigParseError
			if errors.As(err, &perr) {
				return nil, springforge.NewConfigError("config", path, err.Error())
			}
			return nil, springforge.NewIOError("read", path, err)
		}
	}
	if flags != nil {
		var err error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || err != nil {
				return
			}
			key := f.Name
			if k, ok := flagKeys[key]; ok {
				key = k
			}
			err = v.BindPFlag(key, f)
		})
		if err != nil {
			return nil, springforge.NewConfigError("flags", nil, err.Error())
		}
	}

	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		var ce *springforge.ConfigError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, springforge.NewConfigError("config", path, err.Error())
	}
	return &c, nil
}

// setDefaults registers every key so that environment variables apply
// even when neither file nor flags mention it.
func setDefaults(v *viper.Viper) {
	d := gen.DefaultConfig()
	v.SetDefault("input", "")
	v.SetDefault("lookup", []string{})
	v.SetDefault("output", "")
	v.SetDefault("repositories", d.Repositories)
	v.SetDefault("services", d.Services)
	v.SetDefault("base-namespace", "")
	v.SetDefault("recursive", false)
	v.SetDefault("target", d.Target)
	v.SetDefault("module", "")
	v.SetDefault("header", d.Header)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("conflict", string(d.Conflict))
	v.SetDefault("cleanup-on-abort", true)
	v.SetDefault("watch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max-size", 100)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age", 28)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.dev", false)
	v.SetDefault("log.no-color", false)
}

// Options returns the generator options of the configuration. Validation
// happens when the options are applied.
func (c *Config) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithRepositories(c.Repositories),
		gen.WithServices(c.Services),
		gen.WithBaseNamespace(c.BaseNamespace),
		gen.WithRecursive(c.Recursive),
		gen.WithTarget(c.Target),
		gen.WithHeader(c.Header),
		gen.WithWorkers(c.Workers),
		gen.WithConflictPolicy(c.Conflict),
		gen.WithCleanupOnAbort(c.CleanupOnAbort),
	}
	if c.Input != "" {
		opts = append(opts, gen.WithInput(c.Input))
	}
	if c.Output != "" {
		opts = append(opts, gen.WithOutput(c.Output))
	}
	if len(c.Lookup) > 0 {
		opts = append(opts, gen.WithLookup(c.Lookup...))
	}
	if c.Module != "" {
		opts = append(opts, gen.WithModule(c.Module))
	}
	return opts
}
