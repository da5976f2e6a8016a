package load

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/syssam/springforge"
)

// Format identifies a document encoding.
type Format string

// Supported document formats.
const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

// decodeFunc decodes one document into a Document without validation.
type decodeFunc func(name string, r io.Reader) (*Document, error)

// Context holds the state shared by all parse calls: the decoder registry and
// the compiled identifier patterns. A Context is safe for concurrent use once
// constructed.
type Context struct {
	decoders  map[Format]decodeFunc
	exts      map[string]Format
	ident     *regexp.Regexp
	namespace *regexp.Regexp
}

// NewContext builds a parse context. Applications that assemble their own
// context pass it explicitly; DefaultContext serves the rest.
func NewContext() *Context {
	return &Context{
		decoders: map[Format]decodeFunc{
			FormatXML:  decodeXML,
			FormatYAML: decodeYAML,
		},
		exts: map[string]Format{
			".xml":  FormatXML,
			".yml":  FormatYAML,
			".yaml": FormatYAML,
		},
		ident:     regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`),
		namespace: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`),
	}
}

var shared struct {
	once sync.Once
	ctx  *Context
}

// DefaultContext returns the process-wide context, building it on first use.
// Concurrent first callers block until the single initialization completes.
func DefaultContext() *Context {
	shared.once.Do(func() {
		shared.ctx = NewContext()
	})
	return shared.ctx
}

// FormatOf returns the format registered for the extension of path.
func (c *Context) FormatOf(path string) (Format, bool) {
	f, ok := c.exts[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Extensions returns the registered document extensions, sorted.
func (c *Context) Extensions() []string {
	exts := make([]string, 0, len(c.exts))
	for ext := range c.exts {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// ParseFile reads and parses the document at path.
func (c *Context) ParseFile(path string, opts ...Option) (*Document, error) {
	format, ok := c.FormatOf(path)
	if !ok {
		return nil, springforge.NewParseError(path, "", "unsupported document extension", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, springforge.NewParseError(path, "", "open document", err)
	}
	defer f.Close()
	return c.Parse(path, format, f, opts...)
}

// Parse decodes and validates one document read from r. The name identifies
// the document in errors and in the returned definitions.
func (c *Context) Parse(name string, format Format, r io.Reader, opts ...Option) (*Document, error) {
	decode, ok := c.decoders[format]
	if !ok {
		return nil, springforge.NewParseError(name, "", "unsupported document format "+string(format), nil)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	doc, err := decode(name, r)
	if err != nil {
		return nil, err
	}
	doc.Path = name
	if err := c.resolve(doc, o); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile parses the document at path with the default context.
func ParseFile(path string, opts ...Option) (*Document, error) {
	return DefaultContext().ParseFile(path, opts...)
}

// Discover lists the documents of dir whose extension is registered,
// sorted by path. Subdirectories are walked when recursive is set.
func (c *Context) Discover(dir string, recursive bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := c.FormatOf(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, springforge.NewIOError("walk", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// Option configures a parse call.
type Option func(*options)

type options struct {
	baseNamespace string
}

// WithBaseNamespace sets the namespace used by modules that declare no
// package. Module packages starting with "." are appended to it.
func WithBaseNamespace(ns string) Option {
	return func(o *options) {
		o.baseNamespace = ns
	}
}
