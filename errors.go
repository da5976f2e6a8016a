package springforge

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrParse is returned when a domain document is malformed or does not
	// conform to the domain-models schema.
	ErrParse = errors.New("springforge: parse failed")

	// ErrMergeConflict is returned when fragments of one logical entity or
	// enum cannot be reconciled.
	ErrMergeConflict = errors.New("springforge: merge conflict")

	// ErrRender is returned when a code model tree cannot be rendered.
	// It indicates an internal invariant violation.
	ErrRender = errors.New("springforge: render failed")

	// ErrIO is returned when the output tree cannot be created, written or cleaned.
	ErrIO = errors.New("springforge: i/o failed")

	// ErrConfig is returned for invalid generator configuration.
	ErrConfig = errors.New("springforge: invalid configuration")

	// ErrDependencyCycle is returned when modules depend on each other in a cycle.
	ErrDependencyCycle = errors.New("springforge: module dependency cycle")

	// ErrUnknownModule is returned when a module depends on a module that
	// was never declared.
	ErrUnknownModule = errors.New("springforge: unknown module")
)

// ParseError reports a malformed domain document.
type ParseError struct {
	Document string // Path or name of the document
	Element  string // Offending element (e.g. "entity User", "property email")
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: parse error")
	if e.Document != "" {
		b.WriteString(" in ")
		b.WriteString(e.Document)
	}
	if e.Element != "" {
		b.WriteString(" at ")
		b.WriteString(e.Element)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError.
func NewParseError(document, element, message string, cause error) *ParseError {
	return &ParseError{
		Document: document,
		Element:  element,
		Message:  message,
		Cause:    cause,
	}
}

// MergeConflictError reports fragments of the same logical definition
// that disagree on an attribute.
type MergeConflictError struct {
	Name      string   // Entity or enum name
	Attribute string   // Conflicting attribute (e.g. "namespace", "property total")
	Existing  string   // Value held by the accumulator
	Incoming  string   // Value declared by the fragment
	Documents []string // Documents involved, when known
	Cause     error
}

// Error implements the error interface.
func (e *MergeConflictError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: merge conflict")
	if e.Name != "" {
		b.WriteString(" on ")
		b.WriteString(e.Name)
	}
	if e.Attribute != "" {
		b.WriteString(" (")
		b.WriteString(e.Attribute)
		b.WriteString(")")
	}
	if e.Existing != "" || e.Incoming != "" {
		fmt.Fprintf(&b, ": %q != %q", e.Existing, e.Incoming)
	}
	if len(e.Documents) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Documents, ", "))
		b.WriteString("]")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MergeConflictError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for MergeConflictError.
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// NewMergeConflictError creates a new MergeConflictError.
func NewMergeConflictError(name, attribute, existing, incoming string) *MergeConflictError {
	return &MergeConflictError{
		Name:      name,
		Attribute: attribute,
		Existing:  existing,
		Incoming:  incoming,
	}
}

// RenderError reports a code model tree that could not be rendered.
type RenderError struct {
	Unit    string // Type unit name
	Target  string // Render target (e.g. "java", "go")
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("springforge: render error")
	if e.Target != "" {
		b.WriteString(" [")
		b.WriteString(e.Target)
		b.WriteString("]")
	}
	if e.Unit != "" {
		b.WriteString(" on unit ")
		b.WriteString(e.Unit)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for RenderError.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// NewRenderError creates a new RenderError.
func NewRenderError(target, unit, message string, cause error) *RenderError {
	return &RenderError{
		Target:  target,
		Unit:    unit,
		Message: message,
		Cause:   cause,
	}
}

// IOError reports a failure to create, write or delete an output artifact.
type IOError struct {
	Op    string // "mkdir", "write", "delete", "walk", "read"
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("springforge: %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("springforge: %s %s", e.Op, e.Path)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("springforge: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("springforge: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsMergeConflict reports whether the error is a MergeConflictError.
func IsMergeConflict(err error) bool {
	var mergeErr *MergeConflictError
	return errors.As(err, &mergeErr)
}

// IsRenderError reports whether the error is a RenderError.
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}

// IsIOError reports whether the error is an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
