package codemodel

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/syssam/springforge"
)

// Renderer turns files into source text of one target language.
type Renderer interface {
	// Name identifies the target, such as "java" or "go".
	Name() string
	// Extensions lists the file extensions the target owns in an output tree.
	Extensions() []string
	// Path returns the output path of f, relative to the output root.
	Path(f *File) string
	// Render returns the source text of f.
	Render(f *File) ([]byte, error)
}

// FormatFunc post-processes rendered source. The path is the output path of
// the file.
type FormatFunc func(path string, src []byte) ([]byte, error)

var (
	identRe     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	namespaceRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Validate checks the structural invariants renderers rely on. Violations
// are reported as a springforge.RenderError without a target.
func Validate(f *File) error {
	if f == nil || f.Unit == nil {
		return springforge.NewRenderError("", "", "file without type unit", nil)
	}
	v := validator{unit: f.Unit.Name}
	v.check(f)
	return v.err
}

type validator struct {
	unit string
	err  error
}

func (v *validator) failf(format string, args ...any) {
	if v.err == nil {
		v.err = springforge.NewRenderError("", v.unit, fmt.Sprintf(format, args...), nil)
	}
}

func (v *validator) check(f *File) {
	u := f.Unit
	if !namespaceRe.MatchString(f.Namespace) {
		v.failf("invalid namespace %q", f.Namespace)
	}
	if !identRe.MatchString(u.Name) {
		v.failf("invalid unit name %q", u.Name)
	}
	v.decorations("unit", u.Decorations)
	if u.Extends != nil {
		if u.Kind == Enum {
			v.failf("enum cannot extend %s", u.Extends)
		}
		v.typeRef("extends", *u.Extends)
	}
	for _, t := range u.Implements {
		v.typeRef("implements", t)
	}
	if u.Kind != Enum && len(u.Constants) > 0 {
		v.failf("%s declares enum constants", u.Kind)
	}
	if u.Kind == Interface && len(u.Fields) > 0 {
		v.failf("interface declares fields")
	}
	seen := make(map[string]bool)
	for _, c := range u.Constants {
		if !identRe.MatchString(c.Name) || seen[c.Name] {
			v.failf("invalid or duplicate constant %q", c.Name)
		}
		seen[c.Name] = true
		v.decorations("constant "+c.Name, c.Decorations)
	}
	clear(seen)
	for _, fd := range u.Fields {
		if !identRe.MatchString(fd.Name) || seen[fd.Name] {
			v.failf("invalid or duplicate field %q", fd.Name)
		}
		seen[fd.Name] = true
		v.typeRef("field "+fd.Name, fd.Type)
		v.decorations("field "+fd.Name, fd.Decorations)
	}
	for _, m := range u.Methods {
		v.method(u, m)
	}
}

func (v *validator) method(u *TypeUnit, m *Method) {
	switch {
	case m.Constructor && u.Kind == Interface:
		v.failf("interface declares constructor")
	case m.Constructor && !m.Returns.IsVoid():
		v.failf("constructor returns %s", m.Returns)
	case m.Constructor && m.DeclarationOnly:
		v.failf("constructor without body")
	case !m.Constructor && !identRe.MatchString(m.Name):
		v.failf("invalid method name %q", m.Name)
	case u.Kind == Interface && !m.DeclarationOnly:
		v.failf("interface method %s has a body", m.Name)
	case u.Kind != Interface && m.DeclarationOnly && !m.Modifiers.Has(Abstract):
		v.failf("method %s has no body", m.Name)
	case m.DeclarationOnly && len(m.Body) > 0:
		v.failf("declaration-only method %s has statements", m.Name)
	}
	if !m.Constructor && !m.Returns.IsVoid() {
		v.typeRef("method "+m.Name, m.Returns)
	}
	for _, p := range m.Params {
		if !identRe.MatchString(p.Name) {
			v.failf("method %s: invalid parameter %q", m.Name, p.Name)
		}
		v.typeRef("parameter "+p.Name, p.Type)
		v.decorations("parameter "+p.Name, p.Decorations)
	}
	v.decorations("method "+m.Name, m.Decorations)
	for _, s := range m.Body {
		if s.Kind == StmtAssign && s.Target.Kind == ExprCall {
			v.failf("method %s: cannot assign to a call", m.Name)
		}
	}
}

func (v *validator) typeRef(where string, t TypeRef) {
	switch t.Kind {
	case KindNamed:
		if t.Name == "" {
			v.failf("%s: unnamed type", where)
		}
		for _, a := range t.Args {
			v.typeRef(where, a)
		}
	case KindOptional, KindList, KindArray:
		if t.Elem == nil {
			v.failf("%s: wrapper without element type", where)
			return
		}
		v.typeRef(where, *t.Elem)
	case KindVoid:
		v.failf("%s: void is not a value type", where)
	default:
		v.failf("%s: unknown type kind %d", where, t.Kind)
	}
}

func (v *validator) decorations(where string, ds []*Decoration) {
	for _, d := range ds {
		if d == nil || d.Type.Kind != KindNamed || d.Type.Name == "" {
			v.failf("%s: invalid decoration", where)
			continue
		}
		for _, a := range d.Args {
			if a.Value.Kind == ValueNested {
				v.decorations(where, a.Value.Decorations)
			}
		}
	}
}

// TargetError attaches the renderer target to a RenderError produced by
// Validate. Other errors are wrapped in a new RenderError.
func TargetError(target string, f *File, err error) error {
	var rerr *springforge.RenderError
	if errors.As(err, &rerr) {
		rerr.Target = target
		return rerr
	}
	unit := ""
	if f != nil && f.Unit != nil {
		unit = f.Unit.Name
	}
	return springforge.NewRenderError(target, unit, "", err)
}
