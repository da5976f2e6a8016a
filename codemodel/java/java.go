// Package java renders code model files as Java sources.
package java

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/syssam/springforge/codemodel"
)

// Name is the target name of the renderer.
const Name = "java"

// Renderer renders Java source files.
type Renderer struct {
	header string
	indent string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeader sets a comment written at the top of every file.
func WithHeader(header string) Option {
	return func(r *Renderer) {
		r.header = header
	}
}

// WithIndent sets the indentation unit. The default is four spaces.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New returns a Java renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{indent: "    "}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements codemodel.Renderer.
func (*Renderer) Name() string { return Name }

// Extensions implements codemodel.Renderer.
func (*Renderer) Extensions() []string { return []string{".java", ".groovy"} }

// Path implements codemodel.Renderer. The namespace becomes the directory.
func (*Renderer) Path(f *codemodel.File) string {
	dir := filepath.Join(strings.Split(f.Namespace, ".")...)
	return filepath.Join(dir, f.Unit.Name+".java")
}

// Render implements codemodel.Renderer.
func (r *Renderer) Render(f *codemodel.File) ([]byte, error) {
	if err := codemodel.Validate(f); err != nil {
		return nil, codemodel.TargetError(Name, f, err)
	}
	w := &writer{
		indent: r.indent,
		ns:     f.Namespace,
		owner:  map[string]string{f.Unit.Name: f.Namespace + "." + f.Unit.Name},
	}
	w.collect(f)
	if r.header != "" {
		for _, line := range strings.Split(strings.TrimRight(r.header, "\n"), "\n") {
			w.line("// " + line)
		}
		w.nl()
	}
	w.line("package " + f.Namespace + ";")
	w.nl()
	if len(w.imports) > 0 {
		for _, imp := range w.imports {
			w.line("import " + imp + ";")
		}
		w.nl()
	}
	w.unit(f.Unit)
	return w.Bytes(), nil
}

// writer accumulates the source of one file.
type writer struct {
	bytes.Buffer
	indent string
	depth  int
	ns     string
	// owner maps a simple name to the qualified type it denotes in the file.
	owner   map[string]string
	imports []string
}

func (w *writer) collect(f *codemodel.File) {
	f.Walk(func(t codemodel.TypeRef) {
		switch t.Kind {
		case codemodel.KindOptional:
			w.use("java.util", "Optional")
		case codemodel.KindList:
			w.use("java.util", "List")
		case codemodel.KindNamed:
			if t.Pkg != "" {
				w.use(t.Pkg, t.Name)
			}
		}
	})
	slices.Sort(w.imports)
}

// use claims the simple name for pkg.name. The first claim wins; later
// types with the same simple name are written qualified.
func (w *writer) use(pkg, name string) {
	if _, ok := w.owner[name]; ok {
		return
	}
	w.owner[name] = pkg + "." + name
	if pkg != "java.lang" && pkg != w.ns {
		w.imports = append(w.imports, pkg+"."+name)
	}
}

func (w *writer) line(s string) {
	if s != "" {
		for range w.depth {
			w.WriteString(w.indent)
		}
		w.WriteString(s)
	}
	w.WriteByte('\n')
}

func (w *writer) nl() { w.WriteByte('\n') }

func (w *writer) doc(doc string) {
	if doc == "" {
		return
	}
	w.line("/**")
	for _, l := range strings.Split(strings.TrimSpace(doc), "\n") {
		w.line(strings.TrimRight(" * "+strings.TrimSpace(l), " "))
	}
	w.line(" */")
}

func (w *writer) unit(u *codemodel.TypeUnit) {
	w.doc(u.Doc)
	for _, d := range u.Decorations {
		w.line(w.decoration(d))
	}
	var b strings.Builder
	for _, kw := range u.Modifiers.Keywords() {
		b.WriteString(kw + " ")
	}
	b.WriteString(u.Kind.String() + " " + u.Name)
	if u.Extends != nil {
		b.WriteString(" extends " + w.typeName(*u.Extends))
	}
	if len(u.Implements) > 0 {
		names := make([]string, len(u.Implements))
		for i, t := range u.Implements {
			names[i] = w.typeName(t)
		}
		b.WriteString(" implements " + strings.Join(names, ", "))
	}
	w.line(b.String() + " {")
	w.depth++
	if u.Kind == codemodel.Enum {
		w.enumBody(u)
	}
	for _, f := range u.Fields {
		w.nl()
		w.field(f)
	}
	for _, m := range u.Methods {
		w.nl()
		w.method(u, m)
	}
	w.depth--
	w.line("}")
}

func (w *writer) enumBody(u *codemodel.TypeUnit) {
	valueType := enumValueType(u.Constants)
	more := valueType != "" || len(u.Fields) > 0 || len(u.Methods) > 0
	for i, c := range u.Constants {
		w.nl()
		w.doc(c.Doc)
		for _, d := range c.Decorations {
			w.line(w.decoration(d))
		}
		s := c.Name
		if c.Arg != nil {
			s += "(" + w.value(*c.Arg) + ")"
		}
		switch {
		case i < len(u.Constants)-1:
			s += ","
		case more:
			s += ";"
		}
		w.line(s)
	}
	if valueType == "" {
		return
	}
	w.nl()
	w.line("private final " + valueType + " value;")
	w.nl()
	w.line(u.Name + "(" + valueType + " value) {")
	w.depth++
	w.line("this.value = value;")
	w.depth--
	w.line("}")
	w.nl()
	w.line("public " + valueType + " getValue() {")
	w.depth++
	w.line("return value;")
	w.depth--
	w.line("}")
}

// enumValueType returns the Java type of the constant arguments, or "" when
// no constant carries one.
func enumValueType(cs []*codemodel.EnumConstant) string {
	typ := ""
	for _, c := range cs {
		switch {
		case c.Arg == nil:
		case c.Arg.Kind == codemodel.ValueString:
			return "String"
		default:
			typ = "int"
		}
	}
	return typ
}

func (w *writer) field(f *codemodel.Field) {
	w.doc(f.Doc)
	for _, d := range f.Decorations {
		w.line(w.decoration(d))
	}
	s := w.modifiers(f.Modifiers) + w.typeName(f.Type) + " " + f.Name
	if f.Init != nil {
		s += " = " + w.value(*f.Init)
	}
	w.line(s + ";")
}

func (w *writer) method(u *codemodel.TypeUnit, m *codemodel.Method) {
	w.doc(m.Doc)
	for _, d := range m.Decorations {
		w.line(w.decoration(d))
	}
	s := w.modifiers(m.Modifiers)
	if m.Constructor {
		s += u.Name
	} else {
		s += w.returnType(m.Returns) + " " + m.Name
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		var ps string
		for _, d := range p.Decorations {
			ps += w.decoration(d) + " "
		}
		params[i] = ps + w.typeName(p.Type) + " " + p.Name
	}
	s += "(" + strings.Join(params, ", ") + ")"
	if m.DeclarationOnly {
		w.line(s + ";")
		return
	}
	w.line(s + " {")
	w.depth++
	for _, st := range m.Body {
		w.line(w.stmt(st))
	}
	w.depth--
	w.line("}")
}

func (w *writer) modifiers(m codemodel.Modifiers) string {
	var s string
	for _, kw := range m.Keywords() {
		s += kw + " "
	}
	return s
}

func (w *writer) returnType(t codemodel.TypeRef) string {
	if t.IsVoid() {
		return "void"
	}
	return w.typeName(t)
}

func (w *writer) typeName(t codemodel.TypeRef) string {
	switch t.Kind {
	case codemodel.KindOptional:
		return w.generic(codemodel.Named("java.util", "Optional"), *t.Elem)
	case codemodel.KindList:
		return w.generic(codemodel.Named("java.util", "List"), *t.Elem)
	case codemodel.KindArray:
		return w.typeName(*t.Elem) + "[]"
	case codemodel.KindVoid:
		return "void"
	}
	return w.generic(t, t.Args...)
}

func (w *writer) generic(t codemodel.TypeRef, args ...codemodel.TypeRef) string {
	name := t.Name
	if t.Pkg != "" && w.owner[t.Name] != t.Qualified() {
		name = t.Qualified()
	}
	if len(args) == 0 {
		return name
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = w.typeName(a)
	}
	return name + "<" + strings.Join(names, ", ") + ">"
}

func (w *writer) decoration(d *codemodel.Decoration) string {
	s := "@" + w.typeName(d.Type)
	switch {
	case len(d.Args) == 0:
		return s
	case len(d.Args) == 1 && d.Args[0].Key == "value":
		return s + "(" + w.value(d.Args[0].Value) + ")"
	}
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = a.Key + " = " + w.value(a.Value)
	}
	return s + "(" + strings.Join(args, ", ") + ")"
}

func (w *writer) value(v codemodel.Value) string {
	switch v.Kind {
	case codemodel.ValueString:
		return quote(v.Text)
	case codemodel.ValueSymbol:
		return w.typeName(v.Type) + "." + v.Text
	case codemodel.ValueList:
		elems := make([]string, len(v.Values))
		for i, e := range v.Values {
			elems[i] = w.value(e)
		}
		return "{" + strings.Join(elems, ", ") + "}"
	case codemodel.ValueNested:
		elems := make([]string, len(v.Decorations))
		for i, d := range v.Decorations {
			elems[i] = w.decoration(d)
		}
		if len(elems) == 1 {
			return elems[0]
		}
		return "{" + strings.Join(elems, ", ") + "}"
	default:
		return v.Text
	}
}

func (w *writer) stmt(s codemodel.Stmt) string {
	switch s.Kind {
	case codemodel.StmtReturn:
		return "return " + w.expr(s.Value) + ";"
	case codemodel.StmtAssign:
		return w.expr(s.Target) + " = " + w.expr(s.Value) + ";"
	default:
		return w.expr(s.Value) + ";"
	}
}

func (w *writer) expr(e codemodel.Expr) string {
	switch e.Kind {
	case codemodel.ExprThis:
		return "this." + e.Name
	case codemodel.ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = w.expr(a)
		}
		call := e.Name + "(" + strings.Join(args, ", ") + ")"
		if e.Recv == nil {
			return call
		}
		return w.expr(*e.Recv) + "." + call
	default:
		return e.Name
	}
}

// quote returns s as a Java string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
