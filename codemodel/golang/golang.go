// Package golang renders code model files as Go sources with jennifer.
//
// Namespaces map to packages below a Go module path: namespace
// "com.example.repo" under module "example.com/app" is the package "repo"
// with import path "example.com/app/com/example/repo". Classes become
// structs with methods, interfaces become interfaces embedding their base
// contract, and enums become typed constants. Decorations have no Go syntax
// and are written as directive comments named after the decoration:
//
//	//springforge:table name="users"
//	type User struct {
package golang

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/internal/naming"
)

// Name is the target name of the renderer.
const Name = "go"

// DefaultPrefix is the default prefix of decoration directives.
const DefaultPrefix = "springforge"

// Renderer renders Go source files.
type Renderer struct {
	module string
	header string
	prefix string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeader sets the header comment of every file.
func WithHeader(header string) Option {
	return func(r *Renderer) {
		r.header = header
	}
}

// WithDirectivePrefix sets the prefix of decoration directives.
func WithDirectivePrefix(prefix string) Option {
	return func(r *Renderer) {
		r.prefix = prefix
	}
}

// New returns a Go renderer for packages below the module path.
func New(module string, opts ...Option) *Renderer {
	r := &Renderer{module: module, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements codemodel.Renderer.
func (*Renderer) Name() string { return Name }

// Extensions implements codemodel.Renderer.
func (*Renderer) Extensions() []string { return []string{".go"} }

// Path implements codemodel.Renderer.
func (*Renderer) Path(f *cm.File) string {
	dir := filepath.Join(strings.Split(f.Namespace, ".")...)
	return filepath.Join(dir, naming.Snake(f.Unit.Name)+".go")
}

// ImportPath returns the import path of the package for namespace ns.
func (r *Renderer) ImportPath(ns string) string {
	return path.Join(r.module, strings.ReplaceAll(ns, ".", "/"))
}

// Render implements codemodel.Renderer.
func (r *Renderer) Render(f *cm.File) ([]byte, error) {
	if err := cm.Validate(f); err != nil {
		return nil, cm.TargetError(Name, f, err)
	}
	segs := strings.Split(f.Namespace, ".")
	jf := jen.NewFilePathName(r.ImportPath(f.Namespace), segs[len(segs)-1])
	if r.header != "" {
		jf.HeaderComment(r.header)
	}
	u := &unit{TypeUnit: f.Unit, r: r, recv: naming.Receiver(f.Unit.Name)}
	switch f.Unit.Kind {
	case cm.Class:
		u.class(jf)
	case cm.Interface:
		u.iface(jf)
	case cm.Enum:
		u.enum(jf)
	}
	var buf bytes.Buffer
	if err := jf.Render(&buf); err != nil {
		return nil, cm.TargetError(Name, f, err)
	}
	return buf.Bytes(), nil
}

// unit renders one type unit.
type unit struct {
	*cm.TypeUnit
	r    *Renderer
	recv string
}

func (u *unit) header(jf *jen.File) {
	if u.Doc != "" {
		jf.Comment(u.Doc)
	}
	for _, d := range u.Decorations {
		jf.Comment(u.directive(d))
	}
}

func (u *unit) class(jf *jen.File) {
	u.header(jf)
	jf.Type().Id(u.Name).StructFunc(func(g *jen.Group) {
		if u.Extends != nil {
			g.Add(u.typ(*u.Extends))
		}
		for _, f := range u.Fields {
			if f.Doc != "" {
				g.Comment(f.Doc)
			}
			for _, d := range f.Decorations {
				g.Comment(u.directive(d))
			}
			field := g.Id(exported(f.Name, f.Modifiers)).Add(u.typ(f.Type))
			if f.Init != nil {
				field.Tag(map[string]string{"default": u.plain(*f.Init)})
			}
		}
	})
	for _, m := range u.Methods {
		jf.Line()
		if m.Constructor {
			u.constructor(jf, m)
			continue
		}
		u.comments(jf, m)
		jf.Func().Params(jen.Id(u.recv).Op("*").Id(u.Name)).
			Id(exported(m.Name, m.Modifiers)).
			Params(u.params(m)...).
			Add(u.result(m.Returns)).
			BlockFunc(func(g *jen.Group) {
				for _, s := range m.Body {
					g.Add(u.stmt(s))
				}
			})
	}
}

func (u *unit) constructor(jf *jen.File, m *cm.Method) {
	name := "New" + u.Name
	jf.Comment(name + " returns a new " + u.Name + ".")
	for _, d := range m.Decorations {
		jf.Comment(u.directive(d))
	}
	jf.Func().Id(name).Params(u.params(m)...).Op("*").Id(u.Name).BlockFunc(func(g *jen.Group) {
		g.Id(u.recv).Op(":=").Op("&").Id(u.Name).Values()
		for _, s := range m.Body {
			g.Add(u.stmt(s))
		}
		g.Return(jen.Id(u.recv))
	})
}

func (u *unit) comments(jf *jen.File, m *cm.Method) {
	if m.Doc != "" {
		jf.Comment(m.Doc)
	}
	for _, d := range m.Decorations {
		jf.Comment(u.directive(d))
	}
}

func (u *unit) iface(jf *jen.File) {
	u.header(jf)
	jf.Type().Id(u.Name).InterfaceFunc(func(g *jen.Group) {
		if u.Extends != nil {
			g.Add(u.typ(*u.Extends))
		}
		for _, t := range u.Implements {
			g.Add(u.typ(t))
		}
		for _, m := range u.Methods {
			for _, d := range m.Decorations {
				g.Comment(u.directive(d))
			}
			g.Id(exported(m.Name, m.Modifiers)).Params(u.params(m)...).Add(u.result(m.Returns))
		}
	})
}

func (u *unit) enum(jf *jen.File) {
	u.header(jf)
	underlying := jen.String()
	for _, c := range u.Constants {
		if c.Arg != nil && c.Arg.Kind == cm.ValueLiteral {
			underlying = jen.Int()
			break
		}
	}
	jf.Type().Id(u.Name).Add(underlying)
	jf.Line()
	jf.Const().DefsFunc(func(g *jen.Group) {
		for _, c := range u.Constants {
			if c.Doc != "" {
				g.Comment(c.Doc)
			}
			for _, d := range c.Decorations {
				g.Comment(u.directive(d))
			}
			var value jen.Code
			switch {
			case c.Arg == nil:
				value = jen.Lit(c.Name)
			case c.Arg.Kind == cm.ValueLiteral:
				value = jen.Id(c.Arg.Text)
			default:
				value = jen.Lit(c.Arg.Text)
			}
			g.Id(u.Name + naming.EnumConstant(c.Name)).Id(u.Name).Op("=").Add(value)
		}
	})
	jf.Line()
	jf.Commentf("%sValues returns all %s values in declaration order.", u.Name, u.Name)
	jf.Func().Id(u.Name + "Values").Params().Index().Id(u.Name).Block(
		jen.Return(jen.Index().Id(u.Name).ValuesFunc(func(g *jen.Group) {
			for _, c := range u.Constants {
				g.Id(u.Name + naming.EnumConstant(c.Name))
			}
		})),
	)
}

func (u *unit) params(m *cm.Method) []jen.Code {
	params := make([]jen.Code, len(m.Params))
	for i, p := range m.Params {
		params[i] = jen.Id(p.Name).Add(u.typ(p.Type))
	}
	return params
}

func (u *unit) result(t cm.TypeRef) jen.Code {
	if t.IsVoid() {
		return jen.Null()
	}
	return u.typ(t)
}

func (u *unit) typ(t cm.TypeRef) *jen.Statement {
	switch t.Kind {
	case cm.KindOptional:
		return jen.Op("*").Add(u.typ(*t.Elem))
	case cm.KindList, cm.KindArray:
		return jen.Index().Add(u.typ(*t.Elem))
	}
	var s *jen.Statement
	switch {
	case t.Pkg == "":
		s = jen.Id(t.Name)
	case t.Declared:
		s = jen.Qual(u.r.ImportPath(t.Pkg), t.Name)
	default:
		s = jen.Qual(t.Pkg, t.Name)
	}
	if len(t.Args) > 0 {
		args := make([]jen.Code, len(t.Args))
		for i, a := range t.Args {
			args[i] = u.typ(a)
		}
		s = s.Types(args...)
	}
	return s
}

func (u *unit) stmt(s cm.Stmt) jen.Code {
	switch s.Kind {
	case cm.StmtReturn:
		return jen.Return(u.expr(s.Value))
	case cm.StmtAssign:
		return u.expr(s.Target).Op("=").Add(u.expr(s.Value))
	default:
		return u.expr(s.Value)
	}
}

func (u *unit) expr(e cm.Expr) *jen.Statement {
	switch e.Kind {
	case cm.ExprThis:
		name := naming.Capitalize(e.Name)
		if f := u.Field(e.Name); f != nil {
			name = exported(f.Name, f.Modifiers)
		}
		return jen.Id(u.recv).Dot(name)
	case cm.ExprCall:
		args := make([]jen.Code, len(e.Args))
		for i, a := range e.Args {
			args[i] = u.expr(a)
		}
		method := naming.Capitalize(e.Name)
		if e.Recv == nil {
			return jen.Id(u.recv).Dot(method).Call(args...)
		}
		return u.expr(*e.Recv).Dot(method).Call(args...)
	default:
		return jen.Id(e.Name)
	}
}

// directive renders a decoration as a directive comment.
func (u *unit) directive(d *cm.Decoration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "//%s:%s", u.r.prefix, naming.Uncapitalize(d.Type.Name))
	for _, a := range d.Args {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(u.value(a.Value))
	}
	return b.String()
}

func (u *unit) value(v cm.Value) string {
	switch v.Kind {
	case cm.ValueString:
		return strconv.Quote(v.Text)
	case cm.ValueSymbol:
		return v.Type.Name + "." + v.Text
	case cm.ValueList:
		elems := make([]string, len(v.Values))
		for i, e := range v.Values {
			elems[i] = u.value(e)
		}
		return "[" + strings.Join(elems, ",") + "]"
	case cm.ValueNested:
		elems := make([]string, len(v.Decorations))
		for i, d := range v.Decorations {
			elems[i] = strings.TrimPrefix(u.directive(d), "//"+u.r.prefix+":")
		}
		return "(" + strings.Join(elems, ";") + ")"
	default:
		return v.Text
	}
}

// plain renders a value without quoting, for struct tags.
func (u *unit) plain(v cm.Value) string {
	if v.Kind == cm.ValueString || v.Kind == cm.ValueLiteral {
		return v.Text
	}
	return u.value(v)
}

// exported returns the Go identifier for a member name: exported unless the
// member is private.
func exported(name string, mods cm.Modifiers) string {
	if mods.Has(cm.Private) {
		return naming.Uncapitalize(name)
	}
	return naming.Capitalize(name)
}
