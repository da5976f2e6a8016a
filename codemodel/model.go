package codemodel

import "strings"

// Modifiers is a set of declaration modifiers.
type Modifiers uint8

// Declaration modifiers.
const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Abstract
	Static
	Final
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
}

// Has reports whether all of mods are set.
func (m Modifiers) Has(mods Modifiers) bool { return m&mods == mods }

// Keywords returns the modifier keywords in canonical order.
func (m Modifiers) Keywords() []string {
	var kw []string
	for _, n := range modifierNames {
		if m.Has(n.mod) {
			kw = append(kw, n.name)
		}
	}
	return kw
}

// String implements fmt.Stringer.
func (m Modifiers) String() string { return strings.Join(m.Keywords(), " ") }

// UnitKind is the kind of a type unit.
type UnitKind uint8

// Type unit kinds.
const (
	Class UnitKind = iota
	Interface
	Enum
)

// String implements fmt.Stringer.
func (k UnitKind) String() string {
	switch k {
	case Class:
		return "class"
	case Interface:
		return "interface"
	case Enum:
		return "enum"
	default:
		return "invalid"
	}
}

// Role tells which artifact of a definition a file holds.
type Role uint8

// File roles.
const (
	RoleType Role = iota
	RoleRepository
	RoleService
	RoleEnum
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case RoleType:
		return "type"
	case RoleRepository:
		return "repository"
	case RoleService:
		return "service"
	case RoleEnum:
		return "enum"
	default:
		return "invalid"
	}
}

type (
	// File is one output artifact: a single type unit in a namespace.
	File struct {
		Namespace string
		Unit      *TypeUnit
		Role      Role
	}

	// TypeUnit is a class, interface or enum declaration.
	TypeUnit struct {
		Kind        UnitKind
		Name        string
		Doc         string
		Modifiers   Modifiers
		Decorations []*Decoration
		// Extends is the base type. Interfaces extend their base contract.
		Extends    *TypeRef
		Implements []TypeRef
		Fields     []*Field
		Methods    []*Method
		Constants  []*EnumConstant
	}

	// Field is a member variable.
	Field struct {
		Name        string
		Type        TypeRef
		Doc         string
		Modifiers   Modifiers
		Decorations []*Decoration
		Init        *Value
	}

	// Param is a method parameter.
	Param struct {
		Name        string
		Type        TypeRef
		Decorations []*Decoration
	}

	// Method is a method or constructor.
	Method struct {
		Name        string
		Doc         string
		Returns     TypeRef
		Modifiers   Modifiers
		Params      []*Param
		Decorations []*Decoration
		Body        []Stmt
		// DeclarationOnly methods have a signature and no body.
		DeclarationOnly bool
		// Constructor methods build the unit. Their name is the unit name.
		Constructor bool
	}

	// EnumConstant is one constant of an enum unit.
	EnumConstant struct {
		Name        string
		Doc         string
		Arg         *Value
		Decorations []*Decoration
	}
)

// Field returns the named field, or nil.
func (u *TypeUnit) Field(name string) *Field {
	for _, f := range u.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Method returns the first method with the given name, or nil.
func (u *TypeUnit) Method(name string) *Method {
	for _, m := range u.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Decoration returns the first decoration of the given type, or nil.
func (u *TypeUnit) Decoration(t TypeRef) *Decoration {
	return findDecoration(u.Decorations, t)
}

// Decoration returns the first decoration of the given type, or nil.
func (f *Field) Decoration(t TypeRef) *Decoration {
	return findDecoration(f.Decorations, t)
}

// Decoration returns the first decoration of the given type, or nil.
func (m *Method) Decoration(t TypeRef) *Decoration {
	return findDecoration(m.Decorations, t)
}

func findDecoration(ds []*Decoration, t TypeRef) *Decoration {
	for _, d := range ds {
		if d.Type.Pkg == t.Pkg && d.Type.Name == t.Name {
			return d
		}
	}
	return nil
}

// Walk calls fn for every type reference of the file, in declaration order.
func (f *File) Walk(fn func(TypeRef)) {
	u := f.Unit
	walkDecorations(u.Decorations, fn)
	if u.Extends != nil {
		u.Extends.Walk(fn)
	}
	for _, t := range u.Implements {
		t.Walk(fn)
	}
	for _, c := range u.Constants {
		walkDecorations(c.Decorations, fn)
		if c.Arg != nil {
			c.Arg.Walk(fn)
		}
	}
	for _, fd := range u.Fields {
		walkDecorations(fd.Decorations, fn)
		fd.Type.Walk(fn)
		if fd.Init != nil {
			fd.Init.Walk(fn)
		}
	}
	for _, m := range u.Methods {
		walkDecorations(m.Decorations, fn)
		if !m.Constructor {
			m.Returns.Walk(fn)
		}
		for _, p := range m.Params {
			walkDecorations(p.Decorations, fn)
			p.Type.Walk(fn)
		}
	}
}

func walkDecorations(ds []*Decoration, fn func(TypeRef)) {
	for _, d := range ds {
		d.Walk(fn)
	}
}
