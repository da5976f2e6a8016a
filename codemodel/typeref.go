package codemodel

import "strings"

// TypeKind classifies a TypeRef.
type TypeKind uint8

// Type reference kinds.
const (
	KindNamed TypeKind = iota
	KindOptional
	KindList
	KindArray
	KindVoid
)

// TypeRef references a type by package and simple name, or wraps an element
// type. Renderers decide how optional, list and array wrappers are spelled.
type TypeRef struct {
	Kind TypeKind
	// Pkg is the package qualifier of a named type. Empty for builtin types.
	Pkg  string
	Name string
	// Args are the type arguments of a generic named type.
	Args []TypeRef
	// Elem is the wrapped type of optional, list and array references.
	Elem *TypeRef
	// Declared marks types produced by the same generation run.
	Declared bool
}

// Named returns a reference to a named type.
func Named(pkg, name string) TypeRef {
	return TypeRef{Kind: KindNamed, Pkg: pkg, Name: name}
}

// Declared returns a reference to a type produced by the same run.
func Declared(pkg, name string) TypeRef {
	return TypeRef{Kind: KindNamed, Pkg: pkg, Name: name, Declared: true}
}

// Generic returns a reference to a named type instantiated with args.
func Generic(pkg, name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindNamed, Pkg: pkg, Name: name, Args: args}
}

// Optional wraps elem in an optional value.
func Optional(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindOptional, Elem: &elem}
}

// ListOf wraps elem in an ordered collection.
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindList, Elem: &elem}
}

// ArrayOf wraps elem in a fixed array.
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Elem: &elem}
}

// Void is the absent return type.
func Void() TypeRef {
	return TypeRef{Kind: KindVoid}
}

// IsVoid reports whether t is the void type or the zero TypeRef.
func (t TypeRef) IsVoid() bool {
	return t.Kind == KindVoid || (t.Kind == KindNamed && t.Name == "")
}

// Qualified returns the package-qualified name of a named type.
func (t TypeRef) Qualified() string {
	if t.Pkg == "" {
		return t.Name
	}
	return t.Pkg + "." + t.Name
}

// Walk calls fn for t and every type nested in it, outermost first.
func (t TypeRef) Walk(fn func(TypeRef)) {
	fn(t)
	for _, a := range t.Args {
		a.Walk(fn)
	}
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}

// String returns a neutral rendering of t, used in error messages and tests.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindOptional:
		return "optional<" + t.Elem.String() + ">"
	case KindList:
		return "list<" + t.Elem.String() + ">"
	case KindArray:
		return t.Elem.String() + "[]"
	}
	if len(t.Args) == 0 {
		return t.Qualified()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Qualified() + "<" + strings.Join(args, ", ") + ">"
}
