package codemodel

// ValueKind classifies a decoration argument value.
type ValueKind uint8

// Value kinds.
const (
	ValueString ValueKind = iota
	ValueLiteral
	ValueSymbol
	ValueList
	ValueNested
)

// Value is a decoration argument or field initializer.
type Value struct {
	Kind ValueKind
	// Text is the string, the literal source or the symbol member.
	Text string
	// Type owns the member of a symbol value.
	Type TypeRef
	// Values are the elements of a list value.
	Values []Value
	// Decorations are the decorations of a nested value.
	Decorations []*Decoration
}

// String returns a quoted string value.
func String(s string) Value { return Value{Kind: ValueString, Text: s} }

// Literal returns a value rendered verbatim, such as true or 42.
func Literal(src string) Value { return Value{Kind: ValueLiteral, Text: src} }

// Symbol returns a reference to a member of a type, such as an enum constant.
func Symbol(t TypeRef, member string) Value {
	return Value{Kind: ValueSymbol, Type: t, Text: member}
}

// List returns a list of values.
func List(values ...Value) Value { return Value{Kind: ValueList, Values: values} }

// Nested returns a value holding decorations.
func Nested(ds ...*Decoration) Value { return Value{Kind: ValueNested, Decorations: ds} }

// Walk calls fn for every type referenced by v.
func (v Value) Walk(fn func(TypeRef)) {
	switch v.Kind {
	case ValueSymbol:
		v.Type.Walk(fn)
	case ValueList:
		for _, e := range v.Values {
			e.Walk(fn)
		}
	case ValueNested:
		for _, d := range v.Decorations {
			d.Walk(fn)
		}
	}
}

// Arg is a named decoration argument. The key "value" is the default
// argument of the decoration.
type Arg struct {
	Key   string
	Value Value
}

// Decoration is a metadata marker attached to a type, field, method,
// parameter or enum constant.
type Decoration struct {
	Type TypeRef
	Args []Arg
}

// Decorate returns a decoration of type t without arguments.
func Decorate(t TypeRef) *Decoration {
	return &Decoration{Type: t}
}

// Set sets the argument key to v. An existing argument keeps its position.
func (d *Decoration) Set(key string, v Value) *Decoration {
	for i := range d.Args {
		if d.Args[i].Key == key {
			d.Args[i].Value = v
			return d
		}
	}
	d.Args = append(d.Args, Arg{Key: key, Value: v})
	return d
}

// Get returns the argument for key.
func (d *Decoration) Get(key string) (Value, bool) {
	for _, a := range d.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return Value{}, false
}

// Walk calls fn for the decoration type and every type its arguments reference.
func (d *Decoration) Walk(fn func(TypeRef)) {
	d.Type.Walk(fn)
	for _, a := range d.Args {
		a.Value.Walk(fn)
	}
}
