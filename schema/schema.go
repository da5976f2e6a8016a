package schema

import (
	"slices"
	"strings"
)

// Definition is a named declaration found in a domain document.
// It is implemented only by *Entity and *Enum.
type Definition interface {
	// DefName returns the declared name.
	DefName() string
	// DefNamespace returns the namespace (package path) of the declaration.
	DefNamespace() string
	// Source returns the identity of the document that declared it.
	Source() string

	definition()
}

// DefaultIDType is the identifier type used when an entity declares none.
const DefaultIDType = TypeLong

type (
	// Entity is one fragment, or the merged canonical form, of a logical
	// record type.
	Entity struct {
		// Name is unique within the namespace.
		Name string
		// Namespace is the dotted package path of the generated types.
		Namespace string
		// Module is the name of the declaring module.
		Module string
		// Document is the path of the declaring document.
		Document string
		// Properties in declaration order.
		Properties []*Property
		// Extends names the base type. Empty means the profile default.
		Extends string
		// Audit enables audit tracking decorations.
		Audit bool
		// IDType is the identifier type tag. TypeInvalid means DefaultIDType.
		IDType PropertyType
		// Table overrides the storage table name.
		Table string
		// Track holds change tracking metadata, if any.
		Track *Track
		// UniqueConstraints are composite uniqueness declarations.
		UniqueConstraints []*UniqueConstraint
	}

	// Property is a typed attribute of an entity or a relation to another one.
	Property struct {
		Name string
		Type PropertyType
		// Required and Unique are nil when the document leaves them unset.
		Required *bool
		Unique   *bool
		// Default is the literal default value, empty when absent.
		Default string
		// Target names the referenced entity or enum. It may be qualified
		// with a namespace ("com.example.Customer").
		Target string
		// MappedBy names the owning side of a bidirectional relation.
		MappedBy string
		Column   string
		Title    string
		Help     string
	}

	// UniqueConstraint declares a set of columns whose values are unique together.
	UniqueConstraint struct {
		Name    string
		Columns []string
	}
)

func (*Entity) definition() {}

// DefName implements Definition.
func (e *Entity) DefName() string { return e.Name }

// DefNamespace implements Definition.
func (e *Entity) DefNamespace() string { return e.Namespace }

// Source implements Definition.
func (e *Entity) Source() string { return e.Document }

// Property returns the property with the given name, or nil.
func (e *Entity) Property(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// IdentifierType returns the declared id type or DefaultIDType.
func (e *Entity) IdentifierType() PropertyType {
	if e.IDType.Valid() {
		return e.IDType
	}
	return DefaultIDType
}

// QualifiedName returns the namespace-qualified name.
func (e *Entity) QualifiedName() string { return qualify(e.Namespace, e.Name) }

// UniqueProperties returns the properties marked unique, in declaration order.
func (e *Entity) UniqueProperties() []*Property {
	var props []*Property
	for _, p := range e.Properties {
		if p.IsUnique() {
			props = append(props, p)
		}
	}
	return props
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Properties = make([]*Property, len(e.Properties))
	for i, p := range e.Properties {
		c.Properties[i] = p.Clone()
	}
	if e.Track != nil {
		c.Track = e.Track.Clone()
	}
	c.UniqueConstraints = make([]*UniqueConstraint, len(e.UniqueConstraints))
	for i, uc := range e.UniqueConstraints {
		c.UniqueConstraints[i] = &UniqueConstraint{Name: uc.Name, Columns: slices.Clone(uc.Columns)}
	}
	return &c
}

// IsRequired reports if the property is explicitly required.
func (p *Property) IsRequired() bool { return p.Required != nil && *p.Required }

// IsUnique reports if the property is explicitly unique.
func (p *Property) IsUnique() bool { return p.Unique != nil && *p.Unique }

// TargetName returns the unqualified target name.
func (p *Property) TargetName() string {
	_, name := SplitQualified(p.Target)
	return name
}

// TargetNamespace returns the namespace qualifier of the target, if any.
func (p *Property) TargetNamespace() string {
	ns, _ := SplitQualified(p.Target)
	return ns
}

// Clone returns a deep copy of the property.
func (p *Property) Clone() *Property {
	c := *p
	if p.Required != nil {
		c.Required = Bool(*p.Required)
	}
	if p.Unique != nil {
		c.Unique = Bool(*p.Unique)
	}
	return &c
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// SplitQualified splits "com.example.Customer" into ("com.example", "Customer").
func SplitQualified(s string) (namespace, name string) {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
