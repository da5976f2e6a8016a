package schema

import "fmt"

// PropertyType is the type tag of a Property.
type PropertyType uint8

// Property type tags. The textual names are the element names used by
// domain documents.
const (
	TypeInvalid PropertyType = iota
	TypeString
	TypeBoolean
	TypeInteger
	TypeLong
	TypeDecimal
	TypeDate
	TypeTime
	TypeDateTime
	TypeBinary
	TypeEnum
	TypeOneToOne
	TypeManyToOne
	TypeOneToMany
	TypeManyToMany
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:    "invalid",
	TypeString:     "string",
	TypeBoolean:    "boolean",
	TypeInteger:    "integer",
	TypeLong:       "long",
	TypeDecimal:    "decimal",
	TypeDate:       "date",
	TypeTime:       "time",
	TypeDateTime:   "datetime",
	TypeBinary:     "binary",
	TypeEnum:       "enum",
	TypeOneToOne:   "one-to-one",
	TypeManyToOne:  "many-to-one",
	TypeOneToMany:  "one-to-many",
	TypeManyToMany: "many-to-many",
}

// String returns the document name of the type tag.
func (t PropertyType) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("PropertyType(%d)", t)
}

// Valid reports if t is a known, non-invalid tag.
func (t PropertyType) Valid() bool { return t > TypeInvalid && t < endTypes }

// IsRelation reports if the tag references another entity.
func (t PropertyType) IsRelation() bool {
	return t >= TypeOneToOne && t <= TypeManyToMany
}

// IsCollection reports if the tag references a collection of entities.
func (t PropertyType) IsCollection() bool {
	return t == TypeOneToMany || t == TypeManyToMany
}

// IsScalar reports if the tag maps to a plain value type.
func (t PropertyType) IsScalar() bool {
	return t.Valid() && t != TypeEnum && !t.IsRelation()
}

// HasTarget reports if properties of this tag must name a target.
func (t PropertyType) HasTarget() bool {
	return t == TypeEnum || t.IsRelation()
}

// MarshalText implements encoding.TextMarshaler.
func (t PropertyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("schema: invalid property type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PropertyType) UnmarshalText(text []byte) error {
	v, err := ParsePropertyType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParsePropertyType returns the tag for the given document name.
func ParsePropertyType(s string) (PropertyType, error) {
	for t := TypeString; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("schema: unknown property type %q", s)
}

// PropertyTypes returns every valid tag in declaration order.
func PropertyTypes() []PropertyType {
	types := make([]PropertyType, 0, int(endTypes)-1)
	for t := TypeString; t < endTypes; t++ {
		types = append(types, t)
	}
	return types
}
