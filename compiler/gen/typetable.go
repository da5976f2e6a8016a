package gen

import (
	"fmt"

	"github.com/syssam/springforge/schema"
)

// typeShape is the representation family of a property type tag.
type typeShape uint8

const (
	shapeUnknown typeShape = iota
	// shapeScalar tags map to a profile scalar type.
	shapeScalar
	// shapeEnum tags map to the generated type of the target enum.
	shapeEnum
	// shapeReference tags map to the generated type of the target entity.
	shapeReference
	// shapeCollection tags map to a list of the target entity type.
	shapeCollection
)

// typeTable maps every property type tag to its shape. Adding a tag to
// schema without adding it here fails validateTypeTable.
var typeTable = map[schema.PropertyType]typeShape{
	schema.TypeString:     shapeScalar,
	schema.TypeBoolean:    shapeScalar,
	schema.TypeInteger:    shapeScalar,
	schema.TypeLong:       shapeScalar,
	schema.TypeDecimal:    shapeScalar,
	schema.TypeDate:       shapeScalar,
	schema.TypeTime:       shapeScalar,
	schema.TypeDateTime:   shapeScalar,
	schema.TypeBinary:     shapeScalar,
	schema.TypeEnum:       shapeEnum,
	schema.TypeOneToOne:   shapeReference,
	schema.TypeManyToOne:  shapeReference,
	schema.TypeOneToMany:  shapeCollection,
	schema.TypeManyToMany: shapeCollection,
}

// validateTypeTable checks that the table covers exactly the valid tags.
func validateTypeTable() error {
	tags := schema.PropertyTypes()
	for _, t := range tags {
		if typeTable[t] == shapeUnknown {
			return fmt.Errorf("gen: type table has no entry for %s", t)
		}
	}
	if len(typeTable) != len(tags) {
		return fmt.Errorf("gen: type table has %d entries for %d type tags", len(typeTable), len(tags))
	}
	return nil
}
