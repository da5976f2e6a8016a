package load

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/schema"
)

// Document is the parsed content of one domain document.
type Document struct {
	// Path identifies the document.
	Path string
	// Module declared by the document.
	Module Module
	// Definitions in document order, entities first then enums.
	Definitions []schema.Definition
}

// Module is the module declaration of a document.
type Module struct {
	Name    string
	Package string
	// Depends lists modules whose fragments must be merged before this one's.
	Depends []string
}

// Entities returns the entity definitions of the document.
func (d *Document) Entities() []*schema.Entity {
	var ents []*schema.Entity
	for _, def := range d.Definitions {
		if e, ok := def.(*schema.Entity); ok {
			ents = append(ents, e)
		}
	}
	return ents
}

// Enums returns the enum definitions of the document.
func (d *Document) Enums() []*schema.Enum {
	var enums []*schema.Enum
	for _, def := range d.Definitions {
		if e, ok := def.(*schema.Enum); ok {
			enums = append(enums, e)
		}
	}
	return enums
}

// resolve fills the namespace, module and document identity of every
// definition and validates the document.
func (c *Context) resolve(doc *Document, o options) error {
	m := &doc.Module
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	}
	switch {
	case o.baseNamespace != "" && m.Package == "":
		m.Package = o.baseNamespace
	case o.baseNamespace != "" && strings.HasPrefix(m.Package, "."):
		m.Package = o.baseNamespace + m.Package
	}
	if m.Package == "" {
		return springforge.NewParseError(doc.Path, "module "+m.Name, "missing package", nil)
	}
	if !c.namespace.MatchString(m.Package) {
		return springforge.NewParseError(doc.Path, "module "+m.Name, fmt.Sprintf("invalid package %q", m.Package), nil)
	}
	for _, dep := range m.Depends {
		if dep == m.Name {
			return springforge.NewParseError(doc.Path, "module "+m.Name, "module depends on itself", nil)
		}
	}
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *schema.Entity:
			d.Namespace, d.Module, d.Document = m.Package, m.Name, doc.Path
			if err := c.validateEntity(doc.Path, d); err != nil {
				return err
			}
		case *schema.Enum:
			d.Namespace, d.Module, d.Document = m.Package, m.Name, doc.Path
			if err := c.validateEnum(doc.Path, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Context) validateEntity(path string, e *schema.Entity) error {
	elem := "entity " + e.Name
	if !c.ident.MatchString(e.Name) {
		return springforge.NewParseError(path, elem, "invalid entity name", nil)
	}
	if e.Extends != "" && !c.namespace.MatchString(e.Extends) {
		return springforge.NewParseError(path, elem, fmt.Sprintf("invalid base type %q", e.Extends), nil)
	}
	if e.IDType != schema.TypeInvalid && !e.IDType.IsScalar() {
		return springforge.NewParseError(path, elem, fmt.Sprintf("id type %s is not a scalar type", e.IDType), nil)
	}
	seen := make(map[string]bool, len(e.Properties))
	for _, p := range e.Properties {
		pelem := elem + " property " + p.Name
		switch {
		case !c.ident.MatchString(p.Name):
			return springforge.NewParseError(path, pelem, "invalid property name", nil)
		case seen[p.Name]:
			return springforge.NewParseError(path, pelem, "duplicate property", nil)
		case !p.Type.Valid():
			return springforge.NewParseError(path, pelem, "missing property type", nil)
		case p.Type.HasTarget() && p.Target == "":
			return springforge.NewParseError(path, pelem, fmt.Sprintf("%s property requires a target", p.Type), nil)
		case p.Target != "" && !c.namespace.MatchString(p.Target):
			return springforge.NewParseError(path, pelem, fmt.Sprintf("invalid target %q", p.Target), nil)
		case p.MappedBy != "" && !p.Type.IsCollection() && p.Type != schema.TypeOneToOne:
			return springforge.NewParseError(path, pelem, "mapped-by requires a one-to-one or collection relation", nil)
		}
		seen[p.Name] = true
	}
	for _, uc := range e.UniqueConstraints {
		if len(uc.Columns) == 0 {
			return springforge.NewParseError(path, elem+" unique-constraint "+uc.Name, "no columns", nil)
		}
	}
	if t := e.Track; t != nil {
		for _, f := range t.Fields {
			if f.Name == "" {
				return springforge.NewParseError(path, elem+" track", "field without name", nil)
			}
		}
		for _, m := range slices.Concat(t.Messages, t.Contents) {
			if m.Condition == "" {
				return springforge.NewParseError(path, elem+" track", fmt.Sprintf("message %q without condition", m.Value), nil)
			}
		}
	}
	return nil
}

func (c *Context) validateEnum(path string, e *schema.Enum) error {
	elem := "enum " + e.Name
	if !c.ident.MatchString(e.Name) {
		return springforge.NewParseError(path, elem, "invalid enum name", nil)
	}
	seen := make(map[string]bool, len(e.Items))
	for _, it := range e.Items {
		ielem := elem + " item " + it.Name
		switch {
		case !c.ident.MatchString(it.Name):
			return springforge.NewParseError(path, ielem, "invalid item name", nil)
		case seen[it.Name]:
			return springforge.NewParseError(path, ielem, "duplicate item", nil)
		case e.Numeric && it.Value != "" && !isInteger(it.Value):
			return springforge.NewParseError(path, ielem, fmt.Sprintf("numeric enum value %q is not an integer", it.Value), nil)
		}
		seen[it.Name] = true
	}
	return nil
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
