package gen

import (
	"fmt"
	"strconv"
	"strings"

	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/codemodel/golang"
	"github.com/syssam/springforge/codemodel/java"
	"github.com/syssam/springforge/schema"
)

// Profile maps the semantic concepts of the emitter to the concrete
// decorations and types of one downstream framework. The emitter never
// names a framework type directly.
type Profile struct {
	// Target is the name of the renderer the profile is written for.
	Target string

	// Type definition decorations.
	Entity           cm.TypeRef // persistent record marker
	Table            cm.TypeRef // table name and unique constraints
	UniqueConstraint cm.TypeRef
	Column           cm.TypeRef
	Enumerated       cm.TypeRef
	// EnumStorage is the argument of Enumerated. Zero means no argument.
	EnumStorage cm.Value
	OneToOne    cm.TypeRef
	ManyToOne   cm.TypeRef
	OneToMany   cm.TypeRef
	ManyToMany  cm.TypeRef
	// Listeners decorates audited entities. When AuditListener is set it is
	// passed as the class argument of Listeners.
	Listeners     cm.TypeRef
	AuditListener cm.TypeRef
	Widget        cm.TypeRef
	Track         cm.TypeRef
	TrackField    cm.TypeRef
	TrackMessage  cm.TypeRef
	TrackEvent    cm.TypeRef
	TrackTag      cm.TypeRef

	// Base types of entities that do not extend anything. Both may be zero.
	BaseModel      cm.TypeRef
	AuditableModel cm.TypeRef

	// Data access and service decorations.
	Repository    cm.TypeRef
	Service       cm.TypeRef
	Transactional cm.TypeRef
	Inject        cm.TypeRef
	// RepositoryBase returns the contract data access units extend. When
	// nil, the data access unit declares the standard operations itself.
	RepositoryBase func(entity, id cm.TypeRef) cm.TypeRef

	// RepoSegment and ServiceSegment are appended to the entity namespace.
	RepoSegment    string
	ServiceSegment string

	// Scalars maps every scalar type tag to its representation.
	Scalars map[schema.PropertyType]cm.TypeRef
	// Default converts a default literal of a property to a field
	// initializer. It returns false when the tag takes no default.
	Default func(p *schema.Property, t cm.TypeRef) (cm.Value, bool)

	// Accessors adds getter and setter methods to type definitions.
	Accessors bool
	// FieldModifiers are the modifiers of type definition fields.
	FieldModifiers cm.Modifiers
	// ReferencePointers holds singular relations through an optional
	// reference so mutual and self references stay finite.
	ReferencePointers bool
}

// Validate reports a profile that cannot represent every scalar tag.
func (p *Profile) Validate() error {
	if p.Target == "" {
		return fmt.Errorf("gen: profile without target")
	}
	for _, t := range schema.PropertyTypes() {
		if typeTable[t] != shapeScalar {
			continue
		}
		if ref, ok := p.Scalars[t]; !ok || ref.IsVoid() {
			return fmt.Errorf("gen: profile %s: no representation for %s", p.Target, t)
		}
	}
	if p.Default == nil {
		return fmt.Errorf("gen: profile %s: no default converter", p.Target)
	}
	if p.RepoSegment == "" || p.ServiceSegment == "" {
		return fmt.Errorf("gen: profile %s: empty namespace segment", p.Target)
	}
	return nil
}

const (
	jpa        = "jakarta.persistence"
	annotation = "com.springforge.db.annotations"
)

// SpringProfile returns the profile for JPA entities with Spring Data
// repositories and Spring services.
func SpringProfile() *Profile {
	lang := func(name string) cm.TypeRef { return cm.Named("java.lang", name) }
	return &Profile{
		Target:           java.Name,
		Entity:           cm.Named(jpa, "Entity"),
		Table:            cm.Named(jpa, "Table"),
		UniqueConstraint: cm.Named(jpa, "UniqueConstraint"),
		Column:           cm.Named(jpa, "Column"),
		Enumerated:       cm.Named(jpa, "Enumerated"),
		EnumStorage:      cm.Symbol(cm.Named(jpa, "EnumType"), "STRING"),
		OneToOne:         cm.Named(jpa, "OneToOne"),
		ManyToOne:        cm.Named(jpa, "ManyToOne"),
		OneToMany:        cm.Named(jpa, "OneToMany"),
		ManyToMany:       cm.Named(jpa, "ManyToMany"),
		Listeners:        cm.Named(jpa, "EntityListeners"),
		AuditListener:    cm.Named("org.springframework.data.jpa.domain.support", "AuditingEntityListener"),
		Widget:           cm.Named(annotation, "Widget"),
		Track:            cm.Named(annotation, "Track"),
		TrackField:       cm.Named(annotation, "TrackField"),
		TrackMessage:     cm.Named(annotation, "TrackMessage"),
		TrackEvent:       cm.Named(annotation, "TrackEvent"),
		TrackTag:         cm.Named(annotation, "TrackTag"),
		BaseModel:        cm.Named("com.springforge.db", "SpringBaseEntity"),
		AuditableModel:   cm.Named("com.springforge.db", "SpringAuditableEntity"),
		Repository:       cm.Named("org.springframework.stereotype", "Repository"),
		Service:          cm.Named("org.springframework.stereotype", "Service"),
		Transactional:    cm.Named("org.springframework.transaction.annotation", "Transactional"),
		Inject:           cm.Named("org.springframework.beans.factory.annotation", "Autowired"),
		RepositoryBase: func(entity, id cm.TypeRef) cm.TypeRef {
			return cm.Generic("org.springframework.data.jpa.repository", "JpaRepository", entity, id)
		},
		RepoSegment:    "repo",
		ServiceSegment: "service",
		Scalars: map[schema.PropertyType]cm.TypeRef{
			schema.TypeString:   lang("String"),
			schema.TypeBoolean:  lang("Boolean"),
			schema.TypeInteger:  lang("Integer"),
			schema.TypeLong:     lang("Long"),
			schema.TypeDecimal:  cm.Named("java.math", "BigDecimal"),
			schema.TypeDate:     cm.Named("java.time", "LocalDate"),
			schema.TypeTime:     cm.Named("java.time", "LocalTime"),
			schema.TypeDateTime: cm.Named("java.time", "LocalDateTime"),
			schema.TypeBinary:   cm.ArrayOf(cm.Named("", "byte")),
		},
		Default:        javaDefault,
		Accessors:      true,
		FieldModifiers: cm.Private,
	}
}

// javaDefault spells a default literal as a Java initializer expression.
func javaDefault(p *schema.Property, t cm.TypeRef) (cm.Value, bool) {
	def := p.Default
	switch p.Type {
	case schema.TypeString:
		return cm.String(def), true
	case schema.TypeBoolean:
		return cm.Literal(strings.ToLower(def)), true
	case schema.TypeInteger:
		return cm.Literal(def), true
	case schema.TypeLong:
		return cm.Literal(strings.TrimSuffix(def, "L") + "L"), true
	case schema.TypeDecimal:
		return cm.Literal("new " + t.Name + "(" + strconv.Quote(def) + ")"), true
	case schema.TypeDate, schema.TypeTime, schema.TypeDateTime:
		return cm.Literal(t.Name + ".parse(" + strconv.Quote(def) + ")"), true
	case schema.TypeEnum:
		return cm.Symbol(t, def), true
	}
	return cm.Value{}, false
}

// GoProfile returns the profile for Go structs. Decorations become
// directive comments.
func GoProfile() *Profile {
	d := func(name string) cm.TypeRef { return cm.Named("", name) }
	return &Profile{
		Target:           golang.Name,
		Entity:           d("Entity"),
		Table:            d("Table"),
		UniqueConstraint: d("UniqueConstraint"),
		Column:           d("Column"),
		Enumerated:       d("Enumerated"),
		OneToOne:         d("OneToOne"),
		ManyToOne:        d("ManyToOne"),
		OneToMany:        d("OneToMany"),
		ManyToMany:       d("ManyToMany"),
		Listeners:        d("Audit"),
		Widget:           d("Widget"),
		Track:            d("Track"),
		TrackField:       d("TrackField"),
		TrackMessage:     d("TrackMessage"),
		TrackEvent:       d("TrackEvent"),
		TrackTag:         d("TrackTag"),
		Repository:       d("Repository"),
		Service:          d("Service"),
		Transactional:    d("Transactional"),
		Inject:           d("Inject"),
		RepoSegment:      "repo",
		ServiceSegment:   "service",
		Scalars: map[schema.PropertyType]cm.TypeRef{
			schema.TypeString:   d("string"),
			schema.TypeBoolean:  d("bool"),
			schema.TypeInteger:  d("int32"),
			schema.TypeLong:     d("int64"),
			schema.TypeDecimal:  cm.Named("github.com/shopspring/decimal", "Decimal"),
			schema.TypeDate:     cm.Named("time", "Time"),
			schema.TypeTime:     cm.Named("time", "Time"),
			schema.TypeDateTime: cm.Named("time", "Time"),
			schema.TypeBinary:   cm.ArrayOf(d("byte")),
		},
		Default: func(p *schema.Property, _ cm.TypeRef) (cm.Value, bool) {
			if p.Type.IsRelation() || p.Type == schema.TypeBinary {
				return cm.Value{}, false
			}
			return cm.String(p.Default), true
		},
		FieldModifiers:    cm.Public,
		ReferencePointers: true,
	}
}

// ProfileFor returns the built-in profile of the named target.
func ProfileFor(target string) (*Profile, error) {
	switch target {
	case java.Name:
		return SpringProfile(), nil
	case golang.Name:
		return GoProfile(), nil
	}
	return nil, fmt.Errorf("gen: unknown target %q", target)
}
