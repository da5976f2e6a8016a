package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/internal/naming"
	"github.com/syssam/springforge/schema"
)

// Emitter turns canonical entities and enums into code model files,
// decorated according to a Profile.
type Emitter struct {
	profile      *Profile
	repositories bool
	services     bool
}

// NewEmitter returns an emitter for the profile. Data access and service
// units are emitted when repositories and services are set.
func NewEmitter(p *Profile, repositories, services bool) (*Emitter, error) {
	if err := validateTypeTable(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, springforge.NewConfigError("Profile", nil, "profile cannot be nil")
	}
	if err := p.Validate(); err != nil {
		return nil, springforge.NewConfigError("Profile", p.Target, err.Error())
	}
	return &Emitter{profile: p, repositories: repositories, services: services}, nil
}

// Profile returns the decoration profile of the emitter.
func (em *Emitter) Profile() *Profile { return em.profile }

// EmitEntity returns the type definition of e, followed by its data access
// and service units when enabled.
func (em *Emitter) EmitEntity(e *schema.Entity) ([]*cm.File, error) {
	self := cm.Declared(e.Namespace, e.Name)
	id, ok := em.profile.Scalars[e.IdentifierType()]
	if !ok {
		return nil, em.errorf(e.Name, "no representation for id type %s", e.IdentifierType())
	}
	def, err := em.typeDefinition(e, self)
	if err != nil {
		return nil, err
	}
	files := []*cm.File{def}
	if em.repositories {
		repo, err := em.repository(e, self, id)
		if err != nil {
			return nil, err
		}
		files = append(files, repo)
	}
	if em.services {
		files = append(files, em.service(e, self, id))
	}
	return files, nil
}

func (em *Emitter) errorf(unit, format string, args ...any) error {
	return springforge.NewRenderError(em.profile.Target, unit, fmt.Sprintf(format, args...), nil)
}

// ref resolves a possibly qualified target name against the namespace of
// the referencing entity.
func ref(ns, target string) cm.TypeRef {
	pkg, name := schema.SplitQualified(target)
	if pkg == "" {
		pkg = ns
	}
	return cm.Declared(pkg, name)
}

func (em *Emitter) fieldType(e *schema.Entity, p *schema.Property) (cm.TypeRef, error) {
	switch typeTable[p.Type] {
	case shapeScalar:
		if t, ok := em.profile.Scalars[p.Type]; ok {
			return t, nil
		}
	case shapeEnum:
		return ref(e.Namespace, p.Target), nil
	case shapeReference:
		if em.profile.ReferencePointers {
			return cm.Optional(ref(e.Namespace, p.Target)), nil
		}
		return ref(e.Namespace, p.Target), nil
	case shapeCollection:
		return cm.ListOf(ref(e.Namespace, p.Target)), nil
	}
	return cm.TypeRef{}, em.errorf(e.Name, "property %s: no representation for %s", p.Name, p.Type)
}

func (em *Emitter) typeDefinition(e *schema.Entity, self cm.TypeRef) (*cm.File, error) {
	p := em.profile
	u := &cm.TypeUnit{
		Kind:        cm.Class,
		Name:        e.Name,
		Modifiers:   cm.Public,
		Decorations: []*cm.Decoration{cm.Decorate(p.Entity)},
	}
	if e.Audit {
		d := cm.Decorate(p.Listeners)
		if !p.AuditListener.IsVoid() {
			d.Set("value", cm.Symbol(p.AuditListener, "class"))
		}
		u.Decorations = append(u.Decorations, d)
	}
	u.Decorations = append(u.Decorations, em.table(e))
	if e.Track != nil {
		u.Decorations = append(u.Decorations, em.track(e.Track))
	}
	if base := em.base(e); !base.IsVoid() {
		u.Extends = &base
	}
	for _, prop := range e.Properties {
		t, err := em.fieldType(e, prop)
		if err != nil {
			return nil, err
		}
		f := &cm.Field{
			Name:        prop.Name,
			Type:        t,
			Doc:         prop.Help,
			Modifiers:   p.FieldModifiers,
			Decorations: em.propertyDecorations(prop),
		}
		if prop.Default != "" {
			if v, ok := p.Default(prop, t); ok {
				f.Init = &v
			}
		}
		u.Fields = append(u.Fields, f)
	}
	if p.Accessors {
		for _, f := range u.Fields {
			u.Methods = append(u.Methods, getter(f), setter(f))
		}
	}
	return &cm.File{Namespace: e.Namespace, Unit: u, Role: cm.RoleType}, nil
}

func (em *Emitter) base(e *schema.Entity) cm.TypeRef {
	switch {
	case e.Extends != "":
		return ref(e.Namespace, e.Extends)
	case e.Audit && !em.profile.AuditableModel.IsVoid():
		return em.profile.AuditableModel
	}
	return em.profile.BaseModel
}

func (em *Emitter) table(e *schema.Entity) *cm.Decoration {
	name := e.Table
	if name == "" {
		name = naming.TableName(e.Name)
	}
	d := cm.Decorate(em.profile.Table).Set("name", cm.String(name))
	if len(e.UniqueConstraints) == 0 {
		return d
	}
	constraints := make([]cm.Value, len(e.UniqueConstraints))
	for i, uc := range e.UniqueConstraints {
		c := cm.Decorate(em.profile.UniqueConstraint)
		if uc.Name != "" {
			c.Set("name", cm.String(uc.Name))
		}
		c.Set("columnNames", stringList(uc.Columns))
		constraints[i] = cm.Nested(c)
	}
	return d.Set("uniqueConstraints", cm.List(constraints...))
}

// stringList returns a list of string values.
func stringList(ss []string) cm.Value {
	vs := make([]cm.Value, len(ss))
	for i, s := range ss {
		vs[i] = cm.String(s)
	}
	return cm.List(vs...)
}

func (em *Emitter) propertyDecorations(prop *schema.Property) []*cm.Decoration {
	p := em.profile
	var ds []*cm.Decoration
	switch typeTable[prop.Type] {
	case shapeReference, shapeCollection:
		d := cm.Decorate(em.relation(prop.Type))
		if prop.MappedBy != "" {
			d.Set("mappedBy", cm.String(prop.MappedBy))
		}
		if !prop.Type.IsCollection() && prop.IsRequired() {
			d.Set("optional", cm.Literal("false"))
		}
		ds = append(ds, d)
	case shapeEnum:
		d := cm.Decorate(p.Enumerated)
		if p.EnumStorage.Text != "" {
			d.Set("value", p.EnumStorage)
		}
		ds = append(ds, d)
		fallthrough
	default:
		if c := em.column(prop); c != nil {
			ds = append(ds, c)
		}
	}
	if prop.Title != "" {
		ds = append(ds, cm.Decorate(p.Widget).Set("title", cm.String(prop.Title)))
	}
	return ds
}

func (em *Emitter) relation(t schema.PropertyType) cm.TypeRef {
	switch t {
	case schema.TypeOneToOne:
		return em.profile.OneToOne
	case schema.TypeManyToOne:
		return em.profile.ManyToOne
	case schema.TypeOneToMany:
		return em.profile.OneToMany
	default:
		return em.profile.ManyToMany
	}
}

func (em *Emitter) column(prop *schema.Property) *cm.Decoration {
	if prop.Column == "" && !prop.IsUnique() && !prop.IsRequired() {
		return nil
	}
	d := cm.Decorate(em.profile.Column)
	if prop.Column != "" {
		d.Set("name", cm.String(prop.Column))
	}
	if prop.IsUnique() {
		d.Set("unique", cm.Literal("true"))
	}
	if prop.IsRequired() {
		d.Set("nullable", cm.Literal("false"))
	}
	return d
}

func (em *Emitter) track(t *schema.Track) *cm.Decoration {
	p := em.profile
	event := func(e schema.TrackEvent) cm.Value { return cm.Symbol(p.TrackEvent, e.Symbol()) }
	d := cm.Decorate(p.Track)
	if len(t.Fields) > 0 {
		fields := make([]cm.Value, len(t.Fields))
		for i, f := range t.Fields {
			fd := cm.Decorate(p.TrackField).Set("name", cm.String(f.Name))
			if f.Condition != "" {
				fd.Set("condition", cm.String(f.Condition))
			}
			if f.On != nil {
				fd.Set("on", event(*f.On))
			}
			fields[i] = cm.Nested(fd)
		}
		d.Set("fields", cm.List(fields...))
	}
	messages := func(key string, ms []*schema.TrackMessage) {
		if len(ms) == 0 {
			return
		}
		vs := make([]cm.Value, len(ms))
		for i, m := range ms {
			md := cm.Decorate(p.TrackMessage).
				Set("message", cm.String(m.Value)).
				Set("condition", cm.String(m.Condition))
			if m.On != nil {
				md.Set("on", event(*m.On))
			}
			if m.Tag != "" {
				md.Set("tag", cm.Symbol(p.TrackTag, strings.ToUpper(string(m.Tag))))
			}
			if fs := m.FieldList(); len(fs) > 0 {
				md.Set("fields", stringList(fs))
			}
			vs[i] = cm.Nested(md)
		}
		d.Set(key, cm.List(vs...))
	}
	messages("messages", t.Messages)
	messages("contents", t.Contents)
	if t.Subscribe != nil {
		d.Set("subscribe", cm.Literal(strconv.FormatBool(*t.Subscribe)))
	}
	if t.Files != nil {
		d.Set("files", cm.Literal(strconv.FormatBool(*t.Files)))
	}
	if t.On != nil {
		d.Set("on", event(*t.On))
	}
	return d
}

func getter(f *cm.Field) *cm.Method {
	return &cm.Method{
		Name:      "get" + naming.Capitalize(f.Name),
		Returns:   f.Type,
		Modifiers: cm.Public,
		Body:      []cm.Stmt{cm.Return(cm.This(f.Name))},
	}
}

func setter(f *cm.Field) *cm.Method {
	return &cm.Method{
		Name:      "set" + naming.Capitalize(f.Name),
		Returns:   cm.Void(),
		Modifiers: cm.Public,
		Params:    []*cm.Param{{Name: f.Name, Type: f.Type}},
		Body:      []cm.Stmt{cm.Assign(cm.This(f.Name), cm.Ident(f.Name))},
	}
}

// Outline returns member-less files naming the units emitted for def. Their
// output paths equal those of the full emission.
func (em *Emitter) Outline(def schema.Definition) []*cm.File {
	switch d := def.(type) {
	case *schema.Enum:
		return []*cm.File{{Namespace: d.Namespace, Role: cm.RoleEnum, Unit: &cm.TypeUnit{Kind: cm.Enum, Name: d.Name}}}
	case *schema.Entity:
		files := []*cm.File{{Namespace: d.Namespace, Role: cm.RoleType, Unit: &cm.TypeUnit{Kind: cm.Class, Name: d.Name}}}
		if em.repositories {
			files = append(files, &cm.File{
				Namespace: em.repoNamespace(d),
				Role:      cm.RoleRepository,
				Unit:      &cm.TypeUnit{Kind: cm.Interface, Name: d.Name + "Repository"},
			})
		}
		if em.services {
			files = append(files, &cm.File{
				Namespace: em.serviceNamespace(d),
				Role:      cm.RoleService,
				Unit:      &cm.TypeUnit{Kind: cm.Class, Name: d.Name + "Service"},
			})
		}
		return files
	}
	return nil
}
