package gen

import (
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/internal/naming"
	"github.com/syssam/springforge/schema"
)

// Standard operations of data access units, in declaration order.
const (
	opSave     = "save"
	opFindByID = "findById"
	opFindAll  = "findAll"
	opDelete   = "delete"
)

func (em *Emitter) repoNamespace(e *schema.Entity) string {
	return e.Namespace + "." + em.profile.RepoSegment
}

func (em *Emitter) serviceNamespace(e *schema.Entity) string {
	return e.Namespace + "." + em.profile.ServiceSegment
}

func (em *Emitter) repository(e *schema.Entity, self, id cm.TypeRef) (*cm.File, error) {
	p := em.profile
	u := &cm.TypeUnit{
		Kind:        cm.Interface,
		Name:        e.Name + "Repository",
		Modifiers:   cm.Public,
		Decorations: []*cm.Decoration{cm.Decorate(p.Repository)},
	}
	if p.RepositoryBase != nil {
		base := p.RepositoryBase(self, id)
		u.Extends = &base
	} else {
		entity := []*cm.Param{{Name: "entity", Type: self}}
		u.Methods = append(u.Methods,
			&cm.Method{Name: opSave, Returns: self, Params: entity, DeclarationOnly: true},
			&cm.Method{Name: opFindByID, Returns: cm.Optional(self), Params: []*cm.Param{{Name: "id", Type: id}}, DeclarationOnly: true},
			&cm.Method{Name: opFindAll, Returns: cm.ListOf(self), DeclarationOnly: true},
			&cm.Method{Name: opDelete, Returns: cm.Void(), Params: entity, DeclarationOnly: true},
		)
	}
	for _, prop := range e.UniqueProperties() {
		t, err := em.fieldType(e, prop)
		if err != nil {
			return nil, err
		}
		u.Methods = append(u.Methods, &cm.Method{
			Name:            "findBy" + naming.Capitalize(prop.Name),
			Returns:         cm.Optional(self),
			Params:          []*cm.Param{{Name: prop.Name, Type: t}},
			DeclarationOnly: true,
		})
	}
	return &cm.File{Namespace: em.repoNamespace(e), Unit: u, Role: cm.RoleRepository}, nil
}

func (em *Emitter) service(e *schema.Entity, self, id cm.TypeRef) *cm.File {
	p := em.profile
	repo := cm.Declared(em.repoNamespace(e), e.Name+"Repository")
	field := naming.Uncapitalize(e.Name) + "Repository"
	this := cm.This(field)
	entity := []*cm.Param{{Name: "entity", Type: self}}
	u := &cm.TypeUnit{
		Kind:        cm.Class,
		Name:        e.Name + "Service",
		Modifiers:   cm.Public,
		Decorations: []*cm.Decoration{cm.Decorate(p.Service), cm.Decorate(p.Transactional)},
		Fields:      []*cm.Field{{Name: field, Type: repo, Modifiers: cm.Private | cm.Final}},
		Methods: []*cm.Method{
			{
				Constructor: true,
				Modifiers:   cm.Public,
				Decorations: []*cm.Decoration{cm.Decorate(p.Inject)},
				Params:      []*cm.Param{{Name: field, Type: repo}},
				Body:        []cm.Stmt{cm.Assign(this, cm.Ident(field))},
			},
			{
				Name:      opSave,
				Returns:   self,
				Modifiers: cm.Public,
				Params:    entity,
				Body:      []cm.Stmt{cm.Return(cm.Call(this, opSave, cm.Ident("entity")))},
			},
			{
				Name:      opFindByID,
				Returns:   cm.Optional(self),
				Modifiers: cm.Public,
				Params:    []*cm.Param{{Name: "id", Type: id}},
				Body:      []cm.Stmt{cm.Return(cm.Call(this, opFindByID, cm.Ident("id")))},
			},
			{
				Name:      opFindAll,
				Returns:   cm.ListOf(self),
				Modifiers: cm.Public,
				Body:      []cm.Stmt{cm.Return(cm.Call(this, opFindAll))},
			},
			{
				Name:      opDelete,
				Returns:   cm.Void(),
				Modifiers: cm.Public,
				Params:    entity,
				Body:      []cm.Stmt{cm.Do(cm.Call(this, opDelete, cm.Ident("entity")))},
			},
		},
	}
	return &cm.File{Namespace: em.serviceNamespace(e), Unit: u, Role: cm.RoleService}
}
