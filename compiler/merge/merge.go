// Package merge reconciles the fragments of a logical entity or enum that
// several domain documents declare into one definition.
//
// Fragments are merged in the order given. The first fragment is cloned and
// becomes the accumulator; inputs are never mutated. Later fragments extend
// the accumulator: new properties are appended, same-named properties are
// checked for compatibility and then overridden by the attributes the
// fragment actually declares.
package merge

import (
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/schema"
)

// OverrideCheck decides whether incoming may override existing when both
// fragments declare a property of the same name.
type OverrideCheck func(existing, incoming *schema.Property) error

// Option configures a merge.
type Option func(*options)

type options struct {
	check OverrideCheck
}

// WithOverrideCheck replaces the default property compatibility check.
func WithOverrideCheck(check OverrideCheck) Option {
	return func(o *options) {
		o.check = check
	}
}

func newOptions(opts []Option) options {
	o := options{check: CheckOverride}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CheckOverride rejects overrides that change the property type tag or point
// a relation at a different target.
func CheckOverride(existing, incoming *schema.Property) error {
	if existing.Type != incoming.Type {
		return springforge.NewMergeConflictError("", "property "+existing.Name+" type", existing.Type.String(), incoming.Type.String())
	}
	if existing.Target != "" && incoming.Target != "" && existing.Target != incoming.Target {
		return springforge.NewMergeConflictError("", "property "+existing.Name+" target", existing.Target, incoming.Target)
	}
	return nil
}

// Entities merges the fragments of one logical entity.
func Entities(fragments []*schema.Entity, opts ...Option) (*schema.Entity, error) {
	if len(fragments) == 0 {
		return nil, errors.New("merge: no entity fragments")
	}
	o := newOptions(opts)
	acc := fragments[0].Clone()
	for _, frag := range fragments[1:] {
		if err := mergeEntity(acc, frag, o); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func mergeEntity(acc, frag *schema.Entity, o options) error {
	conflict := func(attr, existing, incoming string) error {
		err := springforge.NewMergeConflictError(acc.Name, attr, existing, incoming)
		err.Documents = []string{acc.Document, frag.Document}
		return err
	}
	if acc.Name != frag.Name {
		return conflict("name", acc.Name, frag.Name)
	}
	if acc.Namespace != frag.Namespace {
		return conflict("namespace", acc.Namespace, frag.Namespace)
	}
	for _, p := range frag.Properties {
		existing := acc.Property(p.Name)
		if existing == nil {
			acc.Properties = append(acc.Properties, p.Clone())
			continue
		}
		if err := o.check(existing, p); err != nil {
			var mc *springforge.MergeConflictError
			if errors.As(err, &mc) && mc.Name == "" {
				return conflict(mc.Attribute, mc.Existing, mc.Incoming)
			}
			e := springforge.NewMergeConflictError(acc.Name, "property "+p.Name, "", "")
			e.Documents = []string{acc.Document, frag.Document}
			e.Cause = err
			return e
		}
		override(existing, p)
	}
	if !fill(&acc.Extends, frag.Extends) {
		return conflict("extends", acc.Extends, frag.Extends)
	}
	if !fill(&acc.Table, frag.Table) {
		return conflict("table", acc.Table, frag.Table)
	}
	if frag.IDType != schema.TypeInvalid {
		if acc.IDType != schema.TypeInvalid && acc.IDType != frag.IDType {
			return conflict("id-type", acc.IDType.String(), frag.IDType.String())
		}
		acc.IDType = frag.IDType
	}
	acc.Audit = acc.Audit || frag.Audit
	for _, uc := range frag.UniqueConstraints {
		if !slices.ContainsFunc(acc.UniqueConstraints, func(u *schema.UniqueConstraint) bool { return u.Name == uc.Name }) {
			acc.UniqueConstraints = append(acc.UniqueConstraints, &schema.UniqueConstraint{Name: uc.Name, Columns: slices.Clone(uc.Columns)})
		}
	}
	if frag.Track != nil {
		if acc.Track == nil {
			acc.Track = frag.Track.Clone()
		} else {
			acc.Track.Merge(frag.Track)
		}
	}
	return nil
}

// override copies the attributes incoming declares onto existing.
func override(existing, incoming *schema.Property) {
	existing.Type = incoming.Type
	if incoming.Required != nil {
		existing.Required = schema.Bool(*incoming.Required)
	}
	if incoming.Unique != nil {
		existing.Unique = schema.Bool(*incoming.Unique)
	}
	set(&existing.Default, incoming.Default)
	set(&existing.Target, incoming.Target)
	set(&existing.MappedBy, incoming.MappedBy)
	set(&existing.Column, incoming.Column)
	set(&existing.Title, incoming.Title)
	set(&existing.Help, incoming.Help)
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// fill sets *dst to v when *dst is empty. It reports false when both are
// set and differ.
func fill(dst *string, v string) bool {
	switch {
	case v == "" || v == *dst:
		return true
	case *dst == "":
		*dst = v
		return true
	default:
		return false
	}
}

// Enums merges the fragments of one logical enum. Items are merged by name;
// attributes a later fragment declares override earlier ones.
func Enums(fragments []*schema.Enum) (*schema.Enum, error) {
	if len(fragments) == 0 {
		return nil, errors.New("merge: no enum fragments")
	}
	acc := fragments[0].Clone()
	for _, frag := range fragments[1:] {
		conflict := func(attr, existing, incoming string) error {
			err := springforge.NewMergeConflictError(acc.Name, attr, existing, incoming)
			err.Documents = []string{acc.Document, frag.Document}
			return err
		}
		switch {
		case acc.Name != frag.Name:
			return nil, conflict("name", acc.Name, frag.Name)
		case acc.Namespace != frag.Namespace:
			return nil, conflict("namespace", acc.Namespace, frag.Namespace)
		case acc.Numeric != frag.Numeric:
			return nil, conflict("numeric", fmt.Sprint(acc.Numeric), fmt.Sprint(frag.Numeric))
		}
		for _, it := range frag.Items {
			existing := acc.Item(it.Name)
			if existing == nil {
				acc.Items = append(acc.Items, it.Clone())
				continue
			}
			set(&existing.Value, it.Value)
			set(&existing.Title, it.Title)
			set(&existing.Help, it.Help)
			set(&existing.Description, it.Description)
			set(&existing.Icon, it.Icon)
			if it.Order != nil {
				existing.Order = schema.Int(*it.Order)
			}
			if it.Hidden != nil {
				existing.Hidden = schema.Bool(*it.Hidden)
			}
		}
	}
	return acc, nil
}

// Merge merges definitions sharing one name. All definitions must be of the
// same kind.
func Merge(defs []schema.Definition, opts ...Option) (schema.Definition, error) {
	if len(defs) == 0 {
		return nil, errors.New("merge: no definitions")
	}
	switch first := defs[0].(type) {
	case *schema.Entity:
		ents := make([]*schema.Entity, 0, len(defs))
		for _, def := range defs {
			e, ok := def.(*schema.Entity)
			if !ok {
				return nil, kindConflict(first, def)
			}
			ents = append(ents, e)
		}
		e, err := Entities(ents, opts...)
		if err != nil {
			return nil, err
		}
		return e, nil
	case *schema.Enum:
		enums := make([]*schema.Enum, 0, len(defs))
		for _, def := range defs {
			e, ok := def.(*schema.Enum)
			if !ok {
				return nil, kindConflict(first, def)
			}
			enums = append(enums, e)
		}
		e, err := Enums(enums)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("merge: unexpected definition %T", first)
	}
}

func kindConflict(first, def schema.Definition) error {
	err := springforge.NewMergeConflictError(first.DefName(), "kind", kindOf(first), kindOf(def))
	err.Documents = []string{first.Source(), def.Source()}
	return err
}

func kindOf(def schema.Definition) string {
	switch def.(type) {
	case *schema.Entity:
		return "entity"
	case *schema.Enum:
		return "enum"
	default:
		return fmt.Sprintf("%T", def)
	}
}
