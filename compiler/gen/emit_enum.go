package gen

import (
	"strconv"

	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/schema"
)

// EmitEnum returns the enum unit of en. Constants keep the declared item
// order. Numeric enums always carry integer arguments; an item without a
// value takes the value after its predecessor's, starting at zero. Textual
// enums carry string arguments when any item declares a value, and items
// without one use their name.
func (em *Emitter) EmitEnum(en *schema.Enum) (*cm.File, error) {
	args := en.Numeric
	for _, it := range en.Items {
		if it.Value != "" {
			args = true
			break
		}
	}
	u := &cm.TypeUnit{Kind: cm.Enum, Name: en.Name, Modifiers: cm.Public}
	var next int64
	for _, it := range en.Items {
		c := &cm.EnumConstant{Name: it.Name, Doc: it.Help}
		if args {
			var v cm.Value
			switch {
			case en.Numeric && it.Value != "":
				n, err := strconv.ParseInt(it.Value, 10, 64)
				if err != nil {
					return nil, em.errorf(en.Name, "item %s: numeric value %q", it.Name, it.Value)
				}
				next = n
				fallthrough
			case en.Numeric:
				v = cm.Literal(strconv.FormatInt(next, 10))
				next++
			case it.Value != "":
				v = cm.String(it.Value)
			default:
				v = cm.String(it.Name)
			}
			c.Arg = &v
		}
		if w := em.widget(it); w != nil {
			c.Decorations = append(c.Decorations, w)
		}
		u.Constants = append(u.Constants, c)
	}
	return &cm.File{Namespace: en.Namespace, Unit: u, Role: cm.RoleEnum}, nil
}

// widget collects the presentation attributes of an item, or returns nil
// when it has none.
func (em *Emitter) widget(it *schema.EnumItem) *cm.Decoration {
	d := cm.Decorate(em.profile.Widget)
	if it.Title != "" {
		d.Set("title", cm.String(it.Title))
	}
	if it.Description != "" {
		d.Set("description", cm.String(it.Description))
	}
	if it.Icon != "" {
		d.Set("icon", cm.String(it.Icon))
	}
	if it.Order != nil {
		d.Set("order", cm.Literal(strconv.Itoa(*it.Order)))
	}
	if it.Hidden != nil {
		d.Set("hidden", cm.Literal(strconv.FormatBool(*it.Hidden)))
	}
	if len(d.Args) == 0 {
		return nil
	}
	return d
}
