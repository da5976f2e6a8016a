package load

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/schema"
)

type (
	xmlDomain struct {
		XMLName  xml.Name    `xml:"domain-models"`
		Module   *xmlModule  `xml:"module"`
		Entities []xmlEntity `xml:"entity"`
		Enums    []xmlEnum   `xml:"enum"`
	}

	xmlModule struct {
		Name     string      `xml:"name,attr"`
		Package  string      `xml:"package,attr"`
		Depends  string      `xml:"depends,attr"`
		Entities []xmlEntity `xml:"entity"`
		Enums    []xmlEnum   `xml:"enum"`
	}

	xmlEntity struct {
		Name    string        `xml:"name,attr"`
		Extends string        `xml:"extends,attr"`
		Audit   string        `xml:"audit,attr"`
		IDType  string        `xml:"id-type,attr"`
		Table   string        `xml:"table,attr"`
		Track   []xmlTrack    `xml:"track"`
		Uniques []xmlUnique   `xml:"unique-constraint"`
		Props   []xmlProperty `xml:",any"`
	}

	xmlProperty struct {
		XMLName  xml.Name
		Name     string `xml:"name,attr"`
		Required string `xml:"required,attr"`
		Unique   string `xml:"unique,attr"`
		Default  string `xml:"default,attr"`
		Ref      string `xml:"ref,attr"`
		MappedBy string `xml:"mapped-by,attr"`
		Column   string `xml:"column,attr"`
		Title    string `xml:"title,attr"`
		Help     string `xml:"help,attr"`
	}

	xmlUnique struct {
		Name    string `xml:"name,attr"`
		Columns string `xml:"columns,attr"`
	}

	xmlTrack struct {
		Subscribe string            `xml:"subscribe,attr"`
		Replace   string            `xml:"replace,attr"`
		Files     string            `xml:"files,attr"`
		On        string            `xml:"on,attr"`
		Fields    []xmlTrackField   `xml:"field"`
		Messages  []xmlTrackMessage `xml:"message"`
		Contents  []xmlTrackMessage `xml:"content"`
	}

	xmlTrackField struct {
		Name string `xml:"name,attr"`
		If   string `xml:"if,attr"`
		On   string `xml:"on,attr"`
	}

	xmlTrackMessage struct {
		Value  string `xml:",chardata"`
		If     string `xml:"if,attr"`
		On     string `xml:"on,attr"`
		Tag    string `xml:"tag,attr"`
		Fields string `xml:"fields,attr"`
	}

	xmlEnum struct {
		Name    string    `xml:"name,attr"`
		Numeric string    `xml:"numeric,attr"`
		Items   []xmlItem `xml:"item"`
	}

	xmlItem struct {
		Name        string `xml:"name,attr"`
		Value       string `xml:"value,attr"`
		Title       string `xml:"title,attr"`
		Help        string `xml:"help,attr"`
		Description string `xml:"data-description,attr"`
		Icon        string `xml:"icon,attr"`
		Order       string `xml:"order,attr"`
		Hidden      string `xml:"hidden,attr"`
	}
)

func decodeXML(name string, r io.Reader) (*Document, error) {
	var dom xmlDomain
	if err := xml.NewDecoder(r).Decode(&dom); err != nil {
		if err == io.EOF {
			return nil, springforge.NewParseError(name, "", "empty document", nil)
		}
		return nil, springforge.NewParseError(name, "", "malformed document", err)
	}
	doc := &Document{Path: name}
	entities, enums := dom.Entities, dom.Enums
	if m := dom.Module; m != nil {
		doc.Module = Module{Name: m.Name, Package: m.Package, Depends: splitNames(m.Depends)}
		entities = append(entities, m.Entities...)
		enums = append(enums, m.Enums...)
	}
	a := attrs{doc: name}
	for _, xe := range entities {
		e := a.entity(xe)
		if a.err != nil {
			return nil, a.err
		}
		doc.Definitions = append(doc.Definitions, e)
	}
	for _, xe := range enums {
		e := a.enum(xe)
		if a.err != nil {
			return nil, a.err
		}
		doc.Definitions = append(doc.Definitions, e)
	}
	return doc, nil
}

// attrs converts attribute strings, keeping the first conversion error.
type attrs struct {
	doc string
	err error
}

func (a *attrs) fail(elem, format string, args ...any) {
	if a.err == nil {
		a.err = springforge.NewParseError(a.doc, elem, fmt.Sprintf(format, args...), nil)
	}
}

func (a *attrs) boolean(elem, attr, s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		a.fail(elem, "attribute %s: invalid boolean %q", attr, s)
		return nil
	}
	return &b
}

func (a *attrs) integer(elem, attr, s string) *int {
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		a.fail(elem, "attribute %s: invalid integer %q", attr, s)
		return nil
	}
	return &i
}

func (a *attrs) event(elem, s string) *schema.TrackEvent {
	if s == "" {
		return nil
	}
	ev, err := schema.ParseTrackEvent(s)
	if err != nil {
		a.fail(elem, "%v", err)
		return nil
	}
	return &ev
}

func (a *attrs) entity(xe xmlEntity) *schema.Entity {
	elem := "entity " + xe.Name
	e := &schema.Entity{
		Name:    xe.Name,
		Extends: xe.Extends,
		Table:   xe.Table,
	}
	if audit := a.boolean(elem, "audit", xe.Audit); audit != nil {
		e.Audit = *audit
	}
	if xe.IDType != "" {
		typ, err := schema.ParsePropertyType(xe.IDType)
		if err != nil {
			a.fail(elem, "attribute id-type: %v", err)
		}
		e.IDType = typ
	}
	for _, xp := range xe.Props {
		tag := xp.XMLName.Local
		pelem := elem + " " + tag + " " + xp.Name
		typ, err := schema.ParsePropertyType(tag)
		if err != nil {
			a.fail(pelem, "unknown property type %q", tag)
			continue
		}
		e.Properties = append(e.Properties, &schema.Property{
			Name:     xp.Name,
			Type:     typ,
			Required: a.boolean(pelem, "required", xp.Required),
			Unique:   a.boolean(pelem, "unique", xp.Unique),
			Default:  xp.Default,
			Target:   xp.Ref,
			MappedBy: xp.MappedBy,
			Column:   xp.Column,
			Title:    xp.Title,
			Help:     strings.TrimSpace(xp.Help),
		})
	}
	for _, xu := range xe.Uniques {
		e.UniqueConstraints = append(e.UniqueConstraints, &schema.UniqueConstraint{
			Name:    xu.Name,
			Columns: splitNames(xu.Columns),
		})
	}
	switch len(xe.Track) {
	case 0:
	case 1:
		e.Track = a.track(elem+" track", xe.Track[0])
	default:
		a.fail(elem, "more than one track element")
	}
	return e
}

func (a *attrs) track(elem string, xt xmlTrack) *schema.Track {
	t := &schema.Track{
		Subscribe: a.boolean(elem, "subscribe", xt.Subscribe),
		Replace:   a.boolean(elem, "replace", xt.Replace),
		Files:     a.boolean(elem, "files", xt.Files),
		On:        a.event(elem, xt.On),
	}
	for _, f := range xt.Fields {
		t.Fields = append(t.Fields, &schema.TrackField{
			Name:      f.Name,
			Condition: f.If,
			On:        a.event(elem+" field "+f.Name, f.On),
		})
	}
	t.Messages = a.messages(elem+" message", xt.Messages)
	t.Contents = a.messages(elem+" content", xt.Contents)
	return t
}

func (a *attrs) messages(elem string, xms []xmlTrackMessage) []*schema.TrackMessage {
	var msgs []*schema.TrackMessage
	for _, xm := range xms {
		m := &schema.TrackMessage{
			Value:     strings.TrimSpace(xm.Value),
			Condition: xm.If,
			On:        a.event(elem, xm.On),
			Fields:    xm.Fields,
		}
		if xm.Tag != "" {
			tag, err := schema.ParseTrackTag(xm.Tag)
			if err != nil {
				a.fail(elem, "%v", err)
			}
			m.Tag = tag
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func (a *attrs) enum(xe xmlEnum) *schema.Enum {
	elem := "enum " + xe.Name
	e := &schema.Enum{Name: xe.Name}
	if numeric := a.boolean(elem, "numeric", xe.Numeric); numeric != nil {
		e.Numeric = *numeric
	}
	for _, xi := range xe.Items {
		ielem := elem + " item " + xi.Name
		e.Items = append(e.Items, &schema.EnumItem{
			Name:        xi.Name,
			Value:       xi.Value,
			Title:       xi.Title,
			Help:        strings.TrimSpace(xi.Help),
			Description: xi.Description,
			Icon:        xi.Icon,
			Order:       a.integer(ielem, "order", xi.Order),
			Hidden:      a.boolean(ielem, "hidden", xi.Hidden),
		})
	}
	return e
}

// splitNames splits a comma or space separated attribute value. A blank
// value yields nil.
func splitNames(s string) []string {
	names := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(names) == 0 {
		return nil
	}
	return names
}
