package load

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/schema"
)

type (
	yamlDomain struct {
		Module   *yamlModule  `yaml:"module"`
		Entities []yamlEntity `yaml:"entities"`
		Enums    []yamlEnum   `yaml:"enums"`
	}

	yamlModule struct {
		Name    string   `yaml:"name"`
		Package string   `yaml:"package"`
		Depends []string `yaml:"depends"`
	}

	yamlEntity struct {
		Name              string         `yaml:"name"`
		Extends           string         `yaml:"extends"`
		Audit             bool           `yaml:"audit"`
		IDType            string         `yaml:"idType"`
		Table             string         `yaml:"table"`
		Properties        []yamlProperty `yaml:"properties"`
		Track             *yamlTrack     `yaml:"track"`
		UniqueConstraints []yamlUnique   `yaml:"uniqueConstraints"`
	}

	yamlProperty struct {
		Name     string `yaml:"name"`
		Type     string `yaml:"type"`
		Required *bool  `yaml:"required"`
		Unique   *bool  `yaml:"unique"`
		Default  string `yaml:"default"`
		Ref      string `yaml:"ref"`
		MappedBy string `yaml:"mappedBy"`
		Column   string `yaml:"column"`
		Title    string `yaml:"title"`
		Help     string `yaml:"help"`
	}

	yamlUnique struct {
		Name    string   `yaml:"name"`
		Columns []string `yaml:"columns"`
	}

	yamlTrack struct {
		Subscribe *bool              `yaml:"subscribe"`
		Replace   *bool              `yaml:"replace"`
		Files     *bool              `yaml:"files"`
		On        string             `yaml:"on"`
		Fields    []yamlTrackField   `yaml:"fields"`
		Messages  []yamlTrackMessage `yaml:"messages"`
		Contents  []yamlTrackMessage `yaml:"contents"`
	}

	yamlTrackField struct {
		Name string `yaml:"name"`
		If   string `yaml:"if"`
		On   string `yaml:"on"`
	}

	yamlTrackMessage struct {
		Message string `yaml:"message"`
		If      string `yaml:"if"`
		On      string `yaml:"on"`
		Tag     string `yaml:"tag"`
		Fields  string `yaml:"fields"`
	}

	yamlEnum struct {
		Name    string     `yaml:"name"`
		Numeric bool       `yaml:"numeric"`
		Items   []yamlItem `yaml:"items"`
	}

	yamlItem struct {
		Name        string `yaml:"name"`
		Value       string `yaml:"value"`
		Title       string `yaml:"title"`
		Help        string `yaml:"help"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
		Order       *int   `yaml:"order"`
		Hidden      *bool  `yaml:"hidden"`
	}
)

func decodeYAML(name string, r io.Reader) (*Document, error) {
	var dom yamlDomain
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dom); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, springforge.NewParseError(name, "", "empty document", nil)
		}
		return nil, springforge.NewParseError(name, "", "malformed document", err)
	}
	doc := &Document{Path: name}
	if m := dom.Module; m != nil {
		doc.Module = Module{Name: m.Name, Package: m.Package, Depends: m.Depends}
	}
	a := attrs{doc: name}
	for _, ye := range dom.Entities {
		e := a.yamlEntity(ye)
		if a.err != nil {
			return nil, a.err
		}
		doc.Definitions = append(doc.Definitions, e)
	}
	for _, ye := range dom.Enums {
		e := &schema.Enum{Name: ye.Name, Numeric: ye.Numeric}
		for _, yi := range ye.Items {
			e.Items = append(e.Items, &schema.EnumItem{
				Name:        yi.Name,
				Value:       yi.Value,
				Title:       yi.Title,
				Help:        strings.TrimSpace(yi.Help),
				Description: yi.Description,
				Icon:        yi.Icon,
				Order:       yi.Order,
				Hidden:      yi.Hidden,
			})
		}
		doc.Definitions = append(doc.Definitions, e)
	}
	return doc, nil
}

func (a *attrs) yamlEntity(ye yamlEntity) *schema.Entity {
	elem := "entity " + ye.Name
	e := &schema.Entity{
		Name:    ye.Name,
		Extends: ye.Extends,
		Audit:   ye.Audit,
		Table:   ye.Table,
	}
	if ye.IDType != "" {
		typ, err := schema.ParsePropertyType(ye.IDType)
		if err != nil {
			a.fail(elem, "idType: %v", err)
		}
		e.IDType = typ
	}
	for _, yp := range ye.Properties {
		pelem := elem + " property " + yp.Name
		if yp.Type == "" {
			a.fail(pelem, "missing property type")
			continue
		}
		typ, err := schema.ParsePropertyType(yp.Type)
		if err != nil {
			a.fail(pelem, "unknown property type %q", yp.Type)
			continue
		}
		e.Properties = append(e.Properties, &schema.Property{
			Name:     yp.Name,
			Type:     typ,
			Required: yp.Required,
			Unique:   yp.Unique,
			Default:  yp.Default,
			Target:   yp.Ref,
			MappedBy: yp.MappedBy,
			Column:   yp.Column,
			Title:    yp.Title,
			Help:     strings.TrimSpace(yp.Help),
		})
	}
	for _, yu := range ye.UniqueConstraints {
		e.UniqueConstraints = append(e.UniqueConstraints, &schema.UniqueConstraint{Name: yu.Name, Columns: yu.Columns})
	}
	if yt := ye.Track; yt != nil {
		telem := elem + " track"
		t := &schema.Track{
			Subscribe: yt.Subscribe,
			Replace:   yt.Replace,
			Files:     yt.Files,
			On:        a.event(telem, yt.On),
		}
		for _, f := range yt.Fields {
			t.Fields = append(t.Fields, &schema.TrackField{Name: f.Name, Condition: f.If, On: a.event(telem+" field "+f.Name, f.On)})
		}
		t.Messages = a.messages(telem+" message", yamlMessages(yt.Messages))
		t.Contents = a.messages(telem+" content", yamlMessages(yt.Contents))
		e.Track = t
	}
	return e
}

// yamlMessages adapts YAML messages to the attribute form shared with XML.
func yamlMessages(yms []yamlTrackMessage) []xmlTrackMessage {
	msgs := make([]xmlTrackMessage, len(yms))
	for i, ym := range yms {
		msgs[i] = xmlTrackMessage{Value: ym.Message, If: ym.If, On: ym.On, Tag: ym.Tag, Fields: ym.Fields}
	}
	return msgs
}
