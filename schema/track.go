package schema

import (
	"fmt"
	"strings"
)

// TrackEvent is the lifecycle event a tracking rule is conditioned on.
type TrackEvent uint8

// Track events.
const (
	TrackAlways TrackEvent = iota
	TrackCreate
	TrackUpdate
)

// String returns the document name of the event.
func (e TrackEvent) String() string {
	switch e {
	case TrackAlways:
		return "always"
	case TrackCreate:
		return "create"
	case TrackUpdate:
		return "update"
	default:
		return fmt.Sprintf("TrackEvent(%d)", e)
	}
}

// Symbol returns the upper-case constant name of the event.
func (e TrackEvent) Symbol() string {
	switch e {
	case TrackCreate:
		return "CREATE"
	case TrackUpdate:
		return "UPDATE"
	default:
		return "ALWAYS"
	}
}

// ParseTrackEvent accepts both the lower-case document form and the
// upper-case constant form.
func ParseTrackEvent(s string) (TrackEvent, error) {
	switch s {
	case "always", "ALWAYS":
		return TrackAlways, nil
	case "create", "CREATE":
		return TrackCreate, nil
	case "update", "UPDATE":
		return TrackUpdate, nil
	}
	return TrackAlways, fmt.Errorf("schema: unknown track event %q", s)
}

// TrackTag classifies a tracked message.
type TrackTag string

// Track message tags.
const (
	TagSuccess   TrackTag = "success"
	TagWarning   TrackTag = "warning"
	TagImportant TrackTag = "important"
	TagInfo      TrackTag = "info"
)

// ParseTrackTag validates s as a message tag.
func ParseTrackTag(s string) (TrackTag, error) {
	switch t := TrackTag(s); t {
	case TagSuccess, TagWarning, TagImportant, TagInfo:
		return t, nil
	}
	return "", fmt.Errorf("schema: unknown track tag %q", s)
}

type (
	// Track describes which fields and messages of an entity are recorded
	// for change history.
	Track struct {
		Fields   []*TrackField
		Messages []*TrackMessage
		Contents []*TrackMessage
		// Subscribe, Replace and Files are nil when unset.
		Subscribe *bool
		Replace   *bool
		Files     *bool
		// On is nil when unset, which means TrackAlways.
		On *TrackEvent
	}

	// TrackField is a tracked field.
	TrackField struct {
		Name      string
		Condition string
		On        *TrackEvent
	}

	// TrackMessage is a tracked message template.
	TrackMessage struct {
		Value     string
		Condition string
		On        *TrackEvent
		Tag       TrackTag
		// Fields is the comma separated list of fields the message depends on.
		Fields string
	}
)

// Event returns the configured event or TrackAlways.
func (t *Track) Event() TrackEvent {
	if t.On == nil {
		return TrackAlways
	}
	return *t.On
}

// Merge appends the fields, messages and contents of other. When other has
// the replace flag set, its subscribe setting overwrites the receiver's.
func (t *Track) Merge(other *Track) *Track {
	for _, f := range other.Fields {
		c := *f
		t.Fields = append(t.Fields, &c)
	}
	for _, m := range other.Messages {
		c := *m
		t.Messages = append(t.Messages, &c)
	}
	for _, m := range other.Contents {
		c := *m
		t.Contents = append(t.Contents, &c)
	}
	if other.Replace != nil && *other.Replace {
		t.Subscribe = nil
		if other.Subscribe != nil {
			t.Subscribe = Bool(*other.Subscribe)
		}
	}
	return t
}

// Clone returns a deep copy of the track metadata.
func (t *Track) Clone() *Track {
	c := &Track{
		Fields:   make([]*TrackField, 0, len(t.Fields)),
		Messages: make([]*TrackMessage, 0, len(t.Messages)),
		Contents: make([]*TrackMessage, 0, len(t.Contents)),
	}
	for _, f := range t.Fields {
		cf := *f
		c.Fields = append(c.Fields, &cf)
	}
	for _, m := range t.Messages {
		cm := *m
		c.Messages = append(c.Messages, &cm)
	}
	for _, m := range t.Contents {
		cm := *m
		c.Contents = append(c.Contents, &cm)
	}
	c.Subscribe = cloneBool(t.Subscribe)
	c.Replace = cloneBool(t.Replace)
	c.Files = cloneBool(t.Files)
	if t.On != nil {
		on := *t.On
		c.On = &on
	}
	return c
}

// FieldList splits the comma separated Fields attribute.
func (m *TrackMessage) FieldList() []string {
	return splitList(m.Fields)
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	return Bool(*b)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
