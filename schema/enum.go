package schema

type (
	// Enum is one fragment, or the merged form, of an enumeration.
	Enum struct {
		Name      string
		Namespace string
		Module    string
		Document  string
		// Numeric enums carry integer literal values.
		Numeric bool
		// Items in declaration order. Order is significant.
		Items []*EnumItem
	}

	// EnumItem is one constant of an enumeration.
	EnumItem struct {
		Name        string
		Value       string
		Title       string
		Help        string
		Description string
		Icon        string
		// Order and Hidden are nil when the document leaves them unset.
		Order  *int
		Hidden *bool
	}
)

func (*Enum) definition() {}

// DefName implements Definition.
func (e *Enum) DefName() string { return e.Name }

// DefNamespace implements Definition.
func (e *Enum) DefNamespace() string { return e.Namespace }

// Source implements Definition.
func (e *Enum) Source() string { return e.Document }

// QualifiedName returns the namespace-qualified name.
func (e *Enum) QualifiedName() string { return qualify(e.Namespace, e.Name) }

// Item returns the item with the given name, or nil.
func (e *Enum) Item(name string) *EnumItem {
	for _, it := range e.Items {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// Clone returns a deep copy of the enum.
func (e *Enum) Clone() *Enum {
	c := *e
	c.Items = make([]*EnumItem, len(e.Items))
	for i, it := range e.Items {
		c.Items[i] = it.Clone()
	}
	return &c
}

// Clone returns a deep copy of the item.
func (it *EnumItem) Clone() *EnumItem {
	c := *it
	if it.Order != nil {
		c.Order = Int(*it.Order)
	}
	if it.Hidden != nil {
		c.Hidden = Bool(*it.Hidden)
	}
	return &c
}
