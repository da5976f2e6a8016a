package load

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/springforge"
	"github.com/syssam/springforge/schema"
)

func TestParseXML(t *testing.T) {
	t.Run("user document", func(t *testing.T) {
		doc, err := ParseFile(filepath.Join("testdata", "valid", "user.xml"))
		require.NoError(t, err)
		assert.Equal(t, Module{Name: "test", Package: "com.example"}, doc.Module)

		ents := doc.Entities()
		require.Len(t, ents, 1)
		user := ents[0]
		assert.Equal(t, "User", user.Name)
		assert.Equal(t, "com.example", user.Namespace)
		assert.Equal(t, "test", user.Module)
		assert.Equal(t, doc.Path, user.Document)

		names := make([]string, len(user.Properties))
		for i, p := range user.Properties {
			names[i] = p.Name
		}
		assert.Equal(t, []string{"username", "email", "password", "active", "lastLoginDate"}, names)

		username := user.Property("username")
		assert.Equal(t, schema.TypeString, username.Type)
		assert.True(t, username.IsRequired())
		assert.True(t, username.IsUnique())

		active := user.Property("active")
		assert.Equal(t, schema.TypeBoolean, active.Type)
		assert.Equal(t, "true", active.Default)
		assert.Nil(t, active.Required, "absent attribute stays unset")
		assert.Equal(t, schema.TypeDateTime, user.Property("lastLoginDate").Type)
	})

	t.Run("relations track and enums", func(t *testing.T) {
		doc, err := ParseFile(filepath.Join("testdata", "valid", "sales.xml"))
		require.NoError(t, err)
		assert.Equal(t, []string{"test"}, doc.Module.Depends)

		require.Len(t, doc.Definitions, 3)
		_, ok := doc.Definitions[2].(*schema.Enum)
		assert.True(t, ok, "enums follow entities")

		order := doc.Entities()[0]
		assert.True(t, order.Audit)
		assert.Equal(t, "sales_order", order.Table)
		assert.Equal(t, "com.example.User", order.Property("customer").Target)
		assert.Equal(t, "order", order.Property("lines").MappedBy)
		require.Len(t, order.UniqueConstraints, 1)
		assert.Equal(t, []string{"reference", "customer"}, order.UniqueConstraints[0].Columns)

		track := order.Track
		require.NotNil(t, track)
		assert.True(t, *track.Subscribe)
		assert.Equal(t, schema.TrackUpdate, track.Event())
		require.Len(t, track.Fields, 2)
		assert.Equal(t, "total > 0", track.Fields[1].Condition)
		assert.Equal(t, schema.TrackCreate, *track.Fields[1].On)
		require.Len(t, track.Messages, 1)
		assert.Equal(t, "Order confirmed", track.Messages[0].Value)
		assert.Equal(t, schema.TagSuccess, track.Messages[0].Tag)
		require.Len(t, track.Contents, 1)

		line := doc.Entities()[1]
		assert.Equal(t, schema.TypeString, line.IdentifierType())

		status := doc.Enums()[0]
		assert.Equal(t, "com.example.sales", status.Namespace)
		require.Len(t, status.Items, 3)
		assert.Equal(t, 1, *status.Item("DRAFT").Order)
		assert.Equal(t, "Confirmed by customer", status.Item("CONFIRMED").Description)
		assert.True(t, *status.Item("CANCELED").Hidden)
		assert.Equal(t, "Canceled orders are archived.", status.Item("CANCELED").Help)
	})
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" ,\t", nil},
		{"test", []string{"test"}},
		{"test, sales  shared", []string{"test", "sales", "shared"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitNames(tt.in), "splitNames(%q)", tt.in)
	}
}

func TestParseYAML(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "valid", "priority.yml"))
	require.NoError(t, err)
	assert.Equal(t, "planning", doc.Module.Name)
	assert.Equal(t, []string{"test"}, doc.Module.Depends)

	task := doc.Entities()[0]
	assert.Equal(t, schema.TypeLong, task.IDType)
	assert.True(t, task.Property("title").IsRequired())
	assert.Equal(t, schema.TypeManyToMany, task.Property("assignees").Type)
	require.NotNil(t, task.Track)
	assert.True(t, *task.Track.Replace)
	assert.False(t, *task.Track.Subscribe)
	require.Len(t, task.Track.Messages, 1)
	assert.Equal(t, schema.TrackCreate, *task.Track.Messages[0].On)

	prio := doc.Enums()[0]
	assert.True(t, prio.Numeric)
	assert.Equal(t, "3", prio.Item("HIGH").Value)
}

func TestBaseNamespace(t *testing.T) {
	t.Run("fills missing package", func(t *testing.T) {
		doc, err := ParseFile(filepath.Join("testdata", "base", "catalog.xml"), WithBaseNamespace("com.acme"))
		require.NoError(t, err)
		assert.Equal(t, "com.acme", doc.Module.Package)
		assert.Equal(t, "com.acme", doc.Entities()[0].Namespace)
	})

	t.Run("prefixes relative package", func(t *testing.T) {
		doc, err := ParseFile(filepath.Join("testdata", "base", "relative.yaml"), WithBaseNamespace("com.acme"))
		require.NoError(t, err)
		assert.Equal(t, "com.acme.stock", doc.Module.Package)
	})

	t.Run("missing package without base", func(t *testing.T) {
		_, err := ParseFile(filepath.Join("testdata", "base", "catalog.xml"))
		require.Error(t, err)
		assert.True(t, springforge.IsParseError(err))
	})
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		element string
		message string
	}{
		{
			name:    "empty",
			format:  FormatXML,
			input:   "",
			message: "empty document",
		},
		{
			name:    "malformed",
			format:  FormatXML,
			input:   `<domain-models><entity name="User">`,
			message: "malformed document",
		},
		{
			name:    "unknown property type",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><float name="x"/></entity></domain-models>`,
			element: "entity User float x",
			message: `unknown property type "float"`,
		},
		{
			name:    "relation without target",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><many-to-one name="group"/></entity></domain-models>`,
			element: "entity User property group",
			message: "many-to-one property requires a target",
		},
		{
			name:    "duplicate property",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><string name="a"/><integer name="a"/></entity></domain-models>`,
			element: "entity User property a",
			message: "duplicate property",
		},
		{
			name:    "invalid boolean",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><string name="a" required="yes"/></entity></domain-models>`,
			element: "entity User string a",
			message: `attribute required: invalid boolean "yes"`,
		},
		{
			name:    "mapped-by on many-to-one",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><many-to-one name="g" ref="Group" mapped-by="users"/></entity></domain-models>`,
			element: "entity User property g",
			message: "mapped-by requires a one-to-one or collection relation",
		},
		{
			name:    "self dependency",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p" depends="m"/></domain-models>`,
			element: "module m",
			message: "module depends on itself",
		},
		{
			name:    "two track elements",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><track/><track/></entity></domain-models>`,
			element: "entity User",
			message: "more than one track element",
		},
		{
			name:    "message without condition",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><entity name="User"><track><message>hi</message></track></entity></domain-models>`,
			element: "entity User track",
			message: `message "hi" without condition`,
		},
		{
			name:    "numeric enum with text value",
			format:  FormatXML,
			input:   `<domain-models><module name="m" package="p"/><enum name="Level" numeric="true"><item name="LOW" value="low"/></enum></domain-models>`,
			element: "enum Level item LOW",
			message: `numeric enum value "low" is not an integer`,
		},
		{
			name:    "yaml unknown key",
			format:  FormatYAML,
			input:   "module: {name: m, package: p}\nentities:\n  - name: User\n    fields: []\n",
			message: "malformed document",
		},
		{
			name:    "yaml missing type",
			format:  FormatYAML,
			input:   "module: {name: m, package: p}\nentities:\n  - name: User\n    properties:\n      - name: a\n",
			element: "entity User property a",
			message: "missing property type",
		},
		{
			name:    "yaml empty",
			format:  FormatYAML,
			input:   "",
			message: "empty document",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContext().Parse("doc", tt.format, strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *springforge.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "doc", perr.Document)
			assert.Equal(t, tt.element, perr.Element)
			assert.Equal(t, tt.message, perr.Message)
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "valid", "README.txt"))
	require.Error(t, err)
	assert.True(t, springforge.IsParseError(err))

	_, err = NewContext().Parse("doc", Format("json"), strings.NewReader("{}"))
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	ctx := DefaultContext()

	t.Run("flat", func(t *testing.T) {
		paths, err := ctx.Discover(filepath.Join("testdata", "nested"), false)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join("testdata", "nested", "top.xml")}, paths)
	})

	t.Run("recursive", func(t *testing.T) {
		paths, err := ctx.Discover(filepath.Join("testdata", "nested"), true)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join("testdata", "nested", "sub", "inner.xml"),
			filepath.Join("testdata", "nested", "top.xml"),
		}, paths)
	})

	t.Run("skips unregistered extensions", func(t *testing.T) {
		paths, err := ctx.Discover(filepath.Join("testdata", "valid"), false)
		require.NoError(t, err)
		for _, p := range paths {
			assert.NotEqual(t, ".txt", filepath.Ext(p))
		}
		assert.Len(t, paths, 3)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := ctx.Discover(filepath.Join("testdata", "missing"), true)
		require.Error(t, err)
		assert.True(t, springforge.IsIOError(err))
	})
}

func TestDefaultContextConcurrent(t *testing.T) {
	const n = 16
	var (
		wg   sync.WaitGroup
		ctxs [n]*Context
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctxs[i] = DefaultContext()
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, ctxs[0], ctxs[i])
	}
	assert.Equal(t, []string{".xml", ".yaml", ".yml"}, ctxs[0].Extensions())
}
