package codemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/springforge"
)

func TestTypeRef(t *testing.T) {
	user := Declared("com.example", "User")
	repo := Generic("org.springframework.data.jpa.repository", "JpaRepository", user, Named("java.lang", "Long"))

	assert.Equal(t, "com.example.User", user.Qualified())
	assert.True(t, user.Declared)
	assert.Equal(t, "org.springframework.data.jpa.repository.JpaRepository<com.example.User, java.lang.Long>", repo.String())
	assert.Equal(t, "optional<com.example.User>", Optional(user).String())
	assert.Equal(t, "list<com.example.User>", ListOf(user).String())
	assert.Equal(t, "byte[]", ArrayOf(Named("", "byte")).String())
	assert.True(t, Void().IsVoid())
	assert.True(t, TypeRef{}.IsVoid())
	assert.False(t, user.IsVoid())

	var visited []string
	Optional(repo).Walk(func(t TypeRef) {
		if t.Kind == KindNamed {
			visited = append(visited, t.Name)
		}
	})
	assert.Equal(t, []string{"JpaRepository", "User", "Long"}, visited)
}

func TestDecorationSet(t *testing.T) {
	d := Decorate(Named("jakarta.persistence", "Column")).
		Set("name", String("user_name")).
		Set("unique", Literal("true")).
		Set("name", String("username"))

	require.Len(t, d.Args, 2)
	assert.Equal(t, "name", d.Args[0].Key, "replaced argument keeps its position")
	v, ok := d.Get("name")
	require.True(t, ok)
	assert.Equal(t, "username", v.Text)
	_, ok = d.Get("length")
	assert.False(t, ok)
}

func TestModifiers(t *testing.T) {
	m := Private | Final
	assert.True(t, m.Has(Private))
	assert.False(t, m.Has(Public))
	assert.Equal(t, []string{"private", "final"}, m.Keywords())
	assert.Equal(t, "public static final", (Final | Static | Public).String())
}

func TestFileWalk(t *testing.T) {
	widget := Named("com.springforge.db.annotations", "Widget")
	event := Named("com.springforge.db.annotations", "TrackEvent")
	f := &File{
		Namespace: "com.example",
		Unit: &TypeUnit{
			Kind:        Class,
			Name:        "Order",
			Decorations: []*Decoration{Decorate(Named("jakarta.persistence", "Entity"))},
			Fields: []*Field{{
				Name:        "status",
				Type:        Declared("com.example", "OrderStatus"),
				Decorations: []*Decoration{Decorate(widget).Set("on", Symbol(event, "UPDATE"))},
			}},
			Methods: []*Method{{
				Name:    "findAll",
				Returns: ListOf(Declared("com.example", "Order")),
				Body:    []Stmt{Return(Call(This("repo"), "findAll"))},
			}},
		},
	}
	var names []string
	f.Walk(func(t TypeRef) {
		if t.Kind == KindNamed {
			names = append(names, t.Name)
		}
	})
	assert.Equal(t, []string{"Entity", "Widget", "TrackEvent", "OrderStatus", "Order"}, names)
	assert.NotNil(t, f.Unit.Field("status").Decoration(widget))
	assert.NotNil(t, f.Unit.Method("findAll"))
	assert.Nil(t, f.Unit.Method("save"))
}

func TestValidate(t *testing.T) {
	valid := func() *File {
		return &File{
			Namespace: "com.example.service",
			Unit: &TypeUnit{
				Kind:   Class,
				Name:   "UserService",
				Fields: []*Field{{Name: "repo", Type: Named("com.example.repo", "UserRepository")}},
				Methods: []*Method{
					{Constructor: true, Params: []*Param{{Name: "repo", Type: Named("com.example.repo", "UserRepository")}}},
					{Name: "count", Returns: Named("", "long"), Body: []Stmt{Return(Call(This("repo"), "count"))}},
				},
			},
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*File)
		want   string
	}{
		{"bad namespace", func(f *File) { f.Namespace = "com..example" }, `invalid namespace "com..example"`},
		{"bad name", func(f *File) { f.Unit.Name = "User-Service" }, `invalid unit name "User-Service"`},
		{"duplicate field", func(f *File) { f.Unit.Fields = append(f.Unit.Fields, f.Unit.Fields[0]) }, `invalid or duplicate field "repo"`},
		{"constructor returns", func(f *File) { f.Unit.Methods[0].Returns = Named("", "int") }, "constructor returns int"},
		{"method without body", func(f *File) { f.Unit.Methods[1].DeclarationOnly = true; f.Unit.Methods[1].Body = nil }, "method count has no body"},
		{"constants on class", func(f *File) { f.Unit.Constants = []*EnumConstant{{Name: "A"}} }, "class declares enum constants"},
		{"wrapper without element", func(f *File) { f.Unit.Fields[0].Type = TypeRef{Kind: KindList} }, "field repo: wrapper without element type"},
		{"void field", func(f *File) { f.Unit.Fields[0].Type = Void() }, "field repo: void is not a value type"},
		{"invalid decoration", func(f *File) { f.Unit.Decorations = []*Decoration{{}} }, "unit: invalid decoration"},
		{"assign to call", func(f *File) {
			f.Unit.Methods[1].Body = []Stmt{Assign(Call(This("repo"), "count"), Ident("x"))}
		}, "method count: cannot assign to a call"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(f)
			err := Validate(f)
			require.Error(t, err)
			var rerr *springforge.RenderError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.want, rerr.Message)
		})
	}

	t.Run("interface rules", func(t *testing.T) {
		f := &File{Namespace: "com.example", Unit: &TypeUnit{
			Kind:    Interface,
			Name:    "Repo",
			Methods: []*Method{{Name: "count", Returns: Named("", "long")}},
		}}
		err := Validate(f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interface method count has a body")
	})

	t.Run("missing unit", func(t *testing.T) {
		assert.True(t, springforge.IsRenderError(Validate(&File{Namespace: "com.example"})))
	})

	t.Run("target error", func(t *testing.T) {
		f := valid()
		f.Unit.Name = "9"
		err := TargetError("java", f, Validate(f))
		var rerr *springforge.RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "java", rerr.Target)
	})
}
