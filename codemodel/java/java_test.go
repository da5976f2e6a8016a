package java

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
)

var (
	str        = cm.Named("java.lang", "String")
	annotation = func(name string) cm.TypeRef { return cm.Named("com.springforge.db.annotations", name) }
	jpa        = func(name string) cm.TypeRef { return cm.Named("jakarta.persistence", name) }
)

func testFiles() []*cm.File {
	user := cm.Declared("com.example", "User")
	base := cm.Named("com.example.base", "Model")
	trackField := cm.Decorate(annotation("TrackField")).
		Set("name", cm.String("username")).
		Set("on", cm.Symbol(annotation("TrackEvent"), "UPDATE"))
	draft := cm.String("draft")
	canceled := cm.String("canceled")

	return []*cm.File{
		{
			Namespace: "com.example",
			Role:      cm.RoleType,
			Unit: &cm.TypeUnit{
				Kind:      cm.Class,
				Name:      "User",
				Doc:       "User account.",
				Modifiers: cm.Public,
				Decorations: []*cm.Decoration{
					cm.Decorate(jpa("Entity")),
					cm.Decorate(jpa("Table")).Set("name", cm.String("users")),
					cm.Decorate(annotation("Track")).
						Set("fields", cm.List(cm.Nested(trackField))).
						Set("subscribe", cm.Literal("true")),
				},
				Extends: &base,
				Fields: []*cm.Field{
					{
						Name:      "username",
						Type:      str,
						Modifiers: cm.Private,
						Decorations: []*cm.Decoration{
							cm.Decorate(jpa("Column")).Set("unique", cm.Literal("true")).Set("nullable", cm.Literal("false")),
						},
					},
					{Name: "lastLoginDate", Type: cm.Named("java.time", "LocalDateTime"), Modifiers: cm.Private},
					{Name: "roles", Type: cm.ListOf(cm.Declared("com.example", "Role")), Modifiers: cm.Private},
				},
				Methods: []*cm.Method{
					{
						Name:      "getUsername",
						Returns:   str,
						Modifiers: cm.Public,
						Body:      []cm.Stmt{cm.Return(cm.This("username"))},
					},
					{
						Name:      "setUsername",
						Modifiers: cm.Public,
						Params:    []*cm.Param{{Name: "username", Type: str}},
						Body:      []cm.Stmt{cm.Assign(cm.This("username"), cm.Ident("username"))},
					},
				},
			},
		},
		{
			Namespace: "com.example.repo",
			Role:      cm.RoleRepository,
			Unit: &cm.TypeUnit{
				Kind:        cm.Interface,
				Name:        "UserRepository",
				Modifiers:   cm.Public,
				Decorations: []*cm.Decoration{cm.Decorate(cm.Named("org.springframework.stereotype", "Repository"))},
				Extends: &cm.TypeRef{
					Kind: cm.KindNamed,
					Pkg:  "org.springframework.data.jpa.repository",
					Name: "JpaRepository",
					Args: []cm.TypeRef{user, cm.Named("java.lang", "Long")},
				},
				Methods: []*cm.Method{
					{
						Name:            "findByUsername",
						Returns:         cm.Optional(user),
						Params:          []*cm.Param{{Name: "username", Type: str}},
						DeclarationOnly: true,
					},
					{
						Name:            "findByLegacy",
						Returns:         cm.Optional(user),
						Params:          []*cm.Param{{Name: "legacy", Type: cm.Named("com.legacy", "User")}},
						DeclarationOnly: true,
					},
				},
			},
		},
		{
			Namespace: "com.example",
			Role:      cm.RoleEnum,
			Unit: &cm.TypeUnit{
				Kind:      cm.Enum,
				Name:      "OrderStatus",
				Modifiers: cm.Public,
				Constants: []*cm.EnumConstant{
					{
						Name:        "DRAFT",
						Arg:         &draft,
						Decorations: []*cm.Decoration{cm.Decorate(annotation("Widget")).Set("title", cm.String("Draft"))},
					},
					{Name: "CANCELED", Arg: &canceled, Doc: "Canceled orders are archived."},
				},
			},
		},
		{
			Namespace: "com.example",
			Role:      cm.RoleEnum,
			Unit: &cm.TypeUnit{
				Kind:      cm.Enum,
				Name:      "Level",
				Modifiers: cm.Public,
				Constants: []*cm.EnumConstant{{Name: "LOW"}, {Name: "HIGH"}},
			},
		},
	}
}

func TestRenderGolden(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join("testdata", "render.txtar"))
	require.NoError(t, err)
	want := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		want[f.Name] = string(f.Data)
	}

	r := New(WithHeader("Generated by springforge."))
	got := make(map[string]string)
	for _, f := range testFiles() {
		src, err := r.Render(f)
		require.NoError(t, err, f.Unit.Name)
		got[filepath.ToSlash(r.Path(f))] = string(src)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered sources mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := New()
	for _, f := range testFiles() {
		first, err := r.Render(f)
		require.NoError(t, err)
		second, err := r.Render(f)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	}
}

func TestRenderInvalid(t *testing.T) {
	f := &cm.File{
		Namespace: "com.example.repo",
		Unit: &cm.TypeUnit{
			Kind:    cm.Interface,
			Name:    "BrokenRepository",
			Methods: []*cm.Method{{Name: "count", Returns: cm.Named("", "long")}},
		},
	}
	_, err := New().Render(f)
	require.Error(t, err)
	var rerr *springforge.RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, Name, rerr.Target)
	assert.Equal(t, "BrokenRepository", rerr.Unit)
	assert.ErrorIs(t, err, springforge.ErrRender)
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		`plain`:       `"plain"`,
		`say "hi"`:    `"say \"hi\""`,
		"a\\b":        `"a\\b"`,
		"line\nbreak": `"line\nbreak"`,
		"bell\a":      `"bell\u0007"`,
		"café":        `"café"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, quote(in), in)
	}
}

func TestPath(t *testing.T) {
	r := New()
	f := &cm.File{Namespace: "com.example.service", Unit: &cm.TypeUnit{Name: "UserService"}}
	assert.Equal(t, filepath.Join("com", "example", "service", "UserService.java"), r.Path(f))
	assert.Equal(t, []string{".java", ".groovy"}, r.Extensions())
}
