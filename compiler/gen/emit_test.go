package gen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/codemodel/golang"
	"github.com/syssam/springforge/codemodel/java"
	"github.com/syssam/springforge/schema"
)

func userEntity() *schema.Entity {
	return &schema.Entity{
		Name:      "User",
		Namespace: "com.example",
		Module:    "test",
		Properties: []*schema.Property{
			{Name: "username", Type: schema.TypeString, Required: schema.Bool(true), Unique: schema.Bool(true)},
			{Name: "email", Type: schema.TypeString, Required: schema.Bool(true)},
			{Name: "password", Type: schema.TypeString, Required: schema.Bool(true)},
			{Name: "active", Type: schema.TypeBoolean, Default: "true"},
			{Name: "lastLoginDate", Type: schema.TypeDateTime},
		},
	}
}

func renderJava(t *testing.T, files []*cm.File) map[string]string {
	t.Helper()
	r := java.New()
	out := make(map[string]string, len(files))
	for _, f := range files {
		src, err := r.Render(f)
		require.NoError(t, err)
		out[r.Path(f)] = string(src)
	}
	return out
}

func TestTypeTable(t *testing.T) {
	require.NoError(t, validateTypeTable())
	for _, pt := range schema.PropertyTypes() {
		switch {
		case pt == schema.TypeEnum:
			assert.Equal(t, shapeEnum, typeTable[pt])
		case pt.IsCollection():
			assert.Equal(t, shapeCollection, typeTable[pt], pt.String())
		case pt.IsRelation():
			assert.Equal(t, shapeReference, typeTable[pt], pt.String())
		default:
			assert.Equal(t, shapeScalar, typeTable[pt], pt.String())
		}
	}
}

func TestProfiles(t *testing.T) {
	for _, target := range []string{java.Name, golang.Name} {
		t.Run(target, func(t *testing.T) {
			p, err := ProfileFor(target)
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.Equal(t, target, p.Target)
		})
	}

	t.Run("unknown target", func(t *testing.T) {
		_, err := ProfileFor("cobol")
		require.Error(t, err)
	})

	t.Run("missing scalar", func(t *testing.T) {
		p := SpringProfile()
		delete(p.Scalars, schema.TypeDecimal)
		require.ErrorContains(t, p.Validate(), "decimal")

		_, err := NewEmitter(p, true, true)
		require.Error(t, err)
		assert.True(t, springforge.IsConfigError(err))
	})

	t.Run("nil profile", func(t *testing.T) {
		_, err := NewEmitter(nil, true, true)
		assert.True(t, springforge.IsConfigError(err))
	})
}

func TestEmitEntity(t *testing.T) {
	em, err := NewEmitter(SpringProfile(), true, true)
	require.NoError(t, err)
	files, err := em.EmitEntity(userEntity())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, cm.RoleType, files[0].Role)
	assert.Equal(t, cm.RoleRepository, files[1].Role)
	assert.Equal(t, cm.RoleService, files[2].Role)

	out := renderJava(t, files)
	entity := out[filepath.Join("com", "example", "User.java")]
	repo := out[filepath.Join("com", "example", "repo", "UserRepository.java")]
	service := out[filepath.Join("com", "example", "service", "UserService.java")]
	require.NotEmpty(t, entity)
	require.NotEmpty(t, repo)
	require.NotEmpty(t, service)

	t.Run("type definition", func(t *testing.T) {
		assert.Contains(t, entity, "package com.example;")
		assert.Contains(t, entity, "@Entity")
		assert.Contains(t, entity, "@Table(name = \"users\")")
		assert.Contains(t, entity, "public class User extends SpringBaseEntity {")
		assert.Contains(t, entity, "@Column(unique = true, nullable = false)")
		assert.Contains(t, entity, "private String username;")
		assert.Contains(t, entity, "private Boolean active = true;")
		assert.Contains(t, entity, "private LocalDateTime lastLoginDate;")
		assert.Contains(t, entity, "import java.time.LocalDateTime;")
		assert.Contains(t, entity, "public String getUsername() {")
		assert.Contains(t, entity, "this.lastLoginDate = lastLoginDate;")
		assert.NotContains(t, entity, "import java.lang.")
	})

	t.Run("repository", func(t *testing.T) {
		assert.Contains(t, repo, "package com.example.repo;")
		assert.Contains(t, repo, "import com.example.User;")
		assert.Contains(t, repo, "@Repository")
		assert.Contains(t, repo, "public interface UserRepository extends JpaRepository<User, Long> {")
		assert.Contains(t, repo, "Optional<User> findByUsername(String username);")
		assert.NotContains(t, repo, "findByEmail")
	})

	t.Run("service", func(t *testing.T) {
		assert.Contains(t, service, "@Service")
		assert.Contains(t, service, "@Transactional")
		assert.Contains(t, service, "private final UserRepository userRepository;")
		assert.Contains(t, service, "@Autowired")
		assert.Contains(t, service, "this.userRepository = userRepository;")
		assert.Contains(t, service, "return this.userRepository.save(entity);")
		assert.Contains(t, service, "public Optional<User> findById(Long id) {")
		assert.Contains(t, service, "public List<User> findAll() {")
		assert.Contains(t, service, "this.userRepository.delete(entity);")
	})
}

func TestEmitEntityUnits(t *testing.T) {
	tests := []struct {
		name          string
		repos, svcs   bool
		expectedRoles []cm.Role
	}{
		{"all", true, true, []cm.Role{cm.RoleType, cm.RoleRepository, cm.RoleService}},
		{"no services", true, false, []cm.Role{cm.RoleType, cm.RoleRepository}},
		{"no repositories", false, true, []cm.Role{cm.RoleType, cm.RoleService}},
		{"types only", false, false, []cm.Role{cm.RoleType}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, err := NewEmitter(SpringProfile(), tt.repos, tt.svcs)
			require.NoError(t, err)
			files, err := em.EmitEntity(userEntity())
			require.NoError(t, err)
			roles := make([]cm.Role, len(files))
			for i, f := range files {
				roles[i] = f.Role
			}
			assert.Equal(t, tt.expectedRoles, roles)

			outline := em.Outline(userEntity())
			require.Len(t, outline, len(files))
			r := java.New()
			for i := range files {
				assert.Equal(t, r.Path(files[i]), r.Path(outline[i]))
			}
		})
	}
}

func TestEmitEntityDecorations(t *testing.T) {
	on := schema.TrackUpdate
	create := schema.TrackCreate
	order := &schema.Entity{
		Name:      "Order",
		Namespace: "com.example.sales",
		Audit:     true,
		Table:     "sales_order",
		IDType:    schema.TypeString,
		Properties: []*schema.Property{
			{Name: "reference", Type: schema.TypeString, Required: schema.Bool(true), Unique: schema.Bool(true), Column: "ref"},
			{Name: "total", Type: schema.TypeDecimal, Default: "0", Title: "Total", Help: "Order total."},
			{Name: "status", Type: schema.TypeEnum, Target: "OrderStatus", Default: "DRAFT"},
			{Name: "customer", Type: schema.TypeManyToOne, Target: "com.example.User", Required: schema.Bool(true)},
			{Name: "lines", Type: schema.TypeOneToMany, Target: "OrderLine", MappedBy: "order"},
		},
		UniqueConstraints: []*schema.UniqueConstraint{{Name: "uk_ref", Columns: []string{"reference", "customer"}}},
		Track: &schema.Track{
			Fields:    []*schema.TrackField{{Name: "status"}, {Name: "total", Condition: "total > 0", On: &create}},
			Messages:  []*schema.TrackMessage{{Value: "Order confirmed", Condition: "status == 'CONFIRMED'", Tag: "success", Fields: "status"}},
			Subscribe: schema.Bool(true),
			On:        &on,
		},
	}
	em, err := NewEmitter(SpringProfile(), true, false)
	require.NoError(t, err)
	files, err := em.EmitEntity(order)
	require.NoError(t, err)
	out := renderJava(t, files)
	src := out[filepath.Join("com", "example", "sales", "Order.java")]
	repo := out[filepath.Join("com", "example", "sales", "repo", "OrderRepository.java")]

	assert.Contains(t, src, "@EntityListeners(AuditingEntityListener.class)")
	assert.Contains(t, src, "public class Order extends SpringAuditableEntity {")
	assert.Contains(t, src, `@Table(name = "sales_order", uniqueConstraints = {@UniqueConstraint(name = "uk_ref", columnNames = {"reference", "customer"})})`)
	assert.Contains(t, src, `@Column(name = "ref", unique = true, nullable = false)`)
	assert.Contains(t, src, `private BigDecimal total = new BigDecimal("0");`)
	assert.Contains(t, src, `@Widget(title = "Total")`)
	assert.Contains(t, src, " * Order total.")
	assert.Contains(t, src, "@Enumerated(EnumType.STRING)")
	assert.Contains(t, src, "private OrderStatus status = OrderStatus.DRAFT;")
	assert.Contains(t, src, "@ManyToOne(optional = false)")
	assert.Contains(t, src, "import com.example.User;")
	assert.Contains(t, src, `@OneToMany(mappedBy = "order")`)
	assert.Contains(t, src, "private List<OrderLine> lines;")
	assert.Contains(t, src, `@TrackField(name = "total", condition = "total > 0", on = TrackEvent.CREATE)`)
	assert.Contains(t, src, "tag = TrackTag.SUCCESS")
	assert.Contains(t, src, "subscribe = true")
	assert.Contains(t, src, "on = TrackEvent.UPDATE")

	assert.Contains(t, repo, "JpaRepository<Order, String>")
	assert.Contains(t, repo, "Optional<Order> findByReference(String reference);")
}

func TestEmitEntityExtends(t *testing.T) {
	em, err := NewEmitter(SpringProfile(), false, false)
	require.NoError(t, err)
	e := userEntity()
	e.Extends = "Person"
	files, err := em.EmitEntity(e)
	require.NoError(t, err)
	require.NotNil(t, files[0].Unit.Extends)
	assert.Equal(t, "com.example.Person", files[0].Unit.Extends.Qualified())
}

func TestEmitEnum(t *testing.T) {
	em, err := NewEmitter(SpringProfile(), true, true)
	require.NoError(t, err)

	t.Run("textual", func(t *testing.T) {
		f, err := em.EmitEnum(&schema.Enum{
			Name:      "OrderStatus",
			Namespace: "com.example.sales",
			Items: []*schema.EnumItem{
				{Name: "DRAFT", Value: "draft", Title: "Draft", Order: schema.Int(1)},
				{Name: "CONFIRMED", Icon: "check"},
				{Name: "CANCELED", Hidden: schema.Bool(true), Help: "Archived."},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, cm.RoleEnum, f.Role)
		src := renderJava(t, []*cm.File{f})[filepath.Join("com", "example", "sales", "OrderStatus.java")]
		assert.Contains(t, src, "public enum OrderStatus {")
		assert.Contains(t, src, `@Widget(title = "Draft", order = 1)`)
		assert.Contains(t, src, `DRAFT("draft"),`)
		assert.Contains(t, src, `CONFIRMED("CONFIRMED"),`)
		assert.Contains(t, src, `CANCELED("CANCELED");`)
		assert.Contains(t, src, "@Widget(hidden = true)")
		assert.Contains(t, src, "private final String value;")
	})

	t.Run("numeric", func(t *testing.T) {
		f, err := em.EmitEnum(&schema.Enum{
			Name:      "Priority",
			Namespace: "com.example",
			Numeric:   true,
			Items: []*schema.EnumItem{
				{Name: "NONE"},
				{Name: "LOW", Value: "5"},
				{Name: "HIGH"},
			},
		})
		require.NoError(t, err)
		var args []string
		for _, c := range f.Unit.Constants {
			require.NotNil(t, c.Arg)
			args = append(args, c.Arg.Text)
		}
		assert.Equal(t, []string{"0", "5", "6"}, args)
	})

	t.Run("plain", func(t *testing.T) {
		f, err := em.EmitEnum(&schema.Enum{
			Name:      "Color",
			Namespace: "com.example",
			Items:     []*schema.EnumItem{{Name: "RED"}, {Name: "GREEN"}},
		})
		require.NoError(t, err)
		for _, c := range f.Unit.Constants {
			assert.Nil(t, c.Arg)
			assert.Empty(t, c.Decorations)
		}
	})

	t.Run("invalid numeric value", func(t *testing.T) {
		_, err := em.EmitEnum(&schema.Enum{
			Name:      "Bad",
			Namespace: "com.example",
			Numeric:   true,
			Items:     []*schema.EnumItem{{Name: "A", Value: "x"}},
		})
		require.Error(t, err)
		assert.True(t, springforge.IsRenderError(err))
	})
}

func TestEmitGo(t *testing.T) {
	em, err := NewEmitter(GoProfile(), true, true)
	require.NoError(t, err)
	files, err := em.EmitEntity(userEntity())
	require.NoError(t, err)
	require.Len(t, files, 3)

	repo := files[1].Unit
	assert.Nil(t, repo.Extends)
	var names []string
	for _, m := range repo.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{opSave, opFindByID, opFindAll, opDelete, "findByUsername"}, names)
	assert.Empty(t, files[0].Unit.Methods)

	r := golang.New("example.com/app")
	for _, f := range files {
		src, err := r.Render(f)
		require.NoError(t, err)
		formatted, err := FormatGo(r.Path(f), src)
		require.NoError(t, err)
		assert.NotEmpty(t, formatted)
	}
	assert.Equal(t, filepath.Join("com", "example", "user.go"), r.Path(files[0]))
	assert.Equal(t, filepath.Join("com", "example", "repo", "user_repository.go"), r.Path(files[1]))
}

func TestEmitGoReferences(t *testing.T) {
	person := &schema.Entity{
		Name:      "Person",
		Namespace: "com.example",
		Properties: []*schema.Property{
			{Name: "passport", Type: schema.TypeOneToOne, Target: "Passport"},
		},
	}
	passport := &schema.Entity{
		Name:      "Passport",
		Namespace: "com.example",
		Properties: []*schema.Property{
			{Name: "person", Type: schema.TypeOneToOne, Target: "Person", MappedBy: "passport"},
		},
	}
	category := &schema.Entity{
		Name:      "Category",
		Namespace: "com.example",
		Properties: []*schema.Property{
			{Name: "parent", Type: schema.TypeManyToOne, Target: "Category"},
			{Name: "children", Type: schema.TypeOneToMany, Target: "Category", MappedBy: "parent"},
		},
	}

	em, err := NewEmitter(GoProfile(), false, false)
	require.NoError(t, err)
	r := golang.New("example.com/app")
	render := func(e *schema.Entity) (*cm.TypeUnit, string) {
		files, err := em.EmitEntity(e)
		require.NoError(t, err)
		require.Len(t, files, 1)
		src, err := r.Render(files[0])
		require.NoError(t, err)
		formatted, err := FormatGo(r.Path(files[0]), src)
		require.NoError(t, err)
		return files[0].Unit, string(formatted)
	}

	u, src := render(person)
	assert.Equal(t, cm.Optional(cm.Declared("com.example", "Passport")), u.Fields[0].Type)
	assert.Regexp(t, `Passport\s+\*Passport\b`, src)

	_, src = render(passport)
	assert.Regexp(t, `Person\s+\*Person\b`, src)

	u, src = render(category)
	assert.Equal(t, cm.Optional(cm.Declared("com.example", "Category")), u.Fields[0].Type)
	assert.Equal(t, cm.ListOf(cm.Declared("com.example", "Category")), u.Fields[1].Type)
	assert.Regexp(t, `Parent\s+\*Category\b`, src)
	assert.Regexp(t, `Children\s+\[\]Category\b`, src)

	t.Run("java keeps plain references", func(t *testing.T) {
		em, err := NewEmitter(SpringProfile(), false, false)
		require.NoError(t, err)
		files, err := em.EmitEntity(person)
		require.NoError(t, err)
		assert.Equal(t, cm.Declared("com.example", "Passport"), files[0].Unit.Fields[0].Type)
		assert.Contains(t, renderJava(t, files)[filepath.Join("com", "example", "Person.java")], "private Passport passport;")
	})
}
