package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ForestMars/DrZONST/pkg/core"
)

func TestMethodSignature(t *testing.T) {
	tests := []struct {
		name string
		m    core.Method
		want string
	}{
		{
			name: "param and return",
			m:    core.Method{Name: "findById", Params: []core.Param{{Name: "id", Type: "Text"}}, Returns: "Book"},
			want: "findById(id: Text): Book",
		},
		{
			name: "no params",
			m:    core.Method{Name: "findAll", Returns: "List<Book>"},
			want: "findAll(): List<Book>",
		},
		{
			name: "no return",
			m:    core.Method{Name: "save", Params: []core.Param{{Name: "book", Type: "Book"}}},
			want: "save(book: Book)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Signature())
		})
	}
}

func TestPermissionRule(t *testing.T) {
	assert.Equal(t, "", core.Permission{}.Rule())
	assert.Equal(t, "True for ADMIN role", core.Permission{Roles: []string{core.RoleAdmin}}.Rule())
	assert.Equal(t, "True for ADMIN or REGULAR_USER roles",
		core.Permission{Roles: []string{core.RoleAdmin, core.RoleRegularUser}}.Rule())
}

func TestModelHasValueObject(t *testing.T) {
	m := core.Model{ValueObjects: []core.ValueObject{{Name: "Role"}}}
	assert.True(t, m.HasValueObject("Role"))
	assert.False(t, m.HasValueObject("Email"))
}

func TestModelHasEntity(t *testing.T) {
	m := core.Model{Entities: []core.Entity{{Name: "Role"}}}
	assert.True(t, m.HasEntity("Role"))
	assert.False(t, m.HasValueObject("Role"))
}
