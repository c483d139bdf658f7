package csl_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForestMars/DrZONST/pkg/core"
	"github.com/ForestMars/DrZONST/pkg/csl"
)

func sampleModel() core.Model {
	return core.Model{
		BoundedContext: "BookshopInventory",
		Description:    "Inventory tool.",
		Aggregates:     []core.Aggregate{{Name: "Book", Root: "Book"}},
		Entities: []core.Entity{{
			Name:        "Book",
			Description: "A book.",
			Attributes: []core.Attribute{
				{Name: "title", Type: "Text", Constraints: []string{"required"}},
				{Name: "id", Type: "Text", Constraints: []string{"unique", "required"}},
				{Name: "tags", Type: "List"},
			},
			Invariants: []string{"Quantity must not be negative", "Title is \"trimmed\""},
			Behaviors:  []core.Behavior{{Name: "Add Book", Description: "Adds a book"}},
		}},
		ValueObjects: []core.ValueObject{
			{
				Name:        "Role",
				Description: "Represents a user role.",
				Attributes:  []core.Attribute{{Name: "name", Type: "String"}},
				Invariants:  []string{"name must be ADMIN or REGULAR_USER"},
				Instances: []core.Instance{
					{Name: "ADMIN", Description: "Grants add/remove permissions"},
					{Name: "REGULAR_USER", Description: "Grants view permissions"},
				},
			},
			{Name: "Shelf", Description: "A shelf.", Attributes: []core.Attribute{}, Invariants: []string{}},
		},
		Service: &core.DomainService{
			Name:        "InventoryPermissionPolicy",
			Description: "Manages permissions for inventory operations.",
			Behaviors: []core.Permission{
				{Name: "canAddBook", Description: "Checks if a user can add book.", Roles: []string{"ADMIN"}},
			},
		},
		Events: []core.DomainEvent{{
			Name:        "BookWas",
			Description: "A book was added.",
			Attributes:  []core.Attribute{{Name: "title", Type: "Text"}},
		}},
		Repositories: []core.Repository{{
			Name:   "BookRepository",
			Entity: "Book",
			Methods: []core.Method{
				{Name: "findById", Params: []core.Param{{Name: "id", Type: "Text"}}, Returns: "Book"},
				{Name: "findAll", Returns: "List<Book>"},
				{Name: "save", Params: []core.Param{{Name: "book", Type: "Book"}}},
			},
		}},
	}
}

const sampleNotation = `BoundedContext BookshopInventory {
  description: "Inventory tool."

  Aggregate Book {
    description: "Represents a book."
    root: Book
  }

  Entity Book {
    description: "A book."
    attributes: {
      title: Text{required}
      id: Text{unique, required}
      tags: List
    }
    invariants: {
      I1: "Quantity must not be negative"
      I2: "Title is \"trimmed\""
    }
    behaviors: {
      Add Book: "Adds a book"
    }
  }

  ValueObject Role {
    description: "Represents a user role."
    attributes: {
      name: String
    }
    invariants: {
      I1: "name must be ADMIN or REGULAR_USER"
    }
    instances: {
      ADMIN: "Grants add/remove permissions"
      REGULAR_USER: "Grants view permissions"
    }
  }

  ValueObject Shelf {
    description: "A shelf."
    attributes: {
    }
    invariants: {
    }
  }

  DomainService InventoryPermissionPolicy {
    description: "Manages permissions for inventory operations."
    behaviors: {
      canAddBook: Boolean
        description: "Checks if a user can add book."
        rule: "True for ADMIN role"
    }
  }

  DomainEvent BookWas {
    description: "A book was added."
    attributes: {
      title: Text
    }
  }

  Repository BookRepository {
    description: "Manages Book persistence."
    behaviors: {
      findById(id: Text): Book
      findAll(): List<Book>
      save(book: Book)
    }
  }

}
`

func TestGenerate_Golden(t *testing.T) {
	assert.Equal(t, sampleNotation, csl.New().Generate(sampleModel()))
}

func TestGenerate_Deterministic(t *testing.T) {
	g := csl.New()
	m := sampleModel()
	assert.Equal(t, g.Generate(m), g.Generate(m))
}

func TestGenerate_EmptyModel(t *testing.T) {
	out := csl.New().Generate(core.Model{BoundedContext: "UnnamedContext"})
	assert.Equal(t, "BoundedContext UnnamedContext {\n  description: \"\"\n\n}\n", out)
}

func TestGenerate_BlockOrder(t *testing.T) {
	out := csl.New().Generate(sampleModel())

	order := []string{"  Aggregate ", "  Entity ", "  ValueObject ", "  DomainService ", "  DomainEvent ", "  Repository "}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.NotEqual(t, -1, idx, marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}

func TestGenerate_InvariantNumberingRestarts(t *testing.T) {
	m := core.Model{
		BoundedContext: "X",
		ValueObjects: []core.ValueObject{
			{Name: "A", Invariants: []string{"a1", "a2"}},
			{Name: "B", Invariants: []string{"b1"}},
		},
	}
	out := csl.New().Generate(m)

	assert.Contains(t, out, "I2: \"a2\"")
	assert.Contains(t, out, "I1: \"b1\"")
	assert.NotContains(t, out, "I3")
}

func TestAttribute(t *testing.T) {
	assert.Equal(t, "id: Text{unique, required}", csl.Attribute(core.Attribute{Name: "id", Type: "Text", Constraints: []string{"unique", "required"}}))
	assert.Equal(t, "tags: List", csl.Attribute(core.Attribute{Name: "tags", Type: "List"}))
}
