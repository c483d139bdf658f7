package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForestMars/DrZONST/pkg/core"
	"github.com/ForestMars/DrZONST/pkg/infer"
)

func bookThing() core.Thing {
	return core.Thing{
		Name:        "Book",
		Description: "A book in the store.",
		Properties: []core.Property{
			{Name: "title", Description: "text, required"},
			{Name: "id", Description: "text, unique, required"},
		},
		Rules:   []string{"Quantity must not be negative"},
		Actions: []string{"Add Book: Adds a book", "Archive"},
	}
}

func bookshop() core.Document {
	doc := core.NewDocument()
	doc.Overview = core.Overview{Description: "Inventory tool.", BusinessArea: "Bookshop Inventory"}
	doc.Things = []core.Thing{
		bookThing(),
		{
			Name:        "User",
			Description: "A person.",
			Properties: []core.Property{
				{Name: "email", Description: "text, valid email, required"},
				{Name: "roles", Description: "list of roles, required"},
			},
		},
		{Name: "Shelf", Description: "A shelf."},
	}
	doc.Operations = []core.Operation{
		{
			Name:          "Add Book",
			Who:           "Admin Only",
			Inputs:        []core.Input{{Name: "title", Type: "text"}, {Name: "quantity", Type: "number"}},
			Notifications: []string{"A book was added to the inventory."},
		},
		{Name: "View Inventory", Who: "All Users"},
	}
	doc.Connections = []core.Term{{Name: "Book-Inventory", Description: "Books belong to the inventory."}}
	return doc
}

func TestInfer_EndToEndBook(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{bookThing()}

	m := infer.New().Infer(doc)

	require.Len(t, m.Entities, 1)
	book := m.Entities[0]
	assert.Equal(t, "Book", book.Name)
	assert.Equal(t, []core.Attribute{
		{Name: "title", Type: "Text", Constraints: []string{"required"}},
		{Name: "id", Type: "Text", Constraints: []string{"unique", "required"}},
	}, book.Attributes)
	assert.Equal(t, []core.Behavior{
		{Name: "Add Book", Description: "Adds a book"},
		{Name: "Archive", Description: "Performs archive."},
	}, book.Behaviors)
	assert.Equal(t, []string{"Quantity must not be negative"}, book.Invariants)

	assert.Equal(t, []core.Aggregate{{Name: "Book", Root: "Book"}}, m.Aggregates)

	require.Len(t, m.Repositories, 1)
	repo := m.Repositories[0]
	assert.Equal(t, "BookRepository", repo.Name)
	require.Len(t, repo.Methods, 4)
	sigs := make([]string, 0, 4)
	for _, meth := range repo.Methods {
		sigs = append(sigs, meth.Signature())
	}
	assert.Equal(t, []string{
		"findById(id: Text): Book",
		"findAll(): List<Book>",
		"save(book: Book)",
		"delete(book: Book)",
	}, sigs)
}

func TestInfer_PartitionsThings(t *testing.T) {
	m := infer.New().Infer(bookshop())

	names := map[string]int{}
	for _, e := range m.Entities {
		names[e.Name]++
	}
	for _, vo := range m.ValueObjects {
		names[vo.Name]++
	}
	for _, th := range []string{"Book", "User", "Shelf"} {
		assert.Equal(t, 1, names[th], "thing %s must appear exactly once", th)
	}
	assert.Len(t, m.Entities, 1)
	assert.Len(t, m.Aggregates, len(m.Entities))
	assert.Len(t, m.Repositories, len(m.Entities))
}

func TestInfer_Bookshop(t *testing.T) {
	m := infer.New().Infer(bookshop())

	assert.Equal(t, "BookshopInventory", m.BoundedContext)
	assert.Equal(t, "Inventory tool.", m.Description)

	var voNames []string
	for _, vo := range m.ValueObjects {
		voNames = append(voNames, vo.Name)
	}
	assert.Equal(t, []string{"User", "Shelf", "Id", "Email", "Role"}, voNames)

	user := m.ValueObjects[0]
	assert.Equal(t, []core.Attribute{{Name: "email", Type: "Text"}, {Name: "roles", Type: "List"}}, user.Attributes)

	id := m.ValueObjects[2]
	assert.Equal(t, "Id for Book.", id.Description)
	assert.Equal(t, []core.Attribute{{Name: "value", Type: "Text"}}, id.Attributes)
	assert.Equal(t, []string{"unique", "required"}, id.Invariants)

	email := m.ValueObjects[3]
	assert.Equal(t, "Email for User.", email.Description)
	assert.Equal(t, []string{"valid email", "required"}, email.Invariants)

	require.Len(t, m.Events, 1)
	assert.Equal(t, core.DomainEvent{
		Name:        "BookWas",
		Description: "A book was added to the inventory.",
		Attributes:  []core.Attribute{{Name: "title", Type: "Text"}, {Name: "quantity", Type: "Number"}},
	}, m.Events[0])

	require.NotNil(t, m.Service)
	assert.Equal(t, infer.DefaultPolicyName, m.Service.Name)
	require.Len(t, m.Service.Behaviors, 2)
	assert.Equal(t, "canAddBook", m.Service.Behaviors[0].Name)
	assert.Equal(t, "Checks if a user can add book.", m.Service.Behaviors[0].Description)
	assert.Equal(t, "True for ADMIN role", m.Service.Behaviors[0].Rule())
	assert.Equal(t, "canViewInventory", m.Service.Behaviors[1].Name)
	assert.Equal(t, "True for ADMIN or REGULAR_USER roles", m.Service.Behaviors[1].Rule())

	assert.Equal(t, []core.Term{{Name: "Book-Inventory", Description: "Books belong to the inventory."}}, m.Relationships)
}

func TestInfer_RoleSynthesisIsDeterministic(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{
		{Name: "User", Properties: []core.Property{{Name: "roles", Description: "list of roles"}}},
		{Name: "Group", Properties: []core.Property{{Name: "members", Description: "List Of Roles, optional"}}},
	}

	m := infer.New().Infer(doc)

	var roles []core.ValueObject
	for _, vo := range m.ValueObjects {
		if vo.Name == "Role" {
			roles = append(roles, vo)
		}
	}
	require.Len(t, roles, 1)
	require.Len(t, roles[0].Instances, 2)
	assert.Equal(t, core.RoleAdmin, roles[0].Instances[0].Name)
	assert.Equal(t, core.RoleRegularUser, roles[0].Instances[1].Name)
	assert.Equal(t, []string{"name must be ADMIN or REGULAR_USER"}, roles[0].Invariants)
}

func TestInfer_RoleThingReceivesInstances(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{
		{Name: "Role", Description: "A role.", Properties: []core.Property{{Name: "label", Description: "text"}}},
		{Name: "User", Properties: []core.Property{{Name: "roles", Description: "list of roles"}}},
	}

	m := infer.New().Infer(doc)

	require.Len(t, m.ValueObjects, 2)
	role := m.ValueObjects[0]
	assert.Equal(t, "A role.", role.Description)
	assert.Len(t, role.Instances, 2)
}

func TestInfer_RoleEntitySuppressesEnumeration(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{
		{Name: "Role", Properties: []core.Property{{Name: "code", Description: "text, unique"}}},
		{Name: "User", Properties: []core.Property{{Name: "roles", Description: "list of roles"}}},
	}

	m := infer.New().Infer(doc)

	require.Len(t, m.Entities, 1)
	assert.Equal(t, "Role", m.Entities[0].Name)
	assert.False(t, m.HasValueObject("Role"))
}

func TestInfer_RepeatedThingNamesKeepEveryThing(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{
		{Name: "Tag", Properties: []core.Property{{Name: "label", Description: "text"}}},
		{Name: "Tag", Properties: []core.Property{{Name: "color", Description: "text"}}},
	}

	m := infer.New().Infer(doc)

	assert.Empty(t, m.Entities)
	require.Len(t, m.ValueObjects, 2)
	assert.Equal(t, "label", m.ValueObjects[0].Attributes[0].Name)
	assert.Equal(t, "color", m.ValueObjects[1].Attributes[0].Name)
}

func TestInfer_IdentifierValueObjectsAreDeduplicated(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{
		{Name: "Book", Properties: []core.Property{{Name: "id", Description: "text, unique"}}},
		{Name: "Author", Properties: []core.Property{{Name: "id", Description: "number, unique"}}},
	}

	m := infer.New().Infer(doc)

	var ids int
	for _, vo := range m.ValueObjects {
		if vo.Name == "Id" {
			ids++
			assert.Equal(t, "Id for Book.", vo.Description)
		}
	}
	assert.Equal(t, 1, ids)
	assert.Len(t, m.Entities, 2)
}

func TestInfer_PermissionRules(t *testing.T) {
	tests := []struct {
		who  string
		rule string
	}{
		{who: "All Users", rule: "True for ADMIN or REGULAR_USER roles"},
		{who: "all users can do it", rule: "True for ADMIN or REGULAR_USER roles"},
		{who: "Admin Only", rule: "True for ADMIN role"},
		{who: "Admin only.", rule: "True for ADMIN role"},
		{who: "Manager", rule: "True for MANAGER role"},
		{who: "Admin and Manager Only", rule: "True for ADMIN AND MANAGER role"},
		{who: "", rule: ""},
		{who: "Only", rule: ""},
	}

	for _, tt := range tests {
		t.Run(tt.who, func(t *testing.T) {
			doc := core.NewDocument()
			doc.Operations = []core.Operation{{Name: "Do It", Who: tt.who}}

			m := infer.New().Infer(doc)

			require.NotNil(t, m.Service)
			require.Len(t, m.Service.Behaviors, 1)
			assert.Equal(t, tt.rule, m.Service.Behaviors[0].Rule())
		})
	}
}

func TestInfer_EmptyDocument(t *testing.T) {
	m := infer.New().Infer(core.NewDocument())

	assert.Equal(t, infer.DefaultContextName, m.BoundedContext)
	assert.Empty(t, m.Entities)
	assert.Empty(t, m.ValueObjects)
	assert.Empty(t, m.Events)
	assert.Nil(t, m.Service)
}

func TestInfer_Options(t *testing.T) {
	doc := core.NewDocument()
	doc.Operations = []core.Operation{{Name: "Ship", Who: "Clerk", Notifications: []string{"Order shipped"}}}

	flagged := infer.OperationRule{
		Name:  "audit",
		Match: func(op core.Operation) bool { return op.Name == "Ship" },
		Apply: func(b *infer.Builder, op core.Operation) {
			b.Model.Events = append(b.Model.Events, core.DomainEvent{Name: op.Name + "Audited"})
		},
	}
	m := infer.New(
		infer.WithContextFallback("Orders"),
		infer.WithPolicy("OrderPolicy", ""),
		infer.WithOperationRules(flagged),
	).Infer(doc)

	assert.Equal(t, "Orders", m.BoundedContext)
	require.NotNil(t, m.Service)
	assert.Equal(t, "OrderPolicy", m.Service.Name)
	assert.Equal(t, infer.DefaultPolicyDescription, m.Service.Description)

	require.Len(t, m.Events, 2)
	assert.Equal(t, "Shipped", m.Events[0].Name)
	assert.Equal(t, "ShipAudited", m.Events[1].Name)
}

func TestInfer_CustomThingRuleWinsFirst(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{bookThing()}

	skip := infer.ThingRule{
		Name:  "skip-books",
		Match: func(t core.Thing) bool { return t.Name == "Book" },
		Apply: func(*infer.Builder, core.Thing) {},
	}
	m := infer.New(infer.WithThingRules(skip)).Infer(doc)

	assert.Empty(t, m.Entities)
	assert.Empty(t, m.Repositories)
}

func TestInfer_DoesNotAliasDocument(t *testing.T) {
	doc := core.NewDocument()
	doc.Things = []core.Thing{bookThing()}

	m := infer.New().Infer(doc)
	m.Entities[0].Invariants[0] = "changed"

	assert.Equal(t, "Quantity must not be negative", doc.Things[0].Rules[0])
}
