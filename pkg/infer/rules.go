package infer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Builder accumulates the model while rules fire.
type Builder struct {
	Model  core.Model
	Logger *slog.Logger

	policyName        string
	policyDescription string
}

// AddValueObject appends a synthesized vo unless an entity or value object
// with the same name exists. It reports whether vo was added.
func (b *Builder) AddValueObject(vo core.ValueObject) bool {
	if b.Model.HasValueObject(vo.Name) || b.Model.HasEntity(vo.Name) {
		return false
	}
	b.Model.ValueObjects = append(b.Model.ValueObjects, vo)
	return true
}

// Policy returns the domain service, creating it on first use.
func (b *Builder) Policy() *core.DomainService {
	if b.Model.Service == nil {
		b.Model.Service = &core.DomainService{
			Name:        b.policyName,
			Description: b.policyDescription,
			Behaviors:   []core.Permission{},
		}
	}
	return b.Model.Service
}

// ThingRule classifies a Thing. The first matching rule wins, so every
// Thing lands in exactly one category.
type ThingRule struct {
	Name  string
	Match func(t core.Thing) bool
	Apply func(b *Builder, t core.Thing)
}

// PropertyRule reacts to one property of a Thing. Every matching rule fires.
type PropertyRule struct {
	Name  string
	Match func(p core.Property) bool
	Apply func(b *Builder, owner core.Thing, p core.Property)
}

// OperationRule reacts to one operation. Every matching rule fires.
type OperationRule struct {
	Name  string
	Match func(op core.Operation) bool
	Apply func(b *Builder, op core.Operation)
}

// DefaultThingRules classify Things with a unique property as entities and
// everything else as value objects.
func DefaultThingRules() []ThingRule {
	return []ThingRule{EntityRule(), ValueObjectRule()}
}

// DefaultPropertyRules synthesize identifier value objects and the Role enumeration.
func DefaultPropertyRules() []PropertyRule {
	return []PropertyRule{IdentifierRule(), RoleRule()}
}

// DefaultOperationRules derive domain events and permission checks.
func DefaultOperationRules() []OperationRule {
	return []OperationRule{EventRule(), PermissionRule()}
}

// EntityRule turns a Thing with an identifying property into an entity,
// its aggregate and its repository.
func EntityRule() ThingRule {
	return ThingRule{
		Name:  "entity",
		Match: func(t core.Thing) bool { _, ok := identifier(t); return ok },
		Apply: func(b *Builder, t core.Thing) {
			id, _ := identifier(t)
			b.Model.Entities = append(b.Model.Entities, core.Entity{
				Name:        t.Name,
				Description: t.Description,
				Attributes:  entityAttributes(t.Properties),
				Invariants:  clone(t.Rules),
				Behaviors:   behaviors(t.Actions),
			})
			b.Model.Aggregates = append(b.Model.Aggregates, core.Aggregate{
				Name: t.Name,
				Root: t.Name,
			})
			b.Model.Repositories = append(b.Model.Repositories, RepositoryFor(t.Name, id))
		},
	}
}

// ValueObjectRule turns any Thing into a value object.
func ValueObjectRule() ThingRule {
	return ThingRule{
		Name:  "value-object",
		Match: func(core.Thing) bool { return true },
		Apply: func(b *Builder, t core.Thing) {
			attrs := make([]core.Attribute, 0, len(t.Properties))
			for _, p := range t.Properties {
				attrs = append(attrs, core.Attribute{Name: p.Name, Type: AttributeType(p.Description)})
			}
			vo := core.ValueObject{
				Name:        t.Name,
				Description: t.Description,
				Attributes:  attrs,
				Invariants:  clone(t.Rules),
			}
			// Things map 1:1, so a repeated name still yields its own block.
			if b.Model.HasValueObject(t.Name) {
				b.Logger.Warn("value object name repeated", "name", t.Name)
			}
			b.Model.ValueObjects = append(b.Model.ValueObjects, vo)
		},
	}
}

// IdentifierRule synthesizes a single-valued value object for every unique
// or valid-email property.
func IdentifierRule() PropertyRule {
	return PropertyRule{
		Name: "identifier",
		Match: func(p core.Property) bool {
			return containsFold(p.Description, "unique") || containsFold(p.Description, "valid email")
		},
		Apply: func(b *Builder, owner core.Thing, p core.Property) {
			name := UpperFirst(p.Name)
			vo := core.ValueObject{
				Name:        name,
				Description: fmt.Sprintf("%s for %s.", name, owner.Name),
				Attributes:  []core.Attribute{{Name: "value", Type: SegmentType(p.Description)}},
				Invariants:  Constraints(p.Description),
			}
			if !b.AddValueObject(vo) {
				b.Logger.Debug("identifier value object already present", "name", name, "owner", owner.Name)
			}
		},
	}
}

// RoleRule adds the Role enumeration the first time a "list of roles"
// property is seen. An existing Role value object receives the instances; a
// Role entity suppresses it.
func RoleRule() PropertyRule {
	return PropertyRule{
		Name:  "role",
		Match: func(p core.Property) bool { return containsFold(p.Description, "list of roles") },
		Apply: func(b *Builder, _ core.Thing, _ core.Property) {
			for i := range b.Model.ValueObjects {
				vo := &b.Model.ValueObjects[i]
				if vo.Name != "Role" {
					continue
				}
				if len(vo.Instances) == 0 {
					vo.Instances = roleInstances()
				}
				return
			}
			if !b.AddValueObject(RoleValueObject()) {
				b.Logger.Debug("role entity present, enumeration skipped")
			}
		},
	}
}

// RoleValueObject is the fixed two-member role enumeration.
func RoleValueObject() core.ValueObject {
	return core.ValueObject{
		Name:        "Role",
		Description: "Represents a user role.",
		Attributes:  []core.Attribute{{Name: "name", Type: "String"}},
		Invariants:  []string{fmt.Sprintf("name must be %s or %s", core.RoleAdmin, core.RoleRegularUser)},
		Instances:   roleInstances(),
	}
}

func roleInstances() []core.Instance {
	return []core.Instance{
		{Name: core.RoleAdmin, Description: "Grants add/remove permissions"},
		{Name: core.RoleRegularUser, Description: "Grants view permissions"},
	}
}

// EventRule emits one domain event per notification of an operation.
func EventRule() OperationRule {
	return OperationRule{
		Name:  "event",
		Match: func(op core.Operation) bool { return len(op.Notifications) > 0 },
		Apply: func(b *Builder, op core.Operation) {
			attrs := make([]core.Attribute, 0, len(op.Inputs))
			for _, in := range op.Inputs {
				attrs = append(attrs, core.Attribute{Name: in.Name, Type: SegmentType(in.Type)})
			}
			for _, n := range op.Notifications {
				name := EventName(n)
				if name == "" {
					b.Logger.Debug("notification too short for an event name", "operation", op.Name, "notification", n)
					continue
				}
				b.Model.Events = append(b.Model.Events, core.DomainEvent{
					Name:        name,
					Description: n,
					Attributes:  clone(attrs),
				})
			}
		},
	}
}

// PermissionRule adds one permission check per operation to the domain service.
func PermissionRule() OperationRule {
	return OperationRule{
		Name:  "permission",
		Match: func(core.Operation) bool { return true },
		Apply: func(b *Builder, op core.Operation) {
			svc := b.Policy()
			svc.Behaviors = append(svc.Behaviors, core.Permission{
				Name:        "can" + JoinCapitalized(op.Name),
				Description: fmt.Sprintf("Checks if a user can %s.", strings.ToLower(op.Name)),
				Roles:       RolesFor(op.Who),
			})
		},
	}
}

// RepositoryFor builds the four-method repository of an entity.
// The findById parameter is typed from the identifying property.
func RepositoryFor(entity string, id core.Property) core.Repository {
	param := strings.ToLower(entity)
	return core.Repository{
		Name:   entity + "Repository",
		Entity: entity,
		Methods: []core.Method{
			{Name: "findById", Params: []core.Param{{Name: id.Name, Type: SegmentType(id.Description)}}, Returns: entity},
			{Name: "findAll", Params: []core.Param{}, Returns: ListType + "<" + entity + ">"},
			{Name: "save", Params: []core.Param{{Name: param, Type: entity}}},
			{Name: "delete", Params: []core.Param{{Name: param, Type: entity}}},
		},
	}
}

// identifier returns the first property whose description marks it unique.
func identifier(t core.Thing) (core.Property, bool) {
	for _, p := range t.Properties {
		if containsFold(p.Description, "unique") {
			return p, true
		}
	}
	return core.Property{}, false
}

func entityAttributes(props []core.Property) []core.Attribute {
	attrs := make([]core.Attribute, 0, len(props))
	for _, p := range props {
		attrs = append(attrs, core.Attribute{
			Name:        p.Name,
			Type:        AttributeType(p.Description),
			Constraints: Constraints(p.Description),
		})
	}
	return attrs
}

func behaviors(actions []string) []core.Behavior {
	out := make([]core.Behavior, 0, len(actions))
	for _, a := range actions {
		name, desc, _ := strings.Cut(a, ":")
		name, desc = strings.TrimSpace(name), strings.TrimSpace(desc)
		if name == "" {
			continue
		}
		if desc == "" {
			desc = fmt.Sprintf("Performs %s.", strings.ToLower(name))
		}
		out = append(out, core.Behavior{Name: name, Description: desc})
	}
	return out
}

func clone[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
