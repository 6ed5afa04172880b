package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// A Match reads the graph, `MATCH (this0:Movie)`
//
// It supports every capability: path binding, filtering, mutation, removal,
// deletion, pass-through projection and projection.
type Match struct {
	fragments
	pattern  *Pattern
	optional bool
}

var matchManifest = []Capability{PathAssign, Where, Set, Remove, Delete, With, Return}

// NewMatch returns a MATCH of the passed pattern.
func NewMatch(pattern *Pattern) *Match {
	return &Match{
		fragments: newFragments("MATCH", matchManifest...),
		pattern:   pattern,
	}
}

// NewOptionalMatch returns an OPTIONAL MATCH of the passed pattern.
func NewOptionalMatch(pattern *Pattern) *Match {
	return NewMatch(pattern).Optional()
}

// Optional turns the clause into an OPTIONAL MATCH
func (c *Match) Optional() *Match {
	c.optional = true
	c.name = "OPTIONAL MATCH"
	return c
}

// Where conjoins the predicate to the clause's filter
func (c *Match) Where(predicate Expression) *Match {
	must(AddWhere(c, predicate))
	return c
}

// OrWhere disjoins the predicate to the clause's filter
func (c *Match) OrWhere(predicate Expression) *Match {
	must(AddOrWhere(c, predicate))
	return c
}

// Set appends mutations
func (c *Match) Set(items ...SetItem) *Match {
	must(AddSet(c, items...))
	return c
}

// Remove replaces the removed properties and labels
func (c *Match) Remove(targets ...Expression) *Match {
	must(SetRemove(c, targets...))
	return c
}

// Delete replaces the deleted elements
func (c *Match) Delete(targets ...Expression) *Match {
	must(SetDelete(c, false, targets...))
	return c
}

// DetachDelete replaces the deleted elements, deleting their relationships along with them
func (c *Match) DetachDelete(targets ...Expression) *Match {
	must(SetDelete(c, true, targets...))
	return c
}

// With replaces the pass-through projection with the passed items
func (c *Match) With(items ...ProjectionItem) *Match {
	return c.WithProjection(Project(items...))
}

// WithProjection replaces the pass-through projection
func (c *Match) WithProjection(projection *Projection) *Match {
	must(SetWith(c, projection))
	return c
}

// Return replaces the projection with the passed items
func (c *Match) Return(items ...ProjectionItem) *Match {
	return c.ReturnProjection(Project(items...))
}

// ReturnProjection replaces the projection
func (c *Match) ReturnProjection(projection *Projection) *Match {
	must(SetReturn(c, projection))
	return c
}

// AssignToPath binds the pattern to the path reference
func (c *Match) AssignToPath(path *translator.Reference) *Match {
	must(SetPath(c, path))
	return c
}

// Subclauses of Match
func (c *Match) Subclauses() []translator.Clause {
	return append([]translator.Clause{c.pathPrefix(), c.pattern}, c.trailing()...)
}

// TemplateString for Match
func (c *Match) TemplateString() string {
	return compositeTemplate(c.name, len(c.trailing()))
}

// compositeTemplate returns the template of a composite clause,
// the keyword followed by the path prefix, the pattern and the trailing fragments.
func compositeTemplate(keyword string, trailing int) string {
	return keyword + " %s%s" + strings.Repeat("%s", trailing)
}
