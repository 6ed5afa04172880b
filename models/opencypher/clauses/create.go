package clauses

import "github.com/Anon10214/cypherc/translator"

// A Create writes a pattern to the graph, `CREATE (this0:Movie {title: $param1})`
//
// It supports path binding, mutation and projection.
type Create struct {
	fragments
	pattern *Pattern
}

var createManifest = []Capability{PathAssign, Set, Return}

// NewCreate returns a CREATE of the passed pattern.
func NewCreate(pattern *Pattern) *Create {
	return &Create{
		fragments: newFragments("CREATE", createManifest...),
		pattern:   pattern,
	}
}

// Set appends mutations
func (c *Create) Set(items ...SetItem) *Create {
	must(AddSet(c, items...))
	return c
}

// Return replaces the projection with the passed items
func (c *Create) Return(items ...ProjectionItem) *Create {
	return c.ReturnProjection(Project(items...))
}

// ReturnProjection replaces the projection
func (c *Create) ReturnProjection(projection *Projection) *Create {
	must(SetReturn(c, projection))
	return c
}

// AssignToPath binds the pattern to the path reference
func (c *Create) AssignToPath(path *translator.Reference) *Create {
	must(SetPath(c, path))
	return c
}

// Subclauses of Create
func (c *Create) Subclauses() []translator.Clause {
	return append([]translator.Clause{c.pathPrefix(), c.pattern}, c.trailing()...)
}

// TemplateString for Create
func (c *Create) TemplateString() string {
	return compositeTemplate(c.name, len(c.trailing()))
}
