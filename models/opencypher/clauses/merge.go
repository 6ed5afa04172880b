package clauses

import "github.com/Anon10214/cypherc/translator"

// A Merge matches a pattern or creates it if it does not exist, `MERGE (this0:Movie {title: $param1})`
//
// It supports path binding, mutation and projection.
type Merge struct {
	fragments
	pattern *Pattern
}

var mergeManifest = []Capability{PathAssign, Set, Return}

// NewMerge returns a MERGE of the passed pattern.
func NewMerge(pattern *Pattern) *Merge {
	return &Merge{
		fragments: newFragments("MERGE", mergeManifest...),
		pattern:   pattern,
	}
}

// Set appends mutations
func (c *Merge) Set(items ...SetItem) *Merge {
	must(AddSet(c, items...))
	return c
}

// Return replaces the projection with the passed items
func (c *Merge) Return(items ...ProjectionItem) *Merge {
	return c.ReturnProjection(Project(items...))
}

// ReturnProjection replaces the projection
func (c *Merge) ReturnProjection(projection *Projection) *Merge {
	must(SetReturn(c, projection))
	return c
}

// AssignToPath binds the pattern to the path reference
func (c *Merge) AssignToPath(path *translator.Reference) *Merge {
	must(SetPath(c, path))
	return c
}

// Subclauses of Merge
func (c *Merge) Subclauses() []translator.Clause {
	return append([]translator.Clause{c.pathPrefix(), c.pattern}, c.trailing()...)
}

// TemplateString for Merge
func (c *Merge) TemplateString() string {
	return compositeTemplate(c.name, len(c.trailing()))
}
