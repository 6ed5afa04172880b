package clauses

import "github.com/Anon10214/cypherc/translator"

// A WithClause passes a projection on to the next part of the query, `WITH this0, count(this1) AS var2`
type WithClause struct {
	projection *Projection
}

// Subclauses of WithClause
func (c WithClause) Subclauses() []translator.Clause {
	return []translator.Clause{c.projection}
}

// TemplateString for WithClause
func (c WithClause) TemplateString() string {
	return "WITH %s"
}
