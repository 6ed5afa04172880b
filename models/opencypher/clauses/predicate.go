package clauses

import (
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// A WhereClause filters rows by a predicate, `WHERE this0.released > $param1`
type WhereClause struct {
	predicate Expression
}

// Predicate returns the filter's predicate
func (c WhereClause) Predicate() Expression {
	return c.predicate
}

// Subclauses of WhereClause, the keyword is dropped if the predicate compiles to the empty string
func (c WhereClause) Subclauses() []translator.Clause {
	return []translator.Clause{helperclauses.CreatePrefixed("WHERE ", c.predicate)}
}
