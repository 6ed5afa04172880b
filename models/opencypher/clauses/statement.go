package clauses

import (
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// A Statement is a sequence of clauses, compiled one per line.
type Statement struct {
	clauses []translator.Clause
}

// NewStatement returns a statement consisting of the passed clauses.
func NewStatement(clauses ...translator.Clause) *Statement {
	return &Statement{clauses: clauses}
}

// Append appends clauses to the statement
func (s *Statement) Append(clauses ...translator.Clause) *Statement {
	s.clauses = append(s.clauses, clauses...)
	return s
}

// Clauses returns the statement's clauses
func (s *Statement) Clauses() []translator.Clause {
	return s.clauses
}

// Subclauses of Statement
func (s *Statement) Subclauses() []translator.Clause {
	return []translator.Clause{helperclauses.CreateJoiner("\n", s.clauses...)}
}
