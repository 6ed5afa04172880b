package clauses

import (
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// A RemoveClause removes properties and labels, `REMOVE this0.title, this0:Movie`
type RemoveClause struct {
	targets []Expression
}

// Subclauses of RemoveClause
func (c RemoveClause) Subclauses() []translator.Clause {
	if len(c.targets) == 0 {
		return nil
	}
	return []translator.Clause{helperclauses.CreateJoiner(", ", expressionsToClauses(c.targets)...)}
}

// TemplateString for RemoveClause
func (c RemoveClause) TemplateString() string {
	if len(c.targets) == 0 {
		return ""
	}
	return "REMOVE %s"
}

func expressionsToClauses(expressions []Expression) []translator.Clause {
	clauses := make([]translator.Clause, len(expressions))
	for i, expr := range expressions {
		clauses[i] = expr
	}
	return clauses
}
