package clauses

import (
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// A DeleteClause deletes nodes and relationships, `DETACH DELETE this0`
type DeleteClause struct {
	targets []Expression
	detach  bool
}

// Subclauses of DeleteClause
func (c DeleteClause) Subclauses() []translator.Clause {
	if len(c.targets) == 0 {
		return nil
	}
	return []translator.Clause{helperclauses.CreateJoiner(", ", expressionsToClauses(c.targets)...)}
}

// TemplateString for DeleteClause
func (c DeleteClause) TemplateString() string {
	if len(c.targets) == 0 {
		return ""
	}
	if c.detach {
		return "DETACH DELETE %s"
	}
	return "DELETE %s"
}
