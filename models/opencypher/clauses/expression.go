/*
Package clauses models the openCypher clauses and expressions a query can be assembled from.

Every type in this package is a [translator.Clause]. Clauses never hold
query text for references or parameters, those get resolved by the
[translator.Environment] of the build the clause is compiled in.
*/
package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/translator"
	"github.com/Anon10214/cypherc/translator/helperclauses"
)

// An Expression is a clause evaluating to a value, e.g. a reference, a parameter or a comparison.
//
// References and parameters are expressions as they are.
type Expression interface {
	translator.Clause
}

// Literal returns an expression compiling to the passed text verbatim.
//
// Prefer parameters for values, literals are meant for constants such as `*` or `null`.
func Literal(text string) Expression {
	return helperclauses.CreateStringer(text)
}

// Param returns a fresh parameter holding the passed value.
func Param(value any) Expression {
	return translator.NewParam(value)
}

type PropertyExpression struct {
	subject Expression
	name    string
}

// Property returns an expression accessing the named property of the subject, `this0.title`
func Property(subject Expression, name string) *PropertyExpression {
	return &PropertyExpression{subject: subject, name: name}
}

// Subclauses of PropertyExpression
func (c PropertyExpression) Subclauses() []translator.Clause {
	return []translator.Clause{c.subject}
}

// TemplateString for PropertyExpression
func (c PropertyExpression) TemplateString() string {
	return "%s." + escapeName(c.name)
}

// escapeName returns the name as it has to appear in a template string,
// backtick quoting it if it isn't a plain identifier.
func escapeName(name string) string {
	if !config.IsIdentifier(name) {
		name = "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return translator.EscapeTemplate(name)
}
