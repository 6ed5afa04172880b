package clauses

import (
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

// A FunctionExpression invokes a function with the passed arguments, `count(this0)`
type FunctionExpression struct {
	name     string
	args     []Expression
	distinct bool
}

// Function returns an invocation of the named function.
func Function(name string, args ...Expression) *FunctionExpression {
	return &FunctionExpression{name: name, args: args}
}

// Count returns `count(expr)`
func Count(expr Expression) *FunctionExpression {
	return Function("count", expr)
}

// CountAll returns `count(*)`
func CountAll() *FunctionExpression {
	return Function("count", Literal("*"))
}

// Collect returns `collect(expr)`
func Collect(expr Expression) *FunctionExpression {
	return Function("collect", expr)
}

// ID returns `id(expr)`
func ID(expr Expression) *FunctionExpression {
	return Function("id", expr)
}

// Distinct makes an aggregating function only consider distinct values, `count(DISTINCT this0)`
func (c *FunctionExpression) Distinct() *FunctionExpression {
	c.distinct = true
	return c
}

// Subclauses of FunctionExpression
func (c FunctionExpression) Subclauses() []translator.Clause {
	return expressionsToClauses(c.args)
}

// TemplateString for FunctionExpression
func (c FunctionExpression) TemplateString() string {
	placeholders := make([]string, len(c.args))
	for i := range placeholders {
		placeholders[i] = "%s"
	}
	templateString := translator.EscapeTemplate(c.name) + "("
	if c.distinct {
		templateString += "DISTINCT "
	}
	return templateString + strings.Join(placeholders, ", ") + ")"
}
