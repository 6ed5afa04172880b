package clauses

import (
	"slices"
	"strings"

	"github.com/Anon10214/cypherc/translator"
)

const (
	andOperator = "AND"
	orOperator  = "OR"
	xorOperator = "XOR"
)

// A BinaryExpression applies an infix operator to two operands.
type BinaryExpression struct {
	left, right Expression
	operator    string
}

func binary(left Expression, operator string, right Expression) *BinaryExpression {
	return &BinaryExpression{left: left, right: right, operator: operator}
}

// Eq compares the operands for equality, `a = b`
func Eq(left, right Expression) *BinaryExpression { return binary(left, "=", right) }

// Neq compares the operands for inequality, `a <> b`
func Neq(left, right Expression) *BinaryExpression { return binary(left, "<>", right) }

// Lt returns `a < b`
func Lt(left, right Expression) *BinaryExpression { return binary(left, "<", right) }

// Lte returns `a <= b`
func Lte(left, right Expression) *BinaryExpression { return binary(left, "<=", right) }

// Gt returns `a > b`
func Gt(left, right Expression) *BinaryExpression { return binary(left, ">", right) }

// Gte returns `a >= b`
func Gte(left, right Expression) *BinaryExpression { return binary(left, ">=", right) }

// In checks for list membership, `a IN b`
func In(left, right Expression) *BinaryExpression { return binary(left, "IN", right) }

// Contains returns `a CONTAINS b`
func Contains(left, right Expression) *BinaryExpression { return binary(left, "CONTAINS", right) }

// StartsWith returns `a STARTS WITH b`
func StartsWith(left, right Expression) *BinaryExpression {
	return binary(left, "STARTS WITH", right)
}

// EndsWith returns `a ENDS WITH b`
func EndsWith(left, right Expression) *BinaryExpression { return binary(left, "ENDS WITH", right) }

// Subclauses of BinaryExpression
func (c BinaryExpression) Subclauses() []translator.Clause {
	return []translator.Clause{c.left, c.right}
}

// TemplateString for BinaryExpression
func (c BinaryExpression) TemplateString() string {
	return "%s " + c.operator + " %s"
}

// A UnaryExpression applies a prefix or postfix operator to a single operand.
type UnaryExpression struct {
	operand        Expression
	templateString string
}

// Not negates the operand, `NOT a`
func Not(operand Expression) *UnaryExpression {
	return &UnaryExpression{operand: operand, templateString: "NOT %s"}
}

// IsNull returns `a IS NULL`
func IsNull(operand Expression) *UnaryExpression {
	return &UnaryExpression{operand: operand, templateString: "%s IS NULL"}
}

// IsNotNull returns `a IS NOT NULL`
func IsNotNull(operand Expression) *UnaryExpression {
	return &UnaryExpression{operand: operand, templateString: "%s IS NOT NULL"}
}

// Subclauses of UnaryExpression
func (c UnaryExpression) Subclauses() []translator.Clause {
	return []translator.Clause{c.operand}
}

// TemplateString for UnaryExpression
func (c UnaryExpression) TemplateString() string {
	return c.templateString
}

// A BooleanExpression combines any number of operands with the same boolean operator.
//
// Two or more operands are parenthesized, a single operand is rendered as it is.
// Operands compiling to the empty string are left out.
type BooleanExpression struct {
	operator string
	operands []Expression
}

// And conjoins the operands
func And(operands ...Expression) *BooleanExpression {
	return &BooleanExpression{operator: andOperator, operands: operands}
}

// Or disjoins the operands
func Or(operands ...Expression) *BooleanExpression {
	return &BooleanExpression{operator: orOperator, operands: operands}
}

// Xor returns the exclusive disjunction of the operands
func Xor(operands ...Expression) *BooleanExpression {
	return &BooleanExpression{operator: xorOperator, operands: operands}
}

// Subclauses of BooleanExpression
func (c BooleanExpression) Subclauses() []translator.Clause {
	return expressionsToClauses(c.operands)
}

// Resolve compiles the operands in order, skipping the ones compiling to the empty string.
// An expression without any non-empty operand compiles to the empty string.
func (c BooleanExpression) Resolve(env *translator.Environment) string {
	var compiled []string
	for _, operand := range c.operands {
		if text := translator.Compile(env, operand); text != "" {
			compiled = append(compiled, text)
		}
	}
	if len(compiled) < 2 {
		return strings.Join(compiled, "")
	}
	return "(" + strings.Join(compiled, " "+c.operator+" ") + ")"
}

// mergeWhere combines the predicate with the filter already present, if any.
//
// A filter whose top level operator matches the passed one gets flattened,
// so chaining Where calls results in `(a AND b AND c)` rather than `((a AND b) AND c)`.
// The existing operands are copied, an expression passed in by the caller is never mutated.
func mergeWhere(existing translator.Clause, predicate Expression, operator string) translator.Clause {
	where, _ := existing.(*WhereClause)
	if where == nil {
		return &WhereClause{predicate: predicate}
	}

	if combined, ok := where.predicate.(*BooleanExpression); ok && combined.operator == operator {
		operands := append(slices.Clone(combined.operands), predicate)
		return &WhereClause{predicate: &BooleanExpression{operator: operator, operands: operands}}
	}

	return &WhereClause{predicate: &BooleanExpression{operator: operator, operands: []Expression{where.predicate, predicate}}}
}
