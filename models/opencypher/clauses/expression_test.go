package clauses_test

import (
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/translator"
	"github.com/stretchr/testify/assert"
)

func TestExpressions(t *testing.T) {
	node := translator.NewNode()
	title := clauses.Property(node, "title")

	for _, tc := range []struct {
		name       string
		expression clauses.Expression
		expected   string
	}{
		{"Property", title, "this0.title"},
		{"Escaped property", clauses.Property(node, "first name"), "this0.`first name`"},
		{"Eq", clauses.Eq(title, clauses.Param("x")), "this0.title = $param1"},
		{"Neq", clauses.Neq(title, clauses.Param("x")), "this0.title <> $param1"},
		{"Lt", clauses.Lt(title, clauses.Param("x")), "this0.title < $param1"},
		{"Lte", clauses.Lte(title, clauses.Param("x")), "this0.title <= $param1"},
		{"Gte", clauses.Gte(title, clauses.Param("x")), "this0.title >= $param1"},
		{"In", clauses.In(title, clauses.Param([]string{"x"})), "this0.title IN $param1"},
		{"Contains", clauses.Contains(title, clauses.Param("x")), "this0.title CONTAINS $param1"},
		{"EndsWith", clauses.EndsWith(title, clauses.Param("x")), "this0.title ENDS WITH $param1"},
		{"Single operand", clauses.Or(clauses.IsNull(title)), "this0.title IS NULL"},
		{"No operands", clauses.And(), ""},
		{"Empty operand", clauses.And(clauses.Or(), clauses.IsNull(title)), "this0.title IS NULL"},
		{"Xor", clauses.Xor(clauses.IsNull(title), clauses.HasLabels(node, "A", "B")), "(this0.title IS NULL XOR this0:A:B)"},
		{"Nested", clauses.Not(clauses.And(clauses.IsNull(title), clauses.Or(clauses.HasLabels(node, "A"), clauses.HasLabels(node, "B")))), "NOT (this0.title IS NULL AND (this0:A OR this0:B))"},
		{"Function", clauses.Function("toLower", title), "toLower(this0.title)"},
		{"No arguments", clauses.Function("rand"), "rand()"},
		{"Count", clauses.Count(node), "count(this0)"},
		{"Count distinct", clauses.Count(title).Distinct(), "count(DISTINCT this0.title)"},
		{"Count all", clauses.CountAll(), "count(*)"},
		{"ID", clauses.ID(node), "id(this0)"},
		{"Literal", clauses.Literal("100%"), "100%"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, build(tc.expression).Text)
		})
	}
}

func TestProjection(t *testing.T) {
	movie := translator.NewNode()
	alias := translator.NewVariable()

	projection := clauses.Project(clauses.As(clauses.Property(movie, "title"), alias), clauses.Item(movie)).
		Distinct().
		OrderByDesc(clauses.Property(movie, "released")).
		OrderBy(alias).
		Skip(10).
		Limit(5)
	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).ReturnProjection(projection)

	res := build(match)
	assert.Equal(t, `MATCH (this0)
RETURN DISTINCT this0.title AS var1, this0
ORDER BY this0.released DESC, var1
SKIP $param2
LIMIT $param3`, res.Text)
	assert.Equal(t, map[string]any{"param2": 10, "param3": 5}, res.Params)
}

func TestSetItems(t *testing.T) {
	movie := translator.NewNode()
	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).
		Set(clauses.Assign(clauses.Property(movie, "views"), clauses.Literal("0"))).
		Set(clauses.AddLabels(movie, "Seen"))

	assert.Equal(t, "MATCH (this0)\nSET this0.views = 0, this0:Seen", build(match).Text)
}
