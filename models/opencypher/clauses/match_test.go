package clauses_test

import (
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/translator"
	"github.com/stretchr/testify/assert"
)

func build(clause translator.Clause) translator.Result {
	return translator.Build(clause, config.Default())
}

func TestMatch_CapabilityAbsence(t *testing.T) {
	movie := translator.NewNode()
	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie).Labels("Movie")))

	assert.Equal(t, "MATCH (this0:Movie)", build(match).Text, "Unpopulated capabilities left traces")
}

func TestMatch_FragmentOrder(t *testing.T) {
	movie := translator.NewNode()
	path := translator.NewPath()

	// Populated out of order on purpose, the manifest decides the order
	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie).Labels("Movie"))).
		Return(clauses.Item(movie)).
		Set(clauses.AssignParam(movie, "seen", true)).
		Where(clauses.Gt(clauses.Property(movie, "released"), clauses.Param(1990))).
		Remove(clauses.Property(movie, "draft")).
		AssignToPath(path)

	res := build(match)
	assert.Equal(t, `MATCH p0 = (this1:Movie)
WHERE this1.released > $param2
SET this1.seen = $param3
REMOVE this1.draft
RETURN this1`, res.Text)
	assert.Equal(t, map[string]any{"param2": 1990, "param3": true}, res.Params)
}

func TestMatch_WhereMerging(t *testing.T) {
	movie := translator.NewNode()
	title := clauses.Property(movie, "title")

	t.Run("Single predicate is not parenthesized", func(t *testing.T) {
		match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).Where(clauses.IsNotNull(title))
		assert.Equal(t, "MATCH (this0)\nWHERE this0.title IS NOT NULL", build(match).Text)
	})

	t.Run("Repeated calls conjoin and flatten", func(t *testing.T) {
		match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).
			Where(clauses.IsNotNull(title)).
			Where(clauses.StartsWith(title, clauses.Param("The"))).
			Where(clauses.Not(clauses.HasLabels(movie, "Draft")))
		assert.Equal(t, "MATCH (this0)\nWHERE (this0.title IS NOT NULL AND this0.title STARTS WITH $param1 AND NOT this0:Draft)", build(match).Text)
	})

	t.Run("OrWhere disjoins", func(t *testing.T) {
		match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).
			Where(clauses.IsNull(title)).
			Where(clauses.Eq(title, clauses.Param(""))).
			OrWhere(clauses.HasLabels(movie, "Untitled"))
		assert.Equal(t, "MATCH (this0)\nWHERE ((this0.title IS NULL AND this0.title = $param1) OR this0:Untitled)", build(match).Text)
	})

	t.Run("Caller's expression is not mutated", func(t *testing.T) {
		conjunction := clauses.And(clauses.IsNull(title), clauses.IsNotNull(title))
		clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).Where(conjunction).Where(clauses.IsNull(title))

		assert.Equal(t, "(this0.title IS NULL AND this0.title IS NOT NULL)", build(conjunction).Text)
	})
}

func TestMatch_EmptyWhere(t *testing.T) {
	movie := translator.NewNode()

	t.Run("Empty conjunction drops the keyword", func(t *testing.T) {
		match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).Where(clauses.And())
		assert.Equal(t, "MATCH (this0)", build(match).Text)
	})

	t.Run("Empty operands are skipped", func(t *testing.T) {
		match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).
			Where(clauses.Or(clauses.And(), clauses.IsNull(clauses.Property(movie, "title"))))
		assert.Equal(t, "MATCH (this0)\nWHERE this0.title IS NULL", build(match).Text)
	})
}

func TestMatch_Optional(t *testing.T) {
	movie := translator.NewNode()

	assert.Equal(t, "OPTIONAL MATCH (this0)\nRETURN this0",
		build(clauses.NewOptionalMatch(clauses.NewPattern(clauses.Node(movie))).Return(clauses.Item(movie))).Text)
}

func TestMatch_DeleteReplaces(t *testing.T) {
	a, b := translator.NewNode(), translator.NewNode()

	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(a)).Related(clauses.Relationship(nil), clauses.Node(b))).
		Delete(a).
		DetachDelete(a, b)

	assert.Equal(t, "MATCH (this0)-->(this1)\nDETACH DELETE this0, this1", build(match).Text)
}

func TestMatch_WithProjection(t *testing.T) {
	movie, actor := translator.NewNode(), translator.NewNode()
	actors := translator.NewVariable()

	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(actor).Labels("Person")).
		Related(clauses.Relationship(nil).Types("ACTED_IN"), clauses.Node(movie).Labels("Movie"))).
		With(clauses.Item(movie), clauses.As(clauses.Collect(actor), actors))

	assert.Equal(t, "MATCH (this0:Person)-[:ACTED_IN]->(this1:Movie)\nWITH this1, collect(this0) AS var2", build(match).Text)
}

func TestMatch_EmptyRemoveLeavesNoSeparator(t *testing.T) {
	movie := translator.NewNode()
	match := clauses.NewMatch(clauses.NewPattern(clauses.Node(movie))).Remove().Return(clauses.Item(movie))

	assert.Equal(t, "MATCH (this0)\nRETURN this0", build(match).Text)
}

func TestStatement(t *testing.T) {
	movie := translator.NewNode()
	statement := clauses.NewStatement(
		clauses.NewMatch(clauses.NewPattern(clauses.Node(movie).Labels("Movie"))),
		clauses.NewCreate(clauses.NewPattern(clauses.Node(movie)).
			Related(clauses.Relationship(nil).Types("SEQUEL_OF").Direction(clauses.Left), clauses.Node(translator.NewNode()).Labels("Movie"))),
	)

	assert.Equal(t, "MATCH (this0:Movie)\nCREATE (this0)<-[:SEQUEL_OF]-(this1:Movie)", build(statement).Text)
}
