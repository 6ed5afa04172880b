package clauses_test

import (
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/clauses"
	"github.com/Anon10214/cypherc/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodePattern(t *testing.T) {
	for _, tc := range []struct {
		name     string
		node     *clauses.NodePattern
		expected string
	}{
		{"Anonymous", clauses.Node(nil), "()"},
		{"Reference", clauses.Node(translator.NewNode()), "(this0)"},
		{"Labels in order", clauses.Node(translator.NewNode()).Labels("Movie", "Film"), "(this0:Movie:Film)"},
		{"Anonymous with labels", clauses.Node(nil).Labels("Movie"), "(:Movie)"},
		{"Anonymous with properties", clauses.Node(nil).Property("a", 1), "({a: $param0})"},
		{"Properties in order", clauses.Node(translator.NewNode()).Property("b", 1).Property("a", 2), "(this0 {b: $param1, a: $param2})"},
		{"Escaped names", clauses.Node(nil).Labels("Science Fiction").Property("release year", 1), "(:`Science Fiction` {`release year`: $param0})"},
		{"Percentage in names", clauses.Node(nil).Labels("100%"), "(:`100%`)"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, build(clauses.NewPattern(tc.node)).Text)
		})
	}
}

func TestRelationshipPattern(t *testing.T) {
	for _, tc := range []struct {
		name         string
		relationship *clauses.RelationshipPattern
		expected     string
	}{
		{"Anonymous right", clauses.Relationship(nil), "()-->()"},
		{"Anonymous left", clauses.Relationship(nil).Direction(clauses.Left), "()<--()"},
		{"Anonymous undirected", clauses.Relationship(nil).Direction(clauses.Undirected), "()--()"},
		{"Reference", clauses.Relationship(translator.NewRelationship()), "()-[this0]->()"},
		{"Types", clauses.Relationship(nil).Types("ACTED_IN", "DIRECTED"), "()-[:ACTED_IN|DIRECTED]->()"},
		{"Properties", clauses.Relationship(translator.NewRelationship()).Types("ACTED_IN").Property("role", "Neo"), "()-[this0:ACTED_IN {role: $param1}]->()"},
		{"Length", clauses.Relationship(nil).Length(1, 3), "()-[*1..3]->()"},
		{"Fixed length", clauses.Relationship(nil).Length(2, 2), "()-[*2]->()"},
		{"Open upper bound", clauses.Relationship(nil).Length(2, -1), "()-[*2..]->()"},
		{"Open lower bound", clauses.Relationship(nil).Length(-1, 4), "()-[*..4]->()"},
		{"Unbounded", clauses.Relationship(nil).Length(-1, -1), "()-[*]->()"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pattern := clauses.NewPattern(clauses.Node(nil)).Related(tc.relationship, clauses.Node(nil))
			assert.Equal(t, tc.expected, build(pattern).Text)
		})
	}
}

func TestPattern_Chain(t *testing.T) {
	actor, role, movie, director := translator.NewNode(), translator.NewRelationship(), translator.NewNode(), translator.NewNode()

	pattern := clauses.NewPattern(clauses.Node(actor).Labels("Person").Property("name", "Keanu")).
		Related(clauses.Relationship(role).Types("ACTED_IN"), clauses.Node(movie).Labels("Movie")).
		Related(clauses.Relationship(nil).Types("DIRECTED").Direction(clauses.Left), clauses.Node(director))

	res := build(pattern)
	assert.Equal(t, "(this0:Person {name: $param1})-[this2:ACTED_IN]->(this3:Movie)<-[:DIRECTED]-(this4)", res.Text)
	assert.Equal(t, map[string]any{"param1": "Keanu"}, res.Params)
}

func TestPattern_SharedParam(t *testing.T) {
	name := translator.NewParam("Keanu")
	pattern := clauses.NewPattern(clauses.Node(nil).PropertyParam("name", name)).
		Related(clauses.Relationship(nil), clauses.Node(nil).PropertyParam("name", name))

	res := build(pattern)
	assert.Equal(t, "({name: $param0})-->({name: $param0})", res.Text)
	assert.Len(t, res.Params, 1)
}

func TestDirection(t *testing.T) {
	for d := clauses.Right; d <= clauses.Undirected; d++ {
		parsed, err := clauses.ParseDirection(d.ToString())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}

	_, err := clauses.ParseDirection("up")
	assert.ErrorIs(t, err, clauses.ErrInvalidDirection)

	assert.Panics(t, func() { clauses.Relationship(nil).Direction(clauses.Direction(7)) })
}

func TestLength_InvertedBounds(t *testing.T) {
	assert.ErrorIs(t, clauses.ValidateLength(3, 1), clauses.ErrInvalidLength)
	assert.NoError(t, clauses.ValidateLength(3, -1))
	assert.NoError(t, clauses.ValidateLength(-1, 1))

	assert.Panics(t, func() { clauses.Relationship(nil).Length(3, 1) })
}

func TestPattern_Construction(t *testing.T) {
	assert.Panics(t, func() { clauses.NewPattern(nil) })
	assert.Panics(t, func() { clauses.NewPattern(clauses.Node(nil)).Related(nil, clauses.Node(nil)) })
}
