package redisgraph

import (
	"errors"
	"regexp"
	"testing"

	"github.com/Anon10214/cypherc/dbms"
	rg "github.com/RedisGraph/redisgraph-go"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
)

func TestIsEqualResult(t *testing.T) {
	d := &Driver{}

	keanu := &rg.Node{ID: 0, Labels: []string{"Person", "Actor"}, Properties: map[string]any{"name": "Keanu Reeves"}}
	keanuElsewhere := &rg.Node{ID: 7, Labels: []string{"Actor", "Person"}, Properties: map[string]any{"name": "Keanu Reeves"}}
	movie := &rg.Node{Labels: []string{"Movie"}, Properties: map[string]any{"title": "The Matrix"}}

	a := dbms.QueryResult{Rows: []any{[]any{keanu}, []any{movie}}, Graph: []any{[]any{keanu}, []any{movie}}}
	b := dbms.QueryResult{Rows: []any{[]any{movie}, []any{keanuElsewhere}}, Graph: []any{[]any{movie}, []any{keanuElsewhere}}}
	assert.True(t, d.IsEqualResult(a, b), "Row order, label order and IDs must not matter")

	c := dbms.QueryResult{Rows: []any{[]any{movie}, []any{movie}}, Graph: a.Graph}
	assert.False(t, d.IsEqualResult(a, c))

	d1 := dbms.QueryResult{Rows: a.Rows, Graph: a.Graph, ProducedError: errors.New("boom")}
	assert.False(t, d.IsEqualResult(a, d1))
}

func TestGetQueryResultType(t *testing.T) {
	d := &Driver{}
	regex := &dbms.ErrorMessageRegex{Ignored: regexp.MustCompile("Unknown function")}

	for _, tc := range []struct {
		err      error
		expected dbms.QueryResultType
	}{
		{nil, dbms.Valid},
		{redis.Error("Query timed out"), dbms.Timeout},
		{redis.Error("Unknown function 'foo'"), dbms.Invalid},
		{redis.Error("Type mismatch: expected Integer"), dbms.Failed},
	} {
		assert.Equal(t, tc.expected, d.GetQueryResultType(dbms.QueryResult{ProducedError: tc.err}, regex), "Wrong type for %v", tc.err)
	}
}
