package mock_test

import (
	"errors"
	"testing"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunQuery_RecordsDeepCopy(t *testing.T) {
	d := &mock.Driver{}
	params := map[string]any{"param0": []any{"Heat", "Ronin"}}

	d.RunQuery(dbms.DBOptions{}, "RETURN $param0", params)
	params["param0"].([]any)[0] = "Alien"

	queries := d.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "RETURN $param0", queries[0].Text)
	assert.Equal(t, map[string]any{"param0": []any{"Heat", "Ronin"}}, queries[0].Params, "Recorded params share memory with the caller")
}

func TestRunQuery_RecordsNestedCopy(t *testing.T) {
	d := &mock.Driver{}
	titles := []string{"Heat", "Ronin"}
	params := map[string]any{
		"param0": titles,
		"param1": map[string]any{"cast": []any{"Pacino", "De Niro"}},
	}

	d.RunQuery(dbms.DBOptions{}, "RETURN $param0, $param1", params)
	titles[0] = "Alien"
	params["param1"].(map[string]any)["cast"].([]any)[1] = "Kilmer"

	recorded := d.Queries()[0].Params
	assert.Equal(t, []string{"Heat", "Ronin"}, recorded["param0"])
	assert.Equal(t, map[string]any{"cast": []any{"Pacino", "De Niro"}}, recorded["param1"])
}

func TestRunQuery_Respond(t *testing.T) {
	d := &mock.Driver{
		Respond: func(query string, params map[string]any) dbms.QueryResult {
			return dbms.QueryResult{Rows: []any{params["param0"]}}
		},
	}

	res := d.RunQuery(dbms.DBOptions{}, "RETURN $param0", map[string]any{"param0": 1})
	assert.Equal(t, []any{1}, res.Rows)
	assert.Equal(t, dbms.Valid, d.GetQueryResultType(res, nil))
}

func TestResets(t *testing.T) {
	d := &mock.Driver{}
	require.NoError(t, d.Reset(dbms.DBOptions{}))
	require.NoError(t, d.Reset(dbms.DBOptions{}))
	assert.Equal(t, 2, d.Resets())
}

func TestVerifyConnectivity(t *testing.T) {
	d := &mock.Driver{}
	ok, err := d.VerifyConnectivity(dbms.DBOptions{})
	assert.True(t, ok)
	assert.NoError(t, err)

	d.Down = true
	ok, err = d.VerifyConnectivity(dbms.DBOptions{})
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestIsEqualResult(t *testing.T) {
	d := &mock.Driver{}

	assert.True(t, d.IsEqualResult(dbms.QueryResult{}, dbms.QueryResult{Rows: []any{}}))
	assert.True(t, d.IsEqualResult(dbms.QueryResult{Rows: []any{"Heat"}}, dbms.QueryResult{Rows: []any{"Heat"}}))
	assert.False(t, d.IsEqualResult(dbms.QueryResult{Rows: []any{"Heat"}}, dbms.QueryResult{Rows: []any{"Ronin"}}))
	assert.False(t, d.IsEqualResult(dbms.QueryResult{}, dbms.QueryResult{ProducedError: errors.New("boom")}))
}
