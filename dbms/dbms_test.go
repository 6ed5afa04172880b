package dbms_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	regex := &dbms.ErrorMessageRegex{Ignored: regexp.MustCompile("(Unknown function)|(Type mismatch)")}

	for _, tc := range []struct {
		err      error
		expected dbms.QueryResultType
	}{
		{nil, dbms.Valid},
		{errors.New("Unknown function 'foo'"), dbms.Invalid},
		{fmt.Errorf("running query: %w", context.DeadlineExceeded), dbms.Timeout},
		{errors.New("segmentation fault"), dbms.Failed},
	} {
		assert.Equal(t, tc.expected, dbms.ClassifyError(tc.err, regex), "Wrong classification of %v", tc.err)
	}

	assert.Equal(t, dbms.Failed, dbms.ClassifyError(errors.New("Unknown function"), nil), "Nil regex must not ignore errors")
}

func TestQueryResultType_ToString(t *testing.T) {
	seen := map[string]bool{}
	for i := dbms.Valid; i <= dbms.Timeout; i++ {
		name := i.ToString()
		assert.NotEqual(t, "UNDEFINED QUERY RESULT TYPE", name)
		assert.False(t, seen[name], "Duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "UNDEFINED QUERY RESULT TYPE", dbms.None.ToString())
}

type stubDB struct {
	queries []string
}

func (s *stubDB) Init(dbms.DBOptions) error  { return nil }
func (s *stubDB) Reset(dbms.DBOptions) error { return nil }
func (s *stubDB) RunQuery(_ dbms.DBOptions, query string, _ map[string]any) dbms.QueryResult {
	s.queries = append(s.queries, query)
	return dbms.QueryResult{Rows: []any{len(s.queries)}}
}
func (s *stubDB) VerifyConnectivity(dbms.DBOptions) (bool, error) { return true, nil }
func (s *stubDB) GetQueryResultType(res dbms.QueryResult, regex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	return dbms.ClassifyError(res.ProducedError, regex)
}
func (s *stubDB) IsEqualResult(a, b dbms.QueryResult) bool { return len(a.Rows) == len(b.Rows) }

func TestWrapDB(t *testing.T) {
	stub := &stubDB{}
	var calls []string

	wrapped := dbms.WrapDB(stub, dbms.DBMiddleware{
		RunQueryMiddleware: func(next dbms.RunQueryHandler) dbms.RunQueryHandler {
			return func(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
				calls = append(calls, "before "+query)
				res := next(opts, query, params)
				calls = append(calls, "after "+query)
				return res
			}
		},
		VerifyConnectivityMiddleware: func(next dbms.VerifyConnectivityHandler) dbms.VerifyConnectivityHandler {
			return func(dbms.DBOptions) (bool, error) {
				return false, errors.New("down")
			}
		},
	})

	res := wrapped.RunQuery(dbms.DBOptions{}, "RETURN 1", nil)
	assert.Equal(t, []any{1}, res.Rows)
	assert.Equal(t, []string{"before RETURN 1", "after RETURN 1"}, calls)
	assert.Equal(t, []string{"RETURN 1"}, stub.queries)

	ok, err := wrapped.VerifyConnectivity(dbms.DBOptions{})
	assert.False(t, ok)
	assert.EqualError(t, err, "down")

	// Methods without middleware go straight to the DB
	assert.NoError(t, wrapped.Reset(dbms.DBOptions{}))
	assert.True(t, wrapped.IsEqualResult(dbms.QueryResult{}, dbms.QueryResult{}))
}
