package rerun_test

import (
	"testing"
	"time"

	"github.com/Anon10214/cypherc/cmd/rerun"
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/mock"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerun(t *testing.T) {
	report := &scheduler.Report{
		ReportName: "report_1",
		Target:     "mock",
		Strategy:   "NAMING EQUIVALENCE",
		Document:   "movies",
		Queries: []scheduler.ReportQuery{
			{Text: "MATCH (this0:Movie {title: $param1}) RETURN this0.title", Params: map[string]any{"param1": "Heat"}},
			{Text: "MATCH (xthis:Movie {title: $xparam1}) RETURN xthis.title", Params: map[string]any{"xparam1": "Heat"}},
		},
	}

	t.Run("Still mismatching", func(t *testing.T) {
		var calls int
		db := &mock.Driver{
			Respond: func(string, map[string]any) dbms.QueryResult {
				calls++
				return dbms.QueryResult{Rows: []any{calls}}
			},
		}

		outcome, err := rerun.Rerun(report, scheduler.Config{DB: db, DBOptions: dbms.DBOptions{Timeout: time.Second}})
		require.NoError(t, err)

		assert.Equal(t, dbms.Mismatch, outcome.Type)
		require.Len(t, db.Queries(), 2)
		assert.Equal(t, map[string]any{"xparam1": "Heat"}, db.Queries()[1].Params)
		// Once before the first query, once between the builds
		assert.Equal(t, 2, db.Resets())
	})

	t.Run("Fixed", func(t *testing.T) {
		db := &mock.Driver{
			Respond: func(string, map[string]any) dbms.QueryResult {
				return dbms.QueryResult{Rows: []any{"Heat"}}
			},
		}

		outcome, err := rerun.Rerun(report, scheduler.Config{DB: db, DBOptions: dbms.DBOptions{Timeout: time.Second}})
		require.NoError(t, err)
		assert.Equal(t, dbms.Valid, outcome.Type)
	})

	t.Run("Unknown strategy", func(t *testing.T) {
		invalid := *report
		invalid.Strategy = "BISECTION"

		_, err := rerun.Rerun(&invalid, scheduler.Config{DB: &mock.Driver{}})
		assert.Error(t, err)
	})
}
