package prometheus

import (
	"testing"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/middleware"
	"github.com/Anon10214/cypherc/models/mock"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const movieDocument = `
statement:
  - match:
      pattern:
        - node: {ref: m, labels: [Movie], properties: {title: Heat, released: 1995}}
      where: {gt: [m.rating, 7]}
      return:
        distinct: true
        items: [{expr: m.title}]
`

func TestExporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	exporter := newExporter(reg)
	full := newFullExporter(reg)

	db := &mock.Driver{}
	conf := scheduler.Config{DB: db, Naming: config.Default()}
	middleware.RegisterMiddleware(exporter, &conf)
	middleware.RegisterMiddleware(full, &conf)

	doc, err := document.Parse([]byte(movieDocument))
	require.NoError(t, err)

	res := conf.Builder.Build(doc, conf.Naming)
	require.Equal(t, "MATCH (this0:Movie {title: $param1, released: $param2})\nWHERE this0.rating > $param3\nRETURN DISTINCT this0.title", res.Text)

	result := scheduler.RunQuery(conf, res)
	assert.Equal(t, dbms.Valid, result.Type)

	full.analyses.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.buildCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.queryResultCounters[dbms.Valid]))
	assert.Equal(t, 0.0, testutil.ToFloat64(exporter.queryResultCounters[dbms.Crash]))
	assert.Equal(t, float64(len(res.Text)), testutil.ToFloat64(full.querySize))

	// MATCH, WHERE, RETURN, DISTINCT
	assert.Equal(t, 4.0, testutil.ToFloat64(full.totalKeywordCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(full.keywordCount["DISTINCT"]))

	require.Len(t, db.Queries(), 1)
	assert.Equal(t, map[string]any{"param1": "Heat", "param2": 1995, "param3": 7}, db.Queries()[0].Params)
}

func TestExporter_CountsCrashes(t *testing.T) {
	exporter := newExporter(prometheus.NewRegistry())
	conf := scheduler.Config{DB: &mock.Driver{Down: true}}
	middleware.RegisterMiddleware(exporter, &conf)

	ok, _ := conf.DB.VerifyConnectivity(dbms.DBOptions{})
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(exporter.queryResultCounters[dbms.Crash]))
}
