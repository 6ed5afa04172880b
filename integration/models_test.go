//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Anon10214/cypherc/cmd/config"
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Anon10214/cypherc/scheduler/strategy"
	"github.com/Anon10214/cypherc/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Options for connection establishment
const (
	connectionRetries       int           = 15
	connectionRetryInterval time.Duration = time.Second
)

const moviesDocument = `
name: movies
statement:
  - merge:
      pattern:
        - node: {ref: m, labels: [Movie], properties: {title: Heat}}
      set:
        - {property: m.released, value: 1995}
  - match:
      pattern:
        - node: {ref: movie, labels: [Movie]}
      where: {gt: [movie.released, {param: 1990}]}
      return:
        items: [{expr: movie.title, as: title}]
`

func TestIntegrationModels(t *testing.T) {
	for _, model := range []struct {
		name string
		port int
	}{
		{"neo4j", 1000},
		{"memgraph", 1001},
		{"falkordb", 1002},
	} {
		t.Run("Test "+model.name, func(t *testing.T) {
			// Can target different models in parallel
			t.Parallel()

			dbOptions := dbms.DBOptions{
				// Containers expose ports to localhost
				Host: "localhost",
				Port: &model.port,
				// No big queries, 5 seconds suffices
				Timeout: 5 * time.Second,
			}

			conf, err := config.GetConfigForTarget(model.name, "../targets-config.yml")
			require.NoError(t, err, "Getting config for target failed")
			require.NoError(t, conf.ReportTemplate.Execute(&bytes.Buffer{}, scheduler.ReportMarkdownData{}), "Failed to execute report template")

			conf.DBOptions = dbOptions
			conf.DBConnectionRetries = connectionRetries
			conf.DBConnectionRetryInterval = connectionRetryInterval
			conf.SuppressReports = true

			ok, err := scheduler.ConnectToDB(conf)
			require.True(t, ok, "Failed to connect to DB - %v", err)

			driver := conf.DB

			t.Run("Parameters are passed", func(t *testing.T) {
				require.NoError(t, driver.Reset(dbOptions), "Failed to reset DB")

				doc, err := document.Parse([]byte(moviesDocument))
				require.NoError(t, err)

				res := scheduler.RunQuery(conf, translator.Build(doc.Statement, conf.Naming))
				assert.Equal(t, dbms.Valid, res.Type, "Compiled document caused non-valid result type - %v", res.ProducedError)
				assert.Len(t, res.Rows, 1, "Matching the merged movie returned more or less than one row")
			})

			t.Run("Naming doesn't change results", func(t *testing.T) {
				doc, err := document.Parse([]byte(moviesDocument))
				require.NoError(t, err)

				conf := conf
				conf.ResetBeforeDocument = true
				conf.TargetStrategy = strategy.NamingEquivalence
				conf.Strategy = strategy.NamingEquivalence.ToStrategy()

				outcomes, err := scheduler.Run(context.Background(), conf, []*document.Document{doc})
				require.NoError(t, err)
				require.Len(t, outcomes, 1)
				assert.Equal(t, dbms.Valid, outcomes[0].Type)
			})

			t.Run("Gibberish does not return valid", func(t *testing.T) {
				res := driver.RunQuery(dbOptions, "GIBBERISH", nil)
				assert.NotEqual(t, dbms.Valid, driver.GetQueryResultType(res, conf.ErrorMessageRegex), "Gibberish resulted in a query type of VALID")
			})
		})
	}
}
