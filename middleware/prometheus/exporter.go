/*
Package prometheus provides a prometheus exporter for monitoring runs.

These metrics include:
  - build counts
  - build latencies
  - parameters per build
  - query latencies
  - count of query result types

Additionally, there is the possibility of exposing "full" metrics, which are useful for benchmarking the compiler itself.
In full mode, in addition to the previous metrics, the exporter exposes the following data:
  - total size of all queries
  - total count of all keywords in all queries

These metrics are exposed on the port passed to [RegisterExporter] on the /metrics endpoint.
*/
package prometheus

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/middleware"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// cypherExporter implements [middleware.Middleware].
type cypherExporter struct {
	buildCount     prometheus.Counter
	buildLatencies prometheus.Summary
	paramsPerBuild prometheus.Summary
	queryLatencies prometheus.Summary
	resetLatencies prometheus.Summary

	// Metrics for query results
	queryResultCounters map[dbms.QueryResultType]prometheus.Counter
}

// fullCypherExporter exposes additional metrics used for benchmarking the compiler
type fullCypherExporter struct {
	// A semaphore making sure that not too many goroutines are analysing queries at once
	// Currently hardcoded at 16 concurrent analyses
	analysisSemaphore *semaphore.Weighted
	// Tracks running analyses
	analyses sync.WaitGroup

	// All keywords considered for keyword metrics
	keywords []string

	querySize prometheus.Counter

	totalKeywordCount prometheus.Counter
	keywordCount      map[string]prometheus.Counter
}

// RegisterExporter registers a new prometheus exporter and exposes its metrics on the passed port.
//
// Relevant fields of the passed [scheduler.Config] get wrapped with middleware for collecting metrics.
func RegisterExporter(port int, conf *scheduler.Config, useFullExporter bool) {
	middleware.RegisterMiddleware(newExporter(prometheus.DefaultRegisterer), conf)
	if useFullExporter {
		middleware.RegisterMiddleware(newFullExporter(prometheus.DefaultRegisterer), conf)
	}

	// Expose metrics endpoint
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		logrus.Infof("Listening on port %d, serving Prometheus metrics on /metrics", port)
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
		logrus.Errorf("Prometheus endpoint terminated unexpectedly - %v", err)
	}()
}

// Returns a new exporter with its prometheus metrics registered at reg
func newExporter(reg prometheus.Registerer) *cypherExporter {
	factory := promauto.With(reg)

	exporter := &cypherExporter{
		buildCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "cypherc_build_count",
			Help: "Counter of the amount of documents built",
		}),
		buildLatencies: factory.NewSummary(prometheus.SummaryOpts{
			Name: "cypherc_build_latency",
			Help: "Summary of document build latencies",
		}),
		paramsPerBuild: factory.NewSummary(prometheus.SummaryOpts{
			Name: "cypherc_build_params",
			Help: "Summary of the amount of parameters per built query",
		}),
		queryLatencies: factory.NewSummary(prometheus.SummaryOpts{
			Name: "cypherc_query_latency",
			Help: "Summary of latencies encountered when sending the query to the target",
		}),
		resetLatencies: factory.NewSummary(prometheus.SummaryOpts{
			Name: "cypherc_reset_latency",
			Help: "Summary of latencies encountered when resetting the target",
		}),
		queryResultCounters: make(map[dbms.QueryResultType]prometheus.Counter),
	}

	for t := dbms.Valid; t <= dbms.Timeout; t++ {
		name := strings.ToLower(t.ToString())
		exporter.queryResultCounters[t] = factory.NewCounter(prometheus.CounterOpts{
			Name: "cypherc_" + name + "_query_count",
			Help: fmt.Sprintf("The amount of queries indicating a %s result", name),
		})
	}

	return exporter
}

// Hooks returns the hooks for the prometheus exporter
func (e *cypherExporter) Hooks() middleware.Hooks {
	return middleware.Hooks{
		BuilderHooks: getBuilderHooks(e),
		DBHooks:      getDBHooks(e),
	}
}

func newFullExporter(reg prometheus.Registerer) *fullCypherExporter {
	factory := promauto.With(reg)

	exporter := fullCypherExporter{
		analysisSemaphore: semaphore.NewWeighted(16),

		keywords: []string{
			// Clauses
			"MATCH",
			"OPTIONAL",
			"MERGE",
			"CREATE",
			"WITH",
			"DETACH",
			"DELETE",
			"REMOVE",
			"SET",
			"RETURN",
			"UNION",

			// Subclauses
			"WHERE",
			"ORDER",
			"SKIP",
			"LIMIT",
			"DISTINCT",

			// Operators
			"AND",
			"NOT",
			"OR",
			"XOR",
		},

		totalKeywordCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "cypherc_total_keyword_count",
			Help: "The amount of times any keyword has appeared in queries",
		}),

		querySize: factory.NewCounter(prometheus.CounterOpts{
			Name: "cypherc_query_size_sum",
			Help: "The total size of all queries built",
		}),

		keywordCount: make(map[string]prometheus.Counter),
	}
	for _, keyword := range exporter.keywords {
		exporter.keywordCount[keyword] = factory.NewCounter(prometheus.CounterOpts{
			Name: "cypherc_keyword_" + strings.ToLower(keyword) + "_count",
			Help: fmt.Sprintf("The amount of times the %q keyword has appeared in queries", keyword),
		})
	}

	return &exporter
}

// Hooks returns the hooks for the full prometheus exporter
func (e *fullCypherExporter) Hooks() middleware.Hooks {
	return middleware.Hooks{
		BuilderHooks: getFullBuilderHooks(e),
	}
}
