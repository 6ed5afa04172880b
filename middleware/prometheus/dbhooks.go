package prometheus

import (
	"time"

	"github.com/Anon10214/cypherc/dbms"
)

func getDBHooks(exporter *cypherExporter) dbms.DBMiddleware {
	return dbms.DBMiddleware{
		ResetMiddleware:              exporter.handleReset,
		RunQueryMiddleware:           exporter.handleRunQuery,
		VerifyConnectivityMiddleware: exporter.handleVerifyConnectivity,
		GetQueryResultTypeMiddleware: exporter.handleGetQueryResultType,
	}
}

// handleRunQuery is the RunQuery handler for cypherExporter.
// It measures the query latency.
func (e *cypherExporter) handleRunQuery(next dbms.RunQueryHandler) dbms.RunQueryHandler {
	return func(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
		startTime := time.Now()

		res := next(opts, query, params)

		e.queryLatencies.Observe(time.Since(startTime).Seconds())
		return res
	}
}

func (e *cypherExporter) handleReset(next dbms.ResetHandler) dbms.ResetHandler {
	return func(d dbms.DBOptions) error {
		startTime := time.Now()
		err := next(d)
		e.resetLatencies.Observe(time.Since(startTime).Seconds())

		return err
	}
}

// handleVerifyConnectivity is the VerifyConnectivity handler for cypherExporter.
// If the result of next indicates a crash, this handler increments the query result counter for crashes.
func (e *cypherExporter) handleVerifyConnectivity(next dbms.VerifyConnectivityHandler) dbms.VerifyConnectivityHandler {
	return func(opts dbms.DBOptions) (bool, error) {
		ok, err := next(opts)
		if !ok {
			e.queryResultCounters[dbms.Crash].Inc()
		}
		return ok, err
	}
}

// handleGetQueryResultType counts the result types the driver assigns.
func (e *cypherExporter) handleGetQueryResultType(next dbms.GetQueryResultTypeHandler) dbms.GetQueryResultTypeHandler {
	return func(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
		t := next(res, errorMessageRegex)
		if counter, ok := e.queryResultCounters[t]; ok {
			counter.Inc()
		}
		return t
	}
}
