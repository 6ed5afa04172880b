/*
Package mock provides a recording driver for testing purposes.
*/
package mock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mitchellh/copystructure"
)

var errDown = errors.New("mock database is down")

// A Query is a query as received by the mock driver.
type Query struct {
	Text   string
	Params map[string]any
}

// Driver for the mock model.
//
// It records every query it receives and answers with the result of Respond,
// or an empty result if Respond is nil.
type Driver struct {
	// Respond computes the result of a query
	Respond func(query string, params map[string]any) dbms.QueryResult
	// If set, VerifyConnectivity reports the database as unreachable
	Down bool

	mu      sync.Mutex
	queries []Query
	resets  int
}

// Init does nothing and returns nil
func (d *Driver) Init(dbms.DBOptions) error {
	return nil
}

// Reset counts the reset and returns nil
func (d *Driver) Reset(dbms.DBOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++
	return nil
}

// RunQuery records a deep copy of the query and returns the result of Respond
func (d *Driver) RunQuery(_ dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	recorded := Query{Text: query}
	// Params may hold lists and maps, which must not be shared with the caller
	if params != nil {
		copied, err := copystructure.Copy(params)
		if err != nil {
			return dbms.QueryResult{ProducedError: fmt.Errorf("failed to record params - %w", err)}
		}
		recorded.Params = copied.(map[string]any)
	}

	d.mu.Lock()
	d.queries = append(d.queries, recorded)
	d.mu.Unlock()

	if d.Respond == nil {
		return dbms.QueryResult{}
	}
	return d.Respond(query, params)
}

// Queries returns the queries received so far, in the order they were run
func (d *Driver) Queries() []Query {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Query{}, d.queries...)
}

// Resets returns the amount of times the database got reset
func (d *Driver) Resets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resets
}

// GetQueryResultType classifies the produced error with [dbms.ClassifyError]
func (d *Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	return dbms.ClassifyError(res.ProducedError, errorMessageRegex)
}

// VerifyConnectivity returns false if the driver is down, else true
func (d *Driver) VerifyConnectivity(dbms.DBOptions) (bool, error) {
	if d.Down {
		return false, errDown
	}
	return true, nil
}

// IsEqualResult compares the rows of both results
func (d *Driver) IsEqualResult(a, b dbms.QueryResult) bool {
	return cmp.Equal(a.Rows, b.Rows, cmpopts.EquateEmpty()) && (a.ProducedError == nil) == (b.ProducedError == nil)
}
