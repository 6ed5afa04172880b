// Package dbms provides types and constants for database interaction.
package dbms

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// QueryResult embodies the result returned from a DBMS after running a query
type QueryResult struct {
	// The type this query result indicates
	Type QueryResultType
	// Returned rows
	Rows []any
	// The error as returned by the driver
	ProducedError error
	// The graph's elements after the query ran, used for comparing results
	Graph any
}

// A QueryResultType specifies what a query's result indicates
type QueryResultType int

const (
	// None indicates the result type was not set yet
	None QueryResultType = iota
	// Valid indicates the query ran successfully
	Valid
	// Invalid indicates the query failed with an error message that is configured to be ignored
	Invalid
	// Failed indicates the query failed with an unexpected error
	Failed
	// Mismatch indicates that builds of the same document returned different results
	Mismatch
	// Crash indicates that the query caused the DBMS to crash
	Crash
	// Timeout indicates that the query timed out
	Timeout
)

// ToString converts a query result type to its equivalent, human-readable string representation
func (q QueryResultType) ToString() string {
	switch q {
	case Valid:
		return "VALID"
	case Invalid:
		return "INVALID"
	case Failed:
		return "FAILED"
	case Mismatch:
		return "MISMATCH"
	case Crash:
		return "CRASH"
	case Timeout:
		return "TIMEOUT"
	}
	return "UNDEFINED QUERY RESULT TYPE"
}

// DBOptions specify driver behavior and connection information.
type DBOptions struct {
	// The host where the DB is accessible at.
	Host string
	// The port where the DB is accessible at.
	//
	// If the port is nil, the driver should use the default port for the DBMS.
	Port *int
	// The timeout for database requests.
	// This timeout should be used for every request that is sent to the DB.
	Timeout time.Duration
}

// ErrorMessageRegex holds regular expressions, matching different types of error messages
type ErrorMessageRegex struct {
	// Ignored matches error messages that should be ignored
	Ignored *regexp.Regexp
}

// ClassifyError returns the result type a driver error indicates, for errors the driver has no special handling for.
//
// A nil error is valid, deadline errors are timeouts and errors whose message
// matches the ignored regex are invalid. Any other error is a failure.
func ClassifyError(err error, errorMessageRegex *ErrorMessageRegex) QueryResultType {
	if err == nil {
		return Valid
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	if errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Error()) {
		return Invalid
	}
	return Failed
}

// A DB is a database driver implementation.
//
// Any struct implementing this interface can be used as an execution target.
type DB interface {
	// Initialises the DB connection
	Init(DBOptions) error
	// Reset the DB to its original state
	Reset(DBOptions) error
	// Runs a given query with the passed parameters against the database
	RunQuery(DBOptions, string, map[string]any) QueryResult
	// Verifies that the database can still be reached.
	//
	// Returns true if connection is successful and an optional error describing the connection error.
	//
	// If, after a query was run, the database is no longer reachable,
	// a report is created with the assumption that the database crashed
	VerifyConnectivity(DBOptions) (bool, error)

	// Returns the type of the query's result.
	GetQueryResultType(QueryResult, *ErrorMessageRegex) QueryResultType
	// Returns true if the two passed query results are equal, else false.
	IsEqualResult(QueryResult, QueryResult) bool
}
