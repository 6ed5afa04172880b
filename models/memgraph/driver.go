/*
Package memgraph provides the driver for running compiled queries against memgraph
*/
package memgraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anon10214/cypherc/dbms"
	neo4jimpl "github.com/Anon10214/cypherc/models/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// Driver for memgraph
type Driver struct {
	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
}

// Init the DB driver
func (d *Driver) Init(opts dbms.DBOptions) error {
	connPort := 7687
	if opts.Port != nil {
		connPort = *opts.Port
	}
	driver, err := neo4j.NewDriverWithContext(fmt.Sprintf("bolt://%s:%d", opts.Host, connPort), neo4j.NoAuth(), func(c *neo4j.Config) {
		c.ConnectionAcquisitionTimeout = opts.Timeout
		c.MaxTransactionRetryTime = 0
	})
	if err != nil {
		return err
	}
	d.driver = driver
	d.session = driver.NewSession(context.Background(), neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})

	// Set the query timeout
	if _, err := d.session.Run(context.Background(), fmt.Sprintf(`SET DATABASE SETTING "query.timeout" TO "%f";`, opts.Timeout.Seconds()), nil, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		logrus.Errorf("couldn't set database timeout - %v", err)
		return err
	}

	logrus.Debug("Setting up connection to the memgraph database")
	return nil
}

// Reset the database
func (d *Driver) Reset(opts dbms.DBOptions) error {
	logrus.Debug("Resetting Database")

	if _, err := d.session.Run(context.Background(), "MATCH (n) DETACH DELETE n", nil, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		logrus.Errorf("couldn't reset database - %v", err)
		return err
	}
	return nil
}

// RunQuery runs the query with its parameters against the memgraph DB and returns its result.
func (d Driver) RunQuery(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	ctx := context.Background()
	logrus.Debug("Sending query to database")

	var queryResult dbms.QueryResult

	res, err := d.session.Run(ctx, query, params, neo4j.WithTxTimeout(opts.Timeout))
	if err != nil {
		queryResult.ProducedError = err
		logrus.Debugf("Error %v produced when running query %s", err, query)
		return queryResult
	}
	for res.Next(ctx) {
		queryResult.Rows = append(queryResult.Rows, res.Record().Values)
	}

	queryResult.ProducedError = res.Err()
	if res.Err() != nil {
		logrus.Debugf("Error %v produced when running query %s", res.Err(), query)
		return queryResult
	}

	graph := []any{}
	if res, err = d.session.Run(ctx, "MATCH (n) RETURN n AS x UNION MATCH ()-[m]-() RETURN m AS x", nil, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		queryResult.ProducedError = err
		logrus.Debugf("Error %v produced when trying to get the graph", err)
		return queryResult
	}
	for res.Next(ctx) {
		graph = append(graph, res.Record().Values)
	}
	if res.Err() != nil {
		logrus.Debugf("Error %v produced when trying to get the graph", res.Err())
	}
	queryResult.Graph = graph

	logrus.Debug("Query finished")
	return queryResult
}

// GetQueryResultType evaluates the produced result and returns the type the result indicates.
func (d Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	switch err := res.ProducedError.(type) {
	case nil:
		return dbms.Valid
	case *neo4j.ConnectivityError:
		return dbms.Crash
	case *neo4j.Neo4jError:
		if err.Msg == "Transaction was asked to abort because of transaction timeout." {
			return dbms.Timeout
		}

		if err.Title() == "MemgraphError" && errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Msg) {
			return dbms.Invalid
		}
		logrus.Warnf("Encountered Neo4jError with error title %q and msg %s", err.Title(), err.Msg)
		return dbms.Failed
	default:
		return dbms.ClassifyError(err, errorMessageRegex)
	}
}

// VerifyConnectivity checks whether the DB is still reachable and hasn't crashed.
func (d Driver) VerifyConnectivity(opts dbms.DBOptions) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	err := d.driver.VerifyConnectivity(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "error could not acquire server lock in time when cleaning up pool") {
		return true, nil
	}
	return err == nil, err
}

// IsEqualResult returns true if the two passed query results hold the same information, else false.
//
// Memgraph speaks bolt, so results are compared the same way as Neo4j's.
func (d Driver) IsEqualResult(a dbms.QueryResult, b dbms.QueryResult) bool {
	return neo4jimpl.Driver{}.IsEqualResult(a, b)
}
