/*
Package neo4j provides the driver for running compiled queries against Neo4j.
*/
package neo4j

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// The query used to collect the graph's elements after a query ran
const graphQuery = "MATCH (n) RETURN n AS x UNION MATCH ()-[m]-() RETURN m AS x"

// Driver for neo4j
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
	})
	if err != nil {
		return err
	}
	d.driver = driver
	d.session = driver.NewSession(context.Background(), neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})

	logrus.Debug("Setting up connection to the neo4j database")
	return nil
}

// Reset the database
func (d *Driver) Reset(opts dbms.DBOptions) error {
	logrus.Debug("Resetting Database")
	ctx := context.Background()
	if _, err := d.session.ExecuteWrite(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		if _, err := transaction.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
			return nil, fmt.Errorf("error while deleting nodes and relationships: %w", err)
		}
		return nil, nil
	}, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		return err
	}

	if _, err := d.session.ExecuteWrite(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		if _, err := transaction.Run(ctx, "CALL db.clearQueryCaches", nil); err != nil {
			return nil, fmt.Errorf("error while clearing query cache: %w", err)
		}
		return nil, nil
	}, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		logrus.Warnf("couldn't clear query cache - %v", err)
	}

	return nil
}

// RunQuery runs the query with its parameters against the Neo4j DB and returns its result.
func (d Driver) RunQuery(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	ctx := context.Background()
	logrus.Debug("Sending query to database")
	var queryResult dbms.QueryResult
	if _, err := d.session.ExecuteWrite(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		res, err := transaction.Run(ctx, query, params)
		queryResult = dbms.QueryResult{
			ProducedError: err,
		}
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			queryResult.Rows = append(queryResult.Rows, res.Record().Values)
		}

		queryResult.ProducedError = res.Err()
		return nil, res.Err()
	}, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		logrus.Debugf("Error %v produced when running query %s", err, query)
		queryResult.ProducedError = err
		return queryResult
	}

	if _, err := d.session.ExecuteRead(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		graph := []any{}

		res, err := transaction.Run(ctx, graphQuery, nil)
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			graph = append(graph, res.Record().Values)
		}

		queryResult.Graph = graph
		return nil, res.Err()
	}, neo4j.WithTxTimeout(opts.Timeout)); err != nil {
		logrus.Debugf("Error %v produced when trying to get the graph", err)
		queryResult.ProducedError = err
		return queryResult
	}

	logrus.Debug("Query finished")
	return queryResult
}

// IsMatchingRows compares two neo4j result rows regardless of the order of their elements.
// It returns true if they match, else false.
func IsMatchingRows(first, second any) bool {
	if first == nil || second == nil {
		return first == nil && second == nil
	}

	firstRow := first.([]any)
	secondRow := second.([]any)
	if len(firstRow) != len(secondRow) {
		return false
	}

	// Copy second row since it gets manipulated during the comparison
	secondRowCopy := make([]any, len(secondRow))
	copy(secondRowCopy, secondRow)

	for i := range firstRow {
		matchedIndex := -1
		for j := range secondRowCopy {
			if isMatchingNeo4jElement(firstRow[i], secondRowCopy[j]) {
				matchedIndex = j
				break
			}
		}
		if matchedIndex == -1 {
			return false
		}
		secondRowCopy = append(secondRowCopy[:matchedIndex], secondRowCopy[matchedIndex+1:]...)
	}
	return true
}

// isMatchingNeo4jElement returns true if the two passed elements
// evaluate to the same neo4j elements, else it returns false.
//
// Element IDs are not compared, they differ between runs of the same query.
func isMatchingNeo4jElement(a, b any) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case []any:
		b, ok := b.([]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !isMatchingNeo4jElement(a[i], b[i]) {
				return false
			}
		}
		return true
	case neo4j.Node:
		b, ok := b.(neo4j.Node)
		return ok && isMatchingNode(a, b)
	case neo4j.Relationship:
		b, ok := b.(neo4j.Relationship)
		return ok && isMatchingRelationship(a, b)
	case neo4j.Path:
		b, ok := b.(neo4j.Path)
		if !ok || len(a.Nodes) != len(b.Nodes) || len(a.Relationships) != len(b.Relationships) {
			return false
		}
		for i := range a.Nodes {
			if !isMatchingNode(a.Nodes[i], b.Nodes[i]) {
				return false
			}
		}
		for i := range a.Relationships {
			if !isMatchingRelationship(a.Relationships[i], b.Relationships[i]) {
				return false
			}
		}
		return true
	case float64:
		b, ok := b.(float64)
		return ok && (b == a || (math.IsNaN(a) && math.IsNaN(b)))
	default:
		return reflect.DeepEqual(a, b)
	}
}

func isMatchingNode(a, b neo4j.Node) bool {
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			return false
		}
	}
	return isMatchingProps(a.Props, b.Props)
}

func isMatchingRelationship(a, b neo4j.Relationship) bool {
	return a.Type == b.Type && isMatchingProps(a.Props, b.Props)
}

func isMatchingProps(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !isMatchingNeo4jElement(v, b[k]) {
			return false
		}
	}
	return true
}

// GetQueryResultType evaluates the produced result and returns the type the result indicates.
func (d Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	switch err := res.ProducedError.(type) {
	case nil:
		return dbms.Valid
	case *neo4j.ConnectivityError:
		return dbms.Timeout
	case *neo4j.Neo4jError:
		// A user-defined timeout
		if err.Title() == "TransactionTimedOutClientConfiguration" {
			return dbms.Timeout
		}

		if errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Msg) {
			return dbms.Invalid
		}

		logrus.Warnf("Encountered Neo4jError with error title %q and msg %s", err.Title(), err.Msg)
		return dbms.Failed
	default:
		return dbms.ClassifyError(err, errorMessageRegex)
	}
}

// VerifyConnectivity checks whether the DB is still reachable and hasn't crashed.
func (d Driver) VerifyConnectivity(dbms.DBOptions) (bool, error) {
	err := d.driver.VerifyConnectivity(context.Background())
	return err == nil, err
}

// IsEqualResult returns true if the two passed query results hold the same information, else false.
func (d Driver) IsEqualResult(a, b dbms.QueryResult) bool {
	if len(a.Rows) != len(b.Rows) {
		logrus.Warn("Encountered mismatching results")
		logrus.Infof("\n\t%v\nvs\n\t%v", a.Rows, b.Rows)
		return false
	}

	if !IsMatchingRows(a.Rows, b.Rows) {
		logrus.Warn("Encountered mismatching rows")
		logrus.Infof("\n\t%v\nvs\n\t%v", a.Rows, b.Rows)
		return false
	}

	if !IsMatchingRows(a.Graph, b.Graph) {
		logrus.Warnf("Mismatching graphs")
		logrus.Infof("Graphs:\n\t%+v\nvs\n\t%+v", a.Graph, b.Graph)
		return false
	}

	if a.ProducedError != nil || b.ProducedError != nil {
		if a.ProducedError == nil || b.ProducedError == nil {
			return false
		}
		if a.ProducedError.Error() != b.ProducedError.Error() {
			return false
		}
	}

	return true
}
