/*
Package falkordb provides the driver for running compiled queries against FalkorDB, a Redis module.
*/
package falkordb

import (
	"context"
	"fmt"
	"math"
	"net"
	"reflect"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/FalkorDB/falkordb-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// The name of the graph all queries run against
const graphName = "cypherc"

// Driver for FalkorDB
type Driver struct {
	conn    *redis.Client
	fdbConn *falkordb.FalkorDB
	graph   *falkordb.Graph

	// The FalkorDB driver sometimes returns nil record values.
	// If this happens, the query is treated as invalid.
	returnedNil bool

	// The amount of queries run since the last restart.
	// Redis doesn't kill long running processes if they write data, so the server gets shut down every once in a while
	ranQueries int
}

// Init the DB driver
func (d *Driver) Init(opts dbms.DBOptions) error {
	port := 6379
	if opts.Port != nil {
		port = *opts.Port
	}

	var err error
	d.fdbConn, err = falkordb.FalkorDBNew(&falkordb.ConnectionOption{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, port),
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
		PoolTimeout:  opts.Timeout,
		Protocol:     3,
		MaxRetries:   -1,
	})
	if err != nil {
		return err
	}

	d.graph = d.fdbConn.SelectGraph(graphName)
	d.conn = d.graph.Conn

	return d.conn.Ping(context.Background()).Err()
}

// Reset the database
func (d *Driver) Reset(opts dbms.DBOptions) error {
	if d.ranQueries >= 10 {
		logrus.Debugf("Ran %d queries, shutting down redis to restart", d.ranQueries)
		d.ranQueries = 0
		d.conn.ShutdownNoSave(context.Background())
		for i := 0; ; i++ {
			if err := d.Init(opts); err == nil {
				break
			}
			if i == 100 {
				return fmt.Errorf("failed to reestablish connection to redis after shutting it down within %d tries - make sure it restarts on exit", i)
			}
		}
	}

	d.returnedNil = false
	return d.conn.FlushAll(context.Background()).Err()
}

// RunQuery runs the query with its parameters against FalkorDB and returns its result.
func (d *Driver) RunQuery(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	res := dbms.QueryResult{}
	d.ranQueries++
	d.returnedNil = false

	returned, err := d.graph.Query(query, params, falkordb.NewQueryOptions().SetTimeout(int(opts.Timeout.Milliseconds())))
	if err != nil {
		logrus.Debugf("Query produced error - %v", err)
		res.ProducedError = err
		return res
	}
	res.Rows = d.collectRows(returned, query)

	graphRes, err := d.graph.ROQuery("MATCH (n) RETURN n AS x UNION MATCH ()-[m]-() RETURN m AS x", nil, falkordb.NewQueryOptions().SetTimeout(int(opts.Timeout.Milliseconds())))
	if err != nil {
		logrus.Debugf("Couldn't get graph - %v", err)
		res.ProducedError = err
		return res
	}
	graph := d.collectRows(graphRes, query)
	if graph == nil {
		graph = []any{}
	}
	res.Graph = graph

	return res
}

func (d *Driver) collectRows(res *falkordb.QueryResult, query string) []any {
	var rows []any
	for res.Next() {
		val := res.Record()
		if val == nil {
			d.returnedNil = true
			logrus.Debugf("nil record returned by the FalkorDB driver for %s", query)
			continue
		}
		rows = append(rows, val.Values())
	}
	return rows
}

// GetQueryResultType evaluates the produced result and returns the type the result indicates.
func (d *Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	if d.returnedNil {
		return dbms.Invalid
	}

	err := res.ProducedError
	if err == nil {
		return dbms.Valid
	}

	// Probably indicates a crash, the scheduler checks if the DB is down
	if err.Error() == "EOF" {
		return dbms.Valid
	}

	if _, ok := err.(redis.Error); !ok {
		if err, ok := err.(*net.OpError); ok {
			logrus.Debugf("Encountered net.OpError %v", err)
			return dbms.Crash
		}
		return dbms.ClassifyError(err, errorMessageRegex)
	}

	if err.Error() == "Query timed out" {
		return dbms.Timeout
	}

	if errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Error()) {
		return dbms.Invalid
	}

	logrus.Warnf("Encountered Redis Error: %v", err)
	return dbms.Failed
}

// VerifyConnectivity checks whether the DB is still reachable and hasn't crashed.
func (d *Driver) VerifyConnectivity(opts dbms.DBOptions) (bool, error) {
	if err := d.conn.Ping(context.Background()).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// IsEqualResult returns whether the two passed results equal
func (d *Driver) IsEqualResult(a dbms.QueryResult, b dbms.QueryResult) bool {
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

// IsMatchingRows compares two FalkorDB result rows regardless of the order of their elements.
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
			if isMatchingElement(firstRow[i], secondRowCopy[j]) {
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

// isMatchingElement returns true if the two passed elements
// evaluate to the same FalkorDB elements, else it returns false.
func isMatchingElement(a, b any) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case []any:
		b, ok := b.([]any)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !isMatchingElement(a[i], b[i]) {
				return false
			}
		}
		return true
	case float64:
		b, ok := b.(float64)
		return ok && (b == a || (math.IsNaN(a) && math.IsNaN(b)))
	case *falkordb.Node:
		b, ok := b.(*falkordb.Node)
		return ok && isMatchingNode(*a, *b)
	case *falkordb.Edge:
		b, ok := b.(*falkordb.Edge)
		return ok && isMatchingEdge(*a, *b)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func isMatchingNode(a, b falkordb.Node) bool {
	if cmp.Diff(a.Labels, b.Labels, cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()) != "" {
		return false
	}
	return isMatchingProperties(a.Properties, b.Properties)
}

func isMatchingEdge(a, b falkordb.Edge) bool {
	return a.Relation == b.Relation && isMatchingProperties(a.Properties, b.Properties)
}

func isMatchingProperties(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if !isMatchingElement(v, b[k]) {
			return false
		}
	}
	return true
}
