/*
Package redisgraph provides the driver for running compiled queries against RedisGraph, a Redis module.
*/
package redisgraph

import (
	"fmt"
	"math"
	"net"
	"reflect"
	"strings"

	"github.com/Anon10214/cypherc/dbms"
	rg "github.com/RedisGraph/redisgraph-go"
	"github.com/gomodule/redigo/redis"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"
)

// The name of the graph all queries run against
const graphName = "cypherc"

// Driver for RedisGraph
type Driver struct {
	conn  redis.Conn
	graph rg.Graph
}

// Init the DB driver
func (d *Driver) Init(opts dbms.DBOptions) error {
	port := 6379
	if opts.Port != nil {
		port = *opts.Port
	}

	conn, err := redis.Dial("tcp", fmt.Sprintf("%s:%d", opts.Host, port),
		redis.DialConnectTimeout(opts.Timeout),
		redis.DialReadTimeout(opts.Timeout),
		redis.DialWriteTimeout(opts.Timeout),
	)
	if err != nil {
		return err
	}
	d.conn = conn
	d.graph = rg.GraphNew(graphName, conn)

	logrus.Debug("Setting up connection to the RedisGraph database")
	_, err = d.conn.Do("PING")
	return err
}

// Reset the database
func (d *Driver) Reset(dbms.DBOptions) error {
	_, err := d.conn.Do("FLUSHALL")
	return err
}

// RunQuery runs the query with its parameters against RedisGraph and returns its result.
func (d *Driver) RunQuery(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	res := dbms.QueryResult{}

	returned, err := d.graph.ParameterizedQuery(query, params)
	if err != nil {
		logrus.Debugf("Query produced error - %v", err)
		res.ProducedError = err
		return res
	}
	for returned.Next() {
		res.Rows = append(res.Rows, returned.Record().Values())
	}

	graphRes, err := d.graph.Query("MATCH (n) RETURN n AS x UNION MATCH ()-[m]-() RETURN m AS x")
	if err != nil {
		logrus.Debugf("Couldn't get graph - %v", err)
		res.ProducedError = err
		return res
	}
	graph := []any{}
	for graphRes.Next() {
		graph = append(graph, graphRes.Record().Values())
	}
	res.Graph = graph

	return res
}

// GetQueryResultType evaluates the produced result and returns the type the result indicates.
func (d *Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	err := res.ProducedError
	switch err := err.(type) {
	case nil:
		return dbms.Valid
	case redis.Error:
		if strings.Contains(err.Error(), "Query timed out") {
			return dbms.Timeout
		}
		if errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Error()) {
			return dbms.Invalid
		}
		logrus.Warnf("Encountered Redis Error: %v", err)
		return dbms.Failed
	case *net.OpError:
		logrus.Debugf("Encountered net.OpError %v", err)
		if err.Timeout() {
			return dbms.Timeout
		}
		return dbms.Crash
	default:
		return dbms.ClassifyError(err, errorMessageRegex)
	}
}

// VerifyConnectivity checks whether the DB is still reachable and hasn't crashed.
func (d *Driver) VerifyConnectivity(dbms.DBOptions) (bool, error) {
	if _, err := d.conn.Do("PING"); err != nil {
		return false, err
	}
	return true, nil
}

// IsEqualResult returns whether the two passed results equal
func (d *Driver) IsEqualResult(a dbms.QueryResult, b dbms.QueryResult) bool {
	if !isMatchingUnordered(a.Rows, b.Rows) {
		logrus.Warn("Encountered mismatching rows")
		logrus.Infof("\n\t%v\nvs\n\t%v", a.Rows, b.Rows)
		return false
	}

	if !isMatchingUnordered(a.Graph, b.Graph) {
		logrus.Warnf("Mismatching graphs")
		logrus.Infof("Graphs:\n\t%+v\nvs\n\t%+v", a.Graph, b.Graph)
		return false
	}

	if (a.ProducedError == nil) != (b.ProducedError == nil) {
		return false
	}
	return a.ProducedError == nil || a.ProducedError.Error() == b.ProducedError.Error()
}

// isMatchingUnordered compares two lists of rows or graph elements regardless of their order.
func isMatchingUnordered(first, second any) bool {
	if first == nil || second == nil {
		return first == nil && second == nil
	}

	firstList, secondList := first.([]any), second.([]any)
	if len(firstList) != len(secondList) {
		return false
	}

	remaining := append([]any{}, secondList...)
	for _, element := range firstList {
		matchedIndex := -1
		for j := range remaining {
			if isMatchingElement(element, remaining[j]) {
				matchedIndex = j
				break
			}
		}
		if matchedIndex == -1 {
			return false
		}
		remaining = append(remaining[:matchedIndex], remaining[matchedIndex+1:]...)
	}
	return true
}

// isMatchingElement returns true if the two passed elements
// evaluate to the same RedisGraph elements, else it returns false.
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
	case *rg.Node:
		b, ok := b.(*rg.Node)
		return ok && isMatchingNode(*a, *b)
	case *rg.Edge:
		b, ok := b.(*rg.Edge)
		return ok && isMatchingEdge(*a, *b)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func isMatchingNode(a, b rg.Node) bool {
	if cmp.Diff(a.Labels, b.Labels, cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()) != "" {
		return false
	}
	return isMatchingProperties(a.Properties, b.Properties)
}

func isMatchingEdge(a, b rg.Edge) bool {
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
