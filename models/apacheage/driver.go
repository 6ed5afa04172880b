/*
Package apacheage provides the driver for running compiled queries against Apache AGE, a postgres extension.
*/
package apacheage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/apache/age/drivers/golang/age"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// The name of the graph all queries run against
const graphName = "cypherc"

// Driver for apache age
type Driver struct {
	driver *sql.DB
}

// Init the DB driver
func (d *Driver) Init(opts dbms.DBOptions) error {
	connPort := 5432
	if opts.Port != nil {
		connPort = *opts.Port
	}

	var err error
	if d.driver, err = sql.Open("postgres", fmt.Sprintf("host=%s port=%d user=postgres sslmode=disable connect_timeout=%d", opts.Host, connPort, int(opts.Timeout.Seconds()))); err != nil {
		return err
	}

	logrus.Debug("Setting up connection to the apache age database")
	return d.driver.Ping()
}

// initAgeTransaction runs the boilerplate statements for initializing an apache age transaction.
func (d *Driver) initAgeTransaction(opts dbms.DBOptions) (*sql.Tx, error) {
	tx, err := d.driver.Begin()
	if err != nil {
		return nil, err
	}

	for _, query := range []string{
		`LOAD 'age';`,
		`SET search_path = ag_catalog, "$user", public;`,
		fmt.Sprintf(`SET LOCAL statement_timeout = %d;`, opts.Timeout.Milliseconds()),
	} {
		if _, err := tx.Exec(query); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	return tx, nil
}

// Reset the database
func (d *Driver) Reset(opts dbms.DBOptions) error {
	logrus.Debug("Resetting Database")

	// Drop the graph in a separate transaction, as on the first reset no graph exists yet.
	tx, err := d.initAgeTransaction(opts)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`SELECT drop_graph('%s', true);`, graphName)); err != nil {
		tx.Rollback()
		if pqErr, ok := err.(*pq.Error); !ok || pqErr.Message != fmt.Sprintf(`graph "%s" does not exist`, graphName) {
			return err
		}
	} else if err := tx.Commit(); err != nil {
		return err
	}

	tx, err = d.initAgeTransaction(opts)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`SELECT create_graph('%s');`, graphName)); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// RunQuery runs the query against the apache age DB and returns its result.
//
// Parameters are passed as a single agtype map, the way AGE expects them.
func (d Driver) RunQuery(opts dbms.DBOptions, query string, params map[string]any) dbms.QueryResult {
	res := dbms.QueryResult{}

	tx, err := d.initAgeTransaction(opts)
	if err != nil {
		res.ProducedError = err
		return res
	}
	defer tx.Rollback()

	columnCount := ReturnColumns(query)
	columns := make([]string, columnCount)
	for i := range columns {
		columns[i] = fmt.Sprintf("v%d agtype", i)
	}

	var rows *sql.Rows
	if len(params) == 0 {
		rows, err = tx.Query(fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$) AS (%s);", graphName, query, strings.Join(columns, ", ")))
	} else {
		encoded, encodeErr := json.Marshal(params)
		if encodeErr != nil {
			res.ProducedError = fmt.Errorf("encoding parameters: %w", encodeErr)
			return res
		}
		rows, err = tx.Query(fmt.Sprintf("SELECT * FROM cypher('%s', $$ %s $$, $1) AS (%s);", graphName, query, strings.Join(columns, ", ")), string(encoded))
	}
	if err != nil {
		res.ProducedError = err
		return res
	}

	if res.Rows, err = collectRows(age.NewCypherCursor(columnCount, rows).(*age.CypherCursor)); err != nil {
		res.ProducedError = err
		return res
	}

	cursor, err := age.ExecCypher(tx, graphName, 1, "MATCH (n) RETURN n AS x UNION MATCH ()-[m]-() RETURN m AS x")
	if err != nil {
		res.ProducedError = err
		logrus.Debugf("Error %v produced when trying to get the graph", err)
		return res
	}
	graph, err := collectRows(cursor)
	if err != nil {
		res.ProducedError = err
		return res
	}
	if graph == nil {
		graph = []any{}
	}
	res.Graph = graph

	res.ProducedError = tx.Commit()
	return res
}

func collectRows(cursor *age.CypherCursor) ([]any, error) {
	defer cursor.Close()

	var rows []any
	for cursor.Next() {
		entities, err := cursor.GetRow()
		if err != nil {
			return rows, err
		}
		row := make([]any, len(entities))
		for i := range entities {
			row[i] = entities[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReturnColumns returns the amount of columns the query's last RETURN clause projects.
//
// AGE needs the columns of a cypher call declared up front. Queries without
// a RETURN or returning `*` are assumed to have a single column.
func ReturnColumns(query string) int {
	index := strings.LastIndex(query, "RETURN ")
	if index == -1 || (index > 0 && query[index-1] != '\n' && query[index-1] != ' ') {
		return 1
	}
	projection := query[index+len("RETURN "):]
	if end := strings.IndexByte(projection, '\n'); end != -1 {
		projection = projection[:end]
	}
	projection = strings.TrimPrefix(projection, "DISTINCT ")
	if strings.TrimSpace(projection) == "*" {
		return 1
	}

	columns, depth := 1, 0
	var quote rune
	for _, r := range projection {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			columns++
		}
	}
	return columns
}

// GetQueryResultType evaluates the produced result and returns the type the result indicates.
func (d Driver) GetQueryResultType(res dbms.QueryResult, errorMessageRegex *dbms.ErrorMessageRegex) dbms.QueryResultType {
	switch err := res.ProducedError.(type) {
	case nil:
		return dbms.Valid
	case *pq.Error:
		// query_canceled, raised by the statement timeout
		if err.Code == "57014" {
			return dbms.Timeout
		}

		if errorMessageRegex != nil && errorMessageRegex.Ignored != nil && errorMessageRegex.Ignored.MatchString(err.Message) {
			return dbms.Invalid
		}

		logrus.Warnf("Encountered pqError with error code %s and msg %s", err.Code, err.Message)
		return dbms.Failed
	default:
		return dbms.ClassifyError(err, errorMessageRegex)
	}
}

// VerifyConnectivity checks whether the DB is still reachable and hasn't crashed.
func (d Driver) VerifyConnectivity(dbms.DBOptions) (bool, error) {
	err := d.driver.Ping()
	return err == nil, err
}

// IsEqualResult returns true if the two passed query results hold the same information, else false.
func (d Driver) IsEqualResult(a, b dbms.QueryResult) bool {
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

// isMatchingElement compares two AGE entities, ignoring the IDs of vertices and edges.
func isMatchingElement(a, b any) bool {
	switch a := a.(type) {
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
	case *age.Vertex:
		b, ok := b.(*age.Vertex)
		return ok && a.Label() == b.Label() && reflect.DeepEqual(a.Props(), b.Props())
	case *age.Edge:
		b, ok := b.(*age.Edge)
		return ok && a.Label() == b.Label() && reflect.DeepEqual(a.Props(), b.Props())
	default:
		return reflect.DeepEqual(a, b)
	}
}
