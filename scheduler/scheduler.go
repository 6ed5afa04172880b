/*
Package scheduler glues together all parts needed for running query documents against a database.

This includes the target [dbms.DB], the [Builder] compiling the documents and the [strategy.Strategy]
judging the results. Additionally, the scheduler writes reports when a document fails.

The scheduler is invoked through its [Run] function and can be configured using a [Config].
*/
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/Anon10214/cypherc/models/opencypher/document"
	"github.com/Anon10214/cypherc/scheduler/strategy"
	"github.com/Anon10214/cypherc/translator"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
)

// The Config for the scheduler
type Config struct {
	// The DB to run the queries against
	DB        dbms.DB
	DBOptions dbms.DBOptions
	// The naming documents get built with
	Naming config.Config
	// The builder compiling the documents, [DocumentBuilder] if nil
	Builder Builder
	// The strategy judging the results of a document's builds, the none strategy if nil
	Strategy strategy.Strategy
	// How many documents may be built at the same time, one per CPU if not positive
	Concurrency int
	// If true, the database is reset before every document
	ResetBeforeDocument bool
	// How many times to retry connecting to the database before giving up, -1 to retry forever
	DBConnectionRetries int
	// How long to wait before retrying to connect to the DB
	DBConnectionRetryInterval time.Duration
	// If true, no reports will be written
	SuppressReports bool
	// Where reports should be written to
	ReportsDirectory string
	// The target DBMS. This only gets used for creating reports.
	TargetDB string
	// The target run strategy. This only gets used for creating reports.
	TargetStrategy strategy.RunStrategy
	// ErrorMessageRegex holds regex strings, matching error messages the driver should ignore.
	// These are read from a config in cmd/config/config.go.
	ErrorMessageRegex *dbms.ErrorMessageRegex
	// ReportTemplate holds the template used to write the markdown of a report.
	ReportTemplate *template.Template
	// Where the run statistics get printed to, nothing is printed if nil
	StatsOutput io.Writer
}

func (conf Config) strategy() strategy.Strategy {
	if conf.Strategy == nil {
		return strategy.None.ToStrategy()
	}
	return conf.Strategy
}

// An Outcome holds the builds of a single document, their results and the type all results indicate
type Outcome struct {
	Document string
	Builds   []translator.Result
	Results  []dbms.QueryResult
	Type     dbms.QueryResultType
}

// Stats of a run
type runStats struct {
	sync.Mutex
	timestampStarted time.Time
	documents        int
	queries          int
	resultsByType    map[dbms.QueryResultType]int
}

// Run builds all documents and runs them against the configured DB, in the order they were passed.
//
// Returns the outcome of every document run before the context got cancelled.
func Run(ctx context.Context, conf Config, docs []*document.Document) ([]Outcome, error) {
	if ok, err := ConnectToDB(conf); !ok {
		return nil, errors.Join(errors.New("failed to connect to database"), err)
	}

	builds, err := BuildAll(ctx, conf, docs)
	if err != nil {
		return nil, err
	}

	stats := runStats{
		timestampStarted: time.Now(),
		resultsByType:    make(map[dbms.QueryResultType]int),
	}

	outcomes := make([]Outcome, 0, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		if conf.ResetBeforeDocument {
			if err := conf.DB.Reset(conf.DBOptions); err != nil {
				return outcomes, err
			}
		}

		outcome, err := RunBuilds(conf, doc.Name, builds[i])
		if err != nil {
			return outcomes, errors.Join(fmt.Errorf("couldn't run document %s", doc.Name), err)
		}
		outcomes = append(outcomes, outcome)
		logrus.Infof("Document %s finished with result %s", doc.Name, outcome.Type.ToString())

		stats.Lock()
		stats.documents++
		stats.queries += len(outcome.Results)
		stats.resultsByType[outcome.Type]++
		stats.Unlock()

		if isFailure(outcome.Type) && !conf.SuppressReports {
			GenerateReport(conf, outcome)
		}

		// Recover DBMS if this wasn't the last document
		if outcome.Type == dbms.Crash && i != len(docs)-1 {
			logrus.Info("Trying to recover database connection after crash")
			if ok, err := ConnectToDB(conf); !ok {
				return outcomes, errors.Join(errors.New("couldn't recover database connection after crash"), err)
			}
			logrus.Info("Database reinitialized")
		}
	}

	if conf.StatsOutput != nil {
		printRunStats(conf.StatsOutput, &stats)
	}

	return outcomes, nil
}

// isFailure returns true for result types a report gets written for
func isFailure(t dbms.QueryResultType) bool {
	return t == dbms.Failed || t == dbms.Mismatch || t == dbms.Crash
}

// RunBuilds runs all builds of a document against the configured DB and returns their outcome.
// The outcome's type is decided by the configured strategy.
func RunBuilds(conf Config, name string, builds []translator.Result) (Outcome, error) {
	s := conf.strategy()
	outcome := Outcome{Document: name, Builds: builds}

	for i, build := range builds {
		if i != 0 && s.ResetBetweenBuilds() {
			if err := conf.DB.Reset(conf.DBOptions); err != nil {
				return outcome, err
			}
		}

		res := RunQuery(conf, build)
		outcome.Results = append(outcome.Results, res)

		// Later builds can't be compared against a crashed or timed out run
		if res.Type == dbms.Crash || res.Type == dbms.Timeout {
			outcome.Type = res.Type
			return outcome, nil
		}
	}

	outcome.Type = s.GetQueryResultType(conf.DB, outcome.Results)
	return outcome, nil
}

// RunQuery runs a single build against the configured DB and returns its result with its type set.
func RunQuery(conf Config, build translator.Result) dbms.QueryResult {
	// Timeout the query manually after double the specified timeout.
	// Ensures queries terminate even if the driver or DBMS have a bug causing
	// them to run infinitely despite a specified timeout.
	var timeoutChan <-chan time.Time
	if conf.DBOptions.Timeout > 0 {
		timeoutChan = time.After(2 * conf.DBOptions.Timeout)
	}
	resChan := make(chan dbms.QueryResult, 1)
	go func(c chan dbms.QueryResult) {
		c <- conf.DB.RunQuery(conf.DBOptions, build.Text, build.Params)
	}(resChan)

	var res dbms.QueryResult
	select {
	case <-timeoutChan:
		logrus.Warnf("Had to kill query manually after it didn't terminate within double the specified timeout:\n%s", build.Text)
		res.Type = dbms.Timeout
		return res
	case res = <-resChan:
	}

	if ok, _ := conf.DB.VerifyConnectivity(conf.DBOptions); !ok {
		logrus.Error("Query caused database to crash")
		res.Type = dbms.Crash
	} else {
		res.Type = conf.DB.GetQueryResultType(res, conf.ErrorMessageRegex)
	}

	return res
}

// ConnectToDB returns true if a connection to the DB has been established, else false.
// Uses options from the passed config to adjust behavior.
func ConnectToDB(conf Config) (bool, error) {
	var lastError error
	for i := 0; i <= conf.DBConnectionRetries || conf.DBConnectionRetries == -1; i++ {
		if err := conf.DB.Init(conf.DBOptions); err != nil {
			lastError = err
		} else if ok, err := conf.DB.VerifyConnectivity(conf.DBOptions); !ok {
			lastError = err
		} else {
			logrus.Info("Successfully established DB connection")
			return true, nil
		}
		logrus.Info("Couldn't establish DB connection, retrying in ", conf.DBConnectionRetryInterval.String())
		time.Sleep(conf.DBConnectionRetryInterval)
	}
	return false, lastError
}

// Prints the stats of the run
func printRunStats(w io.Writer, stats *runStats) {
	fmt.Fprintf(w, "  %s %s %[1]s  \n\n", strings.Repeat("─", 20), fmt.Sprintf("Finished run, stats when run finished at %s", time.Now().Format("15:04:05")))

	t := table.NewWriter()
	t.SetOutputMirror(w)

	title := table.Row{"Documents"}
	header := table.Row{""}                   // Name of the query result type
	count := table.Row{"encountered"}         // Count of the query result type encountered
	percentage := table.Row{"% of documents"} // Percentage of the query result type to total documents

	stats.Lock()
	defer stats.Unlock()

	// Iterate over possible query result types and add their stats
	for i := dbms.Valid; i <= dbms.Timeout; i++ {
		title = append(title, "Documents")
		header = append(header, i.ToString())
		count = append(count, stats.resultsByType[i])
		percentage = append(percentage, fmt.Sprintf("%#0.2f%%", 100*float64(stats.resultsByType[i])/float64(max(stats.documents, 1))))
	}

	title = append(title, "Documents")
	header = append(header, "Total")
	count = append(count, stats.documents)

	t.AppendRow(title, table.RowConfig{AutoMerge: true})
	t.AppendSeparator()
	t.AppendRow(header)
	t.AppendSeparator()
	t.AppendRow(count)
	t.AppendRow(percentage)

	t.SetStyle(table.StyleRounded)
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)

	t.AppendRow(table.Row{"General Stats", "General Stats"}, table.RowConfig{AutoMerge: true})
	t.AppendSeparator()
	t.AppendRow(table.Row{"#documents", stats.documents})
	t.AppendSeparator()
	t.AppendRow(table.Row{"#queries", stats.queries})
	t.AppendSeparator()
	t.AppendRow(table.Row{"time elapsed", time.Since(stats.timestampStarted).Round(time.Millisecond)})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
