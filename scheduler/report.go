package scheduler

import (
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/translator"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ReportStatuses lists the statuses a report can have, in the order they are cycled through
var ReportStatuses = []string{"unconfirmed", "confirmed", "fixed", "rejected"}

// A Report as it is written to the reports directory
type Report struct {
	FilePath   string `yaml:"-"`
	ReportName string `yaml:"-"` // The base of the file path, without any file extension

	Target    string `yaml:"target"`
	Strategy  string `yaml:"strategy"`
	Document  string `yaml:"document"`
	TimeFound string `yaml:"time_found"`
	// The status of this report { unconfirmed | confirmed | fixed | rejected }
	ReportStatus string        `yaml:"report_status"`
	Result       string        `yaml:"result"`
	Queries      []ReportQuery `yaml:"queries"`
}

// A ReportQuery is a single build of the reported document
type ReportQuery struct {
	Text   string         `yaml:"text"`
	Params map[string]any `yaml:"params"`
	Error  string         `yaml:"error,omitempty"`
}

// Builds returns the queries of the report as the builds they were created from
func (r Report) Builds() []translator.Result {
	builds := make([]translator.Result, 0, len(r.Queries))
	for _, query := range r.Queries {
		params := query.Params
		if params == nil {
			params = make(map[string]any)
		}
		builds = append(builds, translator.Result{Text: query.Text, Params: params})
	}
	return builds
}

// ReadReport reads in the report pointed to by the given path
func ReadReport(filePath string) (*Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Join(errors.New("failed to read passed report"), err)
	}
	report := Report{}
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, errors.Join(errors.New("failed to unmarshal report"), err)
	}

	report.FilePath = strings.TrimSuffix(filePath, ".yml")
	report.ReportName = path.Base(report.FilePath)

	return &report, nil
}

// SetReportStatus overwrites the status of the report pointed to by the given path
func SetReportStatus(filePath string, status string) error {
	if !slices.Contains(ReportStatuses, status) {
		return fmt.Errorf("invalid report status %q", status)
	}
	report, err := ReadReport(filePath)
	if err != nil {
		return err
	}
	report.ReportStatus = status

	out, err := yaml.Marshal(report)
	if err != nil {
		return errors.Join(errors.New("failed to marshal report"), err)
	}
	return os.WriteFile(filePath, out, 0o644)
}

// NextReportStatus returns the status following the passed one in [ReportStatuses]
func NextReportStatus(status string) string {
	i := slices.Index(ReportStatuses, status)
	return ReportStatuses[(i+1)%len(ReportStatuses)]
}

// ReportQueryData holds a single build and its result, as passed to the report template
type ReportQueryData struct {
	Text        string           // The query text
	Params      map[string]any   // The query's parameters
	ParamsTable string           // The parameters as a markdown table
	Result      dbms.QueryResult // The result of running the query
	Error       string           // The error message the query produced, if any
}

// ReportMarkdownData is the data passed to the report template when writing a report's markdown content
type ReportMarkdownData struct {
	Document string            // The name of the document
	Target   string            // The target DBMS
	Strategy string            // The name of the strategy used
	Queries  []ReportQueryData // All builds of the document that were run
	Last     ReportQueryData   // The last build that was run

	Type       dbms.QueryResultType // The type the document's results indicate
	IsFailed   bool                 // If Type is FAILED
	IsMismatch bool                 // If Type is MISMATCH
	IsCrash    bool                 // If Type is CRASH
	IsTimeout  bool                 // If Type is TIMEOUT
}

// GenerateReport writes the report of the outcome to the default location
func GenerateReport(conf Config, outcome Outcome) {
	WriteReport(conf, outcome, fmt.Sprintf("report_%d", time.Now().UnixMicro()))
}

// checkReportsDirectory checks if the reports directory exists and attempts to create it if it doesn't
func checkReportsDirectory(conf Config) {
	if stat, err := os.Stat(conf.ReportsDirectory); err != nil || !stat.IsDir() {
		logrus.Warnf("Reports directory does not exist, attempting to create it...")
		if err := os.MkdirAll(conf.ReportsDirectory, 0o755); err != nil {
			logrus.Errorf("Failed to create reports directory - %v", err)
		} else {
			logrus.Infof("Created reports directory at %q", conf.ReportsDirectory)
		}
	}
}

// WriteReport creates a report with the passed name in the directory pointed to by the ReportsDirectory specified in the passed [Config].
// If the current target has a report template, this function writes the markdown as well.
func WriteReport(conf Config, outcome Outcome, reportName string) {
	checkReportsDirectory(conf)

	newReport := Report{
		Target:       conf.TargetDB,
		Strategy:     conf.TargetStrategy.ToString(),
		Document:     outcome.Document,
		TimeFound:    time.Now().String(),
		ReportStatus: "unconfirmed",
		Result:       outcome.Type.ToString(),
	}
	for i, build := range outcome.Builds {
		query := ReportQuery{Text: build.Text, Params: build.Params}
		if i < len(outcome.Results) && outcome.Results[i].ProducedError != nil {
			query.Error = outcome.Results[i].ProducedError.Error()
		}
		newReport.Queries = append(newReport.Queries, query)
	}

	out, err := yaml.Marshal(newReport)
	if err != nil {
		logrus.Errorf("Failed to marshal report - %v: %v", err, newReport)
		return
	}

	filePath := path.Join(conf.ReportsDirectory, reportName+".yml")
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		logrus.Errorf("Failed to write report file at %s - %v: %v", filePath, err, newReport)
		return
	}
	logrus.Errorf("Document %s failed, created report %s", outcome.Document, filePath)

	if conf.ReportTemplate != nil {
		WriteReportMarkdown(conf, outcome, reportName)
	}
}

// WriteReportMarkdown writes the markdown of the given outcome in the directory pointed to by the ReportsDirectory specified in the passed [Config] with the given name.
func WriteReportMarkdown(conf Config, outcome Outcome, reportName string) {
	checkReportsDirectory(conf)

	filePath := path.Join(conf.ReportsDirectory, reportName+".md")
	mdFile, err := os.Create(filePath)
	if err != nil {
		logrus.Errorf("Failed to create report markdown file at %s - %v", filePath, err)
		return
	}
	defer mdFile.Close()

	if err := conf.ReportTemplate.Execute(mdFile, NewReportMarkdownData(conf, outcome)); err != nil {
		logrus.Errorf("Failed to write report markdown - %v", err)
		return
	}

	logrus.Infof("Created report markdown %s", filePath)
}

// NewReportMarkdownData returns the data the report template gets executed with for the passed outcome.
func NewReportMarkdownData(conf Config, outcome Outcome) ReportMarkdownData {
	data := ReportMarkdownData{
		Document: outcome.Document,
		Target:   conf.TargetDB,
		Strategy: conf.TargetStrategy.ToString(),

		Type:       outcome.Type,
		IsFailed:   outcome.Type == dbms.Failed,
		IsMismatch: outcome.Type == dbms.Mismatch,
		IsCrash:    outcome.Type == dbms.Crash,
		IsTimeout:  outcome.Type == dbms.Timeout,
	}

	for i, result := range outcome.Results {
		query := ReportQueryData{
			Text:        outcome.Builds[i].Text,
			Params:      outcome.Builds[i].Params,
			ParamsTable: ParamsTable(outcome.Builds[i].Params).RenderMarkdown(),
			Result:      result,
		}
		if result.ProducedError != nil {
			query.Error = result.ProducedError.Error()
		}
		data.Queries = append(data.Queries, query)
	}
	if len(data.Queries) != 0 {
		data.Last = data.Queries[len(data.Queries)-1]
	}

	return data
}

// ParamsTable returns a table listing the parameters sorted by key.
func ParamsTable(params map[string]any) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Parameter", "Value"})
	for key, value := range params {
		t.AppendRow(table.Row{"$" + key, formatValue(value)})
	}
	t.SortBy([]table.SortBy{{Name: "Parameter", Mode: table.Asc}})
	return t
}

func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
