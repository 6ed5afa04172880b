/*
Package rerun provides the cobra-cli command for rerunning the queries of a report.
*/
package rerun

import (
	"fmt"
	"path"

	"github.com/Anon10214/cypherc/cmd/config"
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Anon10214/cypherc/scheduler/strategy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RegenerateMarkdown gets set by the -r flag
var RegenerateMarkdown bool

// Cmd for rerunning a report
var Cmd = &cobra.Command{
	Use:   "rerun report",
	Short: "Rerun the queries from a given report",
	Args:  cobra.ExactArgs(1),
	Long: `This command allows you to rerun the queries from a report.

By using the -r flag, you may also regenerate the markdown of the passed report.

By passing a generated report, this command reads in the included queries and their parameters
and runs them against the target database, judging the results with the report's strategy.
This is useful for ensuring a failure's validity, for example if a new version of the target got released.`,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := scheduler.ReadReport(args[0])
		if err != nil {
			logrus.Fatalf("Failed to get report - %v", err)
		}

		targetConfig, err := cmd.Flags().GetString("target-config")
		if err != nil {
			logrus.Fatalf("Couldn't get target config - %v", err)
		}

		conf, err := config.GetConfigForTarget(report.Target, targetConfig)
		if err != nil {
			logrus.Fatalf("Couldn't read target from supplied report: %v", err)
		}

		outcome, err := Rerun(report, conf)
		if err != nil {
			logrus.Fatalf("Rerunning report didn't result in valid run - %v", err)
		}

		switch outcome.Type {
		case dbms.Valid:
			logrus.Infof("Queries were valid")
		case dbms.Crash:
			logrus.Infof("Queries caused database to crash")
		default:
			logrus.Infof("Document resulted in non valid return type: %s", outcome.Type.ToString())
		}

		if RegenerateMarkdown {
			if conf.ReportTemplate == nil {
				logrus.Fatalf("Target %s has no report template, can't regenerate markdown", report.Target)
			}
			logrus.Infof("Regenerating report markdown")
			conf.ReportsDirectory = path.Dir(report.FilePath)
			scheduler.WriteReportMarkdown(conf, outcome, report.ReportName)
		}
	},
}

// Rerun runs the queries of the passed report against the DB of the passed config.
//
// The strategy of the config is replaced by the one the report was created with.
func Rerun(report *scheduler.Report, conf scheduler.Config) (scheduler.Outcome, error) {
	runStrategy, err := strategy.ParseRunStrategy(report.Strategy)
	if err != nil {
		return scheduler.Outcome{}, err
	}
	conf.TargetStrategy = runStrategy
	conf.Strategy = runStrategy.ToStrategy()

	logrus.Infof("Rerunning %d queries of %s for target %s", len(report.Queries), report.ReportName, report.Target)

	if ok, err := scheduler.ConnectToDB(conf); !ok {
		return scheduler.Outcome{}, fmt.Errorf("failed to connect to DB - %v", err)
	}
	if err := conf.DB.Reset(conf.DBOptions); err != nil {
		return scheduler.Outcome{}, fmt.Errorf("failed to reset DB - %v", err)
	}

	outcome, err := scheduler.RunBuilds(conf, report.Document, report.Builds())
	if err != nil {
		return outcome, err
	}
	logrus.Infof("Done rerunning queries")

	return outcome, nil
}
