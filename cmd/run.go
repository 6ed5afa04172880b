package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/Anon10214/cypherc/cmd/config"
	"github.com/Anon10214/cypherc/dbms"
	"github.com/Anon10214/cypherc/middleware/prometheus"
	"github.com/Anon10214/cypherc/scheduler"
	"github.com/Anon10214/cypherc/scheduler/strategy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runStrategy string
var resetBeforeDocument bool
var suppressReports bool
var hideStats bool

var prometheusPort int
var prometheusFullMetrics bool

var runCmd = &cobra.Command{
	Use:   "run target document...",
	Short: "Compile query documents and run them against a target",
	Long: `Compile the passed query documents and run the resulting queries against a target.

Directories get searched for .yml and .yaml documents.
A report gets written for every document whose queries failed, mismatched or crashed the target.

Valid targets are:
    neo4j          - default port: 7687
    memgraph       - default port: 7687
    falkordb       - default port: 6379
    apache-age     - default port: 5432
    redisgraph     - default port: 6379 (DEPRECATED)
    mock           - accepts every query, useful for dry runs

Valid strategies are:
    none (default)      - Run every document once and report errors and crashes.
    naming-equivalence  - Run every document twice, once with the configured naming and
                          once with an alternate one, on a freshly reset database.
                          Report a mismatch if the results differ.`,
	Args: cobra.MatchAll(cobra.MinimumNArgs(2), func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(config.Targets, args[0]) {
			return fmt.Errorf("invalid target %q", args[0])
		}
		return nil
	}),
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.GetConfigForTarget(args[0], targetConfigPath)
		if err != nil {
			fmt.Printf("Failed to initialize run - %v\n\n%s\n", err, cmd.Long)
			os.Exit(1)
		}

		if conf.Naming, err = applyNamingFlags(cmd.Flags(), conf.Naming); err != nil {
			logrus.Errorf("Invalid naming - %v", err)
			os.Exit(1)
		}

		if conf.TargetStrategy, err = strategy.ParseRunStrategy(runStrategy); err != nil {
			fmt.Printf("Failed to initialize run - %v\n\n%s\n", err, cmd.Long)
			os.Exit(1)
		}
		conf.Strategy = conf.TargetStrategy.ToStrategy()
		conf.ResetBeforeDocument = resetBeforeDocument
		conf.SuppressReports = suppressReports
		if !hideStats {
			conf.StatsOutput = os.Stdout
		}

		docs, err := loadDocuments(args[1:])
		if err != nil {
			logrus.Errorf("Failed to load documents - %v", err)
			os.Exit(1)
		}

		logrus.Infof("Running %d documents against target %s using strategy %s", len(docs), args[0], conf.TargetStrategy.ToString())

		// Register Prometheus exporter if flag set
		if cmd.Flags().Changed("prometheus-port") {
			prometheus.RegisterExporter(prometheusPort, &conf, prometheusFullMetrics)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		outcomes, err := scheduler.Run(ctx, conf, docs)
		if err != nil {
			logrus.Errorf("Scheduler failed with: %v", err)
			os.Exit(1)
		}
		logrus.Infoln("Scheduler terminated without error")

		for _, outcome := range outcomes {
			if outcome.Type == dbms.Failed || outcome.Type == dbms.Mismatch || outcome.Type == dbms.Crash {
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStrategy, "strategy", "none", "The strategy judging the results { none | naming-equivalence }")
	runCmd.Flags().BoolVar(&resetBeforeDocument, "reset", false, "Reset the database before every document")
	runCmd.Flags().BoolVar(&suppressReports, "suppress-reports", false, "Don't write reports for failed documents")
	runCmd.Flags().BoolVar(&hideStats, "hide-stats", false, "Don't print the run statistics once all documents ran")
	runCmd.Flags().IntVar(&prometheusPort, "prometheus-port", 0, "Activate the prometheus exporter and set the port where Prometheus listens for requests on the /metrics endpoint")
	runCmd.Flags().BoolVar(&prometheusFullMetrics, "prometheus-full-metrics", false, "Expose full prometheus metrics.\nThese analyze every compiled query and are mostly useful for benchmarking.")
}
