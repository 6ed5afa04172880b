/*
Package reports provides the cobra-cli command for managing the reports written by failed runs.
*/
package reports

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Cmd for managing the reports
var Cmd = &cobra.Command{
	Use:     "reports",
	Aliases: []string{"report"},
	Short:   "Manage your reports",
	Long: `Manage the reports cypherc generated.
With this command you can easily inspect, rerun, delete, rename or change the status of the generated reports.`,
	Run: func(cmd *cobra.Command, args []string) {
		reportsDir, err := cmd.Flags().GetString("reports")
		if err != nil {
			logrus.Errorf("Failed to get location of reports - %v", err)
			os.Exit(1)
		}

		p := tea.NewProgram(createInspectModel(reportsDir), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logrus.Errorf("Reports command failed - %v", err)
			os.Exit(1)
		}
	},
}
