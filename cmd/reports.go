package cmd

import (
	"github.com/Anon10214/cypherc/cmd/reports"
)

func init() {
	rootCmd.AddCommand(reports.Cmd)
}
