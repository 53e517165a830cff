package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rendetalje/lead-cli/internal/export"
	"github.com/rendetalje/lead-cli/internal/followup"
)

var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Print follow-up priority tables from a lead artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = cfg.Pipeline.OutputPath
		}
		days, _ := cmd.Flags().GetInt("inactive-days")
		asCSV, _ := cmd.Flags().GetBool("csv")
		return runFollowup(input, days, asCSV, time.Now(), os.Stdout)
	},
}

func init() {
	followupCmd.Flags().String("input", "", "artifact to read (default pipeline.output_path)")
	followupCmd.Flags().Int("inactive-days", followup.DefaultInactiveDays, "days without contact before a lead counts as inactive")
	followupCmd.Flags().Bool("csv", false, "write CSV instead of tables")
	rootCmd.AddCommand(followupCmd)
}

func runFollowup(input string, inactiveDays int, asCSV bool, now time.Time, out io.Writer) error {
	art, err := export.ReadArtifact(input)
	if err != nil {
		return err
	}
	plan := followup.Build(art.Leads, now, inactiveDays)
	if asCSV {
		return followup.WriteCSV(out, plan)
	}
	return followup.WriteTables(out, plan)
}
