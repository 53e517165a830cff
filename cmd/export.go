package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rendetalje/lead-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert a lead artifact to XLSX or CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = cfg.Pipeline.OutputPath
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return runExport(input, format, output, os.Stdout)
	},
}

func init() {
	exportCmd.Flags().String("input", "", "artifact to read (default pipeline.output_path)")
	exportCmd.Flags().String("format", "xlsx", "output format: xlsx or csv")
	exportCmd.Flags().String("output", "", "output path; csv defaults to stdout, xlsx to the artifact name with .xlsx")
	rootCmd.AddCommand(exportCmd)
}

func runExport(input, format, output string, stdout io.Writer) error {
	art, err := export.ReadArtifact(input)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "xlsx":
		if output == "" {
			output = strings.TrimSuffix(input, filepath.Ext(input)) + ".xlsx"
		}
		if err := export.WriteXLSX(output, art.Leads); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d leads to %s\n", len(art.Leads), output)
		return nil
	case "csv":
		if output == "" {
			return export.WriteCSV(stdout, art.Leads)
		}
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrap(err, "export: create csv")
		}
		defer f.Close() //nolint:errcheck
		return export.WriteCSV(f, art.Leads)
	default:
		return eris.Errorf("export: unknown format %q (want xlsx or csv)", format)
	}
}
