package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/export"
	"github.com/rendetalje/lead-cli/internal/publish"
	"github.com/rendetalje/lead-cli/pkg/notion"
	"github.com/rendetalje/lead-cli/pkg/salesforce"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push canonical leads to a CRM",
}

var publishNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Upsert leads into the Notion lead database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.ValidatePublish("notion"); err != nil {
			return err
		}
		client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		p := publish.NewNotionPublisher(client, cfg.Notion.LeadDB, cfg.Notion.Concurrency, zap.L())
		return runPublish(cmd.Context(), p, artifactInput(cmd, cfg), os.Stdout)
	},
}

var publishSalesforceCmd = &cobra.Command{
	Use:   "salesforce",
	Short: "Upsert leads as Salesforce Lead records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.ValidatePublish("salesforce"); err != nil {
			return err
		}
		client, err := salesforce.Connect(salesforce.Credentials{
			LoginURL: cfg.Salesforce.LoginURL,
			Username: cfg.Salesforce.Username,
			ClientID: cfg.Salesforce.ClientID,
			KeyPath:  cfg.Salesforce.KeyPath,
		})
		if err != nil {
			return err
		}
		p := publish.NewSalesforcePublisher(client, zap.L())
		return runPublish(cmd.Context(), p, artifactInput(cmd, cfg), os.Stdout)
	},
}

func init() {
	publishCmd.PersistentFlags().String("input", "", "artifact to read (default pipeline.output_path)")
	publishCmd.AddCommand(publishNotionCmd)
	publishCmd.AddCommand(publishSalesforceCmd)
	rootCmd.AddCommand(publishCmd)
}

func artifactInput(cmd *cobra.Command, c *config.Config) string {
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		return v
	}
	return c.Pipeline.OutputPath
}

func runPublish(ctx context.Context, p publish.Publisher, input string, out io.Writer) error {
	art, err := export.ReadArtifact(input)
	if err != nil {
		return err
	}

	rep, err := p.Publish(ctx, art.Leads)
	if rep != nil {
		fmt.Fprintf(out, "%s: %d created, %d updated, %d failed\n", rep.Target, rep.Created, rep.Updated, len(rep.Failed))
		for _, f := range rep.Failed {
			fmt.Fprintf(out, "  %s: %s\n", f.Key, f.Error)
		}
	}
	return err
}
