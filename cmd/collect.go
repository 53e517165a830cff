package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/pipeline"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/internal/rules"
	"github.com/rendetalje/lead-cli/internal/source"
	"github.com/rendetalje/lead-cli/internal/store"
	"github.com/rendetalje/lead-cli/pkg/billy"
	"github.com/rendetalje/lead-cli/pkg/gcal"
	"github.com/rendetalje/lead-cli/pkg/gmail"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect leads for a period and write the artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyCollectFlags(cmd, cfg)
		_, err := runCollect(cmd.Context(), cfg, time.Now(), os.Stdout, zap.L())
		return err
	},
}

func init() {
	collectCmd.Flags().String("start", "", "period start (YYYY-MM-DD or RFC 3339)")
	collectCmd.Flags().String("end", "", "period end (YYYY-MM-DD or RFC 3339)")
	collectCmd.Flags().Int("months", 0, "collect the last N months when start/end are unset")
	collectCmd.Flags().StringSlice("sources", nil, "sources to run (gmail, calendar, billing)")
	collectCmd.Flags().String("output", "", "artifact path (default pipeline.output_path)")
	collectCmd.Flags().String("fixtures", "", "read raw records from this directory instead of live APIs")
	collectCmd.Flags().Int("page-cap", 0, "override every adapter's page ceiling")
	rootCmd.AddCommand(collectCmd)
}

// pageCapOverride carries --page-cap into runCollect.
var pageCapOverride int

func applyCollectFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetString("start"); v != "" {
		c.Period.Start = v
	}
	if v, _ := f.GetString("end"); v != "" {
		c.Period.End = v
	}
	if v, _ := f.GetInt("months"); v > 0 {
		c.Period.Months = v
	}
	if v, _ := f.GetStringSlice("sources"); len(v) > 0 {
		c.Sources = v
	}
	if v, _ := f.GetString("output"); v != "" {
		c.Pipeline.OutputPath = v
	}
	if v, _ := f.GetString("fixtures"); v != "" {
		c.Pipeline.FixturesDir = v
	}
	pageCapOverride, _ = f.GetInt("page-cap")
}

// runCollect validates the configuration, runs the pipeline once and
// prints the report. A configuration error aborts before any adapter runs.
func runCollect(ctx context.Context, c *config.Config, now time.Time, out io.Writer, log *zap.Logger) (*pipeline.Result, error) {
	if err := c.Validate(now); err != nil {
		return nil, err
	}
	period, err := c.ResolvePeriod(now)
	if err != nil {
		return nil, err
	}

	rs, err := rules.Load(c.Pipeline.RulesPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, c.Store)
	if err != nil {
		return nil, eris.Wrap(err, "collect: open run ledger")
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	builder := lead.NewBuilder(
		lead.WithOwnDomains(c.Gmail.OwnDomains),
		lead.WithStaleAfterDays(c.Pipeline.StaleAfterDays),
		lead.WithNow(func() time.Time { return now }),
	)

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithOutputPath(c.Pipeline.OutputPath),
		pipeline.WithPageCap(pageCapOverride),
		pipeline.WithClock(func() time.Time { return now }),
	}
	if st != nil {
		opts = append(opts, pipeline.WithStore(st))
	}

	adapters := buildAdapters(c, log)
	log.Info("collect: starting",
		zap.String("sources", originNames(adapters)),
		zap.Bool("offline", c.Offline()),
	)

	p := pipeline.New(adapters, rs, builder, opts...)
	res, err := p.Run(ctx, period)
	if err != nil {
		return res, err
	}

	fmt.Fprint(out, pipeline.FormatReport(res.Artifact.Metadata))
	if c.Pipeline.OutputPath != "" {
		fmt.Fprintf(out, "\nArtifact: %s\n", c.Pipeline.OutputPath)
	}
	if res.Status == model.RunStatusPartial {
		log.Warn("collect: run finished with failed sources",
			zap.Int("failed", len(res.Artifact.Metadata.Failed())),
		)
	}
	return res, nil
}

// buildAdapters returns one adapter per enabled source: fixture replay when
// a fixtures directory is configured, live API transports otherwise.
func buildAdapters(c *config.Config, log *zap.Logger) []source.Adapter {
	var out []source.Adapter
	if c.Offline() {
		for _, o := range model.Origins() {
			if c.SourceEnabled(o) {
				out = append(out, source.NewFixtureAdapter(c.Pipeline.FixturesDir, o))
			}
		}
		return out
	}

	retry, breaker := resilience.FromConfig(c.Retry)

	if c.SourceEnabled(model.OriginGmail) {
		var gopts []gmail.Option
		if c.Gmail.BaseURL != "" {
			gopts = append(gopts, gmail.WithBaseURL(c.Gmail.BaseURL))
		}
		if c.Gmail.UserID != "" {
			gopts = append(gopts, gmail.WithUserID(c.Gmail.UserID))
		}
		out = append(out, source.NewGmailAdapter(
			gmail.NewClient(c.Gmail.Token, gopts...), c.Gmail, retry, breaker,
			source.WithGmailLogger(log.With(zap.String("source", "gmail"))),
		))
	}
	if c.SourceEnabled(model.OriginCalendar) {
		var copts []gcal.Option
		if c.Calendar.BaseURL != "" {
			copts = append(copts, gcal.WithBaseURL(c.Calendar.BaseURL))
		}
		out = append(out, source.NewCalendarAdapter(
			gcal.NewClient(c.Calendar.Token, copts...), c.Calendar, retry,
			log.With(zap.String("source", "calendar")),
		))
	}
	if c.SourceEnabled(model.OriginBilling) {
		bopts := []billy.Option{billy.WithOrganization(c.Billy.OrganizationID)}
		if c.Billy.BaseURL != "" {
			bopts = append(bopts, billy.WithBaseURL(c.Billy.BaseURL))
		}
		out = append(out, source.NewBillingAdapter(
			billy.NewClient(c.Billy.Token, bopts...), c.Billy, retry,
			log.With(zap.String("source", "billing")),
		))
	}
	return out
}

func originNames(adapters []source.Adapter) string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = string(a.Origin())
	}
	return strings.Join(names, ",")
}
