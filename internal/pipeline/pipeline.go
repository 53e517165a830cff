// Package pipeline runs a collection: fetch from every source, filter spam,
// classify, extract, build candidates and resolve them into canonical leads.
package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/export"
	"github.com/rendetalje/lead-cli/internal/extract"
	"github.com/rendetalje/lead-cli/internal/lead"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/internal/rules"
	"github.com/rendetalje/lead-cli/internal/source"
	"github.com/rendetalje/lead-cli/internal/store"
)

// Pipeline orchestrates one collection run over a fixed set of adapters.
type Pipeline struct {
	adapters   []source.Adapter
	rules      *rules.Set
	builder    *lead.Builder
	resolver   *lead.Resolver
	store      store.Store
	outputPath string
	pageCap    int
	log        *zap.Logger
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger injects the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithStore records runs and skipped records in st.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithOutputPath writes the artifact to path when the run completes.
func WithOutputPath(path string) Option {
	return func(p *Pipeline) { p.outputPath = path }
}

// WithPageCap overrides every adapter's page ceiling.
func WithPageCap(n int) Option {
	return func(p *Pipeline) { p.pageCap = n }
}

// WithResolver replaces the default resolver.
func WithResolver(r *lead.Resolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithClock fixes the collection timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline. Adapters always run gmail, calendar, billing
// regardless of the order given.
func New(adapters []source.Adapter, rs *rules.Set, b *lead.Builder, opts ...Option) *Pipeline {
	ordered := slices.Clone(adapters)
	slices.SortStableFunc(ordered, func(a, b source.Adapter) int {
		return originIndex(a.Origin()) - originIndex(b.Origin())
	})
	if rs == nil {
		rs = rules.Default()
	}
	if b == nil {
		b = lead.NewBuilder()
	}

	p := &Pipeline{
		adapters: ordered,
		rules:    rs,
		builder:  b,
		resolver: lead.NewResolver(),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Result is everything a run produced.
type Result struct {
	Artifact   model.Artifact
	Candidates []model.CandidateLead
	Skipped    []model.SkippedRecord
	Status     model.RunStatus
}

// Run collects the period. Adapter failures degrade the run to partial;
// the returned error is non-nil only when the run itself could not finish
// (cancellation, ledger or artifact write failures).
func (p *Pipeline) Run(ctx context.Context, period model.Period) (*Result, error) {
	runID, err := p.startRun(ctx, period)
	if err != nil {
		return nil, err
	}
	log := p.log.With(zap.String("run_id", runID))
	log.Info("pipeline: starting collection",
		zap.Time("period_start", period.Start),
		zap.Time("period_end", period.End),
		zap.Int("adapters", len(p.adapters)),
	)

	res := &Result{}
	acc := newAccumulator()

	for _, a := range p.adapters {
		if err := ctx.Err(); err != nil {
			p.failRun(ctx, runID, err)
			return nil, eris.Wrap(err, "pipeline: cancelled")
		}

		start := time.Now()
		fetched, fetchErr := a.Fetch(ctx, source.FetchRequest{Period: period, PageCap: p.pageCap})
		outcome := model.AdapterOutcome{
			Source:     a.Origin(),
			OK:         fetchErr == nil,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if fetchErr != nil {
			outcome.Error = fetchErr.Error()
			log.Error("pipeline: adapter failed",
				zap.String("source", string(a.Origin())),
				zap.Error(fetchErr),
			)
		}

		if fetched != nil {
			outcome.Records = len(fetched.Records)
			outcome.Pages = fetched.Pages
			res.Skipped = append(res.Skipped, fetched.Skipped...)
			outcome.Skipped = len(fetched.Skipped)

			for _, rec := range fetched.Records {
				c, skipped, ok := p.process(rec, acc)
				if skipped != nil {
					log.Warn("pipeline: skipping record",
						zap.String("source", string(skipped.Origin)),
						zap.String("record_id", skipped.RecordID),
						zap.String("reason", skipped.Reason),
					)
					res.Skipped = append(res.Skipped, *skipped)
					outcome.Skipped++
					continue
				}
				if ok {
					res.Candidates = append(res.Candidates, c)
				}
			}
		}

		acc.outcomes = append(acc.outcomes, outcome)
		log.Info("pipeline: adapter complete",
			zap.String("source", string(a.Origin())),
			zap.Bool("ok", outcome.OK),
			zap.Int("records", outcome.Records),
			zap.Int("skipped", outcome.Skipped),
			zap.Int64("duration_ms", outcome.DurationMs),
		)
	}

	leads := p.resolver.Resolve(res.Candidates)
	summary := buildSummary(runID, p.now(), period, res.Candidates, leads, acc, len(res.Skipped))

	res.Artifact = model.Artifact{Metadata: summary, Leads: leads}
	res.Status = model.RunStatusComplete
	if len(summary.Failed()) > 0 {
		res.Status = model.RunStatusPartial
	}

	if err := p.finishRun(ctx, runID, res); err != nil {
		return res, err
	}

	log.Info("pipeline: collection complete",
		zap.String("status", string(res.Status)),
		zap.Int("candidates", summary.Counts.Candidates),
		zap.Int("canonical", summary.Counts.Canonical),
		zap.Int("spam_filtered", summary.Counts.SpamFiltered),
		zap.Int("skipped", summary.Counts.Skipped),
	)
	return res, nil
}

// process runs one raw record through filter, classify, extract and build.
// ok is false for spam.
func (p *Pipeline) process(rec model.RawRecord, acc *accumulator) (model.CandidateLead, *model.SkippedRecord, bool) {
	if p.isSpam(rec) {
		acc.spam++
		return model.CandidateLead{}, nil, false
	}

	c, err := p.builder.Build(rec, p.classify(rec))
	if err != nil {
		sk := resilience.Skip(rec.Origin(), rec.RecordID(), err)
		return model.CandidateLead{}, &sk, false
	}
	return c, nil, true
}

// isSpam applies the blocklists to email threads. Calendar events and
// billing contacts are never spam.
func (p *Pipeline) isSpam(rec model.RawRecord) bool {
	t, ok := rec.(model.RawThread)
	if !ok {
		return false
	}
	return p.rules.IsSpam(extract.AddressFromHeader(t.From), t.Subject)
}

// existingCustomerHint is the classification reason for billing contacts.
const existingCustomerHint = "Billing: contact is a customer"

func (p *Pipeline) classify(rec model.RawRecord) rules.Classification {
	switch r := rec.(type) {
	case model.RawThread:
		return p.rules.Classify(r.Subject, r.From, r.Labels)
	case model.RawEvent:
		return p.rules.Classify(r.Title, "", nil)
	case model.RawContact:
		return rules.Classification{Source: model.LeadSourceExisting, Hint: existingCustomerHint}
	default:
		return rules.Classification{Source: model.LeadSourceUnknown}
	}
}

func (p *Pipeline) startRun(ctx context.Context, period model.Period) (string, error) {
	if p.store == nil {
		return uuid.New().String(), nil
	}
	run, err := p.store.CreateRun(ctx, period)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: create run")
	}
	return run.ID, nil
}

func (p *Pipeline) failRun(ctx context.Context, runID string, cause error) {
	if p.store == nil {
		return
	}
	// The run context may already be cancelled.
	if err := p.store.FailRun(context.WithoutCancel(ctx), runID, cause.Error()); err != nil {
		p.log.Warn("pipeline: failed to record run failure", zap.Error(err))
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, res *Result) error {
	if p.outputPath != "" {
		if err := export.WriteArtifact(p.outputPath, &res.Artifact); err != nil {
			p.failRun(ctx, runID, err)
			return eris.Wrap(err, "pipeline: write artifact")
		}
	}
	if p.store == nil {
		return nil
	}
	if err := p.store.RecordSkipped(ctx, runID, res.Skipped); err != nil {
		p.log.Warn("pipeline: failed to record skipped records", zap.Error(err))
	}
	if err := p.store.CompleteRun(ctx, runID, res.Status, &res.Artifact.Metadata, p.outputPath); err != nil {
		return eris.Wrap(err, "pipeline: complete run")
	}
	return nil
}

func originIndex(o model.OriginSource) int {
	for i, v := range model.Origins() {
		if v == o {
			return i
		}
	}
	return len(model.Origins())
}
