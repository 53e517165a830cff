package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/pkg/gmail"
)

const (
	defaultGmailPageSize = 100
	maxGmailPageSize     = 500
	defaultGmailMaxPages = 20
)

// GmailAdapter searches Gmail threads and fetches each hit in full.
type GmailAdapter struct {
	client  gmail.Client
	cfg     config.GmailConfig
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
	limiter *rate.Limiter
	log     *zap.Logger
	pause   func(ctx context.Context, d time.Duration) error
}

// GmailOption configures a GmailAdapter.
type GmailOption func(*GmailAdapter)

// WithGmailLogger sets the adapter logger.
func WithGmailLogger(l *zap.Logger) GmailOption {
	return func(a *GmailAdapter) { a.log = l }
}

// WithGmailPause replaces the detail-fetch pause, mainly for tests.
func WithGmailPause(fn func(ctx context.Context, d time.Duration) error) GmailOption {
	return func(a *GmailAdapter) { a.pause = fn }
}

// NewGmailAdapter wires a Gmail transport with the configured search,
// pacing and resilience policy.
func NewGmailAdapter(client gmail.Client, cfg config.GmailConfig, retry resilience.RetryConfig, cb resilience.CircuitBreakerConfig, opts ...GmailOption) *GmailAdapter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultGmailPageSize
	}
	if cfg.PageSize > maxGmailPageSize {
		cfg.PageSize = maxGmailPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultGmailMaxPages
	}
	if cb.OnStateChange == nil {
		cb.OnStateChange = resilience.LogStateChanges("gmail")
	}

	limit := rate.Inf
	if cfg.PageDelayMs > 0 {
		limit = rate.Every(time.Duration(cfg.PageDelayMs) * time.Millisecond)
	}

	a := &GmailAdapter{
		client:  client,
		cfg:     cfg,
		retry:   retry,
		breaker: resilience.NewCircuitBreaker(cb),
		limiter: rate.NewLimiter(limit, 1),
		log:     zap.NewNop(),
		pause:   sleepCtx,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *GmailAdapter) Origin() model.OriginSource { return model.OriginGmail }

// Fetch pages through the thread search. A page that still fails after
// retries ends pagination; threads already fetched are returned with the
// error.
func (a *GmailAdapter) Fetch(ctx context.Context, req FetchRequest) (*Result, error) {
	res := &Result{}
	labels := a.labelNames(ctx)
	query := GmailQuery(req.Period, a.cfg.Labels, a.cfg.PartnerTerms)

	maxPages := a.cfg.MaxPages
	if req.PageCap > 0 {
		maxPages = req.PageCap
	}

	a.log.Info("gmail: searching threads",
		zap.String("query", query),
		zap.Int("page_size", a.cfg.PageSize),
		zap.Int("max_pages", maxPages),
	)

	fetched := 0
	pageToken := ""
	for res.Pages < maxPages {
		if err := a.limiter.Wait(ctx); err != nil {
			return res, &AdapterFetchError{Source: model.OriginGmail, Op: "wait for page slot", Err: err}
		}

		listReq := gmail.ListThreadsRequest{Query: query, MaxResults: a.cfg.PageSize, PageToken: pageToken}
		page, err := resilience.DoVal(ctx, retryFor(a.retry, "gmail", "list threads"), func(ctx context.Context) (*gmail.ListThreadsResponse, error) {
			resp, err := a.client.ListThreads(ctx, listReq)
			return resp, classifyHTTP("gmail", err)
		})
		if err != nil {
			return res, &AdapterFetchError{
				Source: model.OriginGmail,
				Op:     "list threads",
				Err:    eris.Wrapf(err, "gmail: page %d", res.Pages+1),
			}
		}
		res.Pages++

		for _, ref := range page.Threads {
			if a.cfg.DetailPauseEvery > 0 && fetched > 0 && fetched%a.cfg.DetailPauseEvery == 0 {
				if err := a.pause(ctx, time.Duration(a.cfg.DetailPauseMs)*time.Millisecond); err != nil {
					return res, &AdapterFetchError{Source: model.OriginGmail, Op: "pause", Err: err}
				}
			}
			fetched++

			thread, err := a.getThread(ctx, ref.ID)
			if err != nil {
				if ctx.Err() != nil {
					return res, &AdapterFetchError{Source: model.OriginGmail, Op: "get thread", Err: ctx.Err()}
				}
				a.log.Warn("gmail: skipping thread",
					zap.String("thread_id", ref.ID),
					zap.Error(err),
				)
				res.Skipped = append(res.Skipped, resilience.Skip(model.OriginGmail, ref.ID, err))
				continue
			}
			res.Records = append(res.Records, toRawThread(thread, labels))
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	a.log.Info("gmail: fetch complete",
		zap.Int("threads", len(res.Records)),
		zap.Int("pages", res.Pages),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func (a *GmailAdapter) getThread(ctx context.Context, id string) (*gmail.Thread, error) {
	return resilience.ExecuteVal(ctx, a.breaker, func(ctx context.Context) (*gmail.Thread, error) {
		return resilience.DoVal(ctx, retryFor(a.retry, "gmail", "get thread"), func(ctx context.Context) (*gmail.Thread, error) {
			t, err := a.client.GetThread(ctx, id)
			return t, classifyHTTP("gmail", err)
		})
	})
}

// labelNames maps label ids to display names. Failure is not fatal: the
// classifier then sees raw ids.
func (a *GmailAdapter) labelNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	labels, err := resilience.DoVal(ctx, retryFor(a.retry, "gmail", "list labels"), func(ctx context.Context) ([]gmail.Label, error) {
		l, err := a.client.ListLabels(ctx)
		return l, classifyHTTP("gmail", err)
	})
	if err != nil {
		a.log.Warn("gmail: label lookup failed, using label ids", zap.Error(err))
		return names
	}
	for _, l := range labels {
		names[l.ID] = l.Name
	}
	return names
}

func toRawThread(t *gmail.Thread, names map[string]string) model.RawThread {
	rt := model.RawThread{ID: t.ID}
	seen := make(map[string]bool)
	for i := range t.Messages {
		m := &t.Messages[i]
		msg := model.RawMessage{
			ID:      m.ID,
			From:    m.Header("From"),
			To:      m.Header("To"),
			Subject: m.Header("Subject"),
			Body:    m.Text(),
			Date:    m.Time(),
		}
		for _, id := range m.LabelIDs {
			name := id
			if n, ok := names[id]; ok {
				name = n
			}
			msg.Labels = append(msg.Labels, name)
			if !seen[name] {
				seen[name] = true
				rt.Labels = append(rt.Labels, name)
			}
		}
		rt.Messages = append(rt.Messages, msg)
	}
	if first := rt.First(); first != nil {
		rt.Subject = first.Subject
		rt.From = first.From
		rt.Date = first.Date
	}
	return rt
}
