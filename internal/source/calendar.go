package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/model"
	"github.com/rendetalje/lead-cli/internal/resilience"
	"github.com/rendetalje/lead-cli/pkg/gcal"
)

const (
	defaultCalendarID = "primary"
	maxCalendarEvents = 2500
)

// CalendarAdapter lists the events of one calendar inside the period.
type CalendarAdapter struct {
	client gcal.Client
	cfg    config.CalendarConfig
	retry  resilience.RetryConfig
	log    *zap.Logger
}

// NewCalendarAdapter creates an adapter reading a single bounded page.
func NewCalendarAdapter(client gcal.Client, cfg config.CalendarConfig, retry resilience.RetryConfig, log *zap.Logger) *CalendarAdapter {
	if cfg.CalendarID == "" {
		cfg.CalendarID = defaultCalendarID
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 500
	}
	if cfg.MaxResults > maxCalendarEvents {
		cfg.MaxResults = maxCalendarEvents
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CalendarAdapter{client: client, cfg: cfg, retry: retry, log: log}
}

func (a *CalendarAdapter) Origin() model.OriginSource { return model.OriginCalendar }

// Fetch reads one page of single events ordered by start time. Cancelled
// events are dropped; events whose times cannot be parsed are skipped.
func (a *CalendarAdapter) Fetch(ctx context.Context, req FetchRequest) (*Result, error) {
	listReq := gcal.ListEventsRequest{
		CalendarID: a.cfg.CalendarID,
		TimeMin:    req.Period.Start,
		TimeMax:    req.Period.End,
		MaxResults: a.cfg.MaxResults,
	}
	resp, err := resilience.DoVal(ctx, retryFor(a.retry, "calendar", "list events"), func(ctx context.Context) (*gcal.ListEventsResponse, error) {
		r, err := a.client.ListEvents(ctx, listReq)
		return r, classifyHTTP("calendar", err)
	})
	if err != nil {
		return &Result{}, &AdapterFetchError{Source: model.OriginCalendar, Op: "list events", Err: err}
	}

	res := &Result{Pages: 1}
	for _, ev := range resp.Items {
		if ev.Status == "cancelled" {
			continue
		}
		raw, perr := toRawEvent(ev)
		if perr != nil {
			a.log.Warn("calendar: skipping event", zap.String("event_id", ev.ID), zap.Error(perr))
			res.Skipped = append(res.Skipped, resilience.Skip(model.OriginCalendar, ev.ID, perr))
			continue
		}
		res.Records = append(res.Records, raw)
	}
	if resp.NextPageToken != "" {
		a.log.Warn("calendar: more events than max_results, later events not collected",
			zap.Int("max_results", a.cfg.MaxResults))
	}

	a.log.Info("calendar: fetch complete",
		zap.Int("events", len(res.Records)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func toRawEvent(ev gcal.Event) (model.RawEvent, error) {
	start, err := ev.Start.Time()
	if err != nil {
		return model.RawEvent{}, &ParseError{Source: model.OriginCalendar, RecordID: ev.ID, Reason: "start: " + err.Error()}
	}
	end, err := ev.End.Time()
	if err != nil {
		end = start
	}
	return model.RawEvent{
		ID:          ev.ID,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       start,
		End:         end,
	}, nil
}
