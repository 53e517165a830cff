// Package gcal is a read-only client for the Google Calendar v3 API.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client performs Google Calendar operations.
type Client interface {
	ListEvents(ctx context.Context, req ListEventsRequest) (*ListEventsResponse, error)
}

// ListEventsRequest selects expanded single events in a time window ordered
// by start time.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int
	PageToken  string
}

// ListEventsResponse is one page of events.
type ListEventsResponse struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

// Event is a calendar event.
type Event struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime is either a timed instant or an all-day date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Time parses the instant. All-day dates resolve to midnight UTC.
func (t EventTime) Time() (time.Time, error) {
	if t.DateTime != "" {
		v, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, eris.Wrapf(err, "gcal: parse dateTime %q", t.DateTime)
		}
		return v.UTC(), nil
	}
	if t.Date != "" {
		v, err := time.Parse(time.DateOnly, t.Date)
		if err != nil {
			return time.Time{}, eris.Wrapf(err, "gcal: parse date %q", t.Date)
		}
		return v, nil
	}
	return time.Time{}, eris.New("gcal: event time is empty")
}

// AllDay reports whether the time is a date without a clock.
func (t EventTime) AllDay() bool {
	return t.DateTime == "" && t.Date != ""
}

// APIError is returned when Calendar responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
	Header     http.Header
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gcal: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Calendar client authenticated with a bearer token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ListEvents(ctx context.Context, r ListEventsRequest) (*ListEventsResponse, error) {
	calID := r.CalendarID
	if calID == "" {
		calID = "primary"
	}

	q := url.Values{}
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	if !r.TimeMin.IsZero() {
		q.Set("timeMin", r.TimeMin.UTC().Format(time.RFC3339))
	}
	if !r.TimeMax.IsZero() {
		q.Set("timeMax", r.TimeMax.UTC().Format(time.RFC3339))
	}
	if r.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(r.MaxResults))
	}
	if r.PageToken != "" {
		q.Set("pageToken", r.PageToken)
	}

	u := c.baseURL + "/calendars/" + url.PathEscape(calID) + "/events?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "gcal: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "gcal: list events")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gcal: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(&APIError{StatusCode: resp.StatusCode, Body: string(data), Header: resp.Header}, "gcal: list events")
	}

	var out ListEventsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "gcal: unmarshal response")
	}
	return &out, nil
}
