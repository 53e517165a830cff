package gcal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "2025-07-01T00:00:00Z", q.Get("timeMin"))
		assert.Equal(t, "2025-12-31T23:59:59Z", q.Get("timeMax"))
		assert.Equal(t, "500", q.Get("maxResults"))

		_, _ = w.Write([]byte(`{"items":[
			{"id":"e1","summary":"Rengøring hos Anna Hansen","location":"Testvej 1, 8000 Aarhus",
			 "start":{"dateTime":"2025-09-01T10:00:00+02:00"},"end":{"dateTime":"2025-09-01T13:00:00+02:00"}},
			{"id":"e2","summary":"Ferie","start":{"date":"2025-10-13"},"end":{"date":"2025-10-14"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))
	resp, err := c.ListEvents(context.Background(), ListEventsRequest{TimeMin: from, TimeMax: to, MaxResults: 500})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	start, err := resp.Items[0].Start.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC), start)
	assert.False(t, resp.Items[0].Start.AllDay())

	day, err := resp.Items[1].Start.Time()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), day)
	assert.True(t, resp.Items[1].Start.AllDay())
}

func TestListEvents_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401}}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", WithBaseURL(srv.URL)).ListEvents(context.Background(), ListEventsRequest{CalendarID: "team@rendetalje.dk"})
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestEventTime_Invalid(t *testing.T) {
	_, err := EventTime{}.Time()
	assert.Error(t, err)
	_, err = EventTime{DateTime: "tomorrow"}.Time()
	assert.Error(t, err)
}
