// Package gmail is a read-only client for the Gmail REST API.
package gmail

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

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

// Client performs Gmail API operations.
type Client interface {
	ListThreads(ctx context.Context, req ListThreadsRequest) (*ListThreadsResponse, error)
	GetThread(ctx context.Context, id string) (*Thread, error)
	ListLabels(ctx context.Context) ([]Label, error)
}

// ListThreadsRequest is one page of a thread search.
type ListThreadsRequest struct {
	Query      string
	MaxResults int
	PageToken  string
}

// ListThreadsResponse is a page of thread search hits.
type ListThreadsResponse struct {
	Threads            []ThreadRef `json:"threads"`
	NextPageToken      string      `json:"nextPageToken"`
	ResultSizeEstimate int         `json:"resultSizeEstimate"`
}

// ThreadRef is a search hit; the messages are fetched separately.
type ThreadRef struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// Thread is a full thread with its messages oldest first.
type Thread struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Message is one email in a thread.
type Message struct {
	ID           string      `json:"id"`
	ThreadID     string      `json:"threadId"`
	LabelIDs     []string    `json:"labelIds"`
	Snippet      string      `json:"snippet"`
	InternalDate string      `json:"internalDate"`
	Payload      MessagePart `json:"payload"`
}

// MessagePart is a MIME part.
type MessagePart struct {
	MimeType string        `json:"mimeType"`
	Headers  []Header      `json:"headers"`
	Body     PartBody      `json:"body"`
	Parts    []MessagePart `json:"parts"`
}

// Header is a single message header.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PartBody holds base64url-encoded part data.
type PartBody struct {
	Size int    `json:"size"`
	Data string `json:"data"`
}

// Label maps a label id to its display name.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Time returns the message's internal date.
func (m *Message) Time() time.Time {
	ms, err := strconv.ParseInt(m.InternalDate, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// APIError is returned when Gmail responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
	Header     http.Header
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gmail: HTTP %d: %s", e.StatusCode, e.Body)
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

// WithUserID selects the mailbox. Default: "me".
func WithUserID(id string) Option {
	return func(c *httpClient) {
		c.userID = id
	}
}

type httpClient struct {
	token   string
	userID  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Gmail client authenticated with a bearer access token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		userID:  "me",
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

func (c *httpClient) ListThreads(ctx context.Context, req ListThreadsRequest) (*ListThreadsResponse, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	if req.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(req.MaxResults))
	}
	if req.PageToken != "" {
		q.Set("pageToken", req.PageToken)
	}

	var out ListThreadsResponse
	if err := c.get(ctx, "/threads?"+q.Encode(), &out); err != nil {
		return nil, eris.Wrap(err, "gmail: list threads")
	}
	return &out, nil
}

func (c *httpClient) GetThread(ctx context.Context, id string) (*Thread, error) {
	var out Thread
	if err := c.get(ctx, "/threads/"+url.PathEscape(id)+"?format=full", &out); err != nil {
		return nil, eris.Wrapf(err, "gmail: get thread %s", id)
	}
	return &out, nil
}

func (c *httpClient) ListLabels(ctx context.Context) ([]Label, error) {
	var out struct {
		Labels []Label `json:"labels"`
	}
	if err := c.get(ctx, "/labels", &out); err != nil {
		return nil, eris.Wrap(err, "gmail: list labels")
	}
	return out.Labels, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + "/users/" + url.PathEscape(c.userID) + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data), Header: resp.Header}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}
