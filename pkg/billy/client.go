// Package billy is a read-only client for the Billy accounting API (v2).
package billy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.billysbilling.com/v2"

// Client performs Billy API operations.
type Client interface {
	ListContacts(ctx context.Context, req ListContactsRequest) (*ListContactsResponse, error)
}

// ListContactsRequest selects one page of customer contacts.
type ListContactsRequest struct {
	Page     int
	PageSize int
}

// ListContactsResponse is a page of contacts with paging metadata.
type ListContactsResponse struct {
	Meta     Meta      `json:"meta"`
	Contacts []Contact `json:"contacts"`
}

// Meta carries paging info.
type Meta struct {
	Paging Paging `json:"paging"`
}

// Paging describes the position of a page.
type Paging struct {
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// Contact is a Billy customer.
type Contact struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Street         string          `json:"street"`
	ZipcodeText    string          `json:"zipcodeText"`
	CityText       string          `json:"cityText"`
	IsCustomer     bool            `json:"isCustomer"`
	ContactPersons []ContactPerson `json:"contactPersons"`
}

// ContactPerson is a person attached to a contact.
type ContactPerson struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"isPrimary"`
}

// PrimaryEmail returns the contact's own email, else the primary contact
// person's, else the first contact person's.
func (c *Contact) PrimaryEmail() string {
	if c.Email != "" {
		return c.Email
	}
	for _, p := range c.ContactPersons {
		if p.IsPrimary && p.Email != "" {
			return p.Email
		}
	}
	for _, p := range c.ContactPersons {
		if p.Email != "" {
			return p.Email
		}
	}
	return ""
}

// Address joins street, zipcode and city.
func (c *Contact) Address() string {
	city := strings.TrimSpace(c.ZipcodeText + " " + c.CityText)
	parts := make([]string, 0, 2)
	for _, p := range []string{strings.TrimSpace(c.Street), city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// APIError is returned when Billy responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
	Header     http.Header
}

func (e *APIError) Error() string {
	return fmt.Sprintf("billy: HTTP %d: %s", e.StatusCode, e.Body)
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

// WithOrganization scopes requests to one organization.
func WithOrganization(id string) Option {
	return func(c *httpClient) {
		c.organizationID = id
	}
}

type httpClient struct {
	token          string
	organizationID string
	baseURL        string
	http           *http.Client
}

// NewClient creates a Billy client authenticated with an access token.
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

func (c *httpClient) ListContacts(ctx context.Context, r ListContactsRequest) (*ListContactsResponse, error) {
	q := url.Values{}
	q.Set("isCustomer", "true")
	q.Set("include", "contact.contactPersons:embed")
	if c.organizationID != "" {
		q.Set("organizationId", c.organizationID)
	}
	if r.Page > 0 {
		q.Set("page", strconv.Itoa(r.Page))
	}
	if r.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(r.PageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "billy: create request")
	}
	req.Header.Set("X-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "billy: list contacts")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "billy: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrap(&APIError{StatusCode: resp.StatusCode, Body: string(data), Header: resp.Header}, "billy: list contacts")
	}

	var out ListContactsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "billy: unmarshal response")
	}
	return &out, nil
}
