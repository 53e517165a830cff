package billy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Access-Token"))
		q := r.URL.Query()
		assert.Equal(t, "org-1", q.Get("organizationId"))
		assert.Equal(t, "500", q.Get("pageSize"))
		assert.Equal(t, "true", q.Get("isCustomer"))

		_, _ = w.Write([]byte(`{
			"meta": {"paging": {"page": 1, "pageCount": 1, "pageSize": 500, "total": 2}},
			"contacts": [
				{"id": "c1", "name": "Anna Hansen", "phone": "12 34 56 78", "street": "Testvej 1", "zipcodeText": "8000", "cityText": "Aarhus C",
				 "contactPersons": [{"id": "p1", "email": "other@firma.dk"}, {"id": "p2", "email": "anna@firma.dk", "isPrimary": true}]},
				{"id": "c2", "name": "Firma ApS", "email": "info@firma.dk"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL), WithOrganization("org-1"))
	resp, err := c.ListContacts(context.Background(), ListContactsRequest{PageSize: 500})
	require.NoError(t, err)
	require.Len(t, resp.Contacts, 2)
	assert.Equal(t, 2, resp.Meta.Paging.Total)

	anna := resp.Contacts[0]
	assert.Equal(t, "anna@firma.dk", anna.PrimaryEmail())
	assert.Equal(t, "Testvej 1, 8000 Aarhus C", anna.Address())

	firma := resp.Contacts[1]
	assert.Equal(t, "info@firma.dk", firma.PrimaryEmail())
	assert.Empty(t, firma.Address())
}

func TestPrimaryEmail_FirstPersonFallback(t *testing.T) {
	c := Contact{ContactPersons: []ContactPerson{{Email: ""}, {Email: "b@x.dk"}}}
	assert.Equal(t, "b@x.dk", c.PrimaryEmail())
	assert.Empty(t, (&Contact{}).PrimaryEmail())
}

func TestListContacts_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient("tok", WithBaseURL(srv.URL)).ListContacts(context.Background(), ListContactsRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
