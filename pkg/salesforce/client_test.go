package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSFClient creates an sfClient backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, sf)

	return NewClient(sf)
}

func TestSFClient_QueryLeadRefs(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/query")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes":  map[string]any{"type": "Lead"},
					"Id":          "00Qxx",
					"Lead_Key__c": "mette@example.dk",
				},
			},
		})
	}))

	var refs []LeadRef
	err := client.Query(context.Background(), "SELECT Id, Lead_Key__c FROM Lead", &refs)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "00Qxx", refs[0].ID)
	assert.Equal(t, "mette@example.dk", refs[0].Key)
}

func TestSFClient_Query_Error(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid SOQL", "errorCode": "MALFORMED_QUERY"},
		})
	}))

	var refs []LeadRef
	err := client.Query(context.Background(), "INVALID SOQL", &refs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: query")
}

func TestSFClient_InsertCollection(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "00Q1", "success": true, "errors": []any{}},
			{"id": "", "success": false, "errors": []map[string]any{{"message": "REQUIRED_FIELD_MISSING"}}},
		})
	}))

	results, err := client.InsertCollection(context.Background(), LeadObject, []map[string]any{
		{"LastName": "Hansen", LeadKeyField: "a"},
		{LeadKeyField: "b"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "00Q1", results[0].ID)
	assert.False(t, results[1].Success)
	assert.Equal(t, []string{"REQUIRED_FIELD_MISSING"}, results[1].Errors)
}

func TestSFClient_UpdateCollection(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "00Q1", "success": true, "errors": []any{}},
		})
	}))

	results, err := client.UpdateCollection(context.Background(), LeadObject, []CollectionRecord{
		{ID: "00Q1", Fields: map[string]any{"Status": "Open"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestSFClient_UpdateCollection_Error(t *testing.T) {
	client := newTestSFClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{{"message": "batch error"}})
	}))

	_, err := client.UpdateCollection(context.Background(), LeadObject, []CollectionRecord{
		{ID: "00Q1", Fields: map[string]any{"Status": "Open"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: update collection")
}

func TestConnect_MissingKey(t *testing.T) {
	_, err := Connect(Credentials{KeyPath: "/nonexistent/key.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: read JWT private key")
}

func TestEscapeSoql(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"o'brien@example.dk", `o\'brien@example.dk`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeSoql(tt.in))
	}
}
