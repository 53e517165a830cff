package salesforce_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rendetalje/lead-cli/pkg/salesforce"
	"github.com/rendetalje/lead-cli/pkg/salesforce/mocks"
)

func returnRefs(refs ...salesforce.LeadRef) func(context.Context, string, any) error {
	return func(_ context.Context, _ string, out any) error {
		*(out.(*[]salesforce.LeadRef)) = refs
		return nil
	}
}

func TestUpsertLeads_SplitsInsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	mc := mocks.NewMockClient(t)

	mc.On("Query", ctx, mock.MatchedBy(func(soql string) bool {
		return soql == "SELECT Id, Lead_Key__c FROM Lead WHERE Lead_Key__c IN ('a@example.dk', 'b@example.dk')"
	}), mock.Anything).Return(returnRefs(salesforce.LeadRef{ID: "00Qb", Key: "b@example.dk"})).Once()

	mc.On("InsertCollection", ctx, "Lead", mock.MatchedBy(func(recs []map[string]any) bool {
		return len(recs) == 1 && recs[0][salesforce.LeadKeyField] == "a@example.dk"
	})).Return([]salesforce.CollectionResult{{ID: "00Qa", Success: true}}, nil).Once()

	mc.On("UpdateCollection", ctx, "Lead", mock.MatchedBy(func(recs []salesforce.CollectionRecord) bool {
		return len(recs) == 1 && recs[0].ID == "00Qb"
	})).Return([]salesforce.CollectionResult{{ID: "00Qb", Success: false, Errors: []string{"locked"}}}, nil).Once()

	res, err := salesforce.UpsertLeads(ctx, mc, []map[string]any{
		{salesforce.LeadKeyField: "a@example.dk", "LastName": "A"},
		{salesforce.LeadKeyField: "b@example.dk", "LastName": "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "b@example.dk", res.Failed[0].Key)
	assert.Equal(t, []string{"locked"}, res.Failed[0].Errors)
}

func TestUpsertLeads_Batches(t *testing.T) {
	ctx := context.Background()
	mc := mocks.NewMockClient(t)

	records := make([]map[string]any, 250)
	for i := range records {
		records[i] = map[string]any{salesforce.LeadKeyField: fmt.Sprintf("k%d", i)}
	}

	mc.On("Query", ctx, mock.Anything, mock.Anything).Return(returnRefs()).Twice()
	mc.On("InsertCollection", ctx, "Lead", mock.MatchedBy(func(recs []map[string]any) bool { return len(recs) == 200 })).
		Return(make([]salesforce.CollectionResult, 0), nil).Once()
	mc.On("InsertCollection", ctx, "Lead", mock.MatchedBy(func(recs []map[string]any) bool { return len(recs) == 50 })).
		Return([]salesforce.CollectionResult{{Success: true}}, nil).Once()

	res, err := salesforce.UpsertLeads(ctx, mc, records)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}

func TestUpsertLeads_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		mc := mocks.NewMockClient(t)
		_, err := salesforce.UpsertLeads(ctx, mc, []map[string]any{{"LastName": "A"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no Lead_Key__c")
	})

	t.Run("query fails", func(t *testing.T) {
		mc := mocks.NewMockClient(t)
		mc.On("Query", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()
		_, err := salesforce.UpsertLeads(ctx, mc, []map[string]any{{salesforce.LeadKeyField: "a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sf: find leads batch 0-1")
	})

	t.Run("insert fails", func(t *testing.T) {
		mc := mocks.NewMockClient(t)
		mc.On("Query", ctx, mock.Anything, mock.Anything).Return(returnRefs()).Once()
		mc.On("InsertCollection", ctx, "Lead", mock.Anything).Return(nil, assert.AnError).Once()
		_, err := salesforce.UpsertLeads(ctx, mc, []map[string]any{{salesforce.LeadKeyField: "a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sf: insert leads batch 0-1")
	})

	t.Run("empty", func(t *testing.T) {
		mc := mocks.NewMockClient(t)
		res, err := salesforce.UpsertLeads(ctx, mc, nil)
		require.NoError(t, err)
		assert.Zero(t, res.Created)
	})
}
