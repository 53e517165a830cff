package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// LeadObject is the SObject leads are published to.
	LeadObject = "Lead"
	// LeadKeyField is the external-id field holding the identity key.
	LeadKeyField = "Lead_Key__c"
)

// LeadRef is the subset of a Lead needed to match published records.
type LeadRef struct {
	ID  string `json:"Id" salesforce:"Id"`
	Key string `json:"Lead_Key__c" salesforce:"Lead_Key__c"`
}

// RecordError is a record Salesforce rejected.
type RecordError struct {
	Key    string
	Errors []string
}

// UpsertResult tallies an UpsertLeads call.
type UpsertResult struct {
	Created int
	Updated int
	Failed  []RecordError
}

// FindLeadIDs maps identity keys to existing Lead ids. Keys are queried in
// batches to keep SOQL statements short.
func FindLeadIDs(ctx context.Context, c Client, keys []string) (map[string]string, error) {
	ids := make(map[string]string, len(keys))
	for start := 0; start < len(keys); start += maxBatchSize {
		end := min(start+maxBatchSize, len(keys))

		quoted := make([]string, 0, end-start)
		for _, k := range keys[start:end] {
			quoted = append(quoted, "'"+escapeSoql(k)+"'")
		}
		soql := fmt.Sprintf("SELECT Id, %s FROM %s WHERE %s IN (%s)",
			LeadKeyField, LeadObject, LeadKeyField, strings.Join(quoted, ", "))

		var refs []LeadRef
		if err := c.Query(ctx, soql, &refs); err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("sf: find leads batch %d-%d", start, end))
		}
		for _, r := range refs {
			ids[r.Key] = r.ID
		}
	}
	return ids, nil
}

// UpsertLeads updates the Leads whose LeadKeyField already exists and
// inserts the rest. Every record must carry LeadKeyField.
func UpsertLeads(ctx context.Context, c Client, records []map[string]any) (*UpsertResult, error) {
	res := &UpsertResult{}
	if len(records) == 0 {
		return res, nil
	}

	keys := make([]string, len(records))
	for i, r := range records {
		k, _ := r[LeadKeyField].(string)
		if k == "" {
			return nil, eris.Errorf("sf: record %d has no %s", i, LeadKeyField)
		}
		keys[i] = k
	}

	existing, err := FindLeadIDs(ctx, c, keys)
	if err != nil {
		return nil, err
	}

	var (
		inserts    []map[string]any
		insertKeys []string
		updates    []CollectionRecord
		updateKeys []string
	)
	for i, r := range records {
		if id, ok := existing[keys[i]]; ok {
			updates = append(updates, CollectionRecord{ID: id, Fields: r})
			updateKeys = append(updateKeys, keys[i])
			continue
		}
		inserts = append(inserts, r)
		insertKeys = append(insertKeys, keys[i])
	}

	for start := 0; start < len(inserts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(inserts))
		results, err := c.InsertCollection(ctx, LeadObject, inserts[start:end])
		if err != nil {
			return res, eris.Wrap(err, fmt.Sprintf("sf: insert leads batch %d-%d", start, end))
		}
		res.Created += tally(res, results, insertKeys[start:end])
	}

	for start := 0; start < len(updates); start += maxBatchSize {
		end := min(start+maxBatchSize, len(updates))
		results, err := c.UpdateCollection(ctx, LeadObject, updates[start:end])
		if err != nil {
			return res, eris.Wrap(err, fmt.Sprintf("sf: update leads batch %d-%d", start, end))
		}
		res.Updated += tally(res, results, updateKeys[start:end])
	}

	return res, nil
}

// tally records failures and returns the number of successes.
func tally(res *UpsertResult, results []CollectionResult, keys []string) int {
	ok := 0
	for i, r := range results {
		if r.Success {
			ok++
			continue
		}
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		res.Failed = append(res.Failed, RecordError{Key: key, Errors: r.Errors})
	}
	return ok
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
