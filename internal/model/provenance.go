package model

// Conflict records a merge where an incoming candidate disagreed with a value
// already set on the canonical lead. The kept value is always the first one
// seen.
type Conflict struct {
	Field       string       `json:"field"`
	Kept        string       `json:"kept"`
	Rejected    string       `json:"rejected"`
	CandidateID string       `json:"candidate_id"`
	Origin      OriginSource `json:"origin"`
}

// SkippedRecord is a raw record that could not be turned into a candidate.
type SkippedRecord struct {
	Origin    OriginSource `json:"origin"`
	RecordID  string       `json:"record_id"`
	Reason    string       `json:"reason"`
	ErrorType string       `json:"error_type"` // "transient" or "permanent"
}
