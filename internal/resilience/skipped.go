package resilience

import "github.com/rendetalje/lead-cli/internal/model"

// Error classes recorded on skipped records.
const (
	ErrorTypeTransient = "transient"
	ErrorTypePermanent = "permanent"
)

// ClassifyError categorizes an error as "transient" or "permanent".
func ClassifyError(err error) string {
	if IsTransient(err) {
		return ErrorTypeTransient
	}
	return ErrorTypePermanent
}

// Skip records a raw record that was dropped because of err.
func Skip(origin model.OriginSource, recordID string, err error) model.SkippedRecord {
	return model.SkippedRecord{
		Origin:    origin,
		RecordID:  recordID,
		Reason:    err.Error(),
		ErrorType: ClassifyError(err),
	}
}
