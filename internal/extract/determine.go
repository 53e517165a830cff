package extract

import (
	"time"

	"github.com/rendetalje/lead-cli/internal/model"
)

// DefaultStaleAfterDays is how long a conversation may sit before it counts
// as inactive.
const DefaultStaleAfterDays = 14

// DetermineType classifies the cleaning category a text asks about.
func DetermineType(text string) model.LeadType {
	recurring := recurringRe.MatchString(text)
	deep := deepCleanRe.MatchString(text)
	switch {
	case recurring && deep:
		return model.LeadTypeBoth
	case recurring:
		return model.LeadTypeRecurring
	case deep:
		return model.LeadTypeDeepClean
	default:
		return model.LeadTypeUnknown
	}
}

// StatusInput describes the latest message of a conversation.
type StatusInput struct {
	LastFromUs bool
	LastBody   string
	LastDate   time.Time
}

// DetermineStatus derives the conversation state. A decline only counts
// when the customer wrote it. staleAfterDays <= 0 uses the default.
func DetermineStatus(in StatusInput, now time.Time, staleAfterDays int) model.LeadStatus {
	if staleAfterDays <= 0 {
		staleAfterDays = DefaultStaleAfterDays
	}
	stale := daysSince(in.LastDate, now) > staleAfterDays

	if !in.LastFromUs {
		if declineRe.MatchString(in.LastBody) {
			return model.StatusDeclined
		}
		if stale {
			return model.StatusInactive
		}
		return model.StatusAwaitingUs
	}
	if stale {
		return model.StatusInactive
	}
	return model.StatusAwaitingCustomer
}

func daysSince(t, now time.Time) int {
	if t.IsZero() {
		return 0
	}
	d := int(now.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
