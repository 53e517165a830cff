package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rendetalje/lead-cli/internal/model"
)

// FormatReport renders a run summary for the terminal.
func FormatReport(s model.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Lead Collection Report\n")
	fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	fmt.Fprintf(&b, "Collected: %s\n", s.CollectedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Period: %s to %s\n\n", s.Period.Start.Format(time.DateOnly), s.Period.End.Format(time.DateOnly))

	b.WriteString("## Sources\n")
	for _, a := range s.Adapters {
		status := "OK"
		if !a.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "- %s: %s (%d records, %d skipped, %dms)\n", a.Source, status, a.Records, a.Skipped, a.DurationMs)
		if a.Error != "" {
			fmt.Fprintf(&b, "  Error: %s\n", a.Error)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Counts\n")
	for _, o := range model.Origins() {
		fmt.Fprintf(&b, "- %s candidates: %d\n", o, s.Counts.PerSource[o])
	}
	fmt.Fprintf(&b, "- Candidates: %d\n", s.Counts.Candidates)
	fmt.Fprintf(&b, "- Canonical leads: %d\n", s.Counts.Canonical)
	fmt.Fprintf(&b, "- Spam filtered: %d\n", s.Counts.SpamFiltered)
	fmt.Fprintf(&b, "- Skipped: %d\n\n", s.Counts.Skipped)

	b.WriteString("## Lead Sources\n")
	if len(s.LeadSources) == 0 {
		b.WriteString("No leads.\n")
	}
	for _, ls := range model.LeadSources() {
		if n := s.LeadSources[ls]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", ls.Label(), n)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Field Coverage\n")
	keys := make([]string, 0, len(s.Coverage))
	for k := range s.Coverage {
		keys = append(keys, k)
	}
	order := make(map[string]int)
	for i, k := range model.FieldKeys() {
		order[k] = i
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	for _, k := range keys {
		c := s.Coverage[k]
		fmt.Fprintf(&b, "- %s: %d/%d (%.1f%%)\n", k, c.Count, s.Counts.Canonical, c.Percent)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Warnings: %d\n", s.Warnings)
	return b.String()
}
